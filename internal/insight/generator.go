package insight

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/render"
)

const DefaultModel = "gpt-4o-mini"

// ErrDisabled is returned when no API key was configured.
var ErrDisabled = errors.New("insight generation disabled: no OpenAI API key")

// Generator writes a short plain-language summary of a dashboard using OpenAI.
type Generator struct {
	client openai.Client
	model  string
}

func NewGenerator(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

const systemPrompt = "You are an analyst summarising a bike sharing dashboard. " +
	"Write three to five short sentences in plain English. Mention the busiest categories " +
	"and anything notable in the trend. Do not use markdown or lists."

func (g *Generator) Summarize(ctx context.Context, d *analysis.Dashboard) (string, error) {
	log.Printf("insight: summarising %s with %s", d.Range, g.model)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildPrompt(d)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion returned")
	}
	return text, nil
}

// BuildPrompt renders the dashboard figures as the user message.
func BuildPrompt(d *analysis.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date range: %s to %s\n", d.Start, d.End)
	fmt.Fprintf(&b, "Total rentals: %s (registered %s, casual %s)\n",
		render.FormatCount(float64(d.Totals.Rentals)),
		render.FormatCount(float64(d.Totals.Registered)),
		render.FormatCount(float64(d.Totals.Casual)))

	if len(d.Trend) > 0 {
		b.WriteString("Monthly rentals:")
		for _, p := range d.Trend {
			fmt.Fprintf(&b, " %s=%d", p.Label, p.Count)
		}
		b.WriteString("\n")
	}

	writeTotals(&b, "By day category", d.DayCategory)
	writeTotals(&b, "By weather", d.Weather)
	writeTotals(&b, "By season", d.Season)
	writeTotals(&b, "By time of day", d.TimeOfDay)

	if c, ok := d.Correlation.At("temp", "cnt"); ok && c.Valid {
		fmt.Fprintf(&b, "Correlation of temperature with hourly rentals: %.2f\n", c.Value)
	}
	return b.String()
}

func writeTotals(b *strings.Builder, title string, totals []analysis.Total) {
	if len(totals) == 0 {
		return
	}
	b.WriteString(title + ":")
	for _, t := range totals {
		fmt.Fprintf(b, " %s=%d", t.Label, t.Count)
	}
	b.WriteString("\n")
}
