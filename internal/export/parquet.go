package export

import (
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/refanz/bikeshare/internal/models"
)

// DayRow is the parquet layout of a day record.
type DayRow struct {
	Instant    int32   `parquet:"name=instant, type=INT32"`
	Date       string  `parquet:"name=dteday, type=BYTE_ARRAY, convertedtype=UTF8"`
	Season     int32   `parquet:"name=season, type=INT32"`
	Year       int32   `parquet:"name=yr, type=INT32"`
	Month      int32   `parquet:"name=mnth, type=INT32"`
	Holiday    int32   `parquet:"name=holiday, type=INT32"`
	Weekday    int32   `parquet:"name=weekday, type=INT32"`
	WorkingDay int32   `parquet:"name=workingday, type=INT32"`
	Weather    int32   `parquet:"name=weathersit, type=INT32"`
	Temp       float64 `parquet:"name=temp, type=DOUBLE"`
	ATemp      float64 `parquet:"name=atemp, type=DOUBLE"`
	Humidity   float64 `parquet:"name=hum, type=DOUBLE"`
	WindSpeed  float64 `parquet:"name=windspeed, type=DOUBLE"`
	Casual     int32   `parquet:"name=casual, type=INT32"`
	Registered int32   `parquet:"name=registered, type=INT32"`
	Count      int32   `parquet:"name=cnt, type=INT32"`
}

// HourRow is the parquet layout of an hour record.
type HourRow struct {
	Instant    int32   `parquet:"name=instant, type=INT32"`
	Date       string  `parquet:"name=dteday, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour       int32   `parquet:"name=hr, type=INT32"`
	Season     int32   `parquet:"name=season, type=INT32"`
	Year       int32   `parquet:"name=yr, type=INT32"`
	Month      int32   `parquet:"name=mnth, type=INT32"`
	Holiday    int32   `parquet:"name=holiday, type=INT32"`
	Weekday    int32   `parquet:"name=weekday, type=INT32"`
	WorkingDay int32   `parquet:"name=workingday, type=INT32"`
	Weather    int32   `parquet:"name=weathersit, type=INT32"`
	Temp       float64 `parquet:"name=temp, type=DOUBLE"`
	ATemp      float64 `parquet:"name=atemp, type=DOUBLE"`
	Humidity   float64 `parquet:"name=hum, type=DOUBLE"`
	WindSpeed  float64 `parquet:"name=windspeed, type=DOUBLE"`
	Casual     int32   `parquet:"name=casual, type=INT32"`
	Registered int32   `parquet:"name=registered, type=INT32"`
	Count      int32   `parquet:"name=cnt, type=INT32"`
}

func toDayRow(d models.DayRecord) DayRow {
	return DayRow{
		Instant:    int32(d.Instant),
		Date:       d.Date.Format(models.DateLayout),
		Season:     int32(d.Season),
		Year:       int32(d.Year),
		Month:      int32(d.Month),
		Holiday:    int32(d.Holiday),
		Weekday:    int32(d.Weekday),
		WorkingDay: int32(d.WorkingDay),
		Weather:    int32(d.Weather),
		Temp:       d.Temp,
		ATemp:      d.ATemp,
		Humidity:   d.Humidity,
		WindSpeed:  d.WindSpeed,
		Casual:     int32(d.Casual),
		Registered: int32(d.Registered),
		Count:      int32(d.Count),
	}
}

func toHourRow(h models.HourRecord) HourRow {
	d := toDayRow(h.DayRecord)
	return HourRow{
		Instant:    d.Instant,
		Date:       d.Date,
		Hour:       int32(h.Hour),
		Season:     d.Season,
		Year:       d.Year,
		Month:      d.Month,
		Holiday:    d.Holiday,
		Weekday:    d.Weekday,
		WorkingDay: d.WorkingDay,
		Weather:    d.Weather,
		Temp:       d.Temp,
		ATemp:      d.ATemp,
		Humidity:   d.Humidity,
		WindSpeed:  d.WindSpeed,
		Casual:     d.Casual,
		Registered: d.Registered,
		Count:      d.Count,
	}
}

// WriteDayParquet writes day records as a single snappy-compressed row group.
func WriteDayParquet(w io.Writer, days []models.DayRecord) error {
	rows := make([]interface{}, len(days))
	for i, d := range days {
		rows[i] = toDayRow(d)
	}
	return writeParquet(w, new(DayRow), rows)
}

// WriteHourParquet writes hour records as a single snappy-compressed row group.
func WriteHourParquet(w io.Writer, hours []models.HourRecord) error {
	rows := make([]interface{}, len(hours))
	for i, h := range hours {
		rows[i] = toHourRow(h)
	}
	return writeParquet(w, new(HourRow), rows)
}

func writeParquet(w io.Writer, prototype interface{}, rows []interface{}) (err error) {
	pw, err := writer.NewParquetWriterFromWriter(w, prototype, 1)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, row := range rows {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	// WriteStop can panic on schema mismatches deep in the encoder.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parquet write stop: %v", r)
		}
	}()
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet: %w", err)
	}
	return nil
}
