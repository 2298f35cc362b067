package analysis

// Time-of-day buckets in chronological order.
const (
	BucketMidnight  = "midnight"
	BucketLateNight = "late night"
	BucketMorning   = "morning"
	BucketNoon      = "noon"
	BucketAfternoon = "afternoon"
	BucketEvening   = "evening"
	BucketNight     = "night"
)

var Buckets = []string{
	BucketMidnight,
	BucketLateNight,
	BucketMorning,
	BucketNoon,
	BucketAfternoon,
	BucketEvening,
	BucketNight,
}

// TimeOfDay maps an hour of the day to its bucket label.
// Negative hours have no bucket and return "".
func TimeOfDay(hour int) string {
	switch {
	case hour == 0:
		return BucketMidnight
	case hour > 0 && hour < 4:
		return BucketLateNight
	case hour >= 4 && hour < 12:
		return BucketMorning
	case hour == 12:
		return BucketNoon
	case hour >= 13 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 20:
		return BucketEvening
	case hour >= 20:
		return BucketNight
	default:
		return ""
	}
}
