package daily

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeZone decides where a calendar day starts and ends.
const DefaultTimeZone = "Europe/Istanbul"

// FallbackWord is the answer for dates missing from the daily table.
const FallbackWord = "MESAJ"

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD for t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// PrevDay returns the calendar day before date (YYYY-MM-DD), or "" if date
// does not parse.
func PrevDay(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(dateLayout)
}

// Location loads the named zone. When the zone database does not know it,
// Europe/Istanbul's fixed UTC+3 offset is used so a day boundary still exists.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("tz", name).Msg("unknown time zone; using UTC+03:00")
		return time.FixedZone("+03", 3*60*60)
	}
	return loc
}
