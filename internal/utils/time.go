package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// VendorLocation is the fixed vendor-local timezone (IST, UTC+05:30).
// Trip timestamps are stored as UTC instants; calendar dates entered by
// vendors and admins are interpreted in this zone.
var VendorLocation = time.FixedZone("IST", 5*3600+30*60)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD as a vendor-local calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), VendorLocation)
}

// FormatDate formats a time as a vendor-local YYYY-MM-DD date.
func FormatDate(t time.Time) string {
	return t.In(VendorLocation).Format(layoutDate)
}

// DayWindowUTC converts a vendor-local calendar day into the half-open UTC
// instant window [midnight, next midnight) covering that day. The exclusive
// end keeps fractional-second timestamps in the day's final second inside
// the window.
func DayWindowUTC(localDate time.Time) (time.Time, time.Time) {
	y, m, d := localDate.In(VendorLocation).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, VendorLocation)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
