package attendance

import "fmt"

const secondsPerDay = 24 * 60 * 60

// FormatDuration renders seconds as "Dd HHh MMm SSs", dropping the day
// component under 24 hours.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / secondsPerDay
	hours := (seconds % secondsPerDay) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02dh %02dm %02ds", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02dh %02dm %02ds", hours, minutes, secs)
}
