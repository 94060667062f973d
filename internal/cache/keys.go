package cache

import "time"

// KeyActiveProducts holds the public active product listing.
const KeyActiveProducts = "products:active"

// KeyDailyReport returns the key for the report of the given local day.
func KeyDailyReport(day time.Time) string {
	return "report:daily:" + day.Format("2006-01-02")
}
