// Package timezone keeps every timestamp the service writes (history entries,
// audit rows, receipts) in the zone named by APP_TIMEZONE.
//
//	now := timezone.Now()
//	day, err := timezone.Parse("2006-01-02", "2026-03-14")
//
// The location is loaded lazily on first use and falls back to UTC when the
// configured name is empty or unknown.
package timezone
