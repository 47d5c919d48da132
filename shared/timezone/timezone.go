package timezone

import (
	"sync"
	"time"
	"voyage/config"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
	loadOnce    sync.Once
)

func location() *time.Location {
	loadOnce.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			name = "UTC"
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			appLocation = time.UTC

			return
		}

		appLocation = loc
	})

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse parses a time string in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
