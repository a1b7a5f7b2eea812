// Package timezone pins every booking timestamp to the zone named by APP_TIMEZONE.
// Bare dates ("2025-06-12") are read as midnight in that zone.
package timezone

import (
	"errors"
	"time"

	"github.com/JustAdi10/Booking/config"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var ErrInvalidDate = errors.New("invalid date")

var appLocation = loadLocation(config.Get().App.Timezone)

func loadLocation(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("APP_TIMEZONE not set, bookings use UTC")

		name = defaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, bookings use UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone loaded")

	return loc
}

func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDateTime accepts an RFC3339 timestamp (its own offset is kept) or a bare date.
func ParseDateTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return t, nil
}
