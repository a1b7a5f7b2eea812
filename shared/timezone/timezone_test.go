package timezone_test

import (
	"testing"
	"time"

	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_UsesAppLocation(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestToAppTime_KeepsInstant(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	converted := timezone.ToAppTime(checkIn)

	assert.True(t, converted.Equal(checkIn))
	assert.Equal(t, timezone.GetLocation(), converted.Location())
}

func TestFormat(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 14, 0, 0, 0, timezone.GetLocation())

	assert.Equal(t, "2025-06-10 14:00", timezone.Format(checkIn, "2006-01-02 15:04"))
}

func TestParse_TimeOfDay(t *testing.T) {
	_, err := timezone.Parse("15:04", "09:30")
	require.NoError(t, err)

	_, err = timezone.Parse("15:04", "25:00")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 keeps offset",
			value: "2025-06-10T14:00:00Z",
			want:  time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with zone offset",
			value: "2025-06-10T14:00:00+07:00",
			want:  time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only is midnight in app timezone",
			value: "2025-06-12",
			want:  time.Date(2025, 6, 12, 0, 0, 0, 0, timezone.GetLocation()),
		},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "next tuesday", wantErr: true},
		{name: "impossible date", value: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.ParseDateTime(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, timezone.ErrInvalidDate)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "expected %v, got %v", tt.want, got)
		})
	}
}
