package gmaps_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/multirouter/gmaps"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "hours and minutes", in: "1 h 20 min", want: 80},
		{name: "minutes only", in: "45 min", want: 45},
		{name: "hours only", in: "2 h", want: 120},
		{name: "two hours fifteen", in: "2 h 15 min", want: 135},
		{name: "hr unit", in: "3 hr 5 min", want: 185},
		{name: "extra whitespace", in: "  1  h   1 min ", want: 61},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gmaps.ParseDuration(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseDurationMalformed(t *testing.T) {
	for _, in := range []string{"", "min", "x min", "1 h y min", "soon"} {
		_, err := gmaps.ParseDuration(in)
		require.ErrorIs(t, err, gmaps.ErrMalformed, in)
	}
}

func TestParseDistance(t *testing.T) {
	got, err := gmaps.ParseDistance("12.3 mi")
	require.NoError(t, err)
	require.InDelta(t, 12.3, got, 1e-9)

	got, err = gmaps.ParseDistance("7 mi")
	require.NoError(t, err)
	require.InDelta(t, 7.0, got, 1e-9)

	_, err = gmaps.ParseDistance("1,204 mi")
	require.ErrorIs(t, err, gmaps.ErrMalformed)

	_, err = gmaps.ParseDistance("   ")
	require.ErrorIs(t, err, gmaps.ErrMalformed)
}

func TestNewTripResult(t *testing.T) {
	res, err := gmaps.NewTripResult(3, "Tacoma, WA", gmaps.Trip{
		Status:       gmaps.TripFound,
		DistanceText: "33.1 mi",
		DurationText: "1 h 2 min",
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Position)
	require.Equal(t, "Tacoma, WA", res.Location)
	require.NotNil(t, res.DistanceMi)
	require.NotNil(t, res.TimeMin)
	require.InDelta(t, 33.1, *res.DistanceMi, 1e-9)
	require.Equal(t, 62, *res.TimeMin)
	require.Equal(t, []any{"Tacoma, WA", 33.1, 62}, res.CsvRow())

	for _, status := range []gmaps.TripStatus{gmaps.TripUnreachable, gmaps.TripTimedOut} {
		res, err := gmaps.NewTripResult(0, "Honolulu", gmaps.Trip{Status: status})
		require.NoError(t, err)
		require.Nil(t, res.DistanceMi)
		require.Nil(t, res.TimeMin)
		require.Equal(t, []any{"Honolulu", nil, nil}, res.CsvRow())
	}

	_, err = gmaps.NewTripResult(0, "x", gmaps.Trip{Status: gmaps.TripFound, DistanceText: "far", DurationText: "5 min"})
	require.ErrorIs(t, err, gmaps.ErrMalformed)
}

func TestFormatMiles(t *testing.T) {
	require.Equal(t, "12.0", gmaps.FormatMiles(12))
	require.Equal(t, "174.0", gmaps.FormatMiles(174))
	require.Equal(t, "12.3", gmaps.FormatMiles(12.3))
	require.Equal(t, "0.5", gmaps.FormatMiles(0.5))
}
