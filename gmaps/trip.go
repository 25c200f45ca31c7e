package gmaps

import (
	"fmt"
	"strconv"
	"strings"
)

// Role selects which of the two direction search boxes is filled.
type Role int

const (
	RoleSource Role = iota
	RoleDestination
)

func (r Role) String() string {
	if r == RoleDestination {
		return "destination"
	}

	return "source"
}

// index is the position of the role's search box on the page.
func (r Role) index() int {
	return int(r)
}

type TripStatus int

const (
	TripFound TripStatus = iota
	TripUnreachable
	TripTimedOut
)

func (s TripStatus) String() string {
	switch s {
	case TripFound:
		return "found"
	case TripUnreachable:
		return "unreachable"
	case TripTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("TripStatus(%d)", int(s))
	}
}

// Trip is what the directions page shows for one source/destination pair.
// DistanceText and DurationText are set only when Status is TripFound.
type Trip struct {
	Status       TripStatus
	DistanceText string
	DurationText string
}

// TripResult is one output row. DistanceMi and TimeMin are nil unless the
// trip was found.
type TripResult struct {
	Position   int
	Location   string
	Status     TripStatus
	DistanceMi *float64
	TimeMin    *int
}

// NewTripResult converts a Trip into numbers. A found trip whose text cannot
// be parsed yields an error wrapping ErrMalformed.
func NewTripResult(position int, location string, trip Trip) (TripResult, error) {
	ans := TripResult{
		Position: position,
		Location: location,
		Status:   trip.Status,
	}

	if trip.Status != TripFound {
		return ans, nil
	}

	dist, err := ParseDistance(trip.DistanceText)
	if err != nil {
		return ans, err
	}

	minutes, err := ParseDuration(trip.DurationText)
	if err != nil {
		return ans, err
	}

	ans.DistanceMi = &dist
	ans.TimeMin = &minutes

	return ans, nil
}

func (r *TripResult) CsvHeaders() []any {
	return []any{"locations", "distance_mi", "time_min"}
}

// CsvRow returns the row cells. Absent numbers are nil.
func (r *TripResult) CsvRow() []any {
	row := []any{r.Location, nil, nil}

	if r.DistanceMi != nil {
		row[1] = *r.DistanceMi
	}

	if r.TimeMin != nil {
		row[2] = *r.TimeMin
	}

	return row
}

// FormatMiles always keeps a decimal point so 12 is written as 12.0.
func FormatMiles(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}

	return s
}
