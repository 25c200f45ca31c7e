package gmaps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed trip text")

var hourUnits = map[string]bool{
	"h":     true,
	"hr":    true,
	"hrs":   true,
	"hour":  true,
	"hours": true,
}

// ParseDistance returns the leading number of a distance text such as
// "12.3 mi". The unit is discarded.
func ParseDistance(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty distance", ErrMalformed)
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: distance %q: %v", ErrMalformed, text, err)
	}

	return v, nil
}

// ParseDuration converts "1 h 20 min" or "45 min" into minutes.
func ParseDuration(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: duration %q", ErrMalformed, text)
	}

	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", ErrMalformed, text, err)
	}

	if hourUnits[strings.ToLower(fields[1])] {
		minutes *= 60
	}

	if len(fields) == 4 {
		extra, err := strconv.Atoi(fields[2])
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q: %v", ErrMalformed, text, err)
		}

		minutes += extra
	}

	return minutes, nil
}
