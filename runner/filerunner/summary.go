package filerunner

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/gosom/multirouter/gmaps"
)

const maxLocationWidth = 40

// Summary collects the results of a run for the closing table.
type Summary struct {
	rows   []gmaps.TripResult
	counts map[gmaps.TripStatus]int
}

func NewSummary() *Summary {
	return &Summary{counts: make(map[gmaps.TripStatus]int)}
}

func (s *Summary) Add(res gmaps.TripResult) {
	s.rows = append(s.rows, res)
	s.counts[res.Status]++
}

func (s *Summary) Total() int {
	return len(s.rows)
}

func (s *Summary) Count(status gmaps.TripStatus) int {
	return s.counts[status]
}

// Render prints one aligned line per row. Location labels are padded by
// display width so wide characters line up.
func (s *Summary) Render(w io.Writer) {
	width := runewidth.StringWidth("locations")

	for i := range s.rows {
		width = max(width, runewidth.StringWidth(s.rows[i].Location))
	}

	width = min(width, maxLocationWidth)

	line := func(loc, dist, minutes, status string) {
		loc = runewidth.FillRight(runewidth.Truncate(loc, width, "…"), width)
		fmt.Fprintf(w, "%s  %12s  %8s  %s\n", loc, dist, minutes, status)
	}

	line("locations", "distance_mi", "time_min", "status")

	for i := range s.rows {
		r := &s.rows[i]

		dist, minutes := absentValue, absentValue
		if r.DistanceMi != nil {
			dist = gmaps.FormatMiles(*r.DistanceMi)
		}

		if r.TimeMin != nil {
			minutes = strconv.Itoa(*r.TimeMin)
		}

		line(r.Location, dist, minutes, r.Status.String())
	}

	fmt.Fprintf(w, "\n%d rows: %d found, %d unreachable, %d timed out\n",
		s.Total(), s.Count(gmaps.TripFound), s.Count(gmaps.TripUnreachable), s.Count(gmaps.TripTimedOut))
}
