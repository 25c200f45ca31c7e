package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosom/multirouter/gmaps"
)

const (
	listSuffix   = ".csv"
	outputSuffix = "_dist_time.csv"
)

var ErrAmbiguousArgs = errors.New("exactly one argument must be a .csv file")

type Mode int

const (
	// ModeOneToMany fixes the source and reads destinations from the list.
	ModeOneToMany Mode = iota
	// ModeManyToOne fixes the destination and reads sources from the list.
	ModeManyToOne
)

func (m Mode) String() string {
	if m == ModeManyToOne {
		return "many-to-one"
	}

	return "one-to-many"
}

// Plan is the outcome of resolving the two command line arguments.
type Plan struct {
	Mode     Mode
	Fixed    string
	ListPath string
}

// ResolvePlan decides which argument is the location list by its .csv
// suffix. The check is case sensitive.
func ResolvePlan(arg1, arg2 string) (Plan, error) {
	first, second := isList(arg1), isList(arg2)

	switch {
	case first && !second:
		return Plan{Mode: ModeManyToOne, Fixed: arg2, ListPath: arg1}, nil
	case second && !first:
		return Plan{Mode: ModeOneToMany, Fixed: arg1, ListPath: arg2}, nil
	default:
		return Plan{}, fmt.Errorf("%w: got %q and %q", ErrAmbiguousArgs, arg1, arg2)
	}
}

func (p Plan) FixedRole() gmaps.Role {
	if p.Mode == ModeManyToOne {
		return gmaps.RoleDestination
	}

	return gmaps.RoleSource
}

func (p Plan) RowRole() gmaps.Role {
	if p.Mode == ModeManyToOne {
		return gmaps.RoleSource
	}

	return gmaps.RoleDestination
}

// OutputPath is the result file written next to the list.
func (p Plan) OutputPath() string {
	return OutputName(p.ListPath)
}

// OutputName replaces the trailing ".csv" of name with "_dist_time.csv".
func OutputName(name string) string {
	return strings.TrimSuffix(name, listSuffix) + outputSuffix
}

func isList(arg string) bool {
	return strings.HasSuffix(arg, listSuffix)
}
