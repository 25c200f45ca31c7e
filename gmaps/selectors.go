package gmaps

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultDirectionsURL = "https://www.google.com/maps/dir/"

// Selectors holds the site owned CSS selectors the scraper depends on.
type Selectors struct {
	SearchBox    string `yaml:"search_box"`
	TripBlock    string `yaml:"trip_block"`
	TripNumbers  string `yaml:"trip_numbers"`
	TripDistance string `yaml:"trip_distance"`
	TripDuration string `yaml:"trip_duration"`
	ErrorText    string `yaml:"error_text"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		SearchBox:    ".tactile-searchbox-input",
		TripBlock:    "#section-directions-trip-0",
		TripNumbers:  ".section-directions-trip-numbers",
		TripDistance: ".section-directions-trip-distance",
		TripDuration: ".section-directions-trip-duration",
		ErrorText:    ".section-directions-error-primary-text",
	}
}

// LoadSelectors reads a YAML file and overlays every non empty key on top of
// the defaults.
func LoadSelectors(path string) (Selectors, error) {
	ans := DefaultSelectors()

	if path == "" {
		return ans, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ans, fmt.Errorf("failed to read selectors file: %w", err)
	}

	var override Selectors
	if err := yaml.Unmarshal(data, &override); err != nil {
		return ans, fmt.Errorf("failed to parse selectors file %s: %w", path, err)
	}

	merge := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}

	merge(&ans.SearchBox, override.SearchBox)
	merge(&ans.TripBlock, override.TripBlock)
	merge(&ans.TripNumbers, override.TripNumbers)
	merge(&ans.TripDistance, override.TripDistance)
	merge(&ans.TripDuration, override.TripDuration)
	merge(&ans.ErrorText, override.ErrorText)

	return ans, nil
}
