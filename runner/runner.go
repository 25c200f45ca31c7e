package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gosom/multirouter/browser"
	"github.com/gosom/multirouter/gmaps"
)

const (
	// RowFillIgnore logs a failed per-row fill and still reads the result.
	RowFillIgnore = "ignore"
	// RowFillAbort stops the run on the first failed per-row fill.
	RowFillAbort = "abort"
)

const envPrefix = "MULTIROUTER_"

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	Driver        string
	Headless      bool
	WaitTime      time.Duration
	DirectionsURL string
	SelectorsFile string
	RowFillPolicy string
	BlockStyles   bool

	LogFolder string
	Debug     bool

	XLSX        bool
	DatabaseURL string

	S3Bucket     string
	S3Prefix     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// DefaultConfig returns the built in defaults overlaid with MULTIROUTER_*
// environment variables. A .env file in the working directory is loaded
// first when present.
func DefaultConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Driver:        getEnv("DRIVER", browser.DriverPlaywright),
		Headless:      getEnvBool("HEADLESS", false),
		WaitTime:      getEnvDuration("WAIT_TIME", gmaps.DefaultWaitTime),
		DirectionsURL: getEnv("DIRECTIONS_URL", gmaps.DefaultDirectionsURL),
		SelectorsFile: getEnv("SELECTORS", ""),
		RowFillPolicy: getEnv("ROW_FILL_POLICY", RowFillIgnore),
		BlockStyles:   getEnvBool("BLOCK_STYLES", false),
		LogFolder:     getEnv("LOG_FOLDER", ""),
		Debug:         getEnvBool("DEBUG", false),
		XLSX:          getEnvBool("XLSX", false),
		DatabaseURL:   getEnv("DB", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		S3Region:      os.Getenv("AWS_REGION"),
		AWSAccessKey:  os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Driver {
	case browser.DriverPlaywright, browser.DriverRod:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (expected %s|%s)", c.Driver, browser.DriverPlaywright, browser.DriverRod))
	}

	switch c.RowFillPolicy {
	case RowFillIgnore, RowFillAbort:
	default:
		errs = append(errs, fmt.Errorf("unknown row fill policy %q (expected %s|%s)", c.RowFillPolicy, RowFillIgnore, RowFillAbort))
	}

	if c.WaitTime <= 0 {
		errs = append(errs, fmt.Errorf("wait time must be positive, got %s", c.WaitTime))
	}

	if (c.AWSAccessKey == "") != (c.AWSSecretKey == "") {
		errs = append(errs, errors.New("aws access key and secret key must be set together"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}

	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}

	return v
}
