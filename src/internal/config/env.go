package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"fortio.org/safecast"

	domainerrors "github.com/maksimkurb/tracegate/src/internal/errors"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

// EnvVerbosity names the environment variable read by FromEnv.
const EnvVerbosity = "TRACEGATE_VERBOSITY"

// ParseVerbositySpec parses "name=level" pairs separated by commas, such as
// "db=2,db.pool=5,=1". An empty name sets the global default. Blank items are
// skipped.
func ParseVerbositySpec(spec string) ([]verbosity.Override, error) {
	var out []verbosity.Override

	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, domainerrors.NewConfigError(fmt.Sprintf("invalid verbosity %q: expected name=level", item), nil)
		}
		name = strings.TrimSpace(name)
		if !IsValidComponentName(name) {
			return nil, domainerrors.NewConfigError(fmt.Sprintf("invalid component name %q", name), nil)
		}

		v, err := ParseLevel(strings.TrimSpace(value))
		if err != nil {
			return nil, domainerrors.NewConfigError(fmt.Sprintf("invalid verbosity for %q", name), err)
		}

		out = append(out, verbosity.Override{Name: name, Verbosity: v})
	}

	return out, nil
}

// ParseLevel parses a decimal verbosity that fits in an int.
func ParseLevel(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

// FromEnv returns the overrides in TRACEGATE_VERBOSITY, or nil when the
// variable is unset.
func FromEnv() ([]verbosity.Override, error) {
	spec, ok := os.LookupEnv(EnvVerbosity)
	if !ok {
		return nil, nil
	}
	overrides, err := ParseVerbositySpec(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvVerbosity, err)
	}
	return overrides, nil
}
