package env

import (
	"math"
	"strconv"
	"strings"

	"reactapp-uitests/internal/domain/entity"
)

const (
	KeyHeadless = "HEADLESS"
	KeySlowMo   = "SLOW_MO"
)

// ResolveRunConfiguration builds the run configuration from lookup. Unparseable
// values fall back to defaults and are reported as ConfigurationParseError.
func ResolveRunConfiguration(lookup func(string) (string, bool)) (entity.RunConfiguration, []error) {
	cfg := entity.DefaultRunConfiguration()
	var problems []error

	if raw, ok := lookup(KeyHeadless); ok {
		headless, err := parseHeadless(raw)
		cfg.Headless = headless
		if err != nil {
			problems = append(problems, err)
		}
	}

	if raw, ok := lookup(KeySlowMo); ok && strings.TrimSpace(raw) != "" {
		slowMo, err := parseSlowMo(raw)
		cfg.SlowMoMs = slowMo
		if err != nil {
			problems = append(problems, err)
		}
	}

	return cfg, problems
}

// parseHeadless turns headless off only for "0" or "false" in any case.
// Anything else keeps it on.
func parseHeadless(raw string) (bool, error) {
	if raw == "0" || strings.EqualFold(raw, "false") {
		return false, nil
	}
	switch strings.ToLower(raw) {
	case "", "1", "true":
		return true, nil
	}
	return true, &entity.ConfigurationParseError{
		Key:      KeyHeadless,
		Value:    raw,
		Fallback: "true",
		Reason:   "not a boolean",
	}
}

func parseSlowMo(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &entity.ConfigurationParseError{Key: KeySlowMo, Value: raw, Fallback: "0", Reason: "not a number"}
	}
	// negative delays are clamped to 0 even though they parse as floats
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, &entity.ConfigurationParseError{Key: KeySlowMo, Value: raw, Fallback: "0", Reason: "out of range"}
	}
	return v, nil
}
