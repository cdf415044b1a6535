package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// suffix is a unit spelling and the factor taking it to the base unit.
// Matching is case-insensitive; the first match wins, so longer spellings
// that end in a shorter one must come first.
type suffix struct {
	text  string
	scale float64
}

var (
	hertz   = []suffix{{"khz", 1e3}, {"hz", 1}}
	millis  = []suffix{{"µs", 1e-3}, {"us", 1e-3}, {"ms", 1}, {"s", 1e3}}
	seconds = []suffix{{"µs", 1e-6}, {"us", 1e-6}, {"ms", 1e-3}, {"s", 1}}
	decibel = []suffix{{"db", 1}}
	percent = []suffix{{"%", 1}}
)

func parseScaled(s string, units []suffix) (float64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	scale := 1.0
	for _, u := range units {
		if strings.HasSuffix(lower, u.text) {
			s, scale = strings.TrimSpace(s[:len(s)-len(u.text)]), u.scale
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// FrequencyFormatter formats hertz, switching to kHz from 1000 up.
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

func FrequencyParser(s string) (float64, error) { return parseScaled(s, hertz) }

// silenceDB is the level at and below which decibels read as -inf.
const silenceDB = -120

func DecibelFormatter(db float64) string {
	if db <= silenceDB {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

func DecibelParser(s string) (float64, error) {
	if strings.Contains(s, "∞") || strings.Contains(strings.ToLower(s), "inf") {
		return silenceDB, nil
	}
	return parseScaled(s, decibel)
}

func PercentFormatter(v float64) string { return fmt.Sprintf("%.0f%%", v) }

func PercentParser(s string) (float64, error) { return parseScaled(s, percent) }

// TimeFormatter formats milliseconds in µs, ms or s.
func TimeFormatter(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1f ms", ms)
	default:
		return fmt.Sprintf("%.2f s", ms/1000)
	}
}

// TimeParser reads a time into milliseconds. A bare number is milliseconds.
func TimeParser(s string) (float64, error) { return parseScaled(s, millis) }

func SecondsFormatter(s float64) string { return TimeFormatter(s * 1000) }

// SecondsParser reads a time into seconds. A bare number is seconds.
func SecondsParser(s string) (float64, error) { return parseScaled(s, seconds) }

func OnOffFormatter(v float64) string {
	if v > 0.5 {
		return "On"
	}
	return "Off"
}

var errOnOff = errors.New("expected on or off")

func OnOffParser(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w, got %q", errOnOff, s)
	}
}

// ForUnit returns the formatter and parser for a unit label as written in
// DSP metadata ("Hz", "dB", "ms", ...). Unknown units return nil functions,
// which selects the default number formatting.
func ForUnit(unit string) (func(float64) string, func(string) (float64, error)) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "hz":
		return FrequencyFormatter, FrequencyParser
	case "db":
		return DecibelFormatter, DecibelParser
	case "%":
		return PercentFormatter, PercentParser
	case "ms":
		return TimeFormatter, TimeParser
	case "s", "sec":
		return SecondsFormatter, SecondsParser
	default:
		return nil, nil
	}
}
