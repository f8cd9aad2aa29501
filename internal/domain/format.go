package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EmptyPlaceholder is rendered in place of a missing reading.
const EmptyPlaceholder = "—"

// sentinelNotFound is the upstream string for "no reading".
const sentinelNotFound = "data_not_found"

var trailingZerosRe = regexp.MustCompile(`\.?0+$`)

type metricLabel struct {
	label string
	icon  string
}

// metricLabels overrides the generated label for well-known keys.
var metricLabels = map[string]metricLabel{
	"pm25_air_quality":              {"PM2.5 Air Quality (µg/m³)", "💨"},
	"ozone_air_quality":             {"Ozone Air Quality (µg/m³)", "💨"},
	"no2_air_quality":               {"NO₂ Air Quality (µg/m³)", "💨"},
	"precipitation_mm_per_hour":     {"Precipitation (mm/hr)", "🌧️"},
	"solar_irradiance_watts_per_m2": {"Solar Irradiance (W/m²)", "☀️"},
	"chlorophyll_concentration":     {"Chlorophyll (mg/m³)", "🌿"},
	"humidity_percent":              {"Humidity (%)", "💧"},
	"wind_speed_kmh":                {"Wind Speed (km/h)", "💨"},
}

// MetricLabel returns the display label and icon for a feature key. Keys
// without an override are title-cased with underscores as spaces and no icon.
func MetricLabel(key string) (label, icon string) {
	if l, ok := metricLabels[key]; ok {
		return l.label, l.icon
	}
	return titleCase(strings.ReplaceAll(key, "_", " ")), ""
}

// IsEmptyValue reports whether v encodes "no reading": nil, the
// "data_not_found" sentinel in any case, or the numeric sentinels -999 and 999.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.EqualFold(s, sentinelNotFound)
	}
	if f, ok := toFloat(v); ok {
		return f == -999 || f == 999
	}
	return false
}

// FormatMetricValue renders a feature value for display. Numbers get three
// decimals below magnitude 1 and one decimal otherwise, with trailing zeros
// stripped.
func FormatMetricValue(v any) string {
	if IsEmptyValue(v) {
		return EmptyPlaceholder
	}
	if f, ok := toFloat(v); ok {
		if f <= -999 {
			return EmptyPlaceholder
		}
		prec := 1
		if math.Abs(f) < 1 {
			prec = 3
		}
		return trailingZerosRe.ReplaceAllString(strconv.FormatFloat(f, 'f', prec, 64), "")
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = FormatMetricValue(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// titleCase upper-cases the first letter of every word, leaving the rest of
// each word untouched.
func titleCase(s string) string {
	b := []byte(s)
	prevWord := false
	for i, c := range b {
		word := isWordByte(c)
		if word && !prevWord && c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
		prevWord = word
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// timestampLayouts are tried in order when parsing upstream timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders an upstream timestamp in UTC for display.
func FormatTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "No timestamp available"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC().Format("Jan 2, 2006, 03:04 PM UTC")
		}
	}
	return "Invalid timestamp"
}
