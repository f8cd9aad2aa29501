package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmptyValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, true},
		{"sentinel lower", "data_not_found", true},
		{"sentinel upper", "DATA_NOT_FOUND", true},
		{"minus 999", -999.0, true},
		{"plus 999", 999.0, true},
		{"minus 999 int", -999, true},
		{"zero", 0.0, false},
		{"zero string", "0", false},
		{"near sentinel", -998.9, false},
		{"empty string", "", false},
		{"bool", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEmptyValue(tt.value))
		})
	}
}

func TestFormatMetricValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"small keeps three decimals", 0.1234, "0.123"},
		{"trailing zero stripped", 12.30, "12.3"},
		{"whole number", 12.0, "12"},
		{"sentinel", -999.0, EmptyPlaceholder},
		{"below sentinel", -1200.0, EmptyPlaceholder},
		{"zero", 0.0, "0"},
		{"small trailing zeros", 0.1, "0.1"},
		{"negative small", -0.5, "-0.5"},
		{"ten", 10.0, "10"},
		{"rounds to one decimal", 26.54, "26.5"},
		{"nil", nil, EmptyPlaceholder},
		{"not found", "Data_Not_Found", EmptyPlaceholder},
		{"string passthrough", "moderate", "moderate"},
		{"array joined", []any{1.0, "a", 0.25}, "1,a,0.25"},
		{"int", 80, "80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMetricValue(tt.value))
		})
	}
}

func TestMetricLabel(t *testing.T) {
	label, icon := MetricLabel("pm25_air_quality")
	assert.Equal(t, "PM2.5 Air Quality (µg/m³)", label)
	assert.Equal(t, "💨", icon)

	label, icon = MetricLabel("ocean_ph_level")
	assert.Equal(t, "Ocean Ph Level", label)
	assert.Empty(t, icon)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Sea Surface Temp", titleCase("sea surface temp"))
	assert.Equal(t, "Co2 Ppm", titleCase("co2 ppm"))
	assert.Equal(t, "Already Upper", titleCase("Already Upper"))
	assert.Equal(t, "", titleCase(""))
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"2025-10-05T12:30:00Z", "Oct 5, 2025, 12:30 PM UTC"},
		{"2025-10-05T02:05:00+02:00", "Oct 5, 2025, 12:05 AM UTC"},
		{"2025-10-05T12:30:00", "Oct 5, 2025, 12:30 PM UTC"},
		{"2025-10-05", "Oct 5, 2025, 12:00 AM UTC"},
		{"", "No timestamp available"},
		{"yesterday", "Invalid timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimestamp(tt.in))
		})
	}
}
