package render

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView(t *testing.T) domain.View {
	t.Helper()
	var r domain.NarrativeRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"narrative": "Warm water.\n\nBecause of El Niño.",
		"confidence": 0.9,
		"timestamp_utc": "2025-10-05T12:30:00Z",
		"features": {
			"sea_surface_temp_celsius": 26.5,
			"sea_surface_temp_fahrenheit": 79.7,
			"soil_temp_celsius": "data_not_found",
			"humidity_percent": 80
		},
		"events": [{"type": "heat_stress", "metric": "humidity_percent", "severity": "high", "value": 80, "description": "Sticky."}],
		"sources": ["NOAA"]
	}`), &r))
	return domain.BuildView(r, "reef_sumatra", false)
}

func TestView_RendersAllParts(t *testing.T) {
	out := View(testView(t), "")

	assert.Contains(t, out, "🪸 Reef Sumatra")
	assert.Contains(t, out, "Updated Oct 5, 2025, 12:30 PM UTC")
	assert.Contains(t, out, "Confidence 90%")
	assert.Contains(t, out, "📍 Current State")
	assert.Contains(t, out, "🔍 Why This Matters")
	assert.Contains(t, out, "Because of El Niño.")
	assert.Contains(t, out, "Sea Surface Temp")
	assert.Contains(t, out, "26.5°C / 79.7°F")
	assert.Contains(t, out, "— / —")
	assert.Contains(t, out, "Humidity (%)")
	assert.Contains(t, out, "Heat Stress [HIGH] Humidity (%): 80")
	assert.Contains(t, out, "Sticky.")
	assert.Contains(t, out, "Sources: NOAA")
	assert.NotContains(t, out, "⚠")
}

func TestView_ErrorBanner(t *testing.T) {
	out := View(testView(t), domain.NoNarrativeMessage)

	assert.Contains(t, out, "⚠ "+domain.NoNarrativeMessage)
	assert.Contains(t, out, "Current State", "data stays visible under the error")
}

func TestRegions(t *testing.T) {
	out := Regions(domain.Regions())

	assert.Contains(t, out, "amazon_rainforest")
	assert.Contains(t, out, "🗽 New York City")
	assert.Contains(t, out, "reef  -18.28, 147.69")
}
