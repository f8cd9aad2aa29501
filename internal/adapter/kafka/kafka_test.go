package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 10, 5, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	var record domain.NarrativeRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"narrative": "Warm.",
		"region_id": "reef_sumatra",
		"features": {"sea_surface_temp_celsius": 30.1, "air_temp_celsius": 27},
		"diary_key": "diary/reef_sumatra.json"
	}`), &record))

	msg, err := serializeToMessage(domain.Snapshot{RegionID: "reef_sumatra", FetchedAt: now, Record: record})
	require.NoError(t, err)

	assert.Equal(t, []byte("reef_sumatra"), msg.Key)
	assert.Equal(t, now, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "region_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("reef_sumatra"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-10-05T10:30:00Z"), msg.Headers[1].Value)

	assert.Contains(t, string(msg.Value), `"features":{"sea_surface_temp_celsius":30.1,"air_temp_celsius":27}`)
	assert.Contains(t, string(msg.Value), `"diary_key":"diary/reef_sumatra.json"`)
}
