package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity is the normalized severity of a detected event.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity maps an upstream severity string onto the four known levels.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityModerate:
		return SeverityModerate
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Event is an environmental event detected by the narrative service.
type Event struct {
	Type        string `json:"type"`
	Metric      string `json:"metric,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Value       any    `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// Level returns the normalized severity.
func (e Event) Level() Severity {
	return ParseSeverity(e.Severity)
}

// NarrativeRecord is a region's narrative plus features as returned by the
// narrative service. Fields the service adds later are kept in Extra and
// written back out unchanged.
type NarrativeRecord struct {
	Narrative    string
	Confidence   *float64
	TS           string
	TimestampUTC string
	RegionID     string
	AltRegionID  string
	Features     *FeatureMap
	Events       []Event
	Sources      []string

	Extra map[string]json.RawMessage
}

// wire field names handled explicitly; everything else lands in Extra.
const (
	fieldNarrative    = "narrative"
	fieldConfidence   = "confidence"
	fieldTS           = "ts"
	fieldTimestampUTC = "timestamp_utc"
	fieldRegionID     = "region_id"
	fieldAltRegionID  = "_region_id"
	fieldFeatures     = "features"
	fieldEvents       = "events"
	fieldSources      = "sources"
)

// UnmarshalJSON decodes the record, preserving unknown fields in Extra.
func (r *NarrativeRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("narrative record: expected object")
	}

	var out NarrativeRecord
	decoders := []struct {
		name string
		dst  any
	}{
		{fieldNarrative, &out.Narrative},
		{fieldConfidence, &out.Confidence},
		{fieldTimestampUTC, &out.TimestampUTC},
		{fieldRegionID, &out.RegionID},
		{fieldAltRegionID, &out.AltRegionID},
		{fieldFeatures, &out.Features},
		{fieldEvents, &out.Events},
		{fieldSources, &out.Sources},
	}
	for _, d := range decoders {
		raw, ok := fields[d.name]
		if !ok {
			continue
		}
		delete(fields, d.name)
		if isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, d.dst); err != nil {
			return fmt.Errorf("field %q: %w", d.name, err)
		}
	}

	// "ts" is sometimes a string, sometimes null.
	if raw, ok := fields[fieldTS]; ok {
		delete(fields, fieldTS)
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &out.TS); err != nil {
				return fmt.Errorf("field %q: %w", fieldTS, err)
			}
		}
	}

	if len(fields) > 0 {
		out.Extra = fields
	}
	*r = out
	return nil
}

// MarshalJSON encodes the record using the upstream field names.
func (r NarrativeRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+9)
	for k, v := range r.Extra {
		out[k] = v
	}
	out[fieldNarrative] = r.Narrative
	if r.Confidence != nil {
		out[fieldConfidence] = *r.Confidence
	}
	if r.TS != "" {
		out[fieldTS] = r.TS
	}
	if r.TimestampUTC != "" {
		out[fieldTimestampUTC] = r.TimestampUTC
	}
	if r.RegionID != "" {
		out[fieldRegionID] = r.RegionID
	}
	if r.AltRegionID != "" {
		out[fieldAltRegionID] = r.AltRegionID
	}
	if r.Features != nil {
		out[fieldFeatures] = r.Features
	}
	if r.Events != nil {
		out[fieldEvents] = r.Events
	}
	if r.Sources != nil {
		out[fieldSources] = r.Sources
	}
	return json.Marshal(out)
}

// Timestamp returns timestamp_utc, falling back to ts.
func (r NarrativeRecord) Timestamp() string {
	if r.TimestampUTC != "" {
		return r.TimestampUTC
	}
	return r.TS
}

// DisplayRegionName title-cases the record's region id, falling back to
// the given id when the record carries none.
func (r NarrativeRecord) DisplayRegionName(fallbackID string) string {
	id := r.RegionID
	if id == "" {
		id = r.AltRegionID
	}
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		return "Unknown Region"
	}
	return titleCase(strings.ReplaceAll(id, "_", " "))
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// Snapshot is a merged record captured at the end of a successful refresh.
type Snapshot struct {
	RegionID  string          `json:"region_id"`
	FetchedAt time.Time       `json:"fetched_at"`
	Record    NarrativeRecord `json:"record"`
}
