package domain

import (
	"math"
	"strings"
)

// EventView is a detected event prepared for display.
type EventView struct {
	Title       string   `json:"title" yaml:"title"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Metric      string   `json:"metric,omitempty" yaml:"metric,omitempty"`
	Value       string   `json:"value,omitempty" yaml:"value,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// View is everything the panel shows for one merged record.
type View struct {
	RegionID          string        `json:"region_id" yaml:"region_id"`
	RegionName        string        `json:"region_name" yaml:"region_name"`
	Icon              string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	ConfidencePercent *int          `json:"confidence_percent,omitempty" yaml:"confidence_percent,omitempty"`
	Timestamp         string        `json:"timestamp" yaml:"timestamp"`
	Sections          []Section     `json:"sections" yaml:"sections"`
	Cards             []DisplayCard `json:"cards" yaml:"cards"`
	Events            []EventView   `json:"events" yaml:"events"`
	// Sources and FeatureSources come from the record's top-level list and
	// its features.sources map respectively. Both are shown as received.
	Sources        []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	FeatureSources []string `json:"feature_sources,omitempty" yaml:"feature_sources,omitempty"`
}

// BuildView assembles the display view for a merged record.
func BuildView(record NarrativeRecord, regionID string, hideEmpty bool) View {
	v := View{
		RegionID:       regionID,
		RegionName:     record.DisplayRegionName(regionID),
		Timestamp:      FormatTimestamp(record.Timestamp()),
		Sections:       Segment(record.Narrative),
		Cards:          Normalize(record.Features, hideEmpty),
		Events:         buildEventViews(record.Events),
		Sources:        record.Sources,
		FeatureSources: featureSources(record.Features),
	}
	if r, ok := LookupRegion(regionID); ok {
		v.Icon = r.Icon
	}
	if record.Confidence != nil {
		pct := int(math.Round(*record.Confidence * 100))
		v.ConfidencePercent = &pct
	}
	return v
}

func buildEventViews(events []Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		ev := EventView{
			Title:       "Unknown Event",
			Severity:    e.Level(),
			Description: e.Description,
		}
		if e.Type != "" {
			ev.Title = titleCase(strings.ReplaceAll(e.Type, "_", " "))
		}
		if e.Metric != "" {
			ev.Metric, _ = MetricLabel(e.Metric)
		}
		if isPresent(e.Value) && !IsEmptyValue(e.Value) {
			ev.Value = FormatMetricValue(e.Value)
		}
		out = append(out, ev)
	}
	return out
}

// isPresent rejects zero-ish event values, which carry no information.
func isPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func featureSources(features *FeatureMap) []string {
	v, ok := features.Get("sources")
	if !ok {
		return nil
	}
	nested, ok := v.(*FeatureMap)
	if !ok {
		return nil
	}
	var out []string
	for _, k := range nested.Keys() {
		val, _ := nested.Get(k)
		if val == nil {
			continue
		}
		out = append(out, FormatMetricValue(val))
	}
	return out
}
