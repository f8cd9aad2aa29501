package domain

import (
	"strings"
)

// CardKind distinguishes paired temperature cards from single-metric cards.
type CardKind string

const (
	CardPaired CardKind = "paired"
	CardSingle CardKind = "single"
)

// CardValue is one displayable reading.
type CardValue struct {
	Raw     any    `json:"raw" yaml:"raw"`
	Display string `json:"display" yaml:"display"`
	Empty   bool   `json:"empty" yaml:"empty"`
}

// DisplayCard is a render-ready metric. Paired cards set Celsius and
// Fahrenheit; single cards set Value.
type DisplayCard struct {
	Kind       CardKind   `json:"kind" yaml:"kind"`
	Key        string     `json:"key" yaml:"key"`
	Label      string     `json:"label" yaml:"label"`
	Icon       string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Celsius    *CardValue `json:"celsius,omitempty" yaml:"celsius,omitempty"`
	Fahrenheit *CardValue `json:"fahrenheit,omitempty" yaml:"fahrenheit,omitempty"`
	Value      *CardValue `json:"value,omitempty" yaml:"value,omitempty"`
}

// structuralKeys are never displayed as metrics.
var structuralKeys = map[string]bool{
	"sources":   true,
	"lat":       true,
	"lon":       true,
	"latitude":  true,
	"longitude": true,
}

// Normalize turns a feature map into display cards. Celsius keys (other than
// air temperature, which arrives already merged) are paired with their
// Fahrenheit counterparts and emitted first; every remaining scalar metric
// follows as a single card. Both groups keep the map's key order. With
// hideEmpty set, pairs whose two values are empty and singles whose value is
// empty are dropped.
func Normalize(features *FeatureMap, hideEmpty bool) []DisplayCard {
	keys := features.Keys()
	consumed := make(map[string]bool)
	cards := make([]DisplayCard, 0, len(keys))

	for _, key := range keys {
		if !isPairableCelsiusKey(key) {
			continue
		}
		fKey := strings.Replace(key, "celsius", "fahrenheit", 1)
		consumed[key] = true
		consumed[fKey] = true

		cVal, _ := features.Get(key)
		fVal, _ := features.Get(fKey)
		if hideEmpty && IsEmptyValue(cVal) && IsEmptyValue(fVal) {
			continue
		}
		cards = append(cards, DisplayCard{
			Kind:       CardPaired,
			Key:        key,
			Label:      pairedLabel(key),
			Icon:       pairedIcon(key),
			Celsius:    newCardValue(cVal),
			Fahrenheit: newCardValue(fVal),
		})
	}

	for _, key := range keys {
		if consumed[key] || strings.Contains(key, "fahrenheit") || structuralKeys[key] {
			continue
		}
		val, _ := features.Get(key)
		if !isScalarValue(val) {
			continue
		}
		if hideEmpty && IsEmptyValue(val) {
			continue
		}
		label, icon := MetricLabel(key)
		cards = append(cards, DisplayCard{
			Kind:  CardSingle,
			Key:   key,
			Label: label,
			Icon:  icon,
			Value: newCardValue(val),
		})
	}
	return cards
}

func isPairableCelsiusKey(key string) bool {
	return strings.Contains(key, "celsius") &&
		!strings.Contains(key, "temp_2m") &&
		!strings.Contains(key, "air_temp")
}

// isScalarValue reports whether v can stand alone on a card. Nested maps,
// arrays and null never get one.
func isScalarValue(v any) bool {
	switch v.(type) {
	case nil, *FeatureMap, map[string]any, []any:
		return false
	default:
		return true
	}
}

func newCardValue(v any) *CardValue {
	return &CardValue{
		Raw:     v,
		Display: FormatMetricValue(v),
		Empty:   IsEmptyValue(v),
	}
}

func pairedLabel(celsiusKey string) string {
	name := strings.Replace(celsiusKey, "_celsius", "", 1)
	return titleCase(strings.ReplaceAll(name, "_", " "))
}

func pairedIcon(celsiusKey string) string {
	if strings.Contains(celsiusKey, "sea") {
		return "🌊"
	}
	return "🌡️"
}
