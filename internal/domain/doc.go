// Package domain models the environmental narrative records served for a
// fixed set of geographic regions, and the pure transforms that turn them into
// display-ready panels.
//
// # Data Sources
//
// Narrative records come from the primary narrative service
// (GET {base}/narrative?region_id={id}). Each record carries AI-authored prose,
// an optional confidence score, a timestamp, detected events, and a loosely
// typed feature map of environmental metrics.
//
// Live weather comes from the Open-Meteo forecast API
// (GET {base}/v1/forecast?latitude=..&longitude=..&current=...). Only the
// "current" block is read: temperature_2m, relative_humidity_2m, precipitation
// and wind_speed_10m.
//
// # Feature Map Conventions
//
// Feature keys are not a fixed schema. New keys may appear upstream at any
// time, so consumers match on key patterns rather than struct fields:
//
//	<name>_celsius / <name>_fahrenheit  paired temperature readings
//	sources                             nested map of per-domain source names
//	lat, lon, latitude, longitude       structural, never displayed
//
// Key order is the order received from upstream and is preserved end to end.
//
// Sentinel values:
//
//	"data_not_found" (any case), -999 and 999 encode "no reading available".
//	They render as an em-dash and can be hidden with hideEmpty.
//
// # Weather Precedence
//
// When a live reading is available its five keys (air_temp_celsius,
// air_temp_fahrenheit, precipitation_mm_per_hour, humidity_percent,
// wind_speed_kmh) overwrite the narrative service's values. Fahrenheit is
// derived from the Celsius value after it has been rounded to one decimal:
//
//	F = round(round(C, 1) * 9/5 + 32, 1)
//
// # Narrative Sections
//
// Narrative prose is split on blank lines and each paragraph is classified by
// an ordered table of trigger phrases (see [Segment]). The first paragraph is
// always "Current State"; adjacent paragraphs with the same title are merged.
package domain
