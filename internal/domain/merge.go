package domain

// Merge overlays a live weather reading onto a narrative record. Weather keys
// always win; every other feature is left as received. A nil reading returns
// the record unchanged. The input record is never modified.
func Merge(record NarrativeRecord, weather *WeatherReading) NarrativeRecord {
	if weather == nil {
		return record
	}

	features := record.Features.Clone()
	if features == nil {
		features = NewFeatureMap()
	}
	for _, f := range weather.features() {
		features.Set(f.key, f.value)
	}

	record.Features = features
	return record
}
