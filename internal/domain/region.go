package domain

// Category groups regions by biome for display on the globe.
type Category string

const (
	CategoryForest   Category = "forest"
	CategoryOcean    Category = "ocean"
	CategoryDesert   Category = "desert"
	CategoryMountain Category = "mountain"
	CategoryCity     Category = "city"
	CategoryIce      Category = "ice"
	CategoryReef     Category = "reef"
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Region is a named geographic area tracked by the service.
type Region struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Icon        string      `json:"icon" yaml:"icon"`
	Category    Category    `json:"category" yaml:"category"`
}

// DefaultRegionID is the region selected when nothing else is configured.
const DefaultRegionID = "amazon_rainforest"

// regions is ordered by display name, matching the selector.
var regions = []Region{
	{ID: "amazon_rainforest", Name: "Amazon Rainforest", Coordinates: Coordinates{Lat: -3.4, Lon: -62.0}, Icon: "🌳", Category: CategoryForest},
	{ID: "andes_mountains", Name: "Andes Mountains", Coordinates: Coordinates{Lat: -13.16, Lon: -72.54}, Icon: "⛰️", Category: CategoryMountain},
	{ID: "antarctica_coast", Name: "Antarctica Coast", Coordinates: Coordinates{Lat: -70.0, Lon: 0.0}, Icon: "🧊", Category: CategoryIce},
	{ID: "arabian_desert", Name: "Arabian Desert", Coordinates: Coordinates{Lat: 23.42, Lon: 45.08}, Icon: "🏜️", Category: CategoryDesert},
	{ID: "arctic_circle", Name: "Arctic Circle", Coordinates: Coordinates{Lat: 66.5, Lon: 0}, Icon: "❄️", Category: CategoryIce},
	{ID: "bay_of_bengal", Name: "Bay of Bengal", Coordinates: Coordinates{Lat: 15.0, Lon: 88.0}, Icon: "🌊", Category: CategoryOcean},
	{ID: "beijing", Name: "Beijing", Coordinates: Coordinates{Lat: 39.9, Lon: 116.4}, Icon: "🏙️", Category: CategoryCity},
	{ID: "borneo_rainforest", Name: "Borneo Rainforest", Coordinates: Coordinates{Lat: 0.5, Lon: 114.0}, Icon: "🌴", Category: CategoryForest},
	{ID: "reef_sumatra", Name: "Coral Reef — Sumatra", Coordinates: Coordinates{Lat: -0.5, Lon: 100.0}, Icon: "🪸", Category: CategoryReef},
	{ID: "congo_basin", Name: "Congo Basin", Coordinates: Coordinates{Lat: -0.5, Lon: 22.0}, Icon: "🌿", Category: CategoryForest},
	{ID: "delhi_india", Name: "Delhi (India)", Coordinates: Coordinates{Lat: 28.6, Lon: 77.2}, Icon: "🏛️", Category: CategoryCity},
	{ID: "gobi_desert", Name: "Gobi Desert", Coordinates: Coordinates{Lat: 42.5, Lon: 103.5}, Icon: "🏜️", Category: CategoryDesert},
	{ID: "great_barrier_reef", Name: "Great Barrier Reef", Coordinates: Coordinates{Lat: -18.28, Lon: 147.69}, Icon: "🐠", Category: CategoryReef},
	{ID: "greenland_ice_sheet", Name: "Greenland Ice Sheet", Coordinates: Coordinates{Lat: 72.0, Lon: -40.0}, Icon: "🧊", Category: CategoryIce},
	{ID: "gulf_of_mexico", Name: "Gulf of Mexico", Coordinates: Coordinates{Lat: 25.0, Lon: -90.0}, Icon: "🌊", Category: CategoryOcean},
	{ID: "himalayas", Name: "Himalayas", Coordinates: Coordinates{Lat: 28.0, Lon: 84.0}, Icon: "🏔️", Category: CategoryMountain},
	{ID: "los_angeles", Name: "Los Angeles", Coordinates: Coordinates{Lat: 34.05, Lon: -118.24}, Icon: "🌆", Category: CategoryCity},
	{ID: "maldives_atolls", Name: "Maldives Atolls", Coordinates: Coordinates{Lat: 3.2, Lon: 73.0}, Icon: "🏝️", Category: CategoryReef},
	{ID: "new_york_city", Name: "New York City", Coordinates: Coordinates{Lat: 40.71, Lon: -74.0}, Icon: "🗽", Category: CategoryCity},
	{ID: "philippines_archipelago", Name: "Philippines Archipelago", Coordinates: Coordinates{Lat: 12.88, Lon: 121.77}, Icon: "🏝️", Category: CategoryOcean},
	{ID: "sahara_desert", Name: "Sahara Desert", Coordinates: Coordinates{Lat: 23.8, Lon: 0}, Icon: "🐪", Category: CategoryDesert},
	{ID: "tokyo_japan", Name: "Tokyo (Japan)", Coordinates: Coordinates{Lat: 35.68, Lon: 139.65}, Icon: "🗼", Category: CategoryCity},
}

var regionsByID = func() map[string]Region {
	m := make(map[string]Region, len(regions))
	for _, r := range regions {
		m[r.ID] = r
	}
	return m
}()

// Regions returns every registered region in display order. The returned
// slice is a copy and may be modified by the caller.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// LookupRegion returns the region registered under id.
func LookupRegion(id string) (Region, bool) {
	r, ok := regionsByID[id]
	return r, ok
}
