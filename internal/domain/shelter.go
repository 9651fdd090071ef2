package domain

import "sort"

// Shelter is a static shelter location with capacity and accessibility
// attributes. The core only reads these; the backing store owns them.
type Shelter struct {
	Name            string  `json:"name"`
	Address         string  `json:"address,omitempty"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	CapacityTotal   *int    `json:"capacity_total,omitempty"`
	CapacityCurrent *int    `json:"capacity_current,omitempty"`
	AcceptsPets     bool    `json:"accepts_pets"`
	ADAAccessible   bool    `json:"ada_accessible"`
	Status          string  `json:"status"` // open | closed
	DistanceMiles   float64 `json:"distance_miles"`
}

// NearbyShelters filters shelters to those within radiusMiles of the
// query point and returns them sorted ascending by distance.
func NearbyShelters(shelters []Shelter, lat, lon, radiusMiles float64) []Shelter {
	var out []Shelter
	for _, s := range shelters {
		d := HaversineMiles(lat, lon, s.Lat, s.Lon)
		if d > radiusMiles {
			continue
		}
		s.DistanceMiles = d
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMiles < out[j].DistanceMiles
	})
	return out
}
