package report

import "github.com/minzi-dev/floodwatch/internal/domain"

// GeoJSON types for the river overlay.

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string             `json:"type"`
	Properties map[string]any     `json:"properties"`
	Geometry   LineStringGeometry `json:"geometry"`
}

type LineStringGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// RiversGeoJSON converts river polylines to a GeoJSON FeatureCollection.
// Paths without points are dropped.
func RiversGeoJSON(rivers []domain.RiverPath) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for _, r := range rivers {
		if len(r.Points) == 0 {
			continue
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Properties: map[string]any{"fid": r.FID},
			Geometry: LineStringGeometry{
				Type:        "LineString",
				Coordinates: r.Points,
			},
		})
	}
	return fc
}
