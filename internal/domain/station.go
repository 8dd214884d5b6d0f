package domain

import "time"

// Status is the flood-severity tier of a single monitoring station.
type Status string

const (
	StatusNormal     Status = "NORMAL"
	StatusAlert      Status = "ALERT"
	StatusMinorFlood Status = "MINOR_FLOOD"
	StatusMajorFlood Status = "MAJOR_FLOOD"
	StatusNoData     Status = "NO_DATA"
	StatusUnknown    Status = "UNKNOWN"
)

// severityRank orders classifiable tiers for worst-status scans.
// NO_DATA and UNKNOWN are deliberately absent: they never outrank a
// measured tier.
var severityRank = map[Status]int{
	StatusNormal:     1,
	StatusAlert:      2,
	StatusMinorFlood: 3,
	StatusMajorFlood: 4,
}

// Classifiable reports whether the status carries a measured severity.
func (s Status) Classifiable() bool {
	_, ok := severityRank[s]
	return ok
}

// Flooding reports whether the station is actively flooding.
func (s Status) Flooding() bool {
	return s == StatusMajorFlood || s == StatusMinorFlood
}

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationMeta is one entry from the hydrostations layer: display name,
// river basin label, and point geometry. Location is nil when the
// upstream geometry is malformed.
type StationMeta struct {
	Name     string
	Basin    string
	Location *Coordinate
}

// Reading is one gauge row as fetched from the gauges layer. The raw
// fields preserve exactly what upstream sent (null, numeric, or
// arbitrary string) so that parsing failures can collapse to sentinel
// statuses instead of faults.
type Reading struct {
	Key           string // join key, usually but not always the station name
	WaterLevelRaw *string
	AlertRaw      *string
	MinorRaw      *string
	MajorRaw      *string
	ObservedAt    *time.Time
}

// Thresholds holds the three alert levels attached to a reading.
// Individual fields are nil when upstream omitted or mangled them.
type Thresholds struct {
	Alert *float64 `json:"alert"`
	Minor *float64 `json:"minor"`
	Major *float64 `json:"major"`
}

// StationRecord is the canonical per-station snapshot produced by the
// join engine. Records are value objects: built once per snapshot and
// never mutated afterwards.
type StationRecord struct {
	Name       string      `json:"name"`
	Basin      string      `json:"basin"`
	Location   *Coordinate `json:"location,omitempty"`
	Status     Status      `json:"status"`
	WaterLevel *float64    `json:"water_level,omitempty"`
	Thresholds *Thresholds `json:"thresholds,omitempty"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

// RankedStation is a station record paired with its great-circle
// distance from a query point.
type RankedStation struct {
	StationRecord
	DistanceKm float64 `json:"distance_km"`
}

// RiverPath is one polyline segment of river geometry, used only for
// map rendering. Points are [lon, lat] pairs as delivered by the
// upstream feature service.
type RiverPath struct {
	FID    int
	Points [][2]float64
}
