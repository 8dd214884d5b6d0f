package domain

import "sort"

// Nearest returns the n closest stations to a point, ascending by
// great-circle distance. Stations without coordinates are excluded.
// Ties keep original input order (stable sort). Fewer than n qualifying
// stations is not an error; all of them are returned.
func Nearest(point Coordinate, stations []StationRecord, n int) []RankedStation {
	ranked := rankByDistance(point, stations)
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// rankByDistance computes distances for every station with a
// coordinate and sorts ascending, stable.
func rankByDistance(point Coordinate, stations []StationRecord) []RankedStation {
	ranked := make([]RankedStation, 0, len(stations))
	for _, s := range stations {
		if s.Location == nil {
			continue
		}
		ranked = append(ranked, RankedStation{
			StationRecord: s,
			DistanceKm:    DistanceKm(point, *s.Location),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
