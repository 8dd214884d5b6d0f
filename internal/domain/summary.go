package domain

import "sort"

// FloodingSummary aggregates one snapshot: station counts per tier, the
// currently-flooding records, and the set of affected basins.
type FloodingSummary struct {
	TotalStations int `json:"total_stations"`
	MajorFlood    int `json:"major_flood"`
	MinorFlood    int `json:"minor_flood"`
	Alert         int `json:"alert"`
	Normal        int `json:"normal"`
	NoData        int `json:"no_data"`
	Unknown       int `json:"unknown"`

	// Flooding lists MAJOR_FLOOD then MINOR_FLOOD stations, each group
	// by water level descending.
	Flooding []StationRecord `json:"flooding_stations"`

	// AffectedBasins are the distinct basins of flooding stations,
	// sorted for deterministic output.
	AffectedBasins []string `json:"affected_basins"`
}

// Summarize computes the flooding summary for a record set.
func Summarize(records []StationRecord) FloodingSummary {
	sum := FloodingSummary{TotalStations: len(records)}

	basins := make(map[string]struct{})
	flooding := make([]StationRecord, 0)
	for _, r := range records {
		switch r.Status {
		case StatusMajorFlood:
			sum.MajorFlood++
		case StatusMinorFlood:
			sum.MinorFlood++
		case StatusAlert:
			sum.Alert++
		case StatusNormal:
			sum.Normal++
		case StatusNoData:
			sum.NoData++
		default:
			sum.Unknown++
		}
		if r.Status.Flooding() {
			flooding = append(flooding, r)
			if r.Basin != "" && r.Basin != "Unknown" {
				basins[r.Basin] = struct{}{}
			}
		}
	}

	sort.SliceStable(flooding, func(i, j int) bool {
		if flooding[i].Status != flooding[j].Status {
			return flooding[i].Status == StatusMajorFlood
		}
		return levelOrZero(flooding[i].WaterLevel) > levelOrZero(flooding[j].WaterLevel)
	})
	sum.Flooding = flooding

	sum.AffectedBasins = make([]string, 0, len(basins))
	for b := range basins {
		sum.AffectedBasins = append(sum.AffectedBasins, b)
	}
	sort.Strings(sum.AffectedBasins)

	return sum
}

func levelOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
