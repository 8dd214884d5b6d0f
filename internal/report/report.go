// Package report renders station snapshots for people: console summaries,
// an HTML dashboard, and an interactive Leaflet map.
package report

import (
	"sort"

	"github.com/minzi-dev/floodwatch/internal/domain"
)

// displayOrder sorts stations from worst to best for reports. Sentinel
// statuses trail the classifiable ones.
var displayOrder = map[domain.Status]int{
	domain.StatusMajorFlood: 0,
	domain.StatusMinorFlood: 1,
	domain.StatusAlert:      2,
	domain.StatusNormal:     3,
	domain.StatusNoData:     4,
	domain.StatusUnknown:    5,
}

func statusIcon(s domain.Status) string {
	switch s {
	case domain.StatusMajorFlood:
		return "🔴"
	case domain.StatusMinorFlood:
		return "🟠"
	case domain.StatusAlert:
		return "🟡"
	case domain.StatusNormal:
		return "🟢"
	case domain.StatusNoData:
		return "⚪"
	default:
		return "❓"
	}
}

func statusShort(s domain.Status) string {
	switch s {
	case domain.StatusMajorFlood:
		return "MAJOR"
	case domain.StatusMinorFlood:
		return "MINOR"
	case domain.StatusAlert:
		return "ALERT"
	case domain.StatusNormal:
		return "OK"
	case domain.StatusNoData:
		return "NO DATA"
	default:
		return "UNKNOWN"
	}
}

// statusClass maps a status to the CSS class used by the dashboard.
func statusClass(s domain.Status) string {
	switch s {
	case domain.StatusMajorFlood:
		return "major"
	case domain.StatusMinorFlood:
		return "minor"
	case domain.StatusAlert:
		return "alert"
	case domain.StatusNormal:
		return "normal"
	default:
		return "nodata"
	}
}

// basinGroup is one river basin's stations, worst first.
type basinGroup struct {
	Name     string
	Worst    domain.Status
	Stations []domain.StationRecord
}

// groupByBasin buckets records by basin, orders each basin's stations worst
// first, and orders basins by their worst status.
func groupByBasin(records []domain.StationRecord) []basinGroup {
	byName := make(map[string][]domain.StationRecord)
	for _, r := range records {
		basin := r.Basin
		if basin == "" {
			basin = "Unknown"
		}
		byName[basin] = append(byName[basin], r)
	}

	groups := make([]basinGroup, 0, len(byName))
	for name, stations := range byName {
		sort.SliceStable(stations, func(i, j int) bool {
			return displayOrder[stations[i].Status] < displayOrder[stations[j].Status]
		})
		groups = append(groups, basinGroup{
			Name:     name,
			Worst:    stations[0].Status,
			Stations: stations,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if displayOrder[groups[i].Worst] != displayOrder[groups[j].Worst] {
			return displayOrder[groups[i].Worst] < displayOrder[groups[j].Worst]
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}
