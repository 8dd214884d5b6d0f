package domain

import (
	"sort"
	"strings"
)

// LatestByKey reduces a reading batch to the most recent reading per
// join key. Readings are sorted newest-first (stable, readings without
// a timestamp last) and the first occurrence of each key wins, which
// also resolves exact-timestamp ties by original input order.
// Readings with an empty key are dropped.
func LatestByKey(readings []Reading) map[string]Reading {
	ordered := make([]Reading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].ObservedAt, ordered[j].ObservedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	latest := make(map[string]Reading, len(ordered))
	for _, r := range ordered {
		if r.Key == "" {
			continue
		}
		if _, seen := latest[r.Key]; !seen {
			latest[r.Key] = r
		}
	}
	return latest
}

// BuildRecords joins station metadata with the latest reading per join
// key, producing one canonical record per usable station. Stations with
// a blank name or missing coordinates are skipped entirely. Output
// preserves the input order of the station metadata; sorting by
// severity is a reporting concern.
func BuildRecords(stations []StationMeta, readings []Reading) []StationRecord {
	latest := LatestByKey(readings)

	records := make([]StationRecord, 0, len(stations))
	for _, meta := range stations {
		if meta.Name == "" || meta.Location == nil {
			continue
		}

		rec := StationRecord{
			Name:     meta.Name,
			Basin:    basinLabel(meta.Basin),
			Location: meta.Location,
			Status:   StatusNoData,
		}

		if reading, ok := latest[meta.Name]; ok {
			wl := ParseLevel(reading.WaterLevelRaw)
			rec.WaterLevel = wl
			rec.Thresholds = &Thresholds{
				Alert: ParseLevel(reading.AlertRaw),
				Minor: ParseLevel(reading.MinorRaw),
				Major: ParseLevel(reading.MajorRaw),
			}
			rec.UpdatedAt = reading.ObservedAt
			rec.Status = Classify(wl, rec.Thresholds.Alert, rec.Thresholds.Minor, rec.Thresholds.Major)
		}

		records = append(records, rec)
	}
	return records
}

func basinLabel(basin string) string {
	basin = strings.TrimSpace(basin)
	if basin == "" {
		return "Unknown"
	}
	return basin
}
