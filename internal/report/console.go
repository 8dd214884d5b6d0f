package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minzi-dev/floodwatch/internal/domain"
)

const rule = "======================================================================"

// WriteSummary prints the live status report: counts, active flooding, and
// a per-basin breakdown.
func WriteSummary(w io.Writer, records []domain.StationRecord, generatedAt time.Time) {
	sum := domain.Summarize(records)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  SRI LANKA FLOOD MONITORING - LIVE STATUS")
	fmt.Fprintf(w, "  Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  SUMMARY: %d stations monitored\n", sum.TotalStations)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    🔴 MAJOR FLOOD:  %3d stations\n", sum.MajorFlood)
	fmt.Fprintf(w, "    🟠 MINOR FLOOD:  %3d stations\n", sum.MinorFlood)
	fmt.Fprintf(w, "    🟡 ALERT:        %3d stations\n", sum.Alert)
	fmt.Fprintf(w, "    🟢 NORMAL:       %3d stations\n", sum.Normal)
	fmt.Fprintln(w)

	if len(sum.Flooding) > 0 {
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "  ⚠️  ACTIVE FLOODING")
		fmt.Fprintln(w, rule)
		for _, s := range sum.Flooding {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s %s\n", statusIcon(s.Status), s.Name)
			fmt.Fprintf(w, "     Basin: %s\n", s.Basin)
			fmt.Fprintf(w, "     Water Level: %s m (major threshold: %s m)\n",
				levelText(s.WaterLevel), thresholdText(s.Thresholds))
			fmt.Fprintf(w, "     Last Update: %s\n", updatedText(s.UpdatedAt))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  STATUS BY RIVER BASIN")
	fmt.Fprintln(w, rule)
	for _, g := range groupByBasin(records) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s\n", statusIcon(g.Worst), g.Name)
		fmt.Fprintf(w, "     %s\n", strings.Repeat("-", 50))
		for _, s := range g.Stations {
			label := statusIcon(s.Status) + " " + statusShort(s.Status)
			wl := "-"
			if s.WaterLevel != nil {
				wl = fmt.Sprintf("%.2fm", *s.WaterLevel)
			}
			fmt.Fprintf(w, "     %-25s %-12s %s\n", s.Name, label, wl)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Data source: Sri Lanka Irrigation Department (via ArcGIS)")
	fmt.Fprintln(w, "  ⚠️  UNOFFICIAL - For guidance only. Follow official govt alerts.")
	fmt.Fprintln(w, rule)
}

// WriteRisk prints a point risk assessment with its nearby stations.
func WriteRisk(w io.Writer, a domain.RiskAssessment) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  FLOOD RISK at %.4f, %.4f (radius %.0f km)\n", a.Point.Lat, a.Point.Lon, a.RadiusKm)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  RISK LEVEL: %s\n", a.Level)
	fmt.Fprintf(w, "  %s\n", a.Summary)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", a.Advice)

	if len(a.Nearby) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  NEAREST STATIONS")
		for _, s := range a.Nearby {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s (%s)\n", s.Name, s.Basin)
			fmt.Fprintf(w, "    %.1f km away | %s %s | water level: %s\n",
				s.DistanceKm, statusIcon(s.Status), s.Status, levelText(s.WaterLevel))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

func levelText(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.2f", *v)
}

func thresholdText(t *domain.Thresholds) string {
	if t == nil || t.Major == nil {
		return "?"
	}
	return fmt.Sprintf("%.2f", *t.Major)
}

func updatedText(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02 15:04")
}
