package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/minzi-dev/floodwatch/internal/domain"
)

// RenderDashboard produces the standalone HTML status page.
func RenderDashboard(records []domain.StationRecord, generatedAt time.Time) ([]byte, error) {
	sum := domain.Summarize(records)

	data := dashboardData{
		Timestamp: generatedAt.Format("2006-01-02 15:04:05"),
		Major:     sum.MajorFlood,
		Minor:     sum.MinorFlood,
		Alert:     sum.Alert,
		Normal:    sum.Normal,
	}

	for _, s := range sum.Flooding {
		data.Flooding = append(data.Flooding, floodCard{
			Name:       s.Name,
			Basin:      s.Basin,
			Class:      statusClass(s.Status),
			Short:      statusShort(s.Status),
			WaterLevel: levelText(s.WaterLevel),
			Threshold:  thresholdText(s.Thresholds),
			Updated:    updatedText(s.UpdatedAt),
		})
	}

	for _, g := range groupByBasin(records) {
		bv := basinView{Name: g.Name, Icon: statusIcon(g.Worst)}
		for _, s := range g.Stations {
			wl := ""
			if s.WaterLevel != nil {
				wl = fmt.Sprintf("%.1fm", *s.WaterLevel)
			}
			bv.Stations = append(bv.Stations, stationView{
				Name:       s.Name,
				Class:      statusClass(s.Status),
				Short:      statusShort(s.Status),
				WaterLevel: wl,
			})
		}
		data.Basins = append(data.Basins, bv)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

type dashboardData struct {
	Timestamp string
	Major     int
	Minor     int
	Alert     int
	Normal    int
	Flooding  []floodCard
	Basins    []basinView
}

type floodCard struct {
	Name       string
	Basin      string
	Class      string
	Short      string
	WaterLevel string
	Threshold  string
	Updated    string
}

type basinView struct {
	Name     string
	Icon     string
	Stations []stationView
}

type stationView struct {
	Name       string
	Class      string
	Short      string
	WaterLevel string
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sri Lanka Flood Status - Live</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #0f172a;
            color: #e2e8f0;
            padding: 20px;
            max-width: 1200px;
            margin: 0 auto;
        }
        h1 { font-size: 1.8rem; margin-bottom: 5px; color: #fff; }
        .timestamp { color: #64748b; margin-bottom: 20px; }
        .summary {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(140px, 1fr));
            gap: 12px;
            margin-bottom: 30px;
        }
        .stat { background: #1e293b; padding: 16px; border-radius: 12px; text-align: center; }
        .stat-value { font-size: 2rem; font-weight: bold; }
        .stat-label { font-size: 0.85rem; color: #94a3b8; margin-top: 4px; }
        .major .stat-value { color: #ef4444; }
        .minor .stat-value { color: #f97316; }
        .alert .stat-value { color: #eab308; }
        .normal .stat-value { color: #22c55e; }
        .section { margin-bottom: 30px; }
        .section-title {
            font-size: 1.1rem;
            color: #94a3b8;
            margin-bottom: 12px;
            text-transform: uppercase;
            letter-spacing: 0.05em;
        }
        .flooding-list { display: flex; flex-direction: column; gap: 10px; }
        .flood-card { background: #1e293b; border-radius: 12px; padding: 16px; border-left: 4px solid; }
        .flood-card.major { border-color: #ef4444; }
        .flood-card.minor { border-color: #f97316; }
        .flood-card .name { font-weight: 600; font-size: 1.1rem; }
        .flood-card .details { color: #94a3b8; margin-top: 6px; font-size: 0.9rem; }
        .flood-card .status {
            display: inline-block;
            padding: 2px 8px;
            border-radius: 4px;
            font-size: 0.75rem;
            font-weight: 600;
            margin-left: 8px;
        }
        .flood-card .status.major { background: #450a0a; color: #fca5a5; }
        .flood-card .status.minor { background: #431407; color: #fdba74; }
        .basin-grid { display: flex; flex-direction: column; gap: 12px; }
        .basin { background: #1e293b; border-radius: 12px; padding: 16px; }
        .basin-header { font-weight: 600; margin-bottom: 10px; display: flex; align-items: center; gap: 8px; }
        .basin-stations {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
            gap: 8px;
        }
        .station {
            background: #0f172a;
            padding: 10px 12px;
            border-radius: 8px;
            font-size: 0.9rem;
            display: flex;
            justify-content: space-between;
            align-items: center;
        }
        .station-status { font-size: 0.75rem; padding: 2px 6px; border-radius: 4px; }
        .station-status.major { background: #450a0a; color: #fca5a5; }
        .station-status.minor { background: #431407; color: #fdba74; }
        .station-status.alert { background: #422006; color: #fde047; }
        .station-status.normal { background: #052e16; color: #86efac; }
        .station-status.nodata { background: #1e293b; color: #64748b; }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #334155;
            color: #64748b;
            font-size: 0.85rem;
        }
        .warning { background: #431407; color: #fdba74; padding: 12px 16px; border-radius: 8px; margin-bottom: 20px; }
    </style>
</head>
<body>
    <h1>🌊 Sri Lanka Flood Status</h1>
    <p class="timestamp">Live data as of {{.Timestamp}}</p>

    <div class="warning">
        ⚠️ UNOFFICIAL - For guidance only. Always follow official government alerts.
    </div>

    <div class="summary">
        <div class="stat major">
            <div class="stat-value">{{.Major}}</div>
            <div class="stat-label">Major Flood</div>
        </div>
        <div class="stat minor">
            <div class="stat-value">{{.Minor}}</div>
            <div class="stat-label">Minor Flood</div>
        </div>
        <div class="stat alert">
            <div class="stat-value">{{.Alert}}</div>
            <div class="stat-label">Alert</div>
        </div>
        <div class="stat normal">
            <div class="stat-value">{{.Normal}}</div>
            <div class="stat-label">Normal</div>
        </div>
    </div>
{{if .Flooding}}
    <div class="section">
        <div class="section-title">⚠️ Active Flooding</div>
        <div class="flooding-list">
{{range .Flooding}}
            <div class="flood-card {{.Class}}">
                <div class="name">{{.Name}}<span class="status {{.Class}}">{{.Short}}</span></div>
                <div class="details">
                    {{.Basin}} &bull;
                    Water: {{.WaterLevel}}m (threshold: {{.Threshold}}m) &bull;
                    Updated: {{.Updated}}
                </div>
            </div>
{{end}}
        </div>
    </div>
{{end}}
    <div class="section">
        <div class="section-title">All River Basins</div>
        <div class="basin-grid">
{{range .Basins}}
            <div class="basin">
                <div class="basin-header">{{.Icon}} {{.Name}}</div>
                <div class="basin-stations">
{{range .Stations}}
                    <div class="station">
                        <span>{{.Name}}</span>
                        <span class="station-status {{.Class}}">{{.Short}} {{.WaterLevel}}</span>
                    </div>
{{end}}
                </div>
            </div>
{{end}}
        </div>
    </div>

    <div class="footer">
        <p>Data source: Sri Lanka Irrigation Department (via ArcGIS Feature Services)</p>
        <p>This is an unofficial monitoring tool. For official flood warnings, contact the Disaster Management Centre.</p>
    </div>
</body>
</html>
`))
