package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/minzi-dev/floodwatch/internal/domain"
)

// RenderMap produces the standalone Leaflet map page with river lines and
// station markers colored by status.
func RenderMap(records []domain.StationRecord, rivers []domain.RiverPath) ([]byte, error) {
	stations := make([]mapStation, 0, len(records))
	flooding := 0
	for _, r := range records {
		if r.Location == nil {
			continue
		}
		if r.Status.Flooding() {
			flooding++
		}
		ms := mapStation{
			Name:       r.Name,
			Basin:      r.Basin,
			Lat:        r.Location.Lat,
			Lon:        r.Location.Lon,
			Status:     r.Status,
			WaterLevel: r.WaterLevel,
			Thresholds: r.Thresholds,
		}
		if r.UpdatedAt != nil {
			ms.Updated = r.UpdatedAt.Format(time.RFC3339)
		}
		stations = append(stations, ms)
	}

	var buf bytes.Buffer
	err := mapTmpl.Execute(&buf, mapData{
		Stations:      stations,
		Rivers:        RiversGeoJSON(rivers),
		FloodingCount: flooding,
	})
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	return buf.Bytes(), nil
}

type mapStation struct {
	Name       string             `json:"name"`
	Basin      string             `json:"basin"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	Status     domain.Status      `json:"status"`
	WaterLevel *float64           `json:"water_level"`
	Thresholds *domain.Thresholds `json:"thresholds"`
	Updated    string             `json:"updated,omitempty"`
}

type mapData struct {
	Stations      []mapStation
	Rivers        FeatureCollection
	FloodingCount int
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

var mapTmpl = template.Must(template.New("map").Funcs(template.FuncMap{
	"toJSON": toJSON,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sri Lanka Flood Map - Live</title>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <style>
        * { margin: 0; padding: 0; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; }
        #map { height: 100vh; width: 100%; }
        .info {
            background: white;
            padding: 12px 16px;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.2);
            max-width: 300px;
        }
        .info h4 { margin: 0 0 8px 0; font-size: 14px; }
        .legend {
            background: white;
            padding: 12px 16px;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.2);
            line-height: 24px;
        }
        .legend-item { display: flex; align-items: center; gap: 8px; }
        .legend-dot {
            width: 14px;
            height: 14px;
            border-radius: 50%;
            border: 2px solid white;
            box-shadow: 0 1px 3px rgba(0,0,0,0.3);
        }
        .popup-major { color: #dc2626; font-weight: bold; }
        .popup-minor { color: #ea580c; font-weight: bold; }
        .popup-alert { color: #ca8a04; }
        .popup-normal { color: #16a34a; }
    </style>
</head>
<body>
    <div id="map"></div>

    <script>
        // Centered on Sri Lanka.
        const map = L.map('map').setView([7.8731, 80.7718], 8);

        L.tileLayer('https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png', {
            attribution: '&copy; OpenStreetMap, &copy; CARTO',
            maxZoom: 19
        }).addTo(map);

        const rivers = {{toJSON .Rivers}};

        L.geoJSON(rivers, {
            style: {
                color: '#3b82f6',
                weight: 1.5,
                opacity: 0.6
            }
        }).addTo(map);

        const stations = {{toJSON .Stations}};
        const floodingCount = {{.FloodingCount}};

        function getColor(status) {
            switch(status) {
                case 'MAJOR_FLOOD': return '#dc2626';
                case 'MINOR_FLOOD': return '#ea580c';
                case 'ALERT': return '#eab308';
                case 'NORMAL': return '#22c55e';
                default: return '#6b7280';
            }
        }

        function getRadius(status) {
            switch(status) {
                case 'MAJOR_FLOOD': return 12;
                case 'MINOR_FLOOD': return 10;
                case 'ALERT': return 8;
                default: return 6;
            }
        }

        stations.forEach(s => {
            const color = getColor(s.status);
            const radius = getRadius(s.status);

            const statusClass = {
                'MAJOR_FLOOD': 'popup-major',
                'MINOR_FLOOD': 'popup-minor',
                'ALERT': 'popup-alert',
                'NORMAL': 'popup-normal'
            }[s.status] || '';

            const thresholds = s.thresholds ?
                ` + "`" + `<br>Thresholds: alert ${s.thresholds.alert}m, minor ${s.thresholds.minor}m, major ${s.thresholds.major}m` + "`" + ` : '';

            const updated = s.updated ? s.updated.substring(0, 16).replace('T', ' ') : 'N/A';

            L.circleMarker([s.lat, s.lon], {
                radius: radius,
                fillColor: color,
                color: '#fff',
                weight: 2,
                opacity: 1,
                fillOpacity: 0.9
            })
            .bindPopup(` + "`" + `
                <div class="info">
                    <h4>${s.name}</h4>
                    <p><strong>Basin:</strong> ${s.basin}</p>
                    <p><strong>Status:</strong> <span class="${statusClass}">${s.status}</span></p>
                    <p><strong>Water Level:</strong> ${s.water_level || 'N/A'}m${thresholds}</p>
                    <p><strong>Updated:</strong> ${updated}</p>
                </div>
            ` + "`" + `)
            .addTo(map);
        });

        const legend = L.control({position: 'bottomright'});
        legend.onAdd = function(map) {
            const div = L.DomUtil.create('div', 'legend');
            div.innerHTML = ` + "`" + `
                <div style="font-weight: bold; margin-bottom: 8px;">Flood Status</div>
                <div class="legend-item"><div class="legend-dot" style="background: #dc2626;"></div> Major Flood</div>
                <div class="legend-item"><div class="legend-dot" style="background: #ea580c;"></div> Minor Flood</div>
                <div class="legend-item"><div class="legend-dot" style="background: #eab308;"></div> Alert</div>
                <div class="legend-item"><div class="legend-dot" style="background: #22c55e;"></div> Normal</div>
                <div style="margin-top: 8px; border-top: 1px solid #ddd; padding-top: 8px;">
                    <div class="legend-item"><div style="width: 20px; height: 3px; background: #3b82f6;"></div> Rivers</div>
                </div>
            ` + "`" + `;
            return div;
        };
        legend.addTo(map);

        const title = L.control({position: 'topleft'});
        title.onAdd = function(map) {
            const div = L.DomUtil.create('div', 'info');
            div.innerHTML = ` + "`" + `
                <h4 style="font-size: 16px; margin-bottom: 4px;">🌊 Sri Lanka Flood Monitor</h4>
                <div style="color: #666; font-size: 12px;">Live data from Irrigation Dept</div>
                <div style="margin-top: 8px; font-size: 13px;">
                    <strong style="color: #dc2626;">${floodingCount} stations flooding</strong>
                </div>
                <div style="margin-top: 8px; padding: 8px; background: #fef3c7; border-radius: 4px; font-size: 11px; color: #92400e;">
                    ⚠️ Unofficial - Follow govt alerts
                </div>
            ` + "`" + `;
            return div;
        };
        title.addTo(map);
    </script>
</body>
</html>
`))
