package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/minzi-dev/floodwatch/internal/config"
	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/observability"
)

// Layer names on the Irrigation Department feature service.
const (
	stationsLayer = "hydrostations"
	gaugesLayer   = "gauges_2_view"
	riversLayer   = "rivers"
)

// The gauges layer keeps readings indefinitely; only the last day is live.
const readingWindow = "CreationDate BETWEEN CURRENT_TIMESTAMP - 24 AND CURRENT_TIMESTAMP"

// Client fetches station metadata, gauge readings, and river geometry
// from an ArcGIS feature service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a feature service client from the service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		baseURL:  cfg.ArcGISBaseURL,
		pageSize: cfg.RiverPageSize,
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchStations returns all monitoring stations with coordinates.
func (c *Client) FetchStations(ctx context.Context) ([]domain.StationMeta, error) {
	params := url.Values{
		"f":              {"json"},
		"where":          {"1=1"},
		"outFields":      {"*"},
		"returnGeometry": {"true"},
		"outSR":          {"4326"},
	}

	resp, err := c.query(ctx, stationsLayer, params)
	if err != nil {
		return nil, err
	}

	stations := make([]domain.StationMeta, 0, len(resp.Features))
	for _, f := range resp.Features {
		meta := domain.StationMeta{
			Name:  stringAttr(f.Attributes, "station"),
			Basin: strings.TrimSpace(stringAttr(f.Attributes, "basin")),
		}
		if f.Geometry != nil && f.Geometry.X != nil && f.Geometry.Y != nil {
			meta.Location = &domain.Coordinate{Lat: *f.Geometry.Y, Lon: *f.Geometry.X}
		}
		stations = append(stations, meta)
	}

	c.logger.Debug("fetched stations", "count", len(stations))
	return stations, nil
}

// FetchReadings returns all gauge readings from the last 24 hours,
// newest first. Deduplication to one reading per gauge happens downstream.
func (c *Client) FetchReadings(ctx context.Context) ([]domain.Reading, error) {
	params := url.Values{
		"f":                 {"json"},
		"where":             {readingWindow},
		"outFields":         {"*"},
		"orderByFields":     {"CreationDate DESC"},
		"resultRecordCount": {"8000"},
		"returnGeometry":    {"false"},
	}

	resp, err := c.query(ctx, gaugesLayer, params)
	if err != nil {
		return nil, err
	}

	readings := make([]domain.Reading, 0, len(resp.Features))
	for _, f := range resp.Features {
		readings = append(readings, domain.Reading{
			Key:           stringAttr(f.Attributes, "gauge"),
			WaterLevelRaw: rawAttr(f.Attributes, "water_level"),
			AlertRaw:      rawAttr(f.Attributes, "alertpull"),
			MinorRaw:      rawAttr(f.Attributes, "minorpull"),
			MajorRaw:      rawAttr(f.Attributes, "majorpull"),
			ObservedAt:    epochMillisAttr(f.Attributes, "CreationDate"),
		})
	}

	c.logger.Debug("fetched readings", "count", len(readings))
	return readings, nil
}

// FetchRivers returns all river polylines, paging through the layer until
// a short or empty batch signals the end.
func (c *Client) FetchRivers(ctx context.Context) ([]domain.RiverPath, error) {
	var rivers []domain.RiverPath

	offset := 0
	for {
		params := url.Values{
			"f":                 {"json"},
			"where":             {"1=1"},
			"outFields":         {"FID"},
			"returnGeometry":    {"true"},
			"outSR":             {"4326"},
			"resultOffset":      {strconv.Itoa(offset)},
			"resultRecordCount": {strconv.Itoa(c.pageSize)},
		}

		resp, err := c.query(ctx, riversLayer, params)
		if err != nil {
			return nil, err
		}
		if len(resp.Features) == 0 {
			break
		}

		for _, f := range resp.Features {
			if f.Geometry == nil {
				continue
			}
			fid := intAttr(f.Attributes, "FID")
			// Multipart polylines become one RiverPath per part so the
			// map never bridges disjoint segments.
			for _, path := range f.Geometry.Paths {
				river := domain.RiverPath{FID: fid}
				for _, pt := range path {
					if len(pt) < 2 {
						continue
					}
					river.Points = append(river.Points, [2]float64{pt[0], pt[1]})
				}
				if len(river.Points) == 0 {
					continue
				}
				rivers = append(rivers, river)
			}
		}

		if len(resp.Features) < c.pageSize {
			break
		}
		offset += c.pageSize
	}

	c.logger.Debug("fetched rivers", "count", len(rivers))
	return rivers, nil
}

func (c *Client) query(ctx context.Context, layer string, params url.Values) (*queryResponse, error) {
	fullURL := fmt.Sprintf("%s/%s/FeatureServer/0/query?%s", c.baseURL, layer, params.Encode())

	start := time.Now()
	resp, err := c.doQuery(ctx, fullURL)
	c.metrics.FetchDuration.WithLabelValues(layer).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(layer, "error").Inc()
		return nil, fmt.Errorf("%s: %w", layer, err)
	}

	c.metrics.FetchRequests.WithLabelValues(layer, "success").Inc()
	return resp, nil
}

func (c *Client) doQuery(ctx context.Context, fullURL string) (*queryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feature service error: status %d: %s", resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// The service reports query failures inside a 200 response.
	if qr.Error != nil {
		return nil, fmt.Errorf("feature service error: code %d: %s", qr.Error.Code, qr.Error.Message)
	}

	return &qr, nil
}

// ArcGIS feature service response types.

type queryResponse struct {
	Features []feature   `json:"features"`
	Error    *queryError `json:"error"`
}

type queryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type feature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *geometry      `json:"geometry"`
}

// geometry covers both point layers (x, y) and polyline layers (paths).
type geometry struct {
	X     *float64      `json:"x"`
	Y     *float64      `json:"y"`
	Paths [][][]float64 `json:"paths"`
}

func stringAttr(attrs map[string]any, key string) string {
	if s, ok := attrs[key].(string); ok {
		return s
	}
	return ""
}

// rawAttr preserves a numeric or string attribute as text; parsing and
// validation happen in the domain layer.
func rawAttr(attrs map[string]any, key string) *string {
	switch v := attrs[key].(type) {
	case string:
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

func epochMillisAttr(attrs map[string]any, key string) *time.Time {
	ms, ok := attrs[key].(float64)
	if !ok || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

func intAttr(attrs map[string]any, key string) int {
	if v, ok := attrs[key].(float64); ok {
		return int(v)
	}
	return 0
}
