package arcgis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minzi-dev/floodwatch/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string, pageSize int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		pageSize:   pageSize,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func writeFeatures(t *testing.T, w http.ResponseWriter, features []feature) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	require.NoError(t, json.NewEncoder(w).Encode(queryResponse{Features: features}))
}

func fptr(v float64) *float64 { return &v }

func TestClient_FetchStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "hydrostations/FeatureServer/0/query")
		assert.Equal(t, "1=1", r.URL.Query().Get("where"))
		assert.Equal(t, "*", r.URL.Query().Get("outFields"))
		assert.Equal(t, "true", r.URL.Query().Get("returnGeometry"))
		assert.Equal(t, "4326", r.URL.Query().Get("outSR"))

		writeFeatures(t, w, []feature{
			{
				Attributes: map[string]any{"station": "Hanwella", "basin": " Kelani Ganga "},
				Geometry:   &geometry{X: fptr(80.083), Y: fptr(6.909)},
			},
			{
				Attributes: map[string]any{"station": "NoCoords", "basin": "Kalu Ganga"},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	stations, err := c.FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "Hanwella", stations[0].Name)
	assert.Equal(t, "Kelani Ganga", stations[0].Basin)
	require.NotNil(t, stations[0].Location)
	assert.Equal(t, 6.909, stations[0].Location.Lat)
	assert.Equal(t, 80.083, stations[0].Location.Lon)

	assert.Nil(t, stations[1].Location)
}

func TestClient_FetchReadings(t *testing.T) {
	observed := time.Date(2025, 11, 29, 9, 39, 5, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gauges_2_view/FeatureServer/0/query")
		assert.Equal(t, readingWindow, r.URL.Query().Get("where"))
		assert.Equal(t, "CreationDate DESC", r.URL.Query().Get("orderByFields"))
		assert.Equal(t, "8000", r.URL.Query().Get("resultRecordCount"))
		assert.Equal(t, "false", r.URL.Query().Get("returnGeometry"))

		writeFeatures(t, w, []feature{
			{
				Attributes: map[string]any{
					"gauge":        "Hanwella",
					"water_level":  10.81,
					"alertpull":    7.5,
					"minorpull":    "9",
					"majorpull":    10.0,
					"CreationDate": float64(observed.UnixMilli()),
				},
			},
			{
				Attributes: map[string]any{"gauge": "Silent", "water_level": nil},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	readings, err := c.FetchReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	r := readings[0]
	assert.Equal(t, "Hanwella", r.Key)
	require.NotNil(t, r.WaterLevelRaw)
	assert.Equal(t, "10.81", *r.WaterLevelRaw)
	require.NotNil(t, r.AlertRaw)
	assert.Equal(t, "7.5", *r.AlertRaw)
	require.NotNil(t, r.MinorRaw)
	assert.Equal(t, "9", *r.MinorRaw)
	require.NotNil(t, r.MajorRaw)
	assert.Equal(t, "10", *r.MajorRaw)
	require.NotNil(t, r.ObservedAt)
	assert.Equal(t, observed, *r.ObservedAt)

	assert.Nil(t, readings[1].WaterLevelRaw)
	assert.Nil(t, readings[1].ObservedAt)
}

func TestClient_FetchReadings_ZeroTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFeatures(t, w, []feature{
			{Attributes: map[string]any{"gauge": "Hanwella", "CreationDate": float64(0)}},
			{Attributes: map[string]any{"gauge": "Ellagawa", "CreationDate": float64(-1)}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	readings, err := c.FetchReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	// A zero or negative epoch is absent, not 1970.
	assert.Nil(t, readings[0].ObservedAt)
	assert.Nil(t, readings[1].ObservedAt)
}

func TestClient_FetchRivers_Paginated(t *testing.T) {
	pages := [][]feature{
		{
			{
				Attributes: map[string]any{"FID": float64(1)},
				Geometry:   &geometry{Paths: [][][]float64{{{80.0, 6.9}, {80.1, 6.95}}}},
			},
			{
				Attributes: map[string]any{"FID": float64(2)},
				Geometry:   &geometry{Paths: [][][]float64{{{80.2, 7.0}}}},
			},
		},
		{
			{
				Attributes: map[string]any{"FID": float64(3)},
				Geometry:   &geometry{Paths: [][][]float64{{{80.3, 7.1}}}},
			},
		},
	}

	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "rivers/FeatureServer/0/query")
		assert.Equal(t, "FID", r.URL.Query().Get("outFields"))
		offsets = append(offsets, r.URL.Query().Get("resultOffset"))

		page := len(offsets) - 1
		if page >= len(pages) {
			writeFeatures(t, w, nil)
			return
		}
		writeFeatures(t, w, pages[page])
	}))
	defer srv.Close()

	c := testClient(srv.URL, 2)
	rivers, err := c.FetchRivers(context.Background())
	require.NoError(t, err)

	// Second page is short, so no third request.
	assert.Equal(t, []string{"0", "2"}, offsets)

	require.Len(t, rivers, 3)
	assert.Equal(t, 1, rivers[0].FID)
	assert.Equal(t, [][2]float64{{80.0, 6.9}, {80.1, 6.95}}, rivers[0].Points)
	assert.Equal(t, 3, rivers[2].FID)
}

func TestClient_FetchRivers_FullLastPage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("resultOffset") == "0" {
			writeFeatures(t, w, []feature{
				{
					Attributes: map[string]any{"FID": float64(1)},
					Geometry:   &geometry{Paths: [][][]float64{{{80.0, 6.9}, {80.1, 6.95}}}},
				},
			})
			return
		}
		writeFeatures(t, w, nil)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1)
	rivers, err := c.FetchRivers(context.Background())
	require.NoError(t, err)
	require.Len(t, rivers, 1)
	assert.Equal(t, 2, requests)
}

func TestClient_FetchRivers_MultipartPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFeatures(t, w, []feature{
			{
				Attributes: map[string]any{"FID": float64(7)},
				Geometry: &geometry{Paths: [][][]float64{
					{{80.0, 6.90}, {80.1, 6.95}},
					{{80.5, 7.50}, {80.6, 7.55}},
					{},
				}},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	rivers, err := c.FetchRivers(context.Background())
	require.NoError(t, err)

	// Disjoint parts stay separate polylines; the empty part is dropped.
	require.Len(t, rivers, 2)
	assert.Equal(t, 7, rivers[0].FID)
	assert.Equal(t, [][2]float64{{80.0, 6.90}, {80.1, 6.95}}, rivers[0].Points)
	assert.Equal(t, 7, rivers[1].FID)
	assert.Equal(t, [][2]float64{{80.5, 7.50}, {80.6, 7.55}}, rivers[1].Points)
}

func TestClient_EmbeddedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		resp := queryResponse{Error: &queryError{Code: 400, Message: "Invalid query parameters"}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	_, err := c.FetchStations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query parameters")
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	_, err := c.FetchReadings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 1000)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchStations(context.Background())
	require.Error(t, err)
}
