// Package domain models Sri Lanka Irrigation Department hydrology data
// and implements the snapshot pipeline core: classification, the
// station/reading join, distance ranking, and point risk assessment.
//
// # Data Source
//
// All data comes from the Irrigation Department's public ArcGIS Feature
// Services (the layers behind the official flood dashboard):
//
//	hydrostations  station metadata + point geometry
//	gauges_2_view  water-level readings + alert thresholds
//	rivers         river polylines (map rendering only)
//
// # Upstream Conventions
//
// Join key:
//
//	hydrostations identifies a station by its "station" attribute,
//	gauges_2_view by its "gauge" attribute. The two usually (but not
//	always) carry the same string. Matching is exact string equality;
//	a station with no matching gauge row is NO_DATA, never an error.
//
// Readings:
//
//	One row per gauge per report. A station may appear several times
//	within the query window; only the most recent row counts. Water
//	level and the three thresholds ("alertpull", "minorpull",
//	"majorpull") arrive as JSON numbers, numeric strings, or null;
//	any missing or unparseable value classifies the station UNKNOWN.
//
// Timestamps:
//
//	ArcGIS epoch milliseconds, UTC. Zero, negative, or unparseable
//	values are treated as absent.
//
// Thresholds:
//
//	Expected monotonically increasing (alert ≤ minor ≤ major) but the
//	feed does not guarantee it. Ordering is intentionally NOT
//	validated: classification walks the comparison chain as listed
//	(water level < alert → NORMAL, < minor → ALERT, < major →
//	MINOR_FLOOD, else MAJOR_FLOOD) so behavior on malformed upstream
//	data stays compatible with the official dashboard.
//
// Geometry:
//
//	Station points in WGS-84 (outSR=4326). Entries with a blank name or
//	missing x/y are dropped entirely; they can neither be placed on a
//	map nor ranked by distance.
//
// # Error Handling
//
// The core never returns an error for data-quality problems. Missing
// and malformed values degrade to the NO_DATA/UNKNOWN sentinels at the
// parsing boundary; empty result sets yield empty lists or an UNKNOWN
// risk level. Network failures belong to the adapter layer and surface
// before any of this package runs.
package domain
