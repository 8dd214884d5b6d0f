package domain

import "fmt"

// RiskLevel is the aggregated flood severity for a geographic point.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// DefaultRadiusKm is the search radius used when the caller does not
// supply one.
const DefaultRadiusKm = 15.0

// nearbyDisplayCount is how many nearest stations a risk assessment
// carries for display, independent of the radius filter.
const nearbyDisplayCount = 5

// RiskAssessment is the result of a point query: worst status within
// the radius, the derived risk level with advisory text, and the five
// nearest stations for display. The display list is computed by the
// ranker over all stations, not just those inside the radius, so the
// two selections can disagree.
type RiskAssessment struct {
	Point       Coordinate      `json:"point"`
	RadiusKm    float64         `json:"radius_km"`
	Level       RiskLevel       `json:"risk_level"`
	WorstStatus Status          `json:"worst_status,omitempty"`
	Summary     string          `json:"summary"`
	Advice      string          `json:"advice"`
	Nearby      []RankedStation `json:"nearby"`
}

// AssessRisk computes the flood risk for a point from the current
// station set. Stations within radiusKm are scanned in ascending
// distance order for the worst classifiable status; NO_DATA and
// UNKNOWN stations never affect the verdict. An empty or unclassifiable
// retained set yields RiskUnknown, not an error.
func AssessRisk(point Coordinate, radiusKm float64, stations []StationRecord) RiskAssessment {
	ranked := rankByDistance(point, stations)

	within := make([]RankedStation, 0, len(ranked))
	for _, rs := range ranked {
		if rs.DistanceKm <= radiusKm {
			within = append(within, rs)
		}
	}

	worst, representative := worstWithin(within)

	assessment := RiskAssessment{
		Point:       point,
		RadiusKm:    radiusKm,
		Level:       riskLevelFor(worst),
		WorstStatus: worst,
		Nearby:      nearest(ranked, nearbyDisplayCount),
	}
	assessment.Summary, assessment.Advice = summarize(assessment.Level, representative)
	return assessment
}

// worstWithin scans distance-ordered stations for the worst
// classifiable status and returns it with its representative station:
// the first station, in distance order, achieving that status. A
// MAJOR_FLOOD short-circuits the scan.
func worstWithin(within []RankedStation) (Status, *RankedStation) {
	var worst Status
	var representative *RankedStation

	for i := range within {
		s := within[i].Status
		if !s.Classifiable() {
			continue
		}
		if s == StatusMajorFlood {
			return s, &within[i]
		}
		if worst == "" || severityRank[s] > severityRank[worst] {
			worst = s
			representative = &within[i]
		}
	}
	return worst, representative
}

func riskLevelFor(worst Status) RiskLevel {
	switch worst {
	case StatusMajorFlood, StatusMinorFlood:
		return RiskHigh
	case StatusAlert:
		return RiskMedium
	case StatusNormal:
		return RiskLow
	default:
		return RiskUnknown
	}
}

func summarize(level RiskLevel, representative *RankedStation) (summary, advice string) {
	if representative == nil {
		return "No monitored stations within search radius",
			"No risk detected from monitored rivers. Stay aware of local conditions."
	}

	summary = fmt.Sprintf("%s at %s (%.1f km away)",
		representative.Status, representative.Name, representative.DistanceKm)

	switch level {
	case RiskHigh:
		advice = fmt.Sprintf("Active flooding detected nearby. If you are near %s, move to higher ground and follow official alerts.",
			basinOrRiver(representative.Basin))
	case RiskMedium:
		advice = fmt.Sprintf("Elevated water levels at %s. Monitor the situation.", representative.Name)
	default:
		advice = "No flooding at nearby monitored stations. Stay aware of local conditions."
	}
	return summary, advice
}

func basinOrRiver(basin string) string {
	if basin == "" || basin == "Unknown" {
		return "the river"
	}
	return basin
}

// nearest truncates an already-ranked list to its first n entries.
func nearest(ranked []RankedStation, n int) []RankedStation {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
