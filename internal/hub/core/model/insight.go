package model

// DefectTrend is one (type, severity) bucket of the defect history.
type DefectTrend struct {
	Type     string `json:"defect_type"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// InsightReport is the manufacturer analytics view: feedback, defect and
// RCA/CAPA aggregates plus a composed narrative.
type InsightReport struct {
	FeedbackCount int     `json:"feedback_count"`
	MeanRating    float64 `json:"mean_rating"`
	MeanSentiment float64 `json:"mean_sentiment"`

	// PerVehicleMean maps vehicle name to its mean rating.
	PerVehicleMean map[string]float64 `json:"per_vehicle_mean"`

	// LowRated lists vehicles whose mean rating is below 3.
	LowRated []string `json:"low_rated"`

	// TopDefects holds the three most frequent defect buckets.
	TopDefects []DefectTrend `json:"top_defects"`

	// RCASummary maps an issue to its recorded corrective actions.
	RCASummary map[string][]string `json:"rca_summary"`

	// OutlierVehicles deviate from the global mean rating by 1.5 or more.
	OutlierVehicles []string `json:"outlier_vehicles"`

	// Text is the composed multi-line insight narrative.
	Text string `json:"text"`
}
