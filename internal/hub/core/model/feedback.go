package model

// Feedback is one post-service outcome record. Appended once, never mutated.
type Feedback struct {
	ID           string  `json:"feedback_id"`
	VehicleID    string  `json:"vehicle_id"`
	VehicleName  string  `json:"vehicle_name"`
	CustomerName string  `json:"customer_name"`
	ServiceDate  string  `json:"service_date"` // YYYY-MM-DD
	Rating       float64 `json:"user_rating"`
	Resolved     bool    `json:"issue_resolved"`
	Comments     string  `json:"comments"`

	// Sentiment is the derived polarity of Comments in [-1, +1].
	Sentiment float64 `json:"sentiment"`

	MechanicNote  string `json:"mechanic_note,omitempty"`
	ServiceCenter string `json:"service_center,omitempty"`

	// RootCauseRef is a synthetic reference into the RCA/CAPA records,
	// keyed by the recording date.
	RootCauseRef string `json:"root_cause_ref"`

	// NeedsFollowup is set when the rating is low or the vehicle risk is
	// high or critical at recording time.
	NeedsFollowup bool `json:"needs_followup"`
}

// FeedbackMetrics aggregates recorded feedback, optionally per vehicle.
type FeedbackMetrics struct {
	Count      int     `json:"count"`
	MeanRating float64 `json:"mean_rating"`
	Unresolved int     `json:"unresolved"`
	LowRatings int     `json:"low_ratings"`

	// TrailingMean is the mean rating of the last five records, 0 when
	// fewer than five exist.
	TrailingMean float64 `json:"trailing_mean"`

	// Insight is a short actionable sentence, generated or fallback.
	Insight string `json:"insight"`
}

// FollowupAlert pairs a flagged feedback record with a fresh diagnosis and
// recommendation for the service team.
type FollowupAlert struct {
	Feedback       Feedback   `json:"feedback"`
	Diagnosis      *Diagnosis `json:"diagnosis"`
	Recommendation string     `json:"recommendation"`
}

// RCARecord is one row of the root-cause / corrective-action table.
// Static reference data.
type RCARecord struct {
	Issue            string
	RootCause        string
	CorrectiveAction string
}
