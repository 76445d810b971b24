package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// ratingOutlierDelta is how far a vehicle's mean rating may deviate from
// the fleet mean before it is flagged.
const ratingOutlierDelta = 1.5

// Insights builds the manufacturer analytics report: feedback aggregates,
// defect trends, RCA/CAPA summary, rating outliers and a composed
// narrative.
func (s *Service) Insights(ctx context.Context) (*model.InsightReport, error) {
	feedback, err := s.feedback.All(ctx)
	if err != nil {
		return nil, err
	}
	defects, err := s.defects.All(ctx)
	if err != nil {
		return nil, err
	}
	rca, err := s.rca.All(ctx)
	if err != nil {
		return nil, err
	}

	r := &model.InsightReport{
		FeedbackCount:  len(feedback),
		PerVehicleMean: map[string]float64{},
		RCASummary:     map[string][]string{},
	}

	if len(feedback) > 0 {
		var ratingSum, sentimentSum float64
		perVehicleSum := map[string]float64{}
		perVehicleN := map[string]int{}
		for _, fb := range feedback {
			ratingSum += fb.Rating
			sentimentSum += fb.Sentiment
			perVehicleSum[fb.VehicleName] += fb.Rating
			perVehicleN[fb.VehicleName]++
		}
		r.MeanRating = ratingSum / float64(len(feedback))
		r.MeanSentiment = sentimentSum / float64(len(feedback))

		for name, sum := range perVehicleSum {
			mean := sum / float64(perVehicleN[name])
			r.PerVehicleMean[name] = mean
			if mean < lowRatingThreshold {
				r.LowRated = append(r.LowRated, name)
			}
			if math.Abs(mean-r.MeanRating) >= ratingOutlierDelta {
				r.OutlierVehicles = append(r.OutlierVehicles, name)
			}
		}
		sort.Strings(r.LowRated)
		sort.Strings(r.OutlierVehicles)
	}

	r.TopDefects = topDefectTrends(defects, 3)

	for _, rec := range rca {
		r.RCASummary[rec.Issue] = append(r.RCASummary[rec.Issue], rec.CorrectiveAction)
	}

	r.Text = composeInsightText(r, len(rca))
	return r, nil
}

func topDefectTrends(defects []model.Defect, n int) []model.DefectTrend {
	counts := map[[2]string]int{}
	for _, d := range defects {
		counts[[2]string{d.Type, d.Severity}]++
	}

	trends := make([]model.DefectTrend, 0, len(counts))
	for key, c := range counts {
		trends = append(trends, model.DefectTrend{Type: key[0], Severity: key[1], Count: c})
	}
	sort.Slice(trends, func(a, b int) bool {
		if trends[a].Count != trends[b].Count {
			return trends[a].Count > trends[b].Count
		}
		if trends[a].Type != trends[b].Type {
			return trends[a].Type < trends[b].Type
		}
		return trends[a].Severity < trends[b].Severity
	})
	if len(trends) > n {
		trends = trends[:n]
	}
	return trends
}

func composeInsightText(r *model.InsightReport, rcaCount int) string {
	var b strings.Builder

	if r.FeedbackCount == 0 {
		b.WriteString("No customer feedback recorded yet.\n")
	} else {
		fmt.Fprintf(&b, "Fleet satisfaction: %.2f mean rating over %d responses (mean sentiment %.2f).\n",
			r.MeanRating, r.FeedbackCount, r.MeanSentiment)
		if len(r.LowRated) > 0 {
			fmt.Fprintf(&b, "Vehicles below rating threshold: %s.\n", strings.Join(r.LowRated, ", "))
		}
		if len(r.OutlierVehicles) > 0 {
			fmt.Fprintf(&b, "Rating outliers vs fleet mean: %s.\n", strings.Join(r.OutlierVehicles, ", "))
		}
	}

	if len(r.TopDefects) > 0 {
		parts := make([]string, 0, len(r.TopDefects))
		for _, t := range r.TopDefects {
			parts = append(parts, fmt.Sprintf("%s/%s (%d)", t.Type, t.Severity, t.Count))
		}
		fmt.Fprintf(&b, "Top defect trends: %s.\n", strings.Join(parts, ", "))
	}

	if rcaCount == 0 {
		b.WriteString("No RCA/CAPA records available.")
	} else {
		fmt.Fprintf(&b, "%d RCA/CAPA records cover %d distinct issues.", rcaCount, len(r.RCASummary))
	}
	return b.String()
}
