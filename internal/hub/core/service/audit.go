package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
)

// Scoring weights and thresholds for the interaction auditor.
const (
	mlWeight             = 0.4
	fanOutPenalty        = 0.2
	latencyPenalty       = 0.15
	consistencyPenalty   = 0.25
	fanOutThreshold      = 5
	latencyThresholdMS   = 5000.0
	consistencyThreshold = 0.8
	blockThreshold       = 0.5
)

// randomConsistency is the default ConsistencyChecker: a seeded random
// placeholder in [0.7, 1.0) standing in for a real cross-component check.
type randomConsistency struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newRandomConsistency(seed int64) *randomConsistency {
	return &randomConsistency{rnd: rand.New(rand.NewSource(seed))}
}

func (r *randomConsistency) Check(string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return 0.7 + r.rnd.Float64()*0.3
}

// Observe scores one inter-component call and appends it to the interaction
// log regardless of verdict. The outlier model contributes only once
// fitted; rule penalties always apply. Blocked means score > 0.5 but is not
// enforced here: callers decide what to do with the verdict.
func (s *Service) Observe(ctx context.Context, source, target, vehicleID, action string, payloadSize int, latencyMS float64) (*model.Verdict, error) {
	now := s.now()

	fanOut, err := s.interactions.DistinctTargets(ctx, source, now.Add(-time.Hour))
	if err != nil {
		return nil, fmt.Errorf("observe %s->%s: %w", source, target, err)
	}
	consistency := s.consistency.Check(vehicleID)

	var score float64
	var factors []string

	if s.auditScorer.Fitted() {
		decision := s.auditScorer.Decision([]float64{float64(payloadSize), latencyMS, float64(fanOut)})
		score += (1 - decision) * mlWeight
		if decision < 0 {
			factors = append(factors, "ml_outlier")
		}
	}
	if fanOut > fanOutThreshold {
		score += fanOutPenalty
		factors = append(factors, "high_fan_out")
	}
	if latencyMS > latencyThresholdMS {
		score += latencyPenalty
		factors = append(factors, "high_latency")
	}
	if consistency < consistencyThreshold {
		score += consistencyPenalty
		factors = append(factors, "low_consistency")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	blocked := score > blockThreshold

	entry := &model.Interaction{
		ID:           s.newID(),
		Timestamp:    now,
		Source:       source,
		Target:       target,
		VehicleID:    vehicleID,
		Action:       action,
		PayloadSize:  payloadSize,
		LatencyMS:    latencyMS,
		FanOut:       fanOut,
		Consistency:  consistency,
		AnomalyScore: score,
		Blocked:      blocked,
	}
	if err := s.interactions.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("observe %s->%s: %w", source, target, err)
	}

	if blocked {
		metrics.InteractionsBlockedTotal.Inc()
		s.appendSecurityEvent(ctx, vehicleID, source,
			fmt.Sprintf("interaction %s->%s blocked (score %.2f)", source, target, score), "blocked")
	}

	return &model.Verdict{Allowed: !blocked, AnomalyScore: score, RiskFactors: factors}, nil
}

// Quarantine retroactively marks every historical interaction from the
// component as blocked. This is the only manual override.
func (s *Service) Quarantine(ctx context.Context, component string) (int, error) {
	n, err := s.interactions.BlockBySource(ctx, component)
	if err != nil {
		return 0, fmt.Errorf("quarantine %s: %w", component, err)
	}
	s.appendSecurityEvent(ctx, "", component,
		fmt.Sprintf("component quarantined, %d interactions blocked", n), "quarantine")
	s.log.Warn("component quarantined", "component", component, "blocked", n)
	return n, nil
}

// AuditDashboard summarizes the interaction log for the security view.
func (s *Service) AuditDashboard(ctx context.Context, recentN int) (*model.AuditDashboard, error) {
	all, err := s.interactions.All(ctx)
	if err != nil {
		return nil, err
	}

	d := &model.AuditDashboard{Total: len(all)}
	if len(all) == 0 {
		return d, nil
	}

	var sum float64
	bySource := map[string]int{}
	for _, in := range all {
		sum += in.AnomalyScore
		bySource[in.Source]++
		if in.Blocked {
			d.Blocked++
		}
		if in.AnomalyScore > blockThreshold {
			d.Suspicious++
		}
	}
	d.MeanScore = sum / float64(len(all))

	best := 0
	for src, n := range bySource {
		if n > best || (n == best && src < d.Busiest) {
			best = n
			d.Busiest = src
		}
	}

	recent, err := s.interactions.Recent(ctx, recentN)
	if err != nil {
		return nil, err
	}
	d.Recent = recent
	return d, nil
}

func (s *Service) appendSecurityEvent(ctx context.Context, vehicleName, source, message, status string) {
	if s.securityLog == nil {
		return
	}
	ev := &model.SecurityEvent{
		Timestamp:   s.now(),
		VehicleName: vehicleName,
		Source:      source,
		Message:     message,
		Status:      status,
	}
	if err := s.securityLog.Append(ctx, ev); err != nil {
		s.log.Error(err, "append security log", "source", source)
	}
}

// LogSecurityEvent records an externally reported security event.
func (s *Service) LogSecurityEvent(ctx context.Context, vehicleName, source, message, status string) {
	s.appendSecurityEvent(ctx, vehicleName, source, message, status)
}

// BehavioralRisks scores vehicles by their security-log activity: 0.3 per
// event plus 0.7 per blocked event, highest first.
func (s *Service) BehavioralRisks(ctx context.Context) ([]model.BehavioralRisk, error) {
	events, err := s.securityLog.All(ctx)
	if err != nil {
		return nil, err
	}

	type counts struct{ total, blocked int }
	byVehicle := map[string]*counts{}
	for _, ev := range events {
		if ev.VehicleName == "" {
			continue
		}
		c := byVehicle[ev.VehicleName]
		if c == nil {
			c = &counts{}
			byVehicle[ev.VehicleName] = c
		}
		c.total++
		if ev.Status == "blocked" {
			c.blocked++
		}
	}

	out := make([]model.BehavioralRisk, 0, len(byVehicle))
	for name, c := range byVehicle {
		out = append(out, model.BehavioralRisk{
			VehicleName: name,
			Score:       0.3*float64(c.total) + 0.7*float64(c.blocked),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].VehicleName < out[b].VehicleName
	})
	return out, nil
}
