package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
)

// recommendationCache memoizes generated customer messages per
// (vehicle, customer) pair for the process lifetime. Unbounded: the roster
// is small and entries are short strings.
type recommendationCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newRecommendationCache() *recommendationCache {
	return &recommendationCache{m: map[string]string{}}
}

func (c *recommendationCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *recommendationCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// Recommend produces the customer-facing service message for a vehicle.
// The text collaborator is invoked at most once per (vehicle, customer)
// pair; failures fall back to a deterministic template with no retry.
func (s *Service) Recommend(ctx context.Context, vehicleID, customerName string) (string, error) {
	key := vehicleID + "|" + customerName
	if text, ok := s.recCache.get(key); ok {
		return text, nil
	}

	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return "", fmt.Errorf("recommend for %s: %w", vehicleID, err)
	}

	text := s.composeRecommendation(ctx, vehicle, customerName)
	s.recCache.put(key, text)
	s.logEvent(ctx, vehicle.Name, "engagement", "recommend", "message", "generated", text)
	return text, nil
}

func (s *Service) composeRecommendation(ctx context.Context, vehicle *model.Vehicle, customerName string) string {
	defect, err := s.defects.Latest(ctx, vehicle.Name)
	if err != nil {
		return fmt.Sprintf("Hello %s, your %s is in good condition. No service is required at this time.",
			customerName, vehicle.Name)
	}

	fallback := fmt.Sprintf("Hello %s, our diagnostics detected a %s issue (%s severity) on your %s. Please schedule a service visit at your earliest convenience.",
		customerName, defect.Type, defect.Severity, vehicle.Name)

	if s.textgen == nil {
		return fallback
	}

	prompt := fmt.Sprintf("Write a short, friendly maintenance notice for customer %s: vehicle %s has a reported %s defect, severity %s, description: %s. Ask them to schedule a service visit.",
		customerName, vehicle.Name, defect.Type, defect.Severity, defect.Description)

	text, err := s.textgen.Generate(ctx, prompt)
	if err != nil || text == "" {
		metrics.TextGenFallbacksTotal.Inc()
		s.log.Warn("text generation failed, using fallback", "vehicle", vehicle.ID, "err", err)
		return fallback
	}
	return text
}
