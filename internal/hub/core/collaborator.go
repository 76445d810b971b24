package core

import (
	"context"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// TextGenerator is the external text-generation collaborator. Every call
// site has a deterministic fallback string; a single failed attempt falls
// back immediately, there is no retry.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VoiceDispatcher hands a vehicle off to the external telephony gateway.
// The gateway plays its audio cues and posts HTTP callbacks to the hub; the
// only shared state is the identifier and risk level passed here.
type VoiceDispatcher interface {
	Dispatch(ctx context.Context, vehicleID string, risk model.RiskLevel) error
}

// ReportStore keeps uploaded post-service reports in object storage.
type ReportStore interface {
	// Put stores the report under the key and returns the object key used.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// PresignedURL returns a time-limited download URL for a stored report.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ConsistencyChecker supplies the synthetic data-consistency score the
// auditor folds into its rule penalties. The default implementation is a
// seeded random placeholder; a real cross-component check can be swapped in
// without touching the auditor.
type ConsistencyChecker interface {
	Check(vehicleID string) float64
}

// Responder simulates the customer-response channel the workflow router
// consults. A real channel (app push, voice DTMF) can replace it without
// touching the router.
type Responder interface {
	// WantsBooking answers whether the customer accepts scheduling at the
	// given risk level.
	WantsBooking(risk model.RiskLevel) bool

	// ServiceFeedback produces the post-service rating and comment.
	ServiceFeedback(vehicleName string) (rating float64, comment string)
}
