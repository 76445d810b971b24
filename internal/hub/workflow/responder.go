package workflow

import (
	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// SimulatedResponder is the stand-in customer-response channel: medium and
// above accept a booking, and every service visit gets the same favorable
// rating. Swap in a real channel by implementing core.Responder.
type SimulatedResponder struct{}

func (SimulatedResponder) WantsBooking(risk model.RiskLevel) bool {
	return risk.Rank() >= model.RiskMedium.Rank()
}

func (SimulatedResponder) ServiceFeedback(string) (float64, string) {
	return 4.5, "Service was quick and the issue seems resolved."
}
