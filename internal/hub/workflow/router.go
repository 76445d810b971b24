// Package workflow sequences diagnosis, engagement, scheduling, feedback
// and emergency escalation per vehicle as an explicit finite-state machine.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/pkg/geo"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
	fsmutil "github.com/guardian-io/guardian/internal/pkg/util/fsm"
	"github.com/guardian-io/guardian/pkg/log"
)

// Router drives one workflow invocation per vehicle through the state
// machine. Collaborator errors propagate to the caller; there is no retry
// or rollback. Every inter-component dispatch is reported to the auditor
// as a side channel; the verdict is recorded, not enforced.
type Router struct {
	svc       *service.Service
	responder core.Responder
	log       log.Logger

	// Customer location used for slot distance ranking. One hub instance
	// serves one region in this deployment.
	location geo.Point
}

// New builds a router. A nil responder gets the default simulator.
func New(svc *service.Service, responder core.Responder, location geo.Point, logger log.Logger) *Router {
	if responder == nil {
		responder = SimulatedResponder{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Router{svc: svc, responder: responder, log: logger, location: location}
}

// Run executes the workflow for one vehicle until a terminal state. The
// returned state carries the audit trail and all accumulated results even
// when an error cut the run short.
func (r *Router) Run(ctx context.Context, vehicleID string) (*model.WorkflowState, error) {
	st := &model.WorkflowState{
		VehicleID: vehicleID,
		Status:    model.WorkflowRunning,
		Lat:       r.location.Lat,
		Lon:       r.location.Lon,
	}
	if v, err := r.svc.Vehicle(ctx, vehicleID); err == nil {
		st.VehicleName = v.Name
		st.CustomerID = v.CustomerID
		st.CustomerName = v.CustomerName
	} else {
		st.VehicleName = vehicleID
	}

	m := fsm.NewFSM(stateDiagnose, transitions, fsm.Callbacks{
		"before_" + eventDiagnosed:  fsmutil.WrapEvent(func(ctx context.Context, _ *fsm.Event) error { return r.diagnose(ctx, st) }),
		"enter_" + stateEngage:      fsmutil.WrapEvent(func(ctx context.Context, _ *fsm.Event) error { return r.engage(ctx, st) }),
		"enter_" + stateSchedule:    fsmutil.WrapEvent(func(ctx context.Context, _ *fsm.Event) error { return r.schedule(ctx, st) }),
		"enter_" + stateVoiceAlert:  fsmutil.WrapEvent(func(ctx context.Context, _ *fsm.Event) error { return r.voiceAlert(ctx, st) }),
		"enter_" + stateFeedback:    fsmutil.WrapEvent(func(ctx context.Context, _ *fsm.Event) error { return r.collectFeedback(ctx, st) }),
	})

	if err := r.step(ctx, m, st, eventDiagnosed); err != nil {
		metrics.WorkflowRunsTotal.WithLabelValues("error").Inc()
		return st, err
	}

	for !terminal(m.Current()) {
		event, err := r.nextEvent(m.Current(), st)
		if err != nil {
			metrics.WorkflowRunsTotal.WithLabelValues("error").Inc()
			return st, err
		}
		if err := r.step(ctx, m, st, event); err != nil {
			metrics.WorkflowRunsTotal.WithLabelValues("error").Inc()
			return st, err
		}
	}

	if m.Current() == stateCriticalEmergency {
		st.Status = model.WorkflowCriticalEmergency
	} else {
		st.Status = model.WorkflowComplete
	}
	metrics.WorkflowRunsTotal.WithLabelValues(string(st.Status)).Inc()
	st.Act(fmt.Sprintf("workflow finished: %s", st.Status))
	return st, nil
}

func (r *Router) step(ctx context.Context, m *fsm.FSM, st *model.WorkflowState, event string) error {
	if err := m.Event(ctx, event); err != nil {
		return fmt.Errorf("workflow event %s for %s: %w", event, st.VehicleID, err)
	}
	return nil
}

// nextEvent picks the event to fire from the current state. At
// route_decision the risk level decides the branch; elsewhere the follow-up
// transition is unconditional.
func (r *Router) nextEvent(current string, st *model.WorkflowState) (string, error) {
	switch current {
	case stateRouteDecision:
		switch {
		case st.Priority == model.RiskCritical:
			return eventRouteAlert, nil
		case st.Priority == model.RiskHigh:
			return eventRouteSchedule, nil
		case st.Priority == model.RiskMedium && !st.EngagedOnce:
			return eventRouteEngage, nil
		case st.Priority == model.RiskMedium && st.WantsBooking:
			return eventRouteSchedule, nil
		default:
			return eventRouteFeedback, nil
		}
	case stateEngage:
		return eventEngaged, nil
	case stateSchedule:
		return eventScheduled, nil
	case stateVoiceAlert:
		return eventEscalated, nil
	case stateFeedback:
		return eventDone, nil
	default:
		return "", fmt.Errorf("workflow stuck in state %s", current)
	}
}

func (r *Router) diagnose(ctx context.Context, st *model.WorkflowState) error {
	start := time.Now()
	st.Diagnosis = r.svc.Diagnose(ctx, st.VehicleID)
	st.Priority = st.Diagnosis.Risk
	st.Act(fmt.Sprintf("diagnosed %s: %s", st.VehicleName, st.Diagnosis.Summary()))
	r.observe(ctx, st, "router", "diagnosis", "diagnose", start)
	return nil
}

func (r *Router) engage(ctx context.Context, st *model.WorkflowState) error {
	start := time.Now()
	rec, err := r.svc.Recommend(ctx, st.VehicleID, st.CustomerName)
	if err != nil {
		return err
	}
	st.Recommendation = rec
	st.EngagedOnce = true
	st.WantsBooking = r.responder.WantsBooking(st.Priority)
	st.Act(fmt.Sprintf("engaged customer %s, booking intent: %t", st.CustomerName, st.WantsBooking))
	r.observe(ctx, st, "router", "engagement", "recommend", start)
	return nil
}

func (r *Router) schedule(ctx context.Context, st *model.WorkflowState) error {
	start := time.Now()
	var (
		res *model.BookingResult
		err error
	)
	if st.Priority.Urgent() {
		res, err = r.svc.AutoReserve(ctx, st.VehicleID, geo.Point{Lat: st.Lat, Lon: st.Lon}, st.Priority)
	} else {
		res, err = r.bookNearest(ctx, st)
	}
	if err != nil {
		return err
	}
	st.Booking = res
	st.Act(fmt.Sprintf("scheduling: %s", res.Message))
	r.observe(ctx, st, "router", "scheduler", "book", start)
	return nil
}

func (r *Router) bookNearest(ctx context.Context, st *model.WorkflowState) (*model.BookingResult, error) {
	slots, err := r.svc.ListAvailable(ctx, geo.Point{Lat: st.Lat, Lon: st.Lon}, 7, st.Priority)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return &model.BookingResult{
			Status:      model.BookingUnavailable,
			VehicleName: st.VehicleName,
			Message:     "No slots available within the scheduling horizon.",
		}, nil
	}
	return r.svc.Book(ctx, st.VehicleID, slots[0].ID, st.CustomerName, st.Priority, true)
}

func (r *Router) voiceAlert(ctx context.Context, st *model.WorkflowState) error {
	start := time.Now()

	res, err := r.svc.AutoReserve(ctx, st.VehicleID, geo.Point{Lat: st.Lat, Lon: st.Lon}, st.Priority)
	if err != nil {
		return err
	}
	st.Booking = res
	st.Act(fmt.Sprintf("emergency escalation: %s", res.Message))

	if err := r.svc.VoiceAlert(ctx, st.VehicleID, st.Priority); err != nil {
		return err
	}
	st.Act("voice alert dispatched")
	r.observe(ctx, st, "router", "voice", "alert", start)
	return nil
}

func (r *Router) collectFeedback(ctx context.Context, st *model.WorkflowState) error {
	start := time.Now()
	if st.Diagnosis != nil {
		prompt := r.svc.RequestPrompt(ctx, st.VehicleID, st.CustomerName, st.Diagnosis)
		st.Act("feedback requested: " + prompt)
	}

	rating, comment := r.responder.ServiceFeedback(st.VehicleName)
	fb, err := r.svc.RecordFeedback(ctx, st.VehicleID, st.CustomerName, rating, true, comment)
	if err != nil {
		return err
	}
	st.Feedback = fb
	st.Act(fmt.Sprintf("feedback recorded: rating %.1f", rating))
	r.observe(ctx, st, "router", "feedback", "record", start)
	return nil
}

// observe reports one dispatch to the auditor. Auditor failures are logged
// and never interrupt the workflow; the verdict is surfaced in the audit
// trail only.
func (r *Router) observe(ctx context.Context, st *model.WorkflowState, source, target, action string, start time.Time) {
	latency := float64(time.Since(start).Milliseconds())
	v, err := r.svc.Observe(ctx, source, target, st.VehicleID, action, len(st.VehicleID)+len(action), latency)
	if err != nil {
		r.log.Error(err, "auditor observe failed", "target", target, "action", action)
		return
	}
	if !v.Allowed {
		st.Act(fmt.Sprintf("auditor flagged %s->%s (score %.2f)", source, target, v.AnomalyScore))
	}
}
