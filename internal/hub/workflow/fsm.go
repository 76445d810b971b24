package workflow

import (
	"github.com/looplab/fsm"
)

// States of the maintenance workflow.
const (
	stateDiagnose          = "diagnose"
	stateRouteDecision     = "route_decision"
	stateEngage            = "engage"
	stateSchedule          = "schedule"
	stateVoiceAlert        = "voice_alert"
	stateFeedback          = "feedback"
	stateComplete          = "complete"
	stateCriticalEmergency = "critical_emergency"
)

// Events driving the workflow.
const (
	eventDiagnosed     = "diagnosed"
	eventRouteEngage   = "route_engage"
	eventEngaged       = "engaged"
	eventRouteSchedule = "route_schedule"
	eventRouteAlert    = "route_alert"
	eventRouteFeedback = "route_feedback"
	eventScheduled     = "scheduled"
	eventEscalated     = "escalated"
	eventDone          = "done"
)

// transitions is the full workflow transition table. The state space is
// small and fully enumerable, so it is spelled out rather than derived.
var transitions = fsm.Events{
	{Name: eventDiagnosed, Src: []string{stateDiagnose}, Dst: stateRouteDecision},
	{Name: eventRouteEngage, Src: []string{stateRouteDecision}, Dst: stateEngage},
	{Name: eventEngaged, Src: []string{stateEngage}, Dst: stateRouteDecision},
	{Name: eventRouteSchedule, Src: []string{stateRouteDecision}, Dst: stateSchedule},
	{Name: eventRouteAlert, Src: []string{stateRouteDecision}, Dst: stateVoiceAlert},
	{Name: eventRouteFeedback, Src: []string{stateRouteDecision}, Dst: stateFeedback},
	{Name: eventScheduled, Src: []string{stateSchedule}, Dst: stateFeedback},
	{Name: eventEscalated, Src: []string{stateVoiceAlert}, Dst: stateCriticalEmergency},
	{Name: eventDone, Src: []string{stateFeedback}, Dst: stateComplete},
}

func terminal(state string) bool {
	return state == stateComplete || state == stateCriticalEmergency
}
