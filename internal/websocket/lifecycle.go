package websocket

import "github.com/satriahrh/arunika/companion/domain/entities"

// Event is something that happens to a connection
type Event string

const (
	EventConnect Event = "connect"
	EventOpen    Event = "open"
	EventError   Event = "error"
	EventClose   Event = "close"
)

// Effect is the work the manager performs after a transition
type Effect string

const (
	EffectNone          Effect = "none"
	EffectDial          Effect = "dial"
	EffectHandshake     Effect = "handshake"
	EffectReportError   Effect = "report_error"
	EffectScheduleRetry Effect = "schedule_retry"
)

type transitionKey struct {
	state entities.ConnectionState
	event Event
}

type transition struct {
	next   entities.ConnectionState
	effect Effect
}

var transitions = map[transitionKey]transition{
	{entities.StateConnecting, EventConnect}: {entities.StateConnecting, EffectDial},
	{entities.StateOpen, EventConnect}:       {entities.StateConnecting, EffectDial},
	{entities.StateClosed, EventConnect}:     {entities.StateConnecting, EffectDial},
	{entities.StateErrored, EventConnect}:    {entities.StateConnecting, EffectDial},

	{entities.StateConnecting, EventOpen}: {entities.StateOpen, EffectHandshake},

	{entities.StateConnecting, EventError}: {entities.StateErrored, EffectReportError},
	{entities.StateOpen, EventError}:       {entities.StateErrored, EffectReportError},

	{entities.StateConnecting, EventClose}: {entities.StateClosed, EffectScheduleRetry},
	{entities.StateOpen, EventClose}:       {entities.StateClosed, EffectScheduleRetry},
	{entities.StateErrored, EventClose}:    {entities.StateClosed, EffectScheduleRetry},
	{entities.StateClosed, EventClose}:     {entities.StateClosed, EffectScheduleRetry},
}

// Transition looks up the next state and effect. ok is false when the event
// is not defined for the state; the caller ignores it.
func Transition(state entities.ConnectionState, ev Event) (entities.ConnectionState, Effect, bool) {
	t, ok := transitions[transitionKey{state, ev}]
	if !ok {
		return state, EffectNone, false
	}
	return t.next, t.effect, true
}
