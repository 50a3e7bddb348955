package peer

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/bsv-blockchain/go-p2psync/metrics"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
)

// Connection lifecycle states and transition events: a per-connection
// handshaking -> ready -> terminal state machine.
const (
	stateHandshaking = "handshaking"
	stateReady       = "ready"
	stateDisconnected = "disconnected"
	stateMisbehaving = "misbehaving"

	eventReady      = "ready"
	eventDisconnect = "disconnect"
	eventMisbehave  = "misbehave"
)

type stateMachine struct {
	fsm *fsm.FSM
}

func newStateMachine(logger ulogger.Logger) *stateMachine {
	metrics.Init()
	f := fsm.NewFSM(
		stateHandshaking,
		fsm.Events{
			{Name: eventReady, Src: []string{stateHandshaking}, Dst: stateReady},
			{Name: eventDisconnect, Src: []string{stateHandshaking, stateReady}, Dst: stateDisconnected},
			{Name: eventMisbehave, Src: []string{stateHandshaking, stateReady}, Dst: stateMisbehaving},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debugf("connection state %s -> %s", e.Src, e.Dst)
				switch e.Dst {
				case stateReady:
					metrics.PeersConnected.Inc()
				case stateDisconnected, stateMisbehaving:
					if e.Src == stateReady {
						metrics.PeersConnected.Dec()
					}
				}
			},
		},
	)
	return &stateMachine{fsm: f}
}

func (s *stateMachine) fire(event string) error {
	return s.fsm.Event(context.Background(), event)
}

func (s *stateMachine) current() string {
	return s.fsm.Current()
}
