package activity

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Phase is the session state of the tracker.
type Phase string

const (
	// PhaseSleeping means no session is active and the log is empty.
	PhaseSleeping Phase = "sleeping"
	// PhaseThinking means a session is active and the log is being built.
	PhaseThinking Phase = "thinking"
	// PhaseLeaving is a display-hold state entered on session end; it decays
	// back to sleeping after the linger delay.
	PhaseLeaving Phase = "leaving"
)

// DefaultLinger is how long the tracker stays in leaving before it drops
// back to sleeping.
const DefaultLinger = 2500 * time.Millisecond

// Tracker consumes an ordered stream of agent events and maintains the
// renderable turn log for exactly one session at a time.
//
// The event stream itself is single-producer and ordered, but the linger
// timer fires on its own goroutine, so all state lives behind a mutex. The
// generation counter invalidates a pending timer when a wakeup preempts it:
// a stale fire can never touch a log built after re-entering thinking.
type Tracker struct {
	mu         sync.Mutex
	phase      Phase
	turns      []Turn
	linger     time.Duration
	timer      *time.Timer
	generation uint64
	logger     zerolog.Logger
}

type TrackerOption func(*Tracker)

// WithLinger overrides the leaving-to-sleeping delay. Tests use this to
// avoid waiting on the production delay.
func WithLinger(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.linger = d
		}
	}
}

// WithLogger sets the logger used for per-event debug logging.
func WithLogger(logger zerolog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker returns a tracker in the sleeping phase with an empty log.
func NewTracker(options ...TrackerOption) *Tracker {
	ret := &Tracker{
		phase:  PhaseSleeping,
		linger: DefaultLinger,
		logger: zerolog.Nop(),
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

// Phase returns the current session phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Turns returns a deep copy of the ordered turn log.
func (t *Tracker) Turns() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CloneTurns(t.turns)
}

// Wakeup starts a session: the log is reset and the phase becomes thinking.
// Arriving in any phase, it cancels a pending linger timer, so a wakeup
// right after goodbye preempts the decay to sleeping.
func (t *Tracker) Wakeup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLingerLocked()
	t.turns = nil
	t.phase = PhaseThinking
	t.logger.Debug().Msg("tracker: wakeup")
}

// Thought records a thought according to the thought-append rule. Outside of
// thinking it is a no-op.
func (t *Tracker) Thought(thought string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseThinking {
		t.logger.Debug().Str("phase", string(t.phase)).Msg("tracker: thought ignored")
		return
	}
	t.turns = appendThought(t.turns, thought)
	t.logger.Debug().Int("turns", len(t.turns)).Msg("tracker: thought")
}

// ToolStart records a new running invocation on the last turn. Outside of
// thinking it is a no-op.
func (t *Tracker) ToolStart(toolUseID string, name string, input map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseThinking {
		t.logger.Debug().Str("phase", string(t.phase)).Str("tool_use_id", toolUseID).Msg("tracker: tool start ignored")
		return
	}
	t.turns = appendTool(t.turns, ToolInvocation{
		ToolUseID: toolUseID,
		Name:      name,
		Input:     input,
	})
	t.logger.Debug().Str("tool_use_id", toolUseID).Str("name", name).Msg("tracker: tool start")
}

// ToolResult resolves a running invocation. A result for an id never seen in
// a prior ToolStart is dropped; losing one status update must not break the
// whole activity log.
func (t *Tracker) ToolResult(toolUseID string, status InvocationStatus, content []ResultFragment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseThinking {
		t.logger.Debug().Str("phase", string(t.phase)).Str("tool_use_id", toolUseID).Msg("tracker: tool result ignored")
		return
	}
	if !applyResult(t.turns, toolUseID, status, content) {
		t.logger.Debug().Str("tool_use_id", toolUseID).Msg("tracker: tool result for unknown id dropped")
		return
	}
	t.logger.Debug().Str("tool_use_id", toolUseID).Str("status", string(status)).Msg("tracker: tool result")
}

// Goodbye ends the session: the log is cleared unconditionally and the
// tracker holds in leaving until the linger delay elapses. Outside of
// thinking it is a no-op.
func (t *Tracker) Goodbye() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseThinking {
		t.logger.Debug().Str("phase", string(t.phase)).Msg("tracker: goodbye ignored")
		return
	}
	t.cancelLingerLocked()
	t.turns = nil
	t.phase = PhaseLeaving
	gen := t.generation
	t.timer = time.AfterFunc(t.linger, func() {
		t.lingerExpired(gen)
	})
	t.logger.Debug().Dur("linger", t.linger).Msg("tracker: goodbye")
}

// Stop cancels a pending linger timer. It does not change the phase; it is
// for shutdown paths that must not leak timers.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLingerLocked()
}

func (t *Tracker) lingerExpired(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation || t.phase != PhaseLeaving {
		// A wakeup got here first; this fire is stale.
		return
	}
	t.timer = nil
	t.turns = nil
	t.phase = PhaseSleeping
	t.logger.Debug().Msg("tracker: linger expired")
}

func (t *Tracker) cancelLingerLocked() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
