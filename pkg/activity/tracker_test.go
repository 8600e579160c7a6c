package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrackerStartsSleeping(t *testing.T) {
	tr := NewTracker()
	require.Equal(t, PhaseSleeping, tr.Phase())
	require.Empty(t, tr.Turns())
}

func TestWakeupEntersThinkingWithEmptyLog(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	require.Equal(t, PhaseThinking, tr.Phase())
	require.Empty(t, tr.Turns())
}

func TestEventsIgnoredWhileSleeping(t *testing.T) {
	tr := NewTracker()

	tr.Thought("nobody home")
	tr.ToolStart("t1", "search", nil)
	tr.ToolResult("t1", StatusSuccess, nil)
	tr.Goodbye()

	require.Equal(t, PhaseSleeping, tr.Phase())
	require.Empty(t, tr.Turns())
}

func TestThoughtOpensFirstTurn(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("let me check")

	turns := tr.Turns()
	require.Len(t, turns, 1)
	require.Equal(t, "let me check", turns[0].Thought)
	require.Empty(t, turns[0].Tools)
}

func TestSecondThoughtWithoutToolsIsDropped(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("first")
	tr.Thought("second")

	turns := tr.Turns()
	require.Len(t, turns, 1)
	require.Equal(t, "first", turns[0].Thought)
}

func TestThoughtAfterToolsOpensNewTurn(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("first")
	tr.ToolStart("t1", "search", nil)
	tr.Thought("second")

	turns := tr.Turns()
	require.Len(t, turns, 2)
	require.Equal(t, "first", turns[0].Thought)
	require.Len(t, turns[0].Tools, 1)
	require.Equal(t, "second", turns[1].Thought)
	require.Empty(t, turns[1].Tools)
}

func TestThoughtFillsThoughtlessTurn(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.ToolStart("t1", "search", nil)
	tr.Thought("after the fact")

	turns := tr.Turns()
	require.Len(t, turns, 1)
	require.Equal(t, "after the fact", turns[0].Thought)
	require.Len(t, turns[0].Tools, 1)
}

func TestToolStartWithoutThoughtOpensFirstTurn(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.ToolStart("t1", "search", map[string]any{"query": "weather"})

	turns := tr.Turns()
	require.Len(t, turns, 1)
	require.False(t, turns[0].HasThought())
	require.Len(t, turns[0].Tools, 1)

	inv := turns[0].Tools[0]
	require.Equal(t, "t1", inv.ToolUseID)
	require.Equal(t, "search", inv.Name)
	require.Equal(t, StatusRunning, inv.Status)
	require.Nil(t, inv.Content)
}

func TestToolResultResolvesInvocation(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("searching")
	tr.ToolStart("t1", "search", nil)
	tr.ToolResult("t1", StatusSuccess, []ResultFragment{NewTextFragment("sunny")})

	turns := tr.Turns()
	require.Len(t, turns, 1)
	inv := turns[0].Tools[0]
	require.Equal(t, StatusSuccess, inv.Status)
	require.Len(t, inv.Content, 1)
	require.Equal(t, "sunny", inv.Content[0].Text)
}

func TestToolResultErrorStatus(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.ToolStart("t1", "search", nil)
	tr.ToolResult("t1", StatusError, []ResultFragment{NewTextFragment("timeout")})

	turns := tr.Turns()
	require.Equal(t, StatusError, turns[0].Tools[0].Status)
}

func TestSecondToolResultOverwrites(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.ToolStart("t1", "search", nil)
	tr.ToolResult("t1", StatusSuccess, []ResultFragment{NewTextFragment("sunny")})
	tr.ToolResult("t1", StatusError, []ResultFragment{NewTextFragment("stale result")})

	// last write wins; the stream is designed for exactly one result per
	// invocation but a duplicate must not be half-applied
	inv := tr.Turns()[0].Tools[0]
	require.Equal(t, StatusError, inv.Status)
	require.Len(t, inv.Content, 1)
	require.Equal(t, "stale result", inv.Content[0].Text)
}

func TestToolResultUnknownIDIsNoOp(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("searching")
	tr.ToolStart("t1", "search", nil)

	before := tr.Turns()
	tr.ToolResult("nope", StatusSuccess, []ResultFragment{NewTextFragment("lost")})
	require.Equal(t, before, tr.Turns())
	require.Equal(t, StatusRunning, tr.Turns()[0].Tools[0].Status)
}

func TestToolResultFindsInvocationInEarlierTurn(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("first")
	tr.ToolStart("t1", "search", nil)
	tr.Thought("second")
	tr.ToolStart("t2", "fetch", nil)
	tr.ToolResult("t1", StatusSuccess, nil)

	turns := tr.Turns()
	require.Equal(t, StatusSuccess, turns[0].Tools[0].Status)
	require.Equal(t, StatusRunning, turns[1].Tools[0].Status)
}

func TestWakeupResetsLogMidSession(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.Thought("old session")
	tr.ToolStart("t1", "search", nil)

	tr.Wakeup()
	require.Equal(t, PhaseThinking, tr.Phase())
	require.Empty(t, tr.Turns())
}

func TestGoodbyeClearsLogAndDecaysToSleeping(t *testing.T) {
	tr := NewTracker(WithLinger(20 * time.Millisecond))
	tr.Wakeup()
	tr.Thought("done soon")
	tr.ToolStart("t1", "search", nil)
	tr.Goodbye()

	require.Equal(t, PhaseLeaving, tr.Phase())
	require.Empty(t, tr.Turns())

	require.Eventually(t, func() bool {
		return tr.Phase() == PhaseSleeping
	}, time.Second, 5*time.Millisecond)
	require.Empty(t, tr.Turns())
}

func TestWakeupPreemptsLinger(t *testing.T) {
	tr := NewTracker(WithLinger(20 * time.Millisecond))
	tr.Wakeup()
	tr.Goodbye()
	require.Equal(t, PhaseLeaving, tr.Phase())

	tr.Wakeup()
	tr.Thought("new session")

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, PhaseThinking, tr.Phase())
	turns := tr.Turns()
	require.Len(t, turns, 1)
	require.Equal(t, "new session", turns[0].Thought)
}

func TestGoodbyeIgnoredWhileLeaving(t *testing.T) {
	tr := NewTracker(WithLinger(time.Hour))
	defer tr.Stop()

	tr.Wakeup()
	tr.Goodbye()
	tr.Goodbye()
	require.Equal(t, PhaseLeaving, tr.Phase())
}

func TestTurnsReturnsSnapshot(t *testing.T) {
	tr := NewTracker()
	tr.Wakeup()
	tr.ToolStart("t1", "search", map[string]any{"query": "weather"})

	snap := tr.Turns()
	snap[0].Tools[0].Input["query"] = "mutated"
	snap[0].Thought = "mutated"

	turns := tr.Turns()
	require.Equal(t, "weather", turns[0].Tools[0].Input["query"])
	require.False(t, turns[0].HasThought())
}

func TestFullSession(t *testing.T) {
	tr := NewTracker(WithLinger(time.Hour))
	defer tr.Stop()

	tr.Wakeup()
	tr.Thought("checking the weather")
	tr.ToolStart("t1", "get_weather", map[string]any{"city": "Berlin"})
	tr.ToolResult("t1", StatusSuccess, []ResultFragment{
		NewJSONFragment(map[string]any{"temp": 21}),
	})
	tr.Thought("summarizing")
	tr.ToolStart("t2", "render_report", nil)
	tr.ToolResult("t2", StatusError, []ResultFragment{NewTextFragment("template missing")})

	turns := tr.Turns()
	require.Len(t, turns, 2)
	require.Equal(t, "checking the weather", turns[0].Thought)
	require.Equal(t, StatusSuccess, turns[0].Tools[0].Status)
	require.Equal(t, "summarizing", turns[1].Thought)
	require.Equal(t, StatusError, turns[1].Tools[0].Status)

	tr.Goodbye()
	require.Equal(t, PhaseLeaving, tr.Phase())
	require.Empty(t, tr.Turns())
}
