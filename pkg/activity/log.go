package activity

// Log mutation rules. These operate on the raw turn slice; the Tracker is
// responsible for holding its mutex and for deciding whether the session
// phase accepts the event at all.

// appendThought applies the thought rule:
//   - empty log: open a turn carrying only the thought
//   - last turn has no thought yet: set it there
//   - last turn has a thought and tools: open a fresh thought-only turn
//   - last turn has a thought but no tools: drop the new thought
//
// The drop in the last case keeps the first thought of a tool-less turn
// stable instead of overwriting it.
func appendThought(turns []Turn, thought string) []Turn {
	if len(turns) == 0 {
		return append(turns, Turn{Thought: thought})
	}
	last := &turns[len(turns)-1]
	if !last.HasThought() {
		last.Thought = thought
		return turns
	}
	if len(last.Tools) > 0 {
		return append(turns, Turn{Thought: thought})
	}
	return turns
}

// appendTool attaches a running invocation to the last turn, creating the
// first turn when the log is empty.
func appendTool(turns []Turn, inv ToolInvocation) []Turn {
	inv.Status = StatusRunning
	inv.Content = nil
	if len(turns) == 0 {
		return append(turns, Turn{Tools: []ToolInvocation{inv}})
	}
	last := &turns[len(turns)-1]
	last.Tools = append(last.Tools, inv)
	return turns
}

// applyResult resolves an invocation by id across all turns and writes the
// terminal status and content. It reports whether the id was found; a result
// for an unknown id leaves the log untouched.
func applyResult(turns []Turn, toolUseID string, status InvocationStatus, content []ResultFragment) bool {
	for i := range turns {
		if inv := turns[i].FindTool(toolUseID); inv != nil {
			inv.Status = status
			inv.Content = content
			return true
		}
	}
	return false
}
