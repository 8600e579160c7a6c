package history

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/agentwatch/agentwatch/pkg/activity"
)

// Activities reconstructs the agent activity log from a persisted message
// sequence. It is pure and deterministic: the same input always yields the
// same output, in message order.
//
// Pass one indexes every tool result by its invocation id across the whole
// sequence, because a result can be persisted in a later message than the
// toolUse that started it. Pass two emits one activity turn per message that
// contains at least one toolUse item: the turn's thought is the
// newline-join of the message's text items, and each toolUse resolves its
// status and content against the result index, falling back to running when
// no result exists.
//
// Structurally invalid input (a toolUse or toolResult without an id, an
// invalid result fragment) is a caller contract violation and returns an
// error; this adapter operates on trusted, already-persisted data.
func Activities(messages []Message) ([]activity.Turn, error) {
	results, err := indexResults(messages)
	if err != nil {
		return nil, err
	}

	var turns []activity.Turn
	for i, msg := range messages {
		var texts []string
		var tools []activity.ToolInvocation

		for _, c := range msg.Content {
			switch item := c.Item.(type) {
			case *TextContent:
				texts = append(texts, item.Body)
			case *ToolUseContent:
				if item.Body.ToolUseID == "" {
					return nil, errors.Errorf("message %d: toolUse without toolUseId", i)
				}
				inv := activity.ToolInvocation{
					ToolUseID: item.Body.ToolUseID,
					Name:      item.Body.Name,
					Input:     item.Body.Input,
					Status:    activity.StatusRunning,
				}
				if res, ok := results[item.Body.ToolUseID]; ok {
					inv.Status = res.Status
					inv.Content = res.Content
				}
				tools = append(tools, inv)
			}
		}

		if len(tools) == 0 {
			continue
		}

		turns = append(turns, activity.Turn{
			Thought: strings.Join(texts, "\n"),
			Tools:   tools,
		})
	}

	return turns, nil
}

func indexResults(messages []Message) (map[string]ToolResultBody, error) {
	results := make(map[string]ToolResultBody)
	for i, msg := range messages {
		for _, c := range msg.Content {
			item, ok := c.Item.(*ToolResultContent)
			if !ok {
				continue
			}
			if item.Body.ToolUseID == "" {
				return nil, errors.Errorf("message %d: toolResult without toolUseId", i)
			}
			for _, frag := range item.Body.Content {
				if frag.Kind() == activity.FragmentKindInvalid {
					return nil, errors.Errorf("message %d: toolResult %s carries an empty fragment", i, item.Body.ToolUseID)
				}
			}
			results[item.Body.ToolUseID] = item.Body
		}
	}
	return results, nil
}
