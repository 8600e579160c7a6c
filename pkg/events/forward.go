package events

import (
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/agentwatch/agentwatch/pkg/activity"
)

// TrackerForwardFunc returns a watermill handler that decodes each frame and
// feeds the tracker. A malformed frame is logged and acked, never returned
// as a handler error: losing one frame should not kill the subscription.
func TrackerForwardFunc(t *activity.Tracker) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		defer msg.Ack()

		e, err := NewEventFromJson(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable event frame")
			return nil
		}

		switch ev := e.(type) {
		case *EventWakeup:
			t.Wakeup()
		case *EventThought:
			t.Thought(ev.Thought)
		case *EventToolStart:
			t.ToolStart(ev.ToolUseID, ev.Name, ev.Input)
		case *EventToolResult:
			t.ToolResult(ev.ToolUseID, ev.Status, ev.Content)
		case *EventGoodbye:
			t.Goodbye()
		default:
			log.Debug().Str("type", string(e.Type())).Msg("ignoring event type outside the tracker protocol")
		}

		return nil
	}
}

// PrinterFunc returns a watermill handler that renders each frame to w,
// after the manner of a live session transcript.
func PrinterFunc(name string, w io.Writer) func(msg *message.Message) error {
	isFirst := true

	return func(msg *message.Message) error {
		defer msg.Ack()

		e, err := NewEventFromJson(msg.Payload)
		if err != nil {
			return nil
		}

		if isFirst && name != "" {
			isFirst = false
			if _, err := fmt.Fprintf(w, "\n%s:\n", name); err != nil {
				return err
			}
		}

		switch p_ := e.(type) {
		case *EventWakeup:
			_, err = fmt.Fprintf(w, "--- session started ---\n")
		case *EventThought:
			_, err = fmt.Fprintf(w, "* %s\n", p_.Thought)
		case *EventToolStart:
			v_, yerr := yaml.Marshal(map[string]any{
				"tool": p_.Name, "id": p_.ToolUseID, "input": p_.Input,
			})
			if yerr != nil {
				return yerr
			}
			_, err = fmt.Fprintf(w, "%s\n", v_)
		case *EventToolResult:
			v_, yerr := yaml.Marshal(map[string]any{
				"id": p_.ToolUseID, "status": string(p_.Status),
			})
			if yerr != nil {
				return yerr
			}
			_, err = fmt.Fprintf(w, "%s\n", v_)
			if err == nil {
				for _, frag := range p_.Content {
					if _, err = fmt.Fprintf(w, "  %s\n", fragmentString(frag)); err != nil {
						break
					}
				}
			}
		case *EventGoodbye:
			_, err = fmt.Fprintf(w, "--- session ended ---\n")
		}

		return err
	}
}

func fragmentString(frag activity.ResultFragment) string {
	switch frag.Kind() {
	case activity.FragmentKindText:
		return frag.Text
	case activity.FragmentKindJSON:
		b, err := yaml.Marshal(frag.JSON)
		if err != nil {
			return fmt.Sprintf("%v", frag.JSON)
		}
		return string(b)
	case activity.FragmentKindImage:
		return fmt.Sprintf("image/%s (%d bytes)", frag.Format, len(frag.Image))
	case activity.FragmentKindDocument:
		return fmt.Sprintf("document %s (%d bytes)", frag.Name, len(frag.Document))
	}
	return "(empty fragment)"
}
