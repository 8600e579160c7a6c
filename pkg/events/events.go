package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentwatch/agentwatch/pkg/activity"
)

type EventType string

const (
	// EventTypeWakeup opens a session: the tracker clears its log and starts
	// accepting activity events.
	EventTypeWakeup EventType = "wakeup"
	// EventTypeThought carries one agent thought.
	EventTypeThought EventType = "thought"
	// EventTypeToolStart announces a tool invocation. The wire name "go-on"
	// is the frame the agent loop emits when it decides to keep going.
	EventTypeToolStart  EventType = "go-on"
	EventTypeToolResult EventType = "tool-result"
	// EventTypeGoodbye closes a session.
	EventTypeGoodbye EventType = "goodbye"
)

type Event interface {
	Type() EventType
	Metadata() EventMetadata
	Payload() []byte
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta,omitempty"`

	// raw JSON the event was decoded from (see NewEventFromJson)
	payload []byte
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) Metadata() EventMetadata {
	return e.Metadata_
}

func (e *EventImpl) Payload() []byte {
	return e.payload
}

// SetPayload stores the raw JSON payload on the event implementation.
// This is used by NewEventFromJson and external decoders.
func (e *EventImpl) SetPayload(b []byte) {
	e.payload = b
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

var _ Event = &EventImpl{}

// EventMetadata carries correlation identifiers alongside every frame.
type EventMetadata struct {
	ID             uuid.UUID `json:"message_id" yaml:"message_id"`
	SessionID      string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty" yaml:"conversation_id,omitempty"`
	// Extra carries transport- or caller-specific values
	Extra map[string]interface{} `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("message_id", em.ID.String())
	if em.SessionID != "" {
		e.Str("session_id", em.SessionID)
	}
	if em.ConversationID != "" {
		e.Str("conversation_id", em.ConversationID)
	}
	if len(em.Extra) > 0 {
		e.Dict("extra", zerolog.Dict().Fields(em.Extra))
	}
}

type EventWakeup struct {
	EventImpl
}

func NewWakeupEvent(metadata EventMetadata) *EventWakeup {
	return &EventWakeup{
		EventImpl: EventImpl{Type_: EventTypeWakeup, Metadata_: metadata},
	}
}

var _ Event = &EventWakeup{}

type EventThought struct {
	EventImpl
	Thought string `json:"thought"`
}

func NewThoughtEvent(metadata EventMetadata, thought string) *EventThought {
	return &EventThought{
		EventImpl: EventImpl{Type_: EventTypeThought, Metadata_: metadata},
		Thought:   thought,
	}
}

func (e EventThought) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Str("thought", e.Thought)
}

var _ Event = &EventThought{}

type EventToolStart struct {
	EventImpl
	ToolUseID string         `json:"toolUseId"`
	Name      string         `json:"name"`
	Input     map[string]any `json:"input,omitempty"`
}

func NewToolStartEvent(metadata EventMetadata, toolUseID string, name string, input map[string]any) *EventToolStart {
	return &EventToolStart{
		EventImpl: EventImpl{Type_: EventTypeToolStart, Metadata_: metadata},
		ToolUseID: toolUseID,
		Name:      name,
		Input:     input,
	}
}

func (e EventToolStart) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Str("tool_use_id", e.ToolUseID).Str("name", e.Name)
}

var _ Event = &EventToolStart{}

type EventToolResult struct {
	EventImpl
	ToolUseID string                    `json:"toolUseId"`
	Status    activity.InvocationStatus `json:"status"`
	Content   []activity.ResultFragment `json:"content,omitempty"`
}

func NewToolResultEvent(metadata EventMetadata, toolUseID string, status activity.InvocationStatus, content []activity.ResultFragment) *EventToolResult {
	return &EventToolResult{
		EventImpl: EventImpl{Type_: EventTypeToolResult, Metadata_: metadata},
		ToolUseID: toolUseID,
		Status:    status,
		Content:   content,
	}
}

func (e EventToolResult) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Str("tool_use_id", e.ToolUseID).Str("status", string(e.Status))
}

var _ Event = &EventToolResult{}

type EventGoodbye struct {
	EventImpl
}

func NewGoodbyeEvent(metadata EventMetadata) *EventGoodbye {
	return &EventGoodbye{
		EventImpl: EventImpl{Type_: EventTypeGoodbye, Metadata_: metadata},
	}
}

var _ Event = &EventGoodbye{}

// NewEventFromJson decodes one frame into a typed event. Registered codecs
// are consulted first so embedders can extend the protocol.
func NewEventFromJson(b []byte) (Event, error) {
	var hdr struct {
		Type EventType `json:"type"`
	}
	_ = json.Unmarshal(b, &hdr)

	if hdr.Type != "" {
		if dec := lookupDecoder(string(hdr.Type)); dec != nil {
			if ev, err := dec(b); err == nil && ev != nil {
				if setter, ok := ev.(interface{ SetPayload([]byte) }); ok {
					setter.SetPayload(b)
				}
				return ev, nil
			}
		}
	}

	var e *EventImpl
	err := json.Unmarshal(b, &e)
	if err != nil {
		return nil, err
	}
	if e == nil {
		// "null" unmarshals into a nil pointer without error
		return nil, fmt.Errorf("frame is not a JSON object")
	}

	e.payload = b

	switch e.Type_ {
	case EventTypeWakeup:
		ret, ok := ToTypedEvent[EventWakeup](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventWakeup")
		}
		return ret, nil
	case EventTypeThought:
		ret, ok := ToTypedEvent[EventThought](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventThought")
		}
		return ret, nil
	case EventTypeToolStart:
		ret, ok := ToTypedEvent[EventToolStart](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventToolStart")
		}
		return ret, nil
	case EventTypeToolResult:
		ret, ok := ToTypedEvent[EventToolResult](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventToolResult")
		}
		return ret, nil
	case EventTypeGoodbye:
		ret, ok := ToTypedEvent[EventGoodbye](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventGoodbye")
		}
		return ret, nil
	}

	return e, nil
}

func ToTypedEvent[T any](e Event) (*T, bool) {
	var ret *T
	err := json.Unmarshal(e.Payload(), &ret)
	if err != nil {
		return nil, false
	}

	return ret, true
}
