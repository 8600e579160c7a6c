package history

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/agentwatch/agentwatch/pkg/activity"
)

// Persisted conversation shapes. These mirror the message format the chat
// backend stores: each message carries an ordered list of typed content
// items, discriminated by contentType.

type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeToolUse    ContentType = "toolUse"
	ContentTypeToolResult ContentType = "toolResult"
	ContentTypeImage      ContentType = "image"
	ContentTypeAttachment ContentType = "attachment"
)

// MessageContent is an interface for the different content item types.
type MessageContent interface {
	ContentType() ContentType
	String() string
}

type TextContent struct {
	Body string `json:"body"`
}

func (c *TextContent) ContentType() ContentType {
	return ContentTypeText
}

func (c *TextContent) String() string {
	return c.Body
}

var _ MessageContent = (*TextContent)(nil)

type ToolUseBody struct {
	ToolUseID string         `json:"toolUseId"`
	Name      string         `json:"name"`
	Input     map[string]any `json:"input,omitempty"`
}

type ToolUseContent struct {
	Body ToolUseBody `json:"body"`
}

func (c *ToolUseContent) ContentType() ContentType {
	return ContentTypeToolUse
}

func (c *ToolUseContent) String() string {
	return fmt.Sprintf("ToolUseContent{ToolUseID: %s, Name: %s}", c.Body.ToolUseID, c.Body.Name)
}

var _ MessageContent = (*ToolUseContent)(nil)

type ToolResultBody struct {
	ToolUseID string                    `json:"toolUseId"`
	Status    activity.InvocationStatus `json:"status"`
	Content   []activity.ResultFragment `json:"content,omitempty"`
}

type ToolResultContent struct {
	Body ToolResultBody `json:"body"`
}

func (c *ToolResultContent) ContentType() ContentType {
	return ContentTypeToolResult
}

func (c *ToolResultContent) String() string {
	return fmt.Sprintf("ToolResultContent{ToolUseID: %s, Status: %s}", c.Body.ToolUseID, c.Body.Status)
}

var _ MessageContent = (*ToolResultContent)(nil)

// ImageContent and AttachmentContent are passthrough kinds: the adapter
// skips them, they only exist so persisted conversations decode cleanly.

type ImageContent struct {
	MediaType string `json:"mediaType,omitempty"`
	Body      []byte `json:"body"`
}

func (c *ImageContent) ContentType() ContentType {
	return ContentTypeImage
}

func (c *ImageContent) String() string {
	return fmt.Sprintf("ImageContent{MediaType: %s, %d bytes}", c.MediaType, len(c.Body))
}

var _ MessageContent = (*ImageContent)(nil)

type AttachmentContent struct {
	FileName string `json:"fileName,omitempty"`
	Body     []byte `json:"body"`
}

func (c *AttachmentContent) ContentType() ContentType {
	return ContentTypeAttachment
}

func (c *AttachmentContent) String() string {
	return fmt.Sprintf("AttachmentContent{FileName: %s, %d bytes}", c.FileName, len(c.Body))
}

var _ MessageContent = (*AttachmentContent)(nil)

// Content wraps one content item for JSON round-tripping; the concrete type
// is chosen by the contentType discriminator.
type Content struct {
	Item MessageContent
}

type contentAlias struct {
	ContentType ContentType `json:"contentType"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Item == nil {
		return nil, errors.New("content item is nil")
	}
	b, err := json.Marshal(c.Item)
	if err != nil {
		return nil, err
	}
	// splice the discriminator into the item's own object
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	tb, err := json.Marshal(c.Item.ContentType())
	if err != nil {
		return nil, err
	}
	m["contentType"] = tb
	return json.Marshal(m)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var alias contentAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	switch alias.ContentType {
	case ContentTypeText:
		var content *TextContent
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		c.Item = content
	case ContentTypeToolUse:
		var content *ToolUseContent
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		c.Item = content
	case ContentTypeToolResult:
		var content *ToolResultContent
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		c.Item = content
	case ContentTypeImage:
		var content *ImageContent
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		c.Item = content
	case ContentTypeAttachment:
		var content *AttachmentContent
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		c.Item = content
	default:
		return errors.Errorf("unknown content type %q", alias.ContentType)
	}

	return nil
}

// Message is one persisted conversation message.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Conversation is the persisted message sequence of one conversation.
type Conversation struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}
