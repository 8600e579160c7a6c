package activity

// InvocationStatus tracks the lifecycle of a single tool invocation.
type InvocationStatus string

const (
	StatusRunning InvocationStatus = "running"
	StatusSuccess InvocationStatus = "success"
	StatusError   InvocationStatus = "error"
)

// IsTerminal reports whether the status is a final one (success or error).
func (s InvocationStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// FragmentKind discriminates the variants of a ResultFragment.
type FragmentKind string

const (
	FragmentKindText     FragmentKind = "text"
	FragmentKindJSON     FragmentKind = "json"
	FragmentKindImage    FragmentKind = "image"
	FragmentKindDocument FragmentKind = "document"
	// FragmentKindInvalid marks a fragment that carries none of the variants.
	FragmentKindInvalid FragmentKind = "invalid"
)

// ResultFragment is one element of a tool result. Exactly one variant is
// expected to be set: Text, JSON, Image (with Format) or Document (with
// Format and Name). Byte fields round-trip as base64 through JSON.
type ResultFragment struct {
	Text     string         `json:"text,omitempty" yaml:"text,omitempty"`
	JSON     map[string]any `json:"json,omitempty" yaml:"json,omitempty"`
	Format   string         `json:"format,omitempty" yaml:"format,omitempty"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Image    []byte         `json:"image,omitempty" yaml:"image,omitempty"`
	Document []byte         `json:"document,omitempty" yaml:"document,omitempty"`
}

// Kind returns the variant carried by the fragment. Text wins only when no
// structured variant is present, so a fragment decoded from a bare
// `{"text": ""}` payload still counts as text.
func (f ResultFragment) Kind() FragmentKind {
	switch {
	case len(f.Document) > 0:
		return FragmentKindDocument
	case len(f.Image) > 0:
		return FragmentKindImage
	case f.JSON != nil:
		return FragmentKindJSON
	case f.Text != "":
		return FragmentKindText
	}
	return FragmentKindInvalid
}

// Clone returns a copy whose map and byte fields do not alias the original.
func (f ResultFragment) Clone() ResultFragment {
	out := f
	if f.JSON != nil {
		out.JSON = cloneAnyMap(f.JSON)
	}
	if len(f.Image) > 0 {
		out.Image = append([]byte(nil), f.Image...)
	}
	if len(f.Document) > 0 {
		out.Document = append([]byte(nil), f.Document...)
	}
	return out
}

// NewTextFragment returns a text result fragment.
func NewTextFragment(text string) ResultFragment {
	return ResultFragment{Text: text}
}

// NewJSONFragment returns a structured result fragment.
func NewJSONFragment(m map[string]any) ResultFragment {
	if m == nil {
		m = map[string]any{}
	}
	return ResultFragment{JSON: m}
}

// ToolInvocation is one request to an external tool, tracked from start to
// terminal status. Input is an opaque payload whose schema is owned by the
// tool, not by the tracker.
type ToolInvocation struct {
	ToolUseID string           `json:"toolUseId" yaml:"tool_use_id"`
	Name      string           `json:"name" yaml:"name"`
	Input     map[string]any   `json:"input,omitempty" yaml:"input,omitempty"`
	Status    InvocationStatus `json:"status" yaml:"status"`
	Content   []ResultFragment `json:"content,omitempty" yaml:"content,omitempty"`
}

// Clone returns a copy whose maps and slices, nested values included, do not
// alias the original.
func (ti ToolInvocation) Clone() ToolInvocation {
	out := ti
	if ti.Input != nil {
		out.Input = cloneAnyMap(ti.Input)
	}
	if len(ti.Content) > 0 {
		out.Content = make([]ResultFragment, 0, len(ti.Content))
		for _, f := range ti.Content {
			out.Content = append(out.Content, f.Clone())
		}
	}
	return out
}

// cloneAnyMap deep-copies a decoded-JSON value tree. Only the container
// shapes encoding/json produces (map[string]any, []any) need recursion.
func cloneAnyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAnyValue(v)
	}
	return out
}

func cloneAnyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneAnyMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneAnyValue(e)
		}
		return out
	default:
		return v
	}
}

// Turn groups one optional thought with the tool invocations emitted
// alongside it. A turn without a thought and without tools is never stored.
type Turn struct {
	Thought string           `json:"thought,omitempty" yaml:"thought,omitempty"`
	Tools   []ToolInvocation `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// HasThought reports whether the turn carries a thought.
func (t Turn) HasThought() bool {
	return t.Thought != ""
}

// FindTool returns a pointer into the turn's tool slice for the given id.
func (t *Turn) FindTool(toolUseID string) *ToolInvocation {
	for i := range t.Tools {
		if t.Tools[i].ToolUseID == toolUseID {
			return &t.Tools[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the turn.
func (t Turn) Clone() Turn {
	out := Turn{Thought: t.Thought}
	if len(t.Tools) > 0 {
		out.Tools = make([]ToolInvocation, 0, len(t.Tools))
		for _, ti := range t.Tools {
			out.Tools = append(out.Tools, ti.Clone())
		}
	}
	return out
}

// CloneTurns deep-copies a turn log so callers can hold a snapshot without
// racing the tracker's mutations.
func CloneTurns(turns []Turn) []Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.Clone())
	}
	return out
}
