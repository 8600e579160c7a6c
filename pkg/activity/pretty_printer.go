package activity

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PrettyPrinter renders a turn log in a human-friendly way.
type PrettyPrinter struct {
	IncludeToolDetail bool
	IndentSpaces      int
}

// PrintOption configures a PrettyPrinter.
type PrintOption func(*PrettyPrinter)

// WithToolDetail toggles inclusion of tool input/result details.
func WithToolDetail(include bool) PrintOption {
	return func(p *PrettyPrinter) { p.IncludeToolDetail = include }
}

// WithIndent sets the number of spaces used for indentation.
func WithIndent(spaces int) PrintOption {
	return func(p *PrettyPrinter) { p.IndentSpaces = spaces }
}

// NewPrettyPrinter creates a PrettyPrinter with sensible defaults.
func NewPrettyPrinter(opts ...PrintOption) *PrettyPrinter {
	p := &PrettyPrinter{
		IncludeToolDetail: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FprintTurns emits a human-readable rendering of the turn log.
func FprintTurns(w io.Writer, turns []Turn, opts ...PrintOption) {
	pp := NewPrettyPrinter(opts...)
	pp.FprintTurns(w, turns)
}

// FprintTurns emits one block per turn: the thought, then each invocation.
func (p *PrettyPrinter) FprintTurns(w io.Writer, turns []Turn) {
	pad := strings.Repeat(" ", p.IndentSpaces)
	for i, t := range turns {
		fmt.Fprintf(w, "%sturn %d:\n", pad, i+1)
		if t.HasThought() {
			fmt.Fprintf(w, "%s  thought: %s\n", pad, t.Thought)
		}
		for _, inv := range t.Tools {
			if !p.IncludeToolDetail {
				fmt.Fprintf(w, "%s  tool: %s [%s]\n", pad, inv.Name, inv.Status)
				continue
			}
			fmt.Fprintf(w, "%s  tool: %s id=%s [%s]\n", pad, inv.Name, inv.ToolUseID, inv.Status)
			if len(inv.Input) > 0 {
				fmt.Fprintf(w, "%s    input: %s\n", pad, toOneLineJSON(inv.Input))
			}
			for _, frag := range inv.Content {
				fmt.Fprintf(w, "%s    %s\n", pad, fragmentLine(frag))
			}
		}
	}
}

// Lines returns a compact plain-text line per thought and invocation, in log
// order. UI layers can style these strings as needed.
func Lines(turns []Turn) []string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.HasThought() {
			lines = append(lines, "* "+t.Thought)
		}
		for _, inv := range t.Tools {
			name := inv.Name
			if name == "" {
				name = inv.ToolUseID
			}
			switch inv.Status {
			case StatusRunning:
				lines = append(lines, "→ "+name+" …")
			case StatusSuccess:
				lines = append(lines, "→ "+name+"  ← "+resultSummary(inv.Content))
			case StatusError:
				lines = append(lines, "→ "+name+"  ✗ "+resultSummary(inv.Content))
			}
		}
	}
	return lines
}

func resultSummary(content []ResultFragment) string {
	if len(content) == 0 {
		return "(no content)"
	}
	parts := make([]string, 0, len(content))
	for _, frag := range content {
		parts = append(parts, fragmentLine(frag))
	}
	return strings.Join(parts, "  ")
}

func fragmentLine(frag ResultFragment) string {
	switch frag.Kind() {
	case FragmentKindText:
		return frag.Text
	case FragmentKindJSON:
		return toOneLineJSON(frag.JSON)
	case FragmentKindImage:
		return fmt.Sprintf("image/%s (%d bytes)", frag.Format, len(frag.Image))
	case FragmentKindDocument:
		return fmt.Sprintf("document %s (%d bytes)", frag.Name, len(frag.Document))
	}
	return "(empty fragment)"
}

func toOneLineJSON(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	out := string(b)
	out = strings.ReplaceAll(out, "\n", " ")
	out = strings.ReplaceAll(out, "\t", " ")
	return out
}
