package activity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFragmentKind(t *testing.T) {
	require.Equal(t, FragmentKindText, NewTextFragment("hello").Kind())
	require.Equal(t, FragmentKindJSON, NewJSONFragment(map[string]any{"a": 1}).Kind())
	require.Equal(t, FragmentKindJSON, NewJSONFragment(nil).Kind())
	require.Equal(t, FragmentKindImage, ResultFragment{Image: []byte{1}, Format: "png"}.Kind())
	require.Equal(t, FragmentKindDocument, ResultFragment{Document: []byte{1}, Format: "pdf", Name: "report"}.Kind())
	require.Equal(t, FragmentKindInvalid, ResultFragment{}.Kind())

	// structured variants win over an accompanying text field
	require.Equal(t, FragmentKindJSON, ResultFragment{Text: "x", JSON: map[string]any{}}.Kind())
}

func TestStatusIsTerminal(t *testing.T) {
	require.False(t, StatusRunning.IsTerminal())
	require.True(t, StatusSuccess.IsTerminal())
	require.True(t, StatusError.IsTerminal())
}

func TestTurnFindTool(t *testing.T) {
	turn := Turn{Tools: []ToolInvocation{
		{ToolUseID: "t1", Name: "search"},
		{ToolUseID: "t2", Name: "fetch"},
	}}

	inv := turn.FindTool("t2")
	require.NotNil(t, inv)
	require.Equal(t, "fetch", inv.Name)

	inv.Status = StatusSuccess
	require.Equal(t, StatusSuccess, turn.Tools[1].Status)

	require.Nil(t, turn.FindTool("t3"))
}

func TestCloneTurnsDoesNotAlias(t *testing.T) {
	turns := []Turn{{
		Thought: "original",
		Tools: []ToolInvocation{{
			ToolUseID: "t1",
			Input:     map[string]any{"k": "v"},
			Content:   []ResultFragment{NewTextFragment("out")},
		}},
	}}

	cl := CloneTurns(turns)
	cl[0].Thought = "changed"
	cl[0].Tools[0].Input["k"] = "changed"
	cl[0].Tools[0].Content[0] = NewTextFragment("changed")

	require.Equal(t, "original", turns[0].Thought)
	require.Equal(t, "v", turns[0].Tools[0].Input["k"])
	require.Equal(t, "out", turns[0].Tools[0].Content[0].Text)

	require.Nil(t, CloneTurns(nil))
}

func TestCloneTurnsDoesNotAliasNestedValues(t *testing.T) {
	turns := []Turn{{
		Tools: []ToolInvocation{{
			ToolUseID: "t1",
			Input:     map[string]any{"filter": map[string]any{"city": "Berlin"}, "tags": []any{"a"}},
			Content: []ResultFragment{
				NewJSONFragment(map[string]any{"weather": map[string]any{"temp": 21}}),
				{Image: []byte{1, 2, 3}, Format: "png"},
			},
		}},
	}}

	cl := CloneTurns(turns)
	cl[0].Tools[0].Input["filter"].(map[string]any)["city"] = "mutated"
	cl[0].Tools[0].Input["tags"].([]any)[0] = "mutated"
	cl[0].Tools[0].Content[0].JSON["weather"].(map[string]any)["temp"] = -1
	cl[0].Tools[0].Content[1].Image[0] = 9

	orig := turns[0].Tools[0]
	require.Equal(t, "Berlin", orig.Input["filter"].(map[string]any)["city"])
	require.Equal(t, "a", orig.Input["tags"].([]any)[0])
	require.Equal(t, 21, orig.Content[0].JSON["weather"].(map[string]any)["temp"])
	require.Equal(t, byte(1), orig.Content[1].Image[0])
}

func TestLines(t *testing.T) {
	turns := []Turn{
		{
			Thought: "checking",
			Tools: []ToolInvocation{
				{ToolUseID: "t1", Name: "search", Status: StatusRunning},
			},
		},
		{
			Tools: []ToolInvocation{
				{ToolUseID: "t2", Name: "fetch", Status: StatusSuccess, Content: []ResultFragment{NewTextFragment("ok")}},
				{ToolUseID: "t3", Name: "render", Status: StatusError},
			},
		},
	}

	lines := Lines(turns)
	require.Equal(t, []string{
		"* checking",
		"→ search …",
		"→ fetch  ← ok",
		"→ render  ✗ (no content)",
	}, lines)
}

func TestFprintTurns(t *testing.T) {
	turns := []Turn{{
		Thought: "checking",
		Tools: []ToolInvocation{{
			ToolUseID: "t1",
			Name:      "search",
			Input:     map[string]any{"query": "weather"},
			Status:    StatusSuccess,
			Content:   []ResultFragment{NewTextFragment("sunny")},
		}},
	}}

	var sb strings.Builder
	FprintTurns(&sb, turns)
	out := sb.String()

	require.Contains(t, out, "turn 1:")
	require.Contains(t, out, "thought: checking")
	require.Contains(t, out, "tool: search id=t1 [success]")
	require.Contains(t, out, `input: {"query":"weather"}`)
	require.Contains(t, out, "sunny")
}
