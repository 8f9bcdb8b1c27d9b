package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Call is a request to execute one named tool with JSON arguments.
type Call struct {
	ID        string
	Name      string
	Arguments string
}

// Result is the outcome of executing a Call. IsError marks tool-level
// failures; the Content then carries the diagnostic text.
type Result struct {
	CallID  string
	Content string
	IsError bool
}

// ToolBox holds a collection of named tools and dispatches calls to them.
type ToolBox struct {
	tools map[string]Tool
}

// New creates an empty ToolBox.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools. A tool with the same name as an existing
// one replaces it.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Merge registers all tools from another ToolBox into this one.
func (tb *ToolBox) Merge(other *ToolBox) {
	for _, t := range other.tools {
		tb.tools[t.Name] = t
	}
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

// Filter returns a ToolBox containing only the named tools. Names that are
// not registered are skipped. An empty name list returns the receiver
// unchanged.
func (tb *ToolBox) Filter(names []string) *ToolBox {
	if len(names) == 0 {
		return tb
	}

	filtered := New()

	for _, name := range names {
		if t, ok := tb.tools[name]; ok {
			filtered.Register(t)
		}
	}

	return filtered
}

// Call executes a tool call. Unknown tools and handler errors are reported
// through the Result rather than an error return, so callers can forward
// them to the requesting client verbatim.
func (tb *ToolBox) Call(ctx context.Context, tc Call) Result {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return Result{
			CallID:  tc.ID,
			Content: fmt.Sprintf("tool not found: %s", tc.Name),
			IsError: true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return Result{
			CallID:  tc.ID,
			Content: err.Error(),
			IsError: true,
		}
	}

	return Result{
		CallID:  tc.ID,
		Content: result,
	}
}
