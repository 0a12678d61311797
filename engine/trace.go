package engine

import (
	"fmt"
	"strings"
)

// TraceKind classifies a trace entry.
type TraceKind string

const (
	TraceAction TraceKind = "action"
	TraceState  TraceKind = "state"
	TraceStep   TraceKind = "step"
)

// TraceEntry is one executed action, auto-state transition, or chosen step.
type TraceEntry struct {
	Kind TraceKind
	Name string
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("%-6s %s", e.Kind, e.Name)
}

func (g *Game) record(kind TraceKind, name string) {
	if g.opts.Trace {
		g.trace = append(g.trace, TraceEntry{Kind: kind, Name: name})
	}
}

// Trace returns the recorded entries. It is empty unless Options.Trace is set.
func (g *Game) Trace() []TraceEntry { return g.trace }

// FormatTrace renders entries one per line.
func FormatTrace(entries []TraceEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
