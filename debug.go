package arbor

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// GraphInfo is a read-only snapshot of the module-scope provider graph.
type GraphInfo struct {
	Providers []ProviderInfo
}

type ProviderInfo struct {
	Token        string
	Kind         string
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Graph snapshots the module-scope providers and their dependency edges.
func (a *App) Graph() GraphInfo {
	keys := a.module.Keys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	graph := a.module.Graph()
	providers := make([]ProviderInfo, 0, len(keys))

	for _, key := range keys {
		_, instantiated := a.module.Cached(key)

		var kind string
		if p, ok := a.module.Record(key); ok {
			kind = p.Kind()
		}

		providers = append(providers, ProviderInfo{
			Token:        key.String(),
			Kind:         kind,
			Dependencies: tokenNames(graph.GetDependencies(key)),
			Dependents:   tokenNames(graph.GetDependents(key)),
			Instantiated: instantiated,
		})
	}

	return GraphInfo{Providers: providers}
}

func (a *App) PrintGraph() {
	a.FprintGraph(os.Stdout)
}

func (a *App) FprintGraph(w io.Writer) {
	info := a.Graph()

	if len(info.Providers) == 0 {
		_, _ = fmt.Fprintln(w, "(empty module injector)")
		return
	}

	for _, p := range info.Providers {
		status := "○"
		if p.Instantiated {
			status = "●"
		}

		if len(p.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, p.Token)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, p.Token, strings.Join(p.Dependencies, ", "))
		}
	}
}

func (a *App) SprintGraph() string {
	var sb strings.Builder
	a.FprintGraph(&sb)
	return sb.String()
}

func (a *App) PrintGraphDOT() {
	a.FprintGraphDOT(os.Stdout)
}

func (a *App) FprintGraphDOT(w io.Writer) {
	info := a.Graph()

	_, _ = fmt.Fprintln(w, "digraph providers {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, p := range info.Providers {
		style := ""
		if p.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", p.Token, p.Token, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, p := range info.Providers {
		for _, dep := range p.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", p.Token, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (a *App) SprintGraphDOT() string {
	var sb strings.Builder
	a.FprintGraphDOT(&sb)
	return sb.String()
}

// FprintTree writes an indented dump of an element subtree: tags, boundary
// and template markers, and occupant tokens.
func FprintTree(w io.Writer, root *Element) {
	printTree(w, root, 0)
}

func SprintTree(root *Element) string {
	var sb strings.Builder
	FprintTree(&sb, root)
	return sb.String()
}

func printTree(w io.Writer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)

	var marks []string
	if e.IsHost() {
		marks = append(marks, "host")
	}
	if e.HasTemplate() {
		marks = append(marks, "template")
	}

	line := fmt.Sprintf("%s<%s>", indent, e.Tag())
	if len(marks) > 0 {
		line += " [" + strings.Join(marks, ", ") + "]"
	}
	_, _ = fmt.Fprintln(w, line)

	for _, child := range e.Children() {
		printTree(w, child, depth+1)
	}
}

func tokenNames(tokens []*Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = t.String()
	}
	return names
}
