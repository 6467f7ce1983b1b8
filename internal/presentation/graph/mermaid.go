package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waymark/pkg/domain"
)

// GraphOverlay contains run-time data to visualize on the graph.
type GraphOverlay struct {
	ActiveStates []string
	Path         []string
	Target       string
}

// GenerateMermaid produces a Mermaid flowchart of states and transitions.
// It applies semantic styling:
// - Blocking: {{Hexagon}}
// - Default: [Rectangle]
// Transitions that keep their origin visible are dotted. Search-region
// dependencies between states are drawn as dotted links labelled with the object.
// It also applies overlay styles (Active/Path/Target) if provided.
func GenerateMermaid(states []domain.State, transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range states {
		safeID := sanitizeMermaidID(s.Name)

		opener, closer := "[", "]"
		if s.Blocking {
			opener, closer = "{{", "}}"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> cost %d\"%s\n", safeID, opener, s.Name, s.PathCost, closer))
	}

	for _, t := range transitions {
		from, to := sanitizeMermaidID(t.From), sanitizeMermaidID(t.To)

		var labels []string
		if t.Action != "" {
			labels = append(labels, strings.ReplaceAll(t.Action, "\"", "'"))
		}
		if t.Priority != 0 {
			labels = append(labels, fmt.Sprintf("p%d", t.Priority))
		}

		switch {
		case len(labels) > 0 && t.StaysVisible:
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, strings.Join(labels, " "), to))
		case len(labels) > 0:
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, strings.Join(labels, " "), to))
		case t.StaysVisible:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", from, to))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	// Search region dependencies
	for _, s := range states {
		for _, o := range s.Objects {
			dep := o.SearchRegionOnObject
			if dep == nil || dep.TargetStateName == s.Name {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s -. \"📍 %s\" .- %s\n",
				sanitizeMermaidID(s.Name), o.Name, sanitizeMermaidID(dep.TargetStateName)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef path fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef active fill:#c8e6c9,stroke:#2e7d32,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef target fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, name := range overlay.Path {
			safeID := sanitizeMermaidID(name)
			if !styled[safeID] && safeID != "" {
				styled[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s path;\n", safeID))
			}
		}
		for _, name := range overlay.ActiveStates {
			if safeID := sanitizeMermaidID(name); safeID != "" {
				sb.WriteString(fmt.Sprintf("    class %s active;\n", safeID))
			}
		}
		if overlay.Target != "" {
			sb.WriteString(fmt.Sprintf("    class %s target;\n", sanitizeMermaidID(overlay.Target)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
