package report

import (
	"strings"
	"testing"

	"github.com/buildwatch/depreport/pkg/diff"
)

func TestBuildWithRows(t *testing.T) {
	rows := []diff.Row{
		{
			Handle:  "app",
			Added:   []string{"wp-element", "wp-i18n"},
			NewSize: 2048,
			Diff:    diff.SizeDiff{Delta: 2048, Percent: "+100% 🔼"},
		},
		{
			Handle:  "editor",
			Removed: []string{"wp-dom"},
			NewSize: 100,
			Diff:    diff.SizeDiff{Delta: -4, Percent: "-3.85% ⬇️"},
		},
	}

	rep := Build(rows, "abc1234", "trunk")

	if !strings.HasPrefix(rep.Body, Heading) {
		t.Fatalf("Body must start with the heading marker, got %q", rep.Body[:40])
	}
	if rep.OnlyUpdate {
		t.Error("OnlyUpdate must be false when rows are present")
	}

	for _, want := range []string{
		"abc1234",
		"trunk",
		"| Script Handle | Added Dependencies | Removed Dependencies | Total Size | Size Diff |",
		"| `app` | `wp-element`, `wp-i18n` |  | 2048 B | +2048 B (+100% 🔼) |",
		"| `editor` |  | `wp-dom` | 100 B | -4 B (-3.85% ⬇️) |",
		"__This comment was automatically generated by the `" + ToolName + "` action.__",
	} {
		if !strings.Contains(rep.Body, want) {
			t.Errorf("Body missing %q:\n%s", want, rep.Body)
		}
	}
}

func TestBuildWithoutRows(t *testing.T) {
	rep := Build(nil, "abc1234", "trunk")

	if !rep.OnlyUpdate {
		t.Error("OnlyUpdate must be set for an empty report")
	}
	if !strings.HasPrefix(rep.Body, Heading) {
		t.Error("Body must start with the heading marker")
	}
	if !strings.Contains(rep.Body, noChanges) {
		t.Errorf("Body missing the no-changes placeholder:\n%s", rep.Body)
	}
	if strings.Contains(rep.Body, "| Script Handle |") {
		t.Error("an empty report must not render a table")
	}
}

func TestHeadingIsStable(t *testing.T) {
	// The heading identifies previous report comments. Changing it would
	// orphan existing comments and create duplicates.
	if Heading != "# WordPress Dependencies Report\n\n" {
		t.Fatalf("Heading changed to %q", Heading)
	}
}

func TestRenderDependencies(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"none", nil, ""},
		{"single", []string{"wp-dom"}, "`wp-dom`"},
		{"several", []string{"a", "b"}, "`a`, `b`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderDependencies(tt.ids); got != tt.want {
				t.Errorf("renderDependencies(%v) = %q, want %q", tt.ids, got, tt.want)
			}
		})
	}
}
