// Package report renders the dependencies report comment body.
package report

import (
	"fmt"
	"strings"

	"github.com/buildwatch/depreport/pkg/diff"
)

const (
	// Heading identifies the report comment on the pull request. It must
	// never change: the publisher finds the previous report by matching
	// this exact prefix, and any drift would orphan old comments and
	// create duplicates.
	Heading = "# WordPress Dependencies Report\n\n"

	// ToolName is the action name referenced in the comment prose.
	ToolName = "dependencies-report"

	// noChanges replaces the table when no artifact changed.
	noChanges = "There has been no changes detected to the dependencies or total size of any scripts."
)

// Report is a rendered comment body plus publishing directives.
type Report struct {
	// Body is the full markdown comment body, starting with Heading.
	Body string

	// OnlyUpdate is set when the body carries no changes: an existing
	// report comment should be corrected in place, but no new comment
	// should ever be created just to say nothing changed.
	OnlyUpdate bool
}

// Build renders the report for the given diff rows. sha is the commit under
// review and oldBranch the display label of the baseline snapshot.
func Build(rows []diff.Row, sha, oldBranch string) Report {
	var sb strings.Builder
	sb.WriteString(Heading)

	fmt.Fprintf(&sb,
		"The `%s` action has detected some script changes between the commit %s and %s. "+
			"Please review and confirm the following are correct before merging.\n\n",
		ToolName, sha, oldBranch)

	onlyUpdate := false
	if len(rows) == 0 {
		sb.WriteString(noChanges)
		sb.WriteString("\n")
		onlyUpdate = true
	} else {
		sb.WriteString(renderTable(rows))
	}

	fmt.Fprintf(&sb, "\n__This comment was automatically generated by the `%s` action.__\n", ToolName)

	return Report{Body: sb.String(), OnlyUpdate: onlyUpdate}
}

func renderTable(rows []diff.Row) string {
	var sb strings.Builder
	sb.WriteString("| Script Handle | Added Dependencies | Removed Dependencies | Total Size | Size Diff |\n")
	sb.WriteString("| --- | --- | --- | --- | --- |\n")

	for _, row := range rows {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s (%s) |\n",
			row.Handle,
			renderDependencies(row.Added),
			renderDependencies(row.Removed),
			formatBytes(row.NewSize),
			formatDelta(row.Diff.Delta),
			row.Diff.Percent)
	}

	return sb.String()
}

// renderDependencies renders ids as backtick-quoted, comma-separated
// identifiers, or an empty string when there are none.
func renderDependencies(ids []string) string {
	if len(ids) == 0 {
		return ""
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "`" + id + "`"
	}
	return strings.Join(quoted, ", ")
}

func formatBytes(n int64) string {
	return fmt.Sprintf("%d B", n)
}

// formatDelta renders a signed byte count; positive deltas get an explicit
// plus sign, zero stays bare.
func formatDelta(n int64) string {
	if n > 0 {
		return fmt.Sprintf("+%d B", n)
	}
	return fmt.Sprintf("%d B", n)
}
