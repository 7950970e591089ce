// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fixwell/autocare-match/internal/engine"
	"github.com/fixwell/autocare-match/internal/model"
)

var (
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SuccessColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// RenderBox renders content inside a titled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(TitleStyle.Render(title) + "\n" + content)
}

// RenderBatchSummary renders a finished batch run for the terminal,
// including the failure-reason breakdown the dashboard charts aggregate.
func RenderBatchSummary(label string, stats *engine.Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s %d records in %s\n",
		SuccessStyle.Render("Processed"), stats.Total, stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  • Matched: %s\n", SuccessStyle.Render(fmt.Sprintf("%d", stats.Matched)))
	fmt.Fprintf(&b, "  • Needs review: %s\n", WarningStyle.Render(fmt.Sprintf("%d", stats.NeedsReview)))
	fmt.Fprintf(&b, "  • Unmatched: %s\n", ErrorStyle.Render(fmt.Sprintf("%d", stats.Unmatched)))
	fmt.Fprintf(&b, "  • Skipped (human-reviewed): %d\n", stats.SkippedReviewed)

	if len(stats.FailureCounts) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", SubtleStyle.Render("Top failure reasons"))
		for _, line := range failureLines(stats.FailureCounts) {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}

	return RenderBox(label, b.String())
}

// failureLines orders reasons by count descending, then name, for a stable
// rendering.
func failureLines(counts map[model.FailureReason]int) []string {
	type entry struct {
		reason model.FailureReason
		count  int
	}
	entries := make([]entry, 0, len(counts))
	for reason, count := range counts {
		entries = append(entries, entry{reason, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].reason < entries[j].reason
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%-24s %d", e.reason, e.count))
	}
	return lines
}
