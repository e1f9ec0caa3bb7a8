// Package snapshot renders one provider's aggregation outcome for the
// terminal.
package snapshot

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/vitals-cli/internal/domain"
)

type RenderOptions struct {
	Provider domain.ProviderID
	UserID   string
	Now      time.Time
}

const percentBarWidth = 20

func renderView(outcome domain.AggregationOutcome, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Tracker Snapshot: %s", opts.Provider)),
	}

	if outcome.Snapshot == nil {
		lines = append(lines,
			s.warning.Render("snapshot unavailable: every resource failed"))
		lines = append(lines, errorLines(outcome.ResourceErrors, s)...)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	snap := *outcome.Snapshot
	lines = append(lines, s.header.Render(capturedLabel(snap.CapturedAt, opts.Now)))

	if snap.Empty() {
		lines = append(lines, s.empty.Render("No data reported for today or yesterday."))
	} else {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, metricLines(snap, s)...)))
	}

	if len(outcome.ResourceErrors) > 0 {
		warnBlock := append([]string{s.warning.Render("partial data, some resources failed:")},
			errorLines(outcome.ResourceErrors, s)...)
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, warnBlock...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func metricLines(snap domain.TrackerSnapshot, s styles) []string {
	var lines []string

	if snap.Recovery != nil {
		lines = append(lines, percentLine("recovery", *snap.Recovery, s))
	}
	if snap.Sleep != nil {
		lines = append(lines, sleepLines(*snap.Sleep, s)...)
	}
	if snap.HRV != nil {
		lines = append(lines, valueLine("hrv", fmt.Sprintf("%.1f", *snap.HRV), "ms", s))
	}
	if snap.HeartRate != nil {
		lines = append(lines, valueLine("heart rate", fmt.Sprintf("%.0f", *snap.HeartRate), "bpm", s))
	}
	if snap.RestingHeartRate != nil {
		lines = append(lines, valueLine("resting hr", fmt.Sprintf("%.0f", *snap.RestingHeartRate), "bpm", s))
	}
	if snap.Steps != nil {
		lines = append(lines, valueLine("steps", fmt.Sprintf("%d", *snap.Steps), "", s))
	}
	if snap.CaloriesOut != nil {
		lines = append(lines, valueLine("calories", fmt.Sprintf("%.0f", *snap.CaloriesOut), "kcal", s))
	}

	return lines
}

func sleepLines(sleep domain.SleepSummary, s styles) []string {
	var lines []string
	if sleep.DurationHours != nil {
		lines = append(lines, valueLine("sleep", fmt.Sprintf("%.1f", *sleep.DurationHours), "h", s))
	}
	if sleep.QualityScore != nil {
		lines = append(lines, percentLine("sleep quality", *sleep.QualityScore, s))
	}
	if sleep.EfficiencyPercent != nil {
		lines = append(lines, percentLine("sleep efficiency", *sleep.EfficiencyPercent, s))
	}
	return lines
}

func percentLine(name string, percent float64, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.metricKey.Render(paddedKey(name)),
		renderPercentBar(percent, percentBarWidth, s),
		" ",
		s.metricVal.Render(fmt.Sprintf("%3.0f", percent)),
		s.unit.Render("%"),
	)
}

func valueLine(name, value, unit string, s styles) string {
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.metricKey.Render(paddedKey(name)),
		s.metricVal.Render(value),
	)
	if unit != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, " ", s.unit.Render(unit))
	}
	return line
}

func paddedKey(name string) string {
	return fmt.Sprintf("%-18s", name+":")
}

func renderPercentBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	clamped := percent
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	filled := int(math.Round(float64(width) * clamped / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func errorLines(resourceErrors map[domain.Resource]domain.ErrorKind, s styles) []string {
	resources := make([]string, 0, len(resourceErrors))
	for resource := range resourceErrors {
		resources = append(resources, string(resource))
	}
	sort.Strings(resources)

	lines := make([]string, 0, len(resources))
	for _, resource := range resources {
		kind := resourceErrors[domain.Resource(resource)]
		lines = append(lines, s.empty.Render(fmt.Sprintf("  %s: %s", resource, kind)))
	}
	return lines
}

func capturedLabel(capturedAt, now time.Time) string {
	if capturedAt.IsZero() {
		return "captured: unknown"
	}
	if now.IsZero() {
		return "captured: " + capturedAt.Format("2006-01-02 15:04")
	}

	age := now.Sub(capturedAt)
	switch {
	case age < time.Hour:
		return fmt.Sprintf("captured: %s (%dm ago)", capturedAt.Format("15:04"), int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("captured: %s (%dh ago)", capturedAt.Format("15:04"), int(age.Hours()))
	default:
		return "captured: " + capturedAt.Format("2006-01-02 15:04")
	}
}
