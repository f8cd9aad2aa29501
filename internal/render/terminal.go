// Package render draws region views for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
)

var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink
	titleColor   = lipgloss.Color("#8BE9FD") // Cyan
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	mutedColor   = lipgloss.Color("#6272A4") // Muted purple
	errorColor   = lipgloss.Color("#FF5555") // Red
	warningColor = lipgloss.Color("#FFB86C") // Orange
	successColor = lipgloss.Color("#50FA7B") // Green
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(textColor).Width(78)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(mutedColor).Width(34)
	valueStyle   = lipgloss.NewStyle().Foreground(textColor).Align(lipgloss.Right).Width(20)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

var severityStyles = map[domain.Severity]lipgloss.Style{
	domain.SeverityHigh:     lipgloss.NewStyle().Foreground(errorColor).Bold(true),
	domain.SeverityModerate: lipgloss.NewStyle().Foreground(warningColor),
	domain.SeverityLow:      lipgloss.NewStyle().Foreground(successColor),
	domain.SeverityUnknown:  lipgloss.NewStyle().Foreground(mutedColor),
}

// View renders a full region panel: header, narrative sections, metric cards,
// events and sources. errMsg, when set, is shown as a banner above the data.
func View(v domain.View, errMsg string) string {
	var b strings.Builder

	header := strings.TrimSpace(v.Icon + " " + v.RegionName)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	meta := "Updated " + v.Timestamp
	if v.ConfidencePercent != nil {
		meta += fmt.Sprintf(" · Confidence %d%%", *v.ConfidencePercent)
	}
	b.WriteString(mutedStyle.Render(meta))
	b.WriteString("\n\n")

	if errMsg != "" {
		b.WriteString(errorStyle.Render("⚠ " + errMsg))
		b.WriteString("\n\n")
	}

	for _, s := range v.Sections {
		b.WriteString(sectionStyle.Render(s.Icon + " " + s.Title))
		b.WriteString("\n")
		for _, p := range s.Paragraphs {
			b.WriteString(textStyle.Render(p))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(v.Cards) > 0 {
		b.WriteString(panelStyle.Render(cards(v.Cards)))
		b.WriteString("\n")
	}

	if len(v.Events) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Detected Events"))
		b.WriteString("\n")
		for _, e := range v.Events {
			b.WriteString(event(e))
			b.WriteString("\n")
		}
	}

	if sources := append(append([]string(nil), v.Sources...), v.FeatureSources...); len(sources) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Sources: " + strings.Join(sources, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// Message renders a placeholder panel for states without data.
func Message(msg string) string {
	return mutedStyle.Render(msg) + "\n"
}

func cards(cs []domain.DisplayCard) string {
	rows := make([]string, 0, len(cs))
	for _, c := range cs {
		label := strings.TrimSpace(c.Icon + " " + c.Label)
		var value string
		if c.Kind == domain.CardPaired {
			value = withUnit(c.Celsius, "°C") + " / " + withUnit(c.Fahrenheit, "°F")
		} else {
			value = c.Value.Display
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// withUnit leaves empty readings as a bare dash.
func withUnit(v *domain.CardValue, suffix string) string {
	if v == nil || v.Display == domain.EmptyPlaceholder {
		return domain.EmptyPlaceholder
	}
	return v.Display + suffix
}

func event(e domain.EventView) string {
	style, ok := severityStyles[e.Severity]
	if !ok {
		style = severityStyles[domain.SeverityUnknown]
	}
	line := fmt.Sprintf("• %s [%s]", e.Title, strings.ToUpper(string(e.Severity)))
	if e.Metric != "" {
		line += " " + e.Metric
		if e.Value != "" {
			line += ": " + e.Value
		}
	}
	out := style.Render(line)
	if e.Description != "" {
		out += "\n  " + mutedStyle.Render(e.Description)
	}
	return out
}

// Regions renders the registry as an aligned list.
func Regions(regions []domain.Region) string {
	idStyle := lipgloss.NewStyle().Foreground(titleColor).Width(26)
	nameStyle := lipgloss.NewStyle().Foreground(textColor).Width(28)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Regions"))
	b.WriteString("\n")
	for _, r := range regions {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(r.ID),
			nameStyle.Render(r.Icon+" "+r.Name),
			mutedStyle.Render(fmt.Sprintf("%s  %.2f, %.2f", r.Category, r.Coordinates.Lat, r.Coordinates.Lon)),
		))
		b.WriteString("\n")
	}
	return b.String()
}
