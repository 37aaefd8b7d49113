// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BoostRow is one incentive program.
type BoostRow struct {
	Name          string
	FromToken     string
	ToToken       string
	MonthlyVolume string
	DailyRewards  string
	APR           string
	Live          bool
}

// BoostsComponent renders the "Discover Incentives" catalog.
type BoostsComponent struct {
	rows     []BoostRow
	selected int
}

// NewBoostsComponent creates a new boosts component.
func NewBoostsComponent(rows []BoostRow) *BoostsComponent {
	return &BoostsComponent{rows: rows}
}

// Update replaces the catalog, keeping the selection in range.
func (b *BoostsComponent) Update(rows []BoostRow) {
	b.rows = rows
	if b.selected >= len(rows) {
		b.selected = max(0, len(rows)-1)
	}
}

func (b *BoostsComponent) ScrollUp() {
	if b.selected > 0 {
		b.selected--
	}
}

func (b *BoostsComponent) ScrollDown() {
	if b.selected < len(b.rows)-1 {
		b.selected++
	}
}

// Selected returns the highlighted program.
func (b *BoostsComponent) Selected() (BoostRow, bool) {
	if len(b.rows) == 0 {
		return BoostRow{}, false
	}
	return b.rows[b.selected], true
}

// View renders the boosts component.
func (b *BoostsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	liveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("DISCOVER INCENTIVES"))
	sb.WriteString("\n\n")

	if len(b.rows) == 0 {
		sb.WriteString(dimStyle.Render("  No boosts configured"))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  %-14s  %-12s  %16s  %14s  %7s  %s\n",
		"Boost", "Stream", "Monthly volume", "Daily rewards", "APR", ""))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 76)) + "\n")

	for i, r := range b.rows {
		status := dimStyle.Render("ended")
		if r.Live {
			status = liveStyle.Render("● live")
		}
		line := fmt.Sprintf("  %-14s  %-12s  %16s  %14s  %7s  ",
			r.Name, r.FromToken+" → "+r.ToToken, "$"+r.MonthlyVolume, r.DailyRewards, r.APR)
		if i == b.selected {
			line = selStyle.Render("▸" + line[1:])
		}
		sb.WriteString(line + status + "\n")
	}

	return sb.String()
}
