package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// StreamedPlaces is the precision of the live counter.
const StreamedPlaces = 10

// PositionRow is one active stream. Monthly, Received and USD arrive
// formatted; Streamed is updated every frame.
type PositionRow struct {
	PoolID   string
	Monthly  string
	Streamed decimal.Decimal
	Received string
	USD      string
	InToken  string
	OutToken string
}

// PortfolioComponent renders the account's active positions.
type PortfolioComponent struct {
	rows     []PositionRow
	selected int
	loaded   bool
}

// NewPortfolioComponent creates a new portfolio component.
func NewPortfolioComponent() *PortfolioComponent {
	return &PortfolioComponent{}
}

// Update replaces the rows, carrying over live counters for pools that
// are still present.
func (p *PortfolioComponent) Update(rows []PositionRow) {
	prev := make(map[string]decimal.Decimal, len(p.rows))
	for _, r := range p.rows {
		prev[r.PoolID] = r.Streamed
	}
	for i := range rows {
		if s, ok := prev[rows[i].PoolID]; ok && rows[i].Streamed.IsZero() {
			rows[i].Streamed = s
		}
	}

	p.rows = rows
	p.loaded = true
	if p.selected >= len(rows) {
		p.selected = max(0, len(rows)-1)
	}
}

// SetStreamed updates one pool's live counter.
func (p *PortfolioComponent) SetStreamed(poolID string, v decimal.Decimal) {
	for i := range p.rows {
		if p.rows[i].PoolID == poolID {
			p.rows[i].Streamed = v
			return
		}
	}
}

func (p *PortfolioComponent) ScrollUp() {
	if p.selected > 0 {
		p.selected--
	}
}

func (p *PortfolioComponent) ScrollDown() {
	if p.selected < len(p.rows)-1 {
		p.selected++
	}
}

// Selected returns the highlighted position.
func (p *PortfolioComponent) Selected() (PositionRow, bool) {
	if len(p.rows) == 0 {
		return PositionRow{}, false
	}
	return p.rows[p.selected], true
}

// Len is the number of active positions.
func (p *PortfolioComponent) Len() int {
	return len(p.rows)
}

// View renders the portfolio component.
func (p *PortfolioComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	liveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("MY PORTFOLIO"))
	sb.WriteString("\n\n")

	if !p.loaded {
		sb.WriteString(dimStyle.Render("  Loading positions..."))
		return sb.String()
	}
	if len(p.rows) == 0 {
		sb.WriteString(dimStyle.Render("  No active DCA positions. Press n to start one."))
		return sb.String()
	}

	for i, r := range p.rows {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == p.selected {
			marker = "▸ "
			style = selStyle
		}

		pair := "stream"
		if r.InToken != "" && r.OutToken != "" {
			pair = r.InToken + " → " + r.OutToken
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s%s  %s", marker, pair, shortID(r.PoolID))))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Monthly flow    %s\n", r.Monthly))
		sb.WriteString(fmt.Sprintf("    Total streamed  %s\n", liveStyle.Render(r.Streamed.StringFixed(StreamedPlaces))))

		received := r.Received
		if r.USD != "" {
			received += dimStyle.Render(" ($" + r.USD + ")")
		}
		sb.WriteString(fmt.Sprintf("    Total received  %s\n", received))
		if i < len(p.rows)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:6] + "…" + id[len(id)-4:]
}
