package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents a connection's status.
type ConnectionStatus struct {
	Name       string
	Connected  bool
	Latency    time.Duration
	LastUpdate time.Time
}

// StatusComponent renders the RPC, subgraph and price API status.
type StatusComponent struct {
	connections []ConnectionStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		connections: make([]ConnectionStatus, 0),
	}
}

// Update updates a connection's status.
func (s *StatusComponent) Update(status ConnectionStatus) {
	for i, conn := range s.connections {
		if conn.Name == status.Name {
			s.connections[i] = status
			return
		}
	}
	s.connections = append(s.connections, status)
}

// View renders the connections inline.
func (s *StatusComponent) View() string {
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	downStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	parts := make([]string, 0, len(s.connections))
	for _, conn := range s.connections {
		if !conn.Connected {
			parts = append(parts, downStyle.Render("○ "+conn.Name))
			continue
		}
		label := conn.Name
		if conn.Latency > 0 {
			label = fmt.Sprintf("%s (%dms)", conn.Name, conn.Latency.Milliseconds())
		}
		parts = append(parts, okStyle.Render("● "+label))
	}
	return strings.Join(parts, "  ")
}
