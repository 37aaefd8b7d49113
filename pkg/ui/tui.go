// Package ui provides the Bubble Tea dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dashboardDomain "github.com/fd1az/superboost/business/dashboard/domain"
	"github.com/fd1az/superboost/pkg/ui/components"
)

// Title is the dashboard heading.
const Title = "Super Boring DCA"

// StatusConnectWallet is shown when an action needs a signer.
const StatusConnectWallet = "Please connect your wallet first."

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// Tab selects the main panel.
type Tab int

const (
	TabBoosts Tab = iota
	TabPortfolio
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

var startupOrder = []string{"config", "rpc", "subgraph", "price"}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	boosts    *components.BoostsComponent
	portfolio *components.PortfolioComponent
	form      *components.FormComponent
	status    *components.StatusComponent
	keys      KeyMap
	help      help.Model

	phase        Phase
	welcomeStart time.Time
	startupTime  time.Time
	startupSteps map[string]*StartupStep

	tab      Tab
	formOpen bool
	quitting bool
	width    int
	height   int

	view         *dashboardDomain.View
	canSign      bool
	currentBlock uint64
	gasPrice     float64
	lastUpdate   time.Time
	lastAction   string
	pending      bool
	errors       []ErrorEntry
	logs         []string
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		boosts:       components.NewBoostsComponent(nil),
		portfolio:    components.NewPortfolioComponent(),
		form:         components.NewFormComponent(),
		status:       components.NewStatusComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		startupTime:  now,
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"rpc":      {Name: "Connecting to Optimism RPC", Status: "pending"},
			"subgraph": {Name: "Querying Superfluid subgraph", Status: "pending"},
			"price":    {Name: "Fetching ETH price", Status: "pending"},
		},
		tab:    TabPortfolio,
		errors: make([]ErrorEntry, 0, 3),
		logs:   make([]string, 0, 5),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd redraws every 100ms so the live counters animate.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *Model) startModules() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	// Don't use Send() from within Update.
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.startModules()
			return m, tickCmd()
		}
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.updateDashboard(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.startModules()
		}
		return m, tickCmd()

	case ViewMsg:
		m.phase = PhaseDashboard
		if msg.View != nil {
			m.applyView(msg.View)
		}
		m.canSign = msg.CanSign
		m.lastUpdate = time.Now()

	case StreamedMsg:
		m.portfolio.SetStreamed(msg.PoolID, msg.Streamed)

	case ActionMsg:
		m.applyAction(msg)

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})

	case BlockMsg:
		m.currentBlock = msg.Number

	case GasPriceMsg:
		m.gasPrice = msg.GweiPrice

	case ErrorMsg:
		m.addError(msg.Error.Error())

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
	}

	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		if m.tab == TabBoosts {
			m.tab = TabPortfolio
		} else {
			m.tab = TabBoosts
		}
	case key.Matches(msg, m.keys.Up):
		if m.tab == TabBoosts {
			m.boosts.ScrollUp()
		} else {
			m.portfolio.ScrollUp()
		}
	case key.Matches(msg, m.keys.Down):
		if m.tab == TabBoosts {
			m.boosts.ScrollDown()
		} else {
			m.portfolio.ScrollDown()
		}
	case key.Matches(msg, m.keys.New):
		m.openForm()
	case key.Matches(msg, m.keys.Delete):
		m.requestForSelected("delete")
	case key.Matches(msg, m.keys.Register):
		m.requestForSelected("register")
	case key.Matches(msg, m.keys.Refresh):
		if OnRefresh != nil {
			go OnRefresh()
		}
	case key.Matches(msg, m.keys.Clear):
		m.errors = make([]ErrorEntry, 0, 3)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.form.Busy() {
			m.formOpen = false
		}
		return m, nil
	case "tab", "down", "up":
		m.form.NextField()
		return m, nil
	case "enter":
		if m.form.Busy() {
			return m, nil
		}
		if !m.canSign {
			m.form.SetProgress("", StatusConnectWallet, false)
			return m, nil
		}
		v := m.form.Values()
		m.form.SetProgress("", "Processing...", true)
		dispatch(ActionRequest{Kind: "start", MonthlyRate: v.MonthlyRate, UpgradeAmount: v.UpgradeAmount})
		return m, nil
	}
	return m, m.form.Update(msg)
}

func (m *Model) openForm() {
	if m.tab == TabBoosts {
		if b, ok := m.boosts.Selected(); ok && !b.Live {
			m.lastAction = b.Name + " has ended"
			return
		}
	}
	var balance, symbol string
	needsApproval := true
	if m.view != nil {
		balance = m.view.State.Balance
		needsApproval = !m.view.Pair.IsNativeUnderlying()
	}
	if b, ok := m.boosts.Selected(); ok {
		symbol = b.FromToken
	}
	m.form.Open("START DCA POSITION", balance, symbol, needsApproval)
	m.formOpen = true
}

func (m *Model) requestForSelected(kind string) {
	if m.tab != TabPortfolio {
		return
	}
	row, ok := m.portfolio.Selected()
	if !ok {
		return
	}
	if !m.canSign {
		m.lastAction = StatusConnectWallet
		return
	}
	m.lastAction = "Processing..."
	m.pending = true
	dispatch(ActionRequest{Kind: kind, PoolID: row.PoolID})
}

func (m *Model) applyView(v *dashboardDomain.View) {
	m.view = v

	boosts := make([]components.BoostRow, 0, len(v.Boosts))
	for _, b := range v.Boosts {
		boosts = append(boosts, components.BoostRow{
			Name:          b.Name,
			FromToken:     b.FromToken,
			ToToken:       b.ToToken,
			MonthlyVolume: b.MonthlyVolume,
			DailyRewards:  b.DailyRewards,
			APR:           b.APR,
			Live:          b.Live,
		})
	}
	m.boosts.Update(boosts)

	in, out := m.pairSymbols(v)
	rows := make([]components.PositionRow, 0, len(v.Positions))
	for _, p := range v.Positions {
		rows = append(rows, components.PositionRow{
			PoolID:   p.PoolID,
			Monthly:  p.Monthly,
			Received: p.Received,
			USD:      p.ReceivedUSD,
			InToken:  in,
			OutToken: out,
		})
	}
	m.portfolio.Update(rows)

	for _, w := range v.Warnings {
		m.addError(w.Error())
	}
}

// pairSymbols labels positions with the catalog entry of the configured
// TOREX, when there is one.
func (m *Model) pairSymbols(v *dashboardDomain.View) (string, string) {
	for _, b := range v.Boosts {
		if b.Torex == v.Pair.Target {
			return b.FromToken, b.ToToken
		}
	}
	return "", ""
}

func (m *Model) applyAction(msg ActionMsg) {
	if msg.TxHash != "" {
		m.logs = addLog(m.logs, "info", msg.Kind+" tx "+msg.TxHash)
	}
	if msg.Kind == "start" {
		m.form.SetProgress(msg.Step, msg.Status, !msg.Terminal())
	}
	m.lastAction = msg.Status
	m.pending = !msg.Terminal()
	if msg.Err != nil {
		m.addError(msg.Err.Error())
	}
}

func (m *Model) addError(msg string) {
	m.errors = append(m.errors, ErrorEntry{Message: msg, Timestamp: time.Now()})
	if len(m.errors) > 3 {
		m.errors = m.errors[len(m.errors)-3:]
	}
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logs = append(logs, fmt.Sprintf("[%s] %s: %s", timestamp, level, message))
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" " + Title + " "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	width := m.width - 4
	if width < 40 {
		width = 80
	}

	var main string
	switch {
	case m.formOpen:
		main = m.form.View()
	case m.tab == TabBoosts:
		main = m.boosts.View()
	default:
		main = m.portfolio.View()
	}

	if m.width > 120 {
		left := BoxStyle.Width(m.width*2/3 - 2).Render(main)
		right := BoxStyle.Width(m.width/3 - 2).Render(m.renderAccount())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(width).Render(main))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(width).Render(m.renderAccount()))
	}
	b.WriteString("\n\n")

	if m.lastAction != "" {
		style := HeaderStyle
		if m.pending {
			style = ActionPendingStyle
		}
		b.WriteString(style.Render(m.lastAction))
		b.WriteString("\n\n")
	}

	if len(m.errors) > 0 {
		b.WriteString(ErrorHeaderStyle.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if !m.formOpen {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	boosts, portfolio := TabInactiveStyle.Render("Boosts"), TabInactiveStyle.Render("Portfolio")
	if m.tab == TabBoosts {
		boosts = TabActiveStyle.Render("Boosts")
	} else {
		portfolio = TabActiveStyle.Render("Portfolio")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boosts, portfolio)
}

func (m Model) renderAccount() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("ACCOUNT"))
	sb.WriteString("\n\n")

	if m.view == nil {
		sb.WriteString(MutedValue.Render("Waiting for data..."))
		return sb.String()
	}

	v := m.view
	wallet := "watch-only"
	if m.canSign {
		wallet = "signer loaded"
	}
	sb.WriteString(fmt.Sprintf("Address    %s\n", v.Account.Hex()))
	sb.WriteString(fmt.Sprintf("Wallet     %s\n", wallet))

	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	sb.WriteString(fmt.Sprintf("Balance    %s\n", dash(v.State.Balance)))
	if !v.Pair.IsNativeUnderlying() {
		sb.WriteString(fmt.Sprintf("Allowance  %s\n", dash(v.State.Allowance)))
	}
	if v.Quote != nil {
		sb.WriteString(fmt.Sprintf("ETH/USD    $%s\n", v.Quote.Price.Rate().StringFixed(2)))
	}
	active := NegativeValue.Render("none")
	if v.HasActive {
		active = PositiveValue.Render(fmt.Sprintf("%d", len(v.Positions)))
	}
	sb.WriteString(fmt.Sprintf("Active     %s\n", active))

	if len(m.logs) > 0 {
		sb.WriteString("\n")
		for _, l := range m.logs {
			sb.WriteString(MutedValue.Render(l) + "\n")
		}
	}
	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	dots := strings.Repeat(".", int(time.Since(m.welcomeStart).Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(titleStyle.Render("        S U P E R   B O R I N G   D C A"))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("     streaming dollar-cost averaging on Optimism"))
	sb.WriteString("\n\n\n")
	sb.WriteString(StepReadyStyle.Render("                 Initializing" + dots))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("          Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  " + Title))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, k := range startupOrder {
		step := m.startupSteps[k]

		var icon, text string
		var style lipgloss.Style
		switch step.Status {
		case "connected", "done":
			icon, text, style = "✓", "Ready", StepReadyStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			icon = spinners[int(time.Since(m.startupTime).Milliseconds()/200)%len(spinners)]
			text, style = "Connecting...", StepConnectingStyle
		case "failed":
			icon, text, style = "✗", "Failed", StepFailedStyle
		default:
			icon, text, style = "○", "Pending", MutedValue
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n", style.Render(icon), MutedValue.Render(step.Name), style.Render(text)))
	}

	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", time.Since(m.startupTime).Round(time.Second))))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStatusBar() string {
	parts := []string{fmt.Sprintf("Block: #%d", m.currentBlock)}
	if m.gasPrice > 0 {
		parts = append(parts, fmt.Sprintf("Gas: %.4f gwei", m.gasPrice))
	}
	if s := m.status.View(); s != "" {
		parts = append(parts, s)
	}
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules
// should start. Set by main.
var OnStartModules func()

// OnAction receives user-initiated transactions. It is called on its own
// goroutine; progress comes back as ActionMsg.
var OnAction func(ActionRequest)

// OnRefresh asks for a fresh ViewMsg.
var OnRefresh func()

func dispatch(req ActionRequest) {
	if OnAction != nil {
		go OnAction(req)
	}
}

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
