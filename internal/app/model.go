package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jasper/internal/client"
	"jasper/internal/config"
	"jasper/internal/console"
	"jasper/internal/types"
)

const (
	minViewportWidth = 20
	minContentHeight = 6
	chromeHeight     = 4
)

type uiMode int

const (
	uiModeChat uiMode = iota
	uiModeConfirmRestart
	uiModeRecovering
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 3).
			BorderForeground(lipgloss.Color("11"))
)

type Model struct {
	api BackendAPI

	viewport viewport.Model
	input    textinput.Model
	loader   spinner.Model
	indexBar progress.Model

	mode  uiMode
	turns []types.ChatTurn

	// waiting counts in-flight queries; overlapping submissions are
	// allowed and replies land in arrival order.
	waiting int

	indexPolicy  console.IndexPolicy
	indexVisible bool
	indexActive  bool
	indexPercent int

	restartGrace     time.Duration
	probeRetry       time.Duration
	maxAttempts      int
	recoveryAttempts int

	status string
	width  int
	height int
	ready  bool
}

func NewModel(api BackendAPI, cfg *config.Config) Model {
	vp := viewport.New(minViewportWidth, minContentHeight)
	vp.SetContent("Ask Jasper about your files and mail.")

	input := textinput.New()
	input.Placeholder = "Ask Jasper..."
	input.Focus()

	loader := spinner.New()
	loader.Spinner = spinner.Dot

	policy := console.DefaultIndexPolicy()
	grace := 3 * time.Second
	retry := 2 * time.Second
	maxAttempts := 0
	if cfg != nil {
		policy.Active = cfg.ActivePollInterval()
		policy.Idle = cfg.IdlePollInterval()
		policy.HideGrace = cfg.HideGrace()
		grace = cfg.RestartGrace()
		retry = cfg.ProbeRetry()
		maxAttempts = cfg.RecoveryMaxAttempts()
	}

	return Model{
		api:          api,
		viewport:     vp,
		input:        input,
		loader:       loader,
		indexBar:     progress.New(progress.WithDefaultGradient()),
		mode:         uiModeChat,
		indexPolicy:  policy,
		restartGrace: grace,
		probeRetry:   retry,
		maxAttempts:  maxAttempts,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loader.Tick, m.pollIndexCmd(), m.startupPingCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(minViewportWidth, msg.Width)
		m.viewport.Height = max(minContentHeight, msg.Height-chromeHeight)
		m.input.Width = max(minViewportWidth, msg.Width-4)
		m.indexBar.Width = min(40, max(10, msg.Width/4))
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case queryResultMsg:
		return m.updateQueryResult(msg)

	case indexPollMsg:
		return m, m.pollIndexCmd()

	case indexStatusMsg:
		return m.updateIndexStatus(msg)

	case hideIndexMsg:
		m.indexVisible = false
		return m, nil

	case restartSignaledMsg:
		return m, tea.Tick(m.restartGrace, func(time.Time) tea.Msg {
			return recoveryProbeMsg{err: m.api.Ping(context.Background())}
		})

	case recoveryProbeMsg:
		return m.updateRecoveryProbe(msg)

	case startupPingMsg:
		if msg.err != nil {
			// Sticks until the backend answers or the user acts; the usual
			// status expiry would hide a warning worth keeping.
			m.status = "Backend is not responding. Press ctrl+r to restart it."
		}
		return m, nil

	case openItemMsg:
		if msg.err != nil {
			m.status = "Open failed: " + msg.err.Error()
		} else {
			m.status = "Opened " + msg.id + "."
		}
		return m, m.clearStatusLater()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == uiModeConfirmRestart {
		switch msg.String() {
		case "y", "Y":
			m.mode = uiModeRecovering
			m.recoveryAttempts = 0
			return m, m.signalRestartCmd()
		case "n", "N", "esc":
			m.mode = uiModeChat
			return m, nil
		}
		return m, nil
	}
	if m.mode == uiModeRecovering {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		m.mode = uiModeConfirmRestart
		return m, nil
	case "ctrl+y":
		return m.copyLastAnswer()
	case "ctrl+g":
		return m.copyGmailLink()
	case "ctrl+o":
		return m.openLastItem()
	case "enter":
		return m.submit()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}
	m.input.Reset()
	m.turns = append(m.turns, types.ChatTurn{Role: types.RoleUser, Content: query})
	m.waiting++
	m.refreshTranscript()
	return m, m.queryCmd(query)
}

func (m Model) updateQueryResult(msg queryResultMsg) (tea.Model, tea.Cmd) {
	if m.waiting > 0 {
		m.waiting--
	}
	turn := types.ChatTurn{Role: types.RoleAssistant}
	switch {
	case msg.err != nil:
		turn.Content = "Error connecting to backend: " + msg.err.Error()
	case msg.resp.Type == client.ResponseTypeResults:
		turn.Content = msg.resp.Content
		turn.Items = msg.resp.Data
	default:
		turn.Content = msg.resp.Content
	}
	m.turns = append(m.turns, turn)
	m.refreshTranscript()
	return m, nil
}

func (m Model) updateIndexStatus(msg indexStatusMsg) (tea.Model, tea.Cmd) {
	next := m.indexPolicy.Next(msg.status, msg.err)
	cmds := []tea.Cmd{tea.Tick(next, func(time.Time) tea.Msg { return indexPollMsg{} })}
	if msg.err == nil {
		if msg.status.Active() {
			m.indexActive = true
			m.indexVisible = true
			m.indexPercent = msg.status.Percent
		} else if m.indexActive {
			// Wind down once per indexing run; later idle polls leave a
			// hidden bar hidden.
			m.indexActive = false
			m.indexVisible = true
			m.indexPercent = 100
			cmds = append(cmds, tea.Tick(m.indexPolicy.HideGrace, func(time.Time) tea.Msg {
				return hideIndexMsg{}
			}))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateRecoveryProbe(msg recoveryProbeMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		// The web page reloads here; the terminal equivalent is a fresh
		// conversation.
		m.turns = nil
		m.waiting = 0
		m.mode = uiModeChat
		m.status = "Backend recovered."
		m.viewport.SetContent("Ask Jasper about your files and mail.")
		return m, m.clearStatusLater()
	}
	m.recoveryAttempts++
	if m.maxAttempts > 0 && m.recoveryAttempts >= m.maxAttempts {
		m.mode = uiModeChat
		m.status = "Backend did not come back; giving up."
		return m, m.clearStatusLater()
	}
	return m, tea.Tick(m.probeRetry, func(time.Time) tea.Msg {
		return recoveryProbeMsg{err: m.api.Ping(context.Background())}
	})
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	for i := len(m.turns) - 1; i >= 0; i-- {
		if m.turns[i].Role == types.RoleAssistant {
			if err := copyTextToClipboard(m.turns[i].Content); err != nil {
				m.status = "Copy failed: " + err.Error()
			} else {
				m.status = "Answer copied."
			}
			return m, m.clearStatusLater()
		}
	}
	return m, nil
}

func (m Model) copyGmailLink() (tea.Model, tea.Cmd) {
	for i := len(m.turns) - 1; i >= 0; i-- {
		for _, item := range m.turns[i].Items {
			if types.Classify(item) == types.ItemEmail && item.EmailProvider() == types.ProviderGmail {
				if err := copyTextToClipboard(console.GmailMessageURL(item.MessageID)); err != nil {
					m.status = "Copy failed: " + err.Error()
				} else {
					m.status = "Gmail link copied."
				}
				return m, m.clearStatusLater()
			}
		}
	}
	m.status = "No Gmail result to copy."
	return m, m.clearStatusLater()
}

// openLastItem dispatches an open request for the most recent openable
// result. Gmail messages are skipped; they open through their web link.
func (m Model) openLastItem() (tea.Model, tea.Cmd) {
	for i := len(m.turns) - 1; i >= 0; i-- {
		for _, item := range m.turns[i].Items {
			switch types.Classify(item) {
			case types.ItemFile:
				return m, m.openItemCmd(item.Path, types.ProviderFiles)
			case types.ItemEmail:
				if item.EmailProvider() == types.ProviderOutlook {
					return m, m.openItemCmd(item.MessageID, types.ProviderOutlook)
				}
			}
		}
	}
	m.status = "No result to open."
	return m, m.clearStatusLater()
}

func (m Model) openItemCmd(id string, provider types.Provider) tea.Cmd {
	return func() tea.Msg {
		return openItemMsg{id: id, err: m.api.Open(context.Background(), id, provider)}
	}
}

func (m *Model) refreshTranscript() {
	if len(m.turns) == 0 {
		return
	}
	width := max(minViewportWidth, m.viewport.Width)
	blocks := make([]string, 0, len(m.turns))
	for _, turn := range m.turns {
		blocks = append(blocks, renderTurn(turn, width))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) queryCmd(query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.Query(context.Background(), query)
		return queryResultMsg{query: query, resp: resp, err: err}
	}
}

// startupPingCmd probes backend liveness once on launch so a dead backend
// is reported before the first submit.
func (m Model) startupPingCmd() tea.Cmd {
	return func() tea.Msg {
		return startupPingMsg{err: m.api.Ping(context.Background())}
	}
}

func (m Model) pollIndexCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.api.IndexStatus(context.Background())
		return indexStatusMsg{status: status, err: err}
	}
}

func (m Model) signalRestartCmd() tea.Cmd {
	return func() tea.Msg {
		// Best effort: the backend usually dies mid-response.
		_ = m.api.Restart(context.Background())
		return restartSignaledMsg{}
	}
}

func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	header := headerStyle.Render("Jasper")
	if m.indexVisible {
		header += "  " + m.indexBar.ViewAs(float64(m.indexPercent)/100)
	}
	if m.status != "" {
		header += "  " + statusStyle.Render(m.status)
	}

	footer := "> " + m.input.View()
	if m.waiting > 0 {
		footer = m.loader.View() + " thinking...\n" + footer
	} else {
		footer = "\n" + footer
	}

	body := m.viewport.View()
	switch m.mode {
	case uiModeConfirmRestart:
		body = m.centered(overlayStyle.Render("Restart Jasper? This will clear memory and refresh the backend. (y/n)"))
	case uiModeRecovering:
		body = m.centered(overlayStyle.Render(m.loader.View() + " Restarting backend, please wait..."))
	}

	return header + "\n" + body + "\n" + footer
}

func (m Model) centered(block string) string {
	return lipgloss.Place(
		max(minViewportWidth, m.width),
		max(minContentHeight, m.height-chromeHeight),
		lipgloss.Center, lipgloss.Center,
		block,
	)
}
