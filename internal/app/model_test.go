package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"jasper/internal/client"
	"jasper/internal/types"
)

type openCall struct {
	id       string
	provider types.Provider
}

type fakeAPI struct {
	resp     *client.QueryResponse
	queryErr error
	opens    []openCall
	openErr  error
	restarts int
	pingErr  error
	status   *types.IndexStatus
}

func (f *fakeAPI) Query(ctx context.Context, query string) (*client.QueryResponse, error) {
	return f.resp, f.queryErr
}

func (f *fakeAPI) Open(ctx context.Context, id string, provider types.Provider) error {
	f.opens = append(f.opens, openCall{id: id, provider: provider})
	return f.openErr
}

func (f *fakeAPI) Restart(ctx context.Context) error {
	f.restarts++
	return nil
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAPI) IndexStatus(ctx context.Context) (*types.IndexStatus, error) {
	return f.status, nil
}

func newTestModel(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := NewModel(api, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSubmitAppendsUserTurnAndQueries(t *testing.T) {
	api := &fakeAPI{resp: &client.QueryResponse{
		Type:    client.ResponseTypeResults,
		Content: "Found it.",
		Data:    []types.ResultItem{{Path: "/a", Name: "a"}},
	}}
	m := newTestModel(t, api)
	m.input.SetValue("  find a  ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(m.turns) != 1 || m.turns[0].Role != types.RoleUser || m.turns[0].Content != "find a" {
		t.Fatalf("expected trimmed user turn, got %+v", m.turns)
	}
	if m.waiting != 1 {
		t.Fatalf("expected one in-flight query, got %d", m.waiting)
	}
	if cmd == nil {
		t.Fatalf("expected a query command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	if len(m.turns) != 2 || m.turns[1].Role != types.RoleAssistant {
		t.Fatalf("expected assistant reply, got %+v", m.turns)
	}
	if len(m.turns[1].Items) != 1 {
		t.Fatalf("results reply must carry items")
	}
	if m.waiting != 0 {
		t.Fatalf("waiting not cleared: %d", m.waiting)
	}
}

func TestSubmitBlankIsNoOp(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd != nil || len(m.turns) != 0 {
		t.Fatalf("blank input must do nothing")
	}
}

func TestQueryFailureRendersErrorTurn(t *testing.T) {
	api := &fakeAPI{queryErr: errors.New("connection refused")}
	m := newTestModel(t, api)
	m.input.SetValue("anything")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	got := m.turns[len(m.turns)-1].Content
	if !strings.Contains(got, "Error connecting to backend: connection refused") {
		t.Fatalf("expected error turn, got %q", got)
	}
}

func TestIndexStatusActiveShowsBar(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	updated, cmd := m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Indexing", Percent: 42}})
	m = updated.(Model)

	if !m.indexVisible || m.indexPercent != 42 {
		t.Fatalf("expected visible bar at 42, got visible=%v percent=%d", m.indexVisible, m.indexPercent)
	}
	if cmd == nil {
		t.Fatalf("expected a reschedule command")
	}
}

func TestIndexStatusIdleAfterActivePinsFullBar(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	updated, _ := m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Indexing", Percent: 80}})
	m = updated.(Model)

	updated, _ = m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Idle", Percent: 100}})
	m = updated.(Model)
	if !m.indexVisible || m.indexPercent != 100 {
		t.Fatalf("idle must pin 100, got visible=%v percent=%d", m.indexVisible, m.indexPercent)
	}

	updated, _ = m.Update(hideIndexMsg{})
	m = updated.(Model)
	if m.indexVisible {
		t.Fatalf("hide grace must clear the bar")
	}
}

func TestIndexStatusRepeatedIdleStaysHidden(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	updated, _ := m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Indexing", Percent: 80}})
	m = updated.(Model)
	updated, _ = m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Idle", Percent: 100}})
	m = updated.(Model)
	updated, _ = m.Update(hideIndexMsg{})
	m = updated.(Model)

	updated, _ = m.Update(indexStatusMsg{status: &types.IndexStatus{Status: "Idle", Percent: 100}})
	m = updated.(Model)
	if m.indexVisible {
		t.Fatalf("idle poll must not re-show a hidden bar")
	}
}

func TestIndexStatusFailureLeavesBarUntouched(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.indexVisible = true
	m.indexPercent = 55

	updated, _ := m.Update(indexStatusMsg{err: errors.New("down")})
	m = updated.(Model)

	if !m.indexVisible || m.indexPercent != 55 {
		t.Fatalf("failed poll must not touch the bar")
	}
}

func TestOpenLastItemSkipsGmailOpensOutlook(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)
	m.turns = []types.ChatTurn{{
		Role: types.RoleAssistant,
		Items: []types.ResultItem{
			{Sender: "a@example.com", MessageID: "g1", Provider: types.ProviderGmail},
			{Sender: "b@example.com", MessageID: "o1", Provider: types.ProviderOutlook},
		},
	}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected an open command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	if len(api.opens) != 1 || api.opens[0] != (openCall{id: "o1", provider: types.ProviderOutlook}) {
		t.Fatalf("expected one Outlook open, got %v", api.opens)
	}
	if m.status != "Opened o1." {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestOpenLastItemWithoutResults(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)

	if len(api.opens) != 0 {
		t.Fatalf("no backend call expected, got %v", api.opens)
	}
	if m.status != "No result to open." {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestStartupPingFailureWarns(t *testing.T) {
	api := &fakeAPI{pingErr: errors.New("connection refused")}
	m := newTestModel(t, api)

	msg := m.startupPingCmd()()
	ping, ok := msg.(startupPingMsg)
	if !ok || ping.err == nil {
		t.Fatalf("expected a failed startup ping, got %#v", msg)
	}

	updated, _ := m.Update(msg)
	m = updated.(Model)
	if m.status != "Backend is not responding. Press ctrl+r to restart it." {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestStartupPingSuccessStaysQuiet(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	updated, _ := m.Update(m.startupPingCmd()())
	m = updated.(Model)

	if m.status != "" {
		t.Fatalf("healthy backend must not warn, got %q", m.status)
	}
}

func TestRestartConfirmWarnsAboutMemory(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "clear memory and refresh the backend") {
		t.Fatalf("confirm overlay must warn about clearing memory, got %q", view)
	}
}

func TestRestartConfirmFlow(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	if m.mode != uiModeConfirmRestart {
		t.Fatalf("ctrl+r must ask for confirmation")
	}

	updated, _ = m.Update(keyRunes('n'))
	m = updated.(Model)
	if m.mode != uiModeChat {
		t.Fatalf("n must cancel the restart")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	updated, cmd := m.Update(keyRunes('y'))
	m = updated.(Model)
	if m.mode != uiModeRecovering {
		t.Fatalf("y must enter recovery")
	}
	if cmd == nil {
		t.Fatalf("expected the restart signal command")
	}
	if _, ok := cmd().(restartSignaledMsg); !ok {
		t.Fatalf("expected restartSignaledMsg")
	}
	if api.restarts != 1 {
		t.Fatalf("expected one restart signal, got %d", api.restarts)
	}
}

func TestRecoverySuccessResetsConversation(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.mode = uiModeRecovering
	m.turns = []types.ChatTurn{{Role: types.RoleUser, Content: "old"}}

	updated, _ := m.Update(recoveryProbeMsg{err: nil})
	m = updated.(Model)

	if m.mode != uiModeChat {
		t.Fatalf("recovery must return to chat mode")
	}
	if len(m.turns) != 0 {
		t.Fatalf("recovery must start a fresh conversation")
	}
}

func TestRecoveryBoundedGivesUp(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.mode = uiModeRecovering
	m.maxAttempts = 1

	updated, _ := m.Update(recoveryProbeMsg{err: errors.New("still down")})
	m = updated.(Model)

	if m.mode != uiModeChat {
		t.Fatalf("exhausted recovery must give up")
	}
	if m.status == "" {
		t.Fatalf("giving up must be announced in the status line")
	}
}
