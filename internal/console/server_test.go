package console

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jasper/internal/client"
	"jasper/internal/types"
)

type fakeBackend struct {
	mu       sync.Mutex
	resp     *client.QueryResponse
	queryErr error
	opens    []ActionRef
	restarts int
	pingErr  error
}

func (f *fakeBackend) Query(ctx context.Context, query string) (*client.QueryResponse, error) {
	return f.resp, f.queryErr
}

func (f *fakeBackend) Open(ctx context.Context, id string, provider types.Provider) error {
	f.mu.Lock()
	f.opens = append(f.opens, ActionRef{ID: id, Provider: provider})
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Restart(ctx context.Context) error {
	f.mu.Lock()
	f.restarts++
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeBackend) IndexStatus(ctx context.Context) (*types.IndexStatus, error) {
	return &types.IndexStatus{Status: "Idle", Percent: 100}, nil
}

func newTestConsole(t *testing.T, backend *fakeBackend) *httptest.Server {
	t.Helper()
	s := NewServer(backend, nil)
	s.Recovery.Grace = 10 * time.Millisecond
	s.Recovery.Retry = 10 * time.Millisecond
	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return server
}

// streamEvents connects to /events and forwards decoded events until the
// response body closes.
func streamEvents(t *testing.T, baseURL string) <-chan Event {
	t.Helper()
	resp, err := http.Get(baseURL + "/events")
	if err != nil {
		t.Fatalf("connect events: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events status: %d", resp.StatusCode)
	}

	events := make(chan Event, 32)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(line[len("data:"):])
			var event Event
			if err := json.Unmarshal([]byte(payload), &event); err == nil {
				events <- event
			}
		}
	}()
	return events
}

func waitForEvent(t *testing.T, events <-chan Event, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if match(event) {
				return event
			}
		case <-deadline:
			t.Fatalf("timeout waiting for event")
		}
	}
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSubmitStreamsRenderedTurns(t *testing.T) {
	backend := &fakeBackend{resp: &client.QueryResponse{
		Type:    client.ResponseTypeResults,
		Content: "Found it.",
		Data:    []types.ResultItem{{Path: "/tmp/a", Name: "a", Kind: "document"}},
	}}
	server := newTestConsole(t, backend)
	events := streamEvents(t, server.URL)

	resp := postJSON(t, server.URL+"/submit", `{"query":"find a"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status: %d", resp.StatusCode)
	}

	user := waitForEvent(t, events, func(e Event) bool { return e.Type == "turn" })
	if !strings.Contains(user.HTML, "message user") {
		t.Fatalf("expected the user turn first, got %q", user.HTML)
	}
	waitForEvent(t, events, func(e Event) bool { return e.Type == "typing" })
	waitForEvent(t, events, func(e Event) bool { return e.Type == "typing_remove" })
	reply := waitForEvent(t, events, func(e Event) bool { return e.Type == "turn" })
	if !strings.Contains(reply.HTML, "file-card") {
		t.Fatalf("expected file card in reply, got %q", reply.HTML)
	}
}

func TestActionRoundTripThroughStream(t *testing.T) {
	backend := &fakeBackend{resp: &client.QueryResponse{
		Type: client.ResponseTypeResults,
		Data: []types.ResultItem{{Sender: "a@b.com", MessageID: "m1", Provider: types.ProviderOutlook}},
	}}
	server := newTestConsole(t, backend)
	events := streamEvents(t, server.URL)

	postJSON(t, server.URL+"/submit", `{"query":"find mail"}`)
	reply := waitForEvent(t, events, func(e Event) bool {
		return e.Type == "turn" && strings.Contains(e.HTML, "email-card")
	})
	token := extractToken(t, reply.HTML)

	resp := postJSON(t, server.URL+"/action", `{"token":"`+token+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("action status: %d", resp.StatusCode)
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.opens) != 1 {
		t.Fatalf("expected one open, got %d", len(backend.opens))
	}
	if backend.opens[0].ID != "m1" || backend.opens[0].Provider != types.ProviderOutlook {
		t.Fatalf("unexpected open: %+v", backend.opens[0])
	}
}

func TestActionUnknownToken(t *testing.T) {
	server := newTestConsole(t, &fakeBackend{})

	resp := postJSON(t, server.URL+"/action", `{"token":"nope"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRestartBroadcastsOverlayAndReload(t *testing.T) {
	backend := &fakeBackend{}
	server := newTestConsole(t, backend)
	events := streamEvents(t, server.URL)

	resp := postJSON(t, server.URL+"/restart", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart status: %d", resp.StatusCode)
	}

	overlay := waitForEvent(t, events, func(e Event) bool { return e.Type == "overlay" })
	if !overlay.Active {
		t.Fatalf("overlay must come up before probing")
	}
	waitForEvent(t, events, func(e Event) bool { return e.Type == "reload" })

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.restarts != 1 {
		t.Fatalf("expected one restart signal, got %d", backend.restarts)
	}
}

func TestShellServedAtRootOnly(t *testing.T) {
	server := newTestConsole(t, &fakeBackend{})

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get shell: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shell status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read shell: %v", err)
	}
	if !strings.Contains(string(body), `id="chat-window"`) {
		t.Fatalf("shell missing chat window")
	}
	if !strings.Contains(string(body), "clear memory and refresh the backend") {
		t.Fatalf("shell missing restart warning")
	}

	missing, err := http.Get(server.URL + "/nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.StatusCode)
	}
}

func TestSubmitRejectsBadBody(t *testing.T) {
	server := newTestConsole(t, &fakeBackend{})

	resp := postJSON(t, server.URL+"/submit", `{"query":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
