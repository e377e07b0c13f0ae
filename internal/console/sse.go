package console

import "sync"

// Event is one console update pushed over the event stream. Type selects
// the page mutation; the other fields carry its payload.
//
//	turn           append HTML to the transcript
//	typing         insert the typing placeholder HTML
//	typing_remove  remove the typing placeholder
//	progress       show the indexing indicator at Percent
//	progress_hide  hide the indexing indicator
//	overlay        show (Active) or hide the restart overlay
//	reload         reload the page
type Event struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Percent int    `json:"percent"`
	Active  bool   `json:"active"`
}

type eventSubscriber struct {
	id int
	ch chan Event
}

// Broadcaster fans console events out to every connected page. Events are
// live-only: a page that connects mid-conversation starts from an empty
// transcript, and a reload drops everything rendered so far. It implements
// all four view handles.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*eventSubscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]*eventSubscriber)}
}

// Subscribe registers a listener. The cancel func must be called when the
// listener goes away; after cancel the channel is closed.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	ch := make(chan Event, 256)
	b.subs[id] = &eventSubscriber{id: id, ch: ch}
	cancel := func() {
		b.mu.Lock()
		sub, ok := b.subs[id]
		if ok {
			delete(b.subs, id)
		}
		b.mu.Unlock()
		if ok {
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Broadcast delivers the event to every subscriber, dropping it for any
// listener whose buffer is full.
func (b *Broadcaster) Broadcast(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (b *Broadcaster) AppendTurn(html string) {
	b.Broadcast(Event{Type: "turn", HTML: html})
}

func (b *Broadcaster) ShowTyping(html string) {
	b.Broadcast(Event{Type: "typing", HTML: html})
}

func (b *Broadcaster) RemoveTyping() {
	b.Broadcast(Event{Type: "typing_remove"})
}

func (b *Broadcaster) ShowProgress(percent int) {
	b.Broadcast(Event{Type: "progress", Percent: percent})
}

func (b *Broadcaster) HideProgress() {
	b.Broadcast(Event{Type: "progress_hide"})
}

func (b *Broadcaster) Activate() {
	b.Broadcast(Event{Type: "overlay", Active: true})
}

func (b *Broadcaster) Deactivate() {
	b.Broadcast(Event{Type: "overlay", Active: false})
}

func (b *Broadcaster) Reload() {
	b.Broadcast(Event{Type: "reload"})
}
