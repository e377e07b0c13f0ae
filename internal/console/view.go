package console

// The console components never touch a page directly; they drive small view
// handles injected at construction. The web surface implements all of them
// on top of the SSE broadcaster, tests use recording fakes.

// ConversationView is the scrollable transcript. Appending scrolls the view
// to the newest content; the typing indicator has a single well-known
// identity, so removing it when absent is a no-op.
type ConversationView interface {
	AppendTurn(html string)
	ShowTyping(html string)
	RemoveTyping()
}

// ProgressView is the background-indexing indicator binding: percent text
// plus a proportional bar, shown while indexing and hidden after the
// idle grace period.
type ProgressView interface {
	ShowProgress(percent int)
	HideProgress()
}

// Overlay is the full-screen blocking layer shown while the backend
// restarts.
type Overlay interface {
	Activate()
	Deactivate()
}

// Navigator reloads the page. Navigation is the only cancellation primitive
// the console uses: a reload abandons all in-flight work unconditionally.
type Navigator interface {
	Reload()
}
