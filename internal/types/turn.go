package types

// Role distinguishes the two sides of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one rendered unit of conversation. Turns are append-only for
// the lifetime of a console session and immutable once rendered.
type ChatTurn struct {
	ID      string       `json:"id"`
	Role    Role         `json:"role"`
	Content string       `json:"content"`
	Items   []ResultItem `json:"items,omitempty"`
}

// IndexStatus is a polled snapshot of background indexing progress. It is
// never stored; it only drives the progress indicator.
type IndexStatus struct {
	Status  string `json:"status"`
	Percent int    `json:"percent"`
}

// Active reports whether indexing is still in progress. The indicator stays
// visible while active and winds down once the backend reports Idle at 100%.
func (s IndexStatus) Active() bool {
	return s.Status != "Idle" || s.Percent < 100
}
