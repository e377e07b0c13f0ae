package types

import "strings"

// Provider identifies which backend connector handles an item.
type Provider string

const (
	ProviderGmail   Provider = "GMAIL"
	ProviderOutlook Provider = "OUTLOOK"
	ProviderFiles   Provider = "FILES"
)

// ItemKind is the classification of a result item. The backend does not tag
// items on the wire; the kind is inferred from which fields are present.
type ItemKind int

const (
	ItemUnknown ItemKind = iota
	ItemFile
	ItemEmail
)

// ResultItem is one search hit attached to an assistant reply. The field set
// is the union of the file and email shapes; classification decides which
// half is meaningful. All fields are optional on the wire.
type ResultItem struct {
	// File fields.
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	Kind string `json:"kind,omitempty"`
	Date string `json:"date,omitempty"`

	// Email fields.
	Sender    string   `json:"sender,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	Received  string   `json:"received,omitempty"`
	MessageID string   `json:"message_id,omitempty"`
	Provider  Provider `json:"provider,omitempty"`

	// Shared snippet fields.
	Content string `json:"content,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Classify infers the item kind. An item with a sender is an email even if
// it also carries a path; an item with neither sender nor path is unknown
// and renderers skip it.
func Classify(item ResultItem) ItemKind {
	if item.Sender != "" {
		return ItemEmail
	}
	if item.Path != "" {
		return ItemFile
	}
	return ItemUnknown
}

// EmailProvider returns the item's mail provider, defaulting to Gmail when
// the backend omits the field.
func (i ResultItem) EmailProvider() Provider {
	if i.Provider == "" {
		return ProviderGmail
	}
	return i.Provider
}

// IsFolder reports whether a file item points at a directory rather than a
// regular file. The backend emits free-form kind labels; both spellings are
// accepted case-insensitively.
func (i ResultItem) IsFolder() bool {
	switch strings.ToLower(i.Kind) {
	case "folder", "directory":
		return true
	default:
		return false
	}
}

// Snippet returns the preview text for the item, preferring full content
// over the indexed summary, with a kind-appropriate placeholder when both
// are absent.
func (i ResultItem) Snippet() string {
	if i.Content != "" {
		return i.Content
	}
	if i.Summary != "" {
		return i.Summary
	}
	if Classify(i) == ItemEmail {
		return "No content snippet available."
	}
	return "No snippet available."
}

// DisplayDate returns the item's date label with the renderer's placeholder
// when the backend omits it.
func (i ResultItem) DisplayDate() string {
	switch Classify(i) {
	case ItemEmail:
		if i.Received != "" {
			return i.Received
		}
		return "Recently indexed"
	default:
		if i.Date != "" {
			return i.Date
		}
		if i.Received != "" {
			return i.Received
		}
		return "Recent"
	}
}
