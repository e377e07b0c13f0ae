package console

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"jasper/internal/types"
)

const gmailSearchTemplate = "https://mail.google.com/mail/u/0/#search/rfc822msgid:%s"

// GmailMessageURL builds the deep link that opens a mail client directly on
// the message with the given RFC 822 message id.
func GmailMessageURL(messageID string) string {
	return fmt.Sprintf(gmailSearchTemplate, url.QueryEscape(messageID))
}

// ActionRef is the backend side effect behind one rendered action control.
type ActionRef struct {
	ID       string
	Provider types.Provider
}

// ActionRegistry maps opaque tokens embedded in card markup back to the
// exact id and provider they were rendered from. Entries live as long as
// the transcript does; like the transcript itself they are only released
// when the page goes away.
type ActionRegistry struct {
	mu   sync.Mutex
	refs map[string]ActionRef
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{refs: map[string]ActionRef{}}
}

func (r *ActionRegistry) Register(ref ActionRef) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.refs[token] = ref
	r.mu.Unlock()
	return token
}

func (r *ActionRegistry) Lookup(token string) (ActionRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[strings.TrimSpace(token)]
	return ref, ok
}

// Renderer turns chat turns into transcript markup. Assistant content and
// the user's own queries go through the markdown capability when one is
// configured; otherwise content is inserted as-is, which assumes a trusted
// backend. Item snippets for files are escaped because they carry raw
// indexed text; email sender and subject come from the indexer and are
// inserted unescaped, matching what the backend guarantees about them.
type Renderer struct {
	view     ConversationView
	markdown Markdown
	actions  *ActionRegistry
}

func NewRenderer(view ConversationView, markdown Markdown, actions *ActionRegistry) *Renderer {
	if actions == nil {
		actions = NewActionRegistry()
	}
	return &Renderer{view: view, markdown: markdown, actions: actions}
}

func (r *Renderer) Actions() *ActionRegistry {
	return r.actions
}

// RenderTurn appends one turn to the conversation view.
func (r *Renderer) RenderTurn(role types.Role, content string, items []types.ResultItem) {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="message %s"><div class="bubble">`, role)
	b.WriteString(r.renderContent(content))
	for _, item := range items {
		switch types.Classify(item) {
		case types.ItemFile:
			r.writeFileCard(&b, item)
		case types.ItemEmail:
			r.writeEmailCard(&b, item)
		case types.ItemUnknown:
			// No sender, no path: nothing to render.
		}
	}
	b.WriteString(`</div></div>`)
	r.view.AppendTurn(b.String())
}

func (r *Renderer) renderContent(content string) string {
	if r.markdown == nil {
		return content
	}
	html, err := r.markdown(content)
	if err != nil {
		return content
	}
	return html
}

func (r *Renderer) writeFileCard(b *strings.Builder, item types.ResultItem) {
	label := "Open File"
	if item.IsFolder() {
		label = "Open Folder"
	}
	token := r.actions.Register(ActionRef{ID: item.Path, Provider: types.ProviderFiles})

	b.WriteString(`<div class="file-card">`)
	fmt.Fprintf(b, `<div class="file-name">%s</div>`, item.Name)
	fmt.Fprintf(b, `<div class="file-path">%s</div>`, item.Path)
	fmt.Fprintf(b, `<div class="summary">%s</div>`, Escape(item.Snippet()))
	fmt.Fprintf(b, `<div class="file-meta"><span>Kind: %s</span><span>Date: %s</span></div>`, item.Kind, item.DisplayDate())
	fmt.Fprintf(b, `<button class="gmail-link open-action" data-action="%s">%s</button>`, token, label)
	b.WriteString(`</div>`)
}

func (r *Renderer) writeEmailCard(b *strings.Builder, item types.ResultItem) {
	b.WriteString(`<div class="email-card">`)
	fmt.Fprintf(b, `<div class="sender">From: %s</div>`, item.Sender)
	fmt.Fprintf(b, `<div class="subject">%s</div>`, item.Subject)
	fmt.Fprintf(b, `<div class="summary">%s</div>`, item.Snippet())
	fmt.Fprintf(b, `<div class="date">%s</div>`, item.DisplayDate())
	if item.EmailProvider() == types.ProviderGmail {
		fmt.Fprintf(b, `<a href="%s" target="_blank" class="gmail-link">View in Gmail</a>`, GmailMessageURL(item.MessageID))
	} else {
		token := r.actions.Register(ActionRef{ID: item.MessageID, Provider: types.ProviderOutlook})
		fmt.Fprintf(b, `<button class="gmail-link open-action" data-action="%s">Open in Outlook</button>`, token)
	}
	b.WriteString(`</div>`)
}

const typingIndicatorHTML = `<div id="typing-indicator" class="message assistant"><div class="bubble"><div class="typing"><span></span><span></span><span></span></div></div></div>`

// ShowTyping inserts the uniquely-identified typing placeholder.
func (r *Renderer) ShowTyping() {
	r.view.ShowTyping(typingIndicatorHTML)
}

// RemoveTyping removes the placeholder; removing an absent indicator is a
// no-op at the view.
func (r *Renderer) RemoveTyping() {
	r.view.RemoveTyping()
}
