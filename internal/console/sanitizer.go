package console

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces HTML metacharacters so untrusted text can be inserted
// into card markup. It is not idempotent: escaping twice double-escapes, so
// callers apply it exactly once at the insertion point.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	return htmlEscaper.Replace(text)
}
