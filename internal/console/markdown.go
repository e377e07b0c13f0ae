package console

import (
	"bytes"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders markdown source to HTML that is safe to insert into the
// transcript. The renderer treats it as a pluggable capability: when nil,
// content is inserted as-is.
type Markdown func(source string) (string, error)

var (
	markdownOnce   sync.Once
	markdownEngine goldmark.Markdown
	markdownPolicy *bluemonday.Policy
)

// NewMarkdown returns the default markdown capability: goldmark with GFM
// tables and strikethrough, piped through a bluemonday UGC policy so the
// produced fragment carries no scripts or handlers.
func NewMarkdown() Markdown {
	markdownOnce.Do(func() {
		markdownEngine = goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		)
		markdownPolicy = bluemonday.UGCPolicy()
	})
	return func(source string) (string, error) {
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
			return "", err
		}
		return markdownPolicy.Sanitize(buf.String()), nil
	}
}
