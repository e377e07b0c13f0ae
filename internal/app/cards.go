package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jasper/internal/console"
	"jasper/internal/types"
)

var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cardStyle           = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	snippetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true)
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
)

// renderTurn draws one transcript entry. Assistant content goes through
// the markdown renderer; result items become bordered cards under it.
func renderTurn(turn types.ChatTurn, width int) string {
	var b strings.Builder
	switch turn.Role {
	case types.RoleUser:
		b.WriteString(userLabelStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(turn.Content)
	default:
		b.WriteString(assistantLabelStyle.Render("Jasper"))
		b.WriteString("\n")
		b.WriteString(renderMarkdown(turn.Content, width))
	}
	for _, item := range turn.Items {
		switch types.Classify(item) {
		case types.ItemFile:
			b.WriteString("\n")
			b.WriteString(renderFileCard(item, width))
		case types.ItemEmail:
			b.WriteString("\n")
			b.WriteString(renderEmailCard(item, width))
		case types.ItemUnknown:
		}
	}
	return b.String()
}

func renderFileCard(item types.ResultItem, width int) string {
	inner := cardInnerWidth(width)
	var lines []string
	lines = append(lines, cardTitleStyle.Render(truncate(item.Name, inner)))
	lines = append(lines, cardMetaStyle.Render(truncate(item.Path, inner)))
	lines = append(lines, snippetStyle.Render(truncate(item.Snippet(), inner)))
	lines = append(lines, cardMetaStyle.Render(truncate("Kind: "+item.Kind+"  Date: "+item.DisplayDate(), inner)))
	return cardStyle.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func renderEmailCard(item types.ResultItem, width int) string {
	inner := cardInnerWidth(width)
	var lines []string
	lines = append(lines, cardTitleStyle.Render(truncate("From: "+item.Sender, inner)))
	lines = append(lines, truncate(item.Subject, inner))
	lines = append(lines, snippetStyle.Render(truncate(item.Snippet(), inner)))
	lines = append(lines, cardMetaStyle.Render(truncate(item.DisplayDate(), inner)))
	if item.EmailProvider() == types.ProviderGmail {
		lines = append(lines, linkStyle.Render(truncate(console.GmailMessageURL(item.MessageID), inner)))
	}
	return cardStyle.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func cardInnerWidth(width int) int {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	return inner
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, width, "…")
}
