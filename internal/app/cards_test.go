package app

import (
	"strings"
	"testing"

	"jasper/internal/types"
)

func TestRenderFileCardShowsPathAndSnippet(t *testing.T) {
	card := renderFileCard(types.ResultItem{
		Name:    "report.docx",
		Path:    `C:\docs\report.docx`,
		Kind:    "document",
		Content: "quarterly numbers",
	}, 80)

	for _, want := range []string{"report.docx", `C:\docs\report.docx`, "quarterly numbers", "Kind: document"} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q:\n%s", want, card)
		}
	}
}

func TestRenderEmailCardGmailLink(t *testing.T) {
	card := renderEmailCard(types.ResultItem{
		Sender:    "a@b.com",
		Subject:   "Q3 numbers",
		MessageID: "m1",
	}, 120)

	if !strings.Contains(card, "From: a@b.com") {
		t.Fatalf("card missing sender:\n%s", card)
	}
	if !strings.Contains(card, "rfc822msgid:m1") {
		t.Fatalf("gmail card must carry the deep link:\n%s", card)
	}
}

func TestRenderEmailCardOutlookHasNoLink(t *testing.T) {
	card := renderEmailCard(types.ResultItem{
		Sender:    "a@b.com",
		MessageID: "m2",
		Provider:  types.ProviderOutlook,
	}, 120)

	if strings.Contains(card, "mail.google.com") {
		t.Fatalf("outlook card must not carry a gmail link:\n%s", card)
	}
}

func TestRenderTurnSkipsUnknownItems(t *testing.T) {
	out := renderTurn(types.ChatTurn{
		Role:    types.RoleAssistant,
		Content: "two results",
		Items: []types.ResultItem{
			{Path: "/a", Name: "a"},
			{},
			{Sender: "b@c.com", MessageID: "m3"},
		},
	}, 80)

	if !strings.Contains(out, "From: b@c.com") {
		t.Fatalf("email card missing:\n%s", out)
	}
	if got := strings.Count(out, "From:"); got != 1 {
		t.Fatalf("expected one email card, got %d", got)
	}
}

func TestTruncateFlattensNewlines(t *testing.T) {
	got := truncate("a\nb", 10)
	if strings.Contains(got, "\n") {
		t.Fatalf("truncate must flatten newlines, got %q", got)
	}
}
