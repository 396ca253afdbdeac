package extractor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/scribe/internal/thread"
)

func TestExtract_UserMessageWithEscapedAccent(t *testing.T) {
	raw := `{"storeState":{"messages":[{"role":"user","contents":[{"contentType":"text","text":"¿Cómo estoy?"}]}]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}
	if res.ConversationCount != 1 || len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}

	msg := res.Messages[0]
	if msg.Role != thread.RoleUser {
		t.Errorf("role = %v, want user", msg.Role)
	}
	if msg.Content != "¿Cómo estoy?" {
		t.Errorf("content = %q, want %q", msg.Content, "¿Cómo estoy?")
	}
	if msg.IsHTML {
		t.Error("user message flagged as html")
	}
}

func TestExtract_DoubleEscapedAccentNormalized(t *testing.T) {
	// A double-escaped accent survives JSON decoding as a literal
	// backslash-u sequence and is handled by the fixed substitution table.
	raw := `{"storeState":{"messages":[{"role":"user","contents":[{"text":"C\\u00F3mo va la semana"}]}]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}
	if got := res.Messages[0].Content; got != "Cómo va la semana" {
		t.Errorf("content = %q, want %q", got, "Cómo va la semana")
	}
}

func TestExtract_AssistantFencedMarkup(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"assistant","contents":[{"contentType":"text","text":"` + "```html\\n<h1>Hola</h1><p>Bien</p>\\n```" + `"}]}
	]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}

	msg := res.Messages[0]
	if msg.Content != "<h1>Hola</h1><p>Bien</p>" {
		t.Errorf("isolated content = %q", msg.Content)
	}
	if msg.IsHTML {
		t.Error("fragment without a document root should not set isHtml")
	}

	// The cleaned document carries the stripped form of the same message.
	var cleaned thread.Document
	if err := json.Unmarshal([]byte(res.CleanedDocumentJSON), &cleaned); err != nil {
		t.Fatalf("cleaned document is not valid JSON: %v", err)
	}
	got := cleaned.StoreState.Messages[0].Text()
	if got != "Hola Bien" {
		t.Errorf("cleaned text = %q, want %q", got, "Hola Bien")
	}
}

func TestExtract_AssistantFullDocumentSetsIsHTML(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"assistant","contents":[{"text":"Claro: <!DOCTYPE html><html><body><p>Resumen</p></body></html>"}]}
	]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}

	msg := res.Messages[0]
	if !strings.HasPrefix(msg.Content, "<!DOCTYPE html") || !strings.HasSuffix(msg.Content, "</html>") {
		t.Errorf("isolated content = %q, want the document span", msg.Content)
	}
	if !msg.IsHTML {
		t.Error("document root present, expected isHtml=true")
	}
}

func TestExtract_TwoMessageThread(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"user","authorName":"Marta","contents":[{"text":"¿Qué ceno hoy?"}]},
		{"role":"assistant","contents":[{"text":"Una ensalada con garbanzos."}]}
	]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}
	if res.ConversationCount != 2 {
		t.Errorf("conversationCount = %d, want 2", res.ConversationCount)
	}
	if res.LastAssistantResponse != "Una ensalada con garbanzos." {
		t.Errorf("lastAssistantResponse = %q", res.LastAssistantResponse)
	}
	if res.Messages[0].AuthorName != "Marta" {
		t.Errorf("authorName = %q", res.Messages[0].AuthorName)
	}
}

func TestExtract_OrderPreserved(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"user","contents":[{"text":"uno"}]},
		{"role":"assistant","contents":[{"text":"dos"}]},
		{"role":"user","contents":[{"text":"tres"}]},
		{"role":"assistant","contents":[{"text":"cuatro"}]}
	]}}`

	res := Extract(raw)
	want := []string{"uno", "dos", "tres", "cuatro"}
	if len(res.Messages) != len(want) {
		t.Fatalf("got %d messages", len(res.Messages))
	}
	for i, w := range want {
		if res.Messages[i].Content != w {
			t.Errorf("messages[%d] = %q, want %q", i, res.Messages[i].Content, w)
		}
	}
}

func TestExtract_NoAssistantMessages(t *testing.T) {
	raw := `{"storeState":{"messages":[{"role":"user","contents":[{"text":"hola"}]}]}}`

	res := Extract(raw)
	if res.LastAssistantResponse != "" {
		t.Errorf("lastAssistantResponse = %q, want empty", res.LastAssistantResponse)
	}
}

func TestExtract_SkipsTextlessMessages(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"user","contents":[{"text":"mira esta foto"}]},
		{"role":"user","contents":[{"contentType":"image"}]},
		{"role":"assistant","contents":[{"text":"Bonita."}]}
	]}}`

	res := Extract(raw)
	if res.ConversationCount != 2 {
		t.Errorf("conversationCount = %d, want 2 (image-only turn skipped)", res.ConversationCount)
	}

	// The cleaned document still carries all three messages.
	var cleaned thread.Document
	if err := json.Unmarshal([]byte(res.CleanedDocumentJSON), &cleaned); err != nil {
		t.Fatalf("cleaned document is not valid JSON: %v", err)
	}
	if len(cleaned.StoreState.Messages) != 3 {
		t.Errorf("cleaned document has %d messages, want 3", len(cleaned.StoreState.Messages))
	}
}

func TestExtract_OtherRoleTreatedAsPlainText(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"system","contents":[{"text":"  perfil   cargado  "}]}
	]}}`

	res := Extract(raw)
	msg := res.Messages[0]
	if msg.Role != thread.RoleOther {
		t.Errorf("role = %v, want other", msg.Role)
	}
	if msg.Content != "perfil cargado" {
		t.Errorf("content = %q, want whitespace collapsed", msg.Content)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	res := Extract("")
	if res.Success {
		t.Fatal("expected failure on empty input")
	}
	if len(res.Messages) != 0 {
		t.Errorf("messages = %v, want empty", res.Messages)
	}
}

func TestExtract_MalformedInput(t *testing.T) {
	res := Extract("{not json")
	if res.Success {
		t.Fatal("expected failure on malformed input")
	}
	if res.ErrorMessage == "" {
		t.Error("expected a non-empty errorMessage")
	}
}

func TestExtract_CleanedDocumentShape(t *testing.T) {
	raw := `{"storeState":{"messages":[
		{"role":"user","authorName":"Marta","createdAt":"2026-08-20T09:15:00Z","messageId":"m1",
		 "contents":[{"contentType":"text","text":"hola"}]}
	]}}`

	res := Extract(raw)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.ErrorMessage)
	}

	// Compact serialization, lower-camel field names, metadata copied through.
	if strings.Contains(res.CleanedDocumentJSON, "\n") {
		t.Error("cleaned document should be compact")
	}
	for _, field := range []string{`"storeState"`, `"messages"`, `"role":"user"`, `"authorName":"Marta"`, `"messageId":"m1"`, `"contentType":"text"`} {
		if !strings.Contains(res.CleanedDocumentJSON, field) {
			t.Errorf("cleaned document missing %s: %s", field, res.CleanedDocumentJSON)
		}
	}
}

func TestExtract_ReserializeStripsAllRoles(t *testing.T) {
	// Full stripping applies to every message in the cleaned document,
	// assistant or not.
	raw := `{"storeState":{"messages":[
		{"role":"user","contents":[{"text":"tengo <b>dudas</b>"}]}
	]}}`

	res := Extract(raw)

	var cleaned thread.Document
	if err := json.Unmarshal([]byte(res.CleanedDocumentJSON), &cleaned); err != nil {
		t.Fatalf("cleaned document is not valid JSON: %v", err)
	}
	if got := cleaned.StoreState.Messages[0].Text(); got != "tengo dudas" {
		t.Errorf("cleaned text = %q, want %q", got, "tengo dudas")
	}

	// The flat history keeps the user's text verbatim — user input is never
	// treated as markup.
	if got := res.Messages[0].Content; got != "tengo <b>dudas</b>" {
		t.Errorf("flat content = %q, want verbatim", got)
	}
}
