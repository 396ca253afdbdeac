// Package extractor turns a persisted assistant chat thread into a flat,
// sanitized conversation history plus a markup-free copy of the original
// document. Both outputs come from a single pass so they cannot drift apart.
package extractor

import (
	"github.com/MikeSquared-Agency/scribe/internal/markup"
	"github.com/MikeSquared-Agency/scribe/internal/thread"
)

// Extract runs the full pipeline over a serialized thread document. It is
// pure and stateless: concurrent callers need no coordination.
func Extract(raw string) Result {
	doc, err := thread.Parse(raw)
	if err != nil {
		return Result{
			Success:      false,
			ErrorMessage: err.Error(),
			Messages:     []Message{},
		}
	}

	rawMsgs := doc.StoreState.Messages
	msgs := make([]Message, 0, len(rawMsgs))
	lastAssistant := ""

	for i := range rawMsgs {
		rm := &rawMsgs[i]
		text := rm.Text()
		if text == "" {
			// No textual payload (tool output, images, ...) — not a turn.
			continue
		}

		var content string
		isHTML := false
		switch rm.Kind() {
		case thread.RoleAssistant:
			// Assistant turns may wrap their answer in a markup payload;
			// isolate it but leave its tags for the caller to render.
			content = markup.NormalizeEscapes(markup.Isolate(text))
			isHTML = markup.HasRoot(content)
			lastAssistant = content
		case thread.RoleUser, thread.RoleOther:
			// Plain natural-language text. Never treated as markup — a user
			// quoting an html snippet must come through verbatim.
			content = markup.CollapseWhitespace(markup.NormalizeEscapes(text))
		}

		msgs = append(msgs, Message{
			Role:       rm.Kind(),
			Content:    content,
			AuthorName: rm.AuthorName,
			CreatedAt:  rm.CreatedAt,
			IsHTML:     isHTML,
		})
	}

	return Result{
		Success:               true,
		Messages:              msgs,
		LastAssistantResponse: lastAssistant,
		ConversationCount:     len(msgs),
		CleanedDocumentJSON:   reserialize(raw, doc),
	}
}
