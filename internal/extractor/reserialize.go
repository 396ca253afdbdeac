package extractor

import (
	"encoding/json"

	"github.com/MikeSquared-Agency/scribe/internal/markup"
	"github.com/MikeSquared-Agency/scribe/internal/thread"
)

// reserialize rebuilds the thread document with every text payload fully
// stripped to plain prose, regardless of role. Cleaning is best-effort: if
// the rebuild fails for any reason the original input is returned unchanged,
// so a cleaning bug can never block persistence of the thread.
func reserialize(raw string, doc *thread.Document) string {
	cleaned := thread.Document{
		StoreState: &thread.StoreState{
			Messages: make([]thread.RawMessage, len(doc.StoreState.Messages)),
		},
	}

	for i, rm := range doc.StoreState.Messages {
		out := thread.RawMessage{
			Role:       rm.Role,
			AuthorName: rm.AuthorName,
			CreatedAt:  rm.CreatedAt,
			MessageID:  rm.MessageID,
		}
		if rm.Contents != nil {
			out.Contents = make([]thread.RawContent, len(rm.Contents))
			for j, c := range rm.Contents {
				out.Contents[j] = thread.RawContent{
					ContentType: c.ContentType,
					Text:        c.Text,
				}
				if c.Text != "" {
					out.Contents[j].Text = markup.Strip(c.Text)
				}
			}
		}
		cleaned.StoreState.Messages[i] = out
	}

	data, err := json.Marshal(&cleaned)
	if err != nil {
		return raw
	}
	return string(data)
}
