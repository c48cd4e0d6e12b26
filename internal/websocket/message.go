package websocket

import (
	"encoding/json"

	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// ProgressPayload is one stage of a running analysis.
type ProgressPayload struct {
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

func encode(m Message) []byte {
	encoded, err := json.Marshal(m)
	if err != nil {
		// Message payloads are plain structs; this cannot fail in practice.
		return []byte(`{"action":"error","payload":"encoding failure"}`)
	}
	return encoded
}

// NewProgressMessage reports analysis progress to watching clients.
func NewProgressMessage(step, total int, text string) []byte {
	return encode(Message{
		Action:  "analysis.progress",
		Payload: ProgressPayload{Step: step, Total: total, Message: text},
	})
}

// NewReportMessage carries a completed analysis snapshot.
func NewReportMessage(snapshot models.AnalysisSnapshot) []byte {
	return encode(Message{Action: "analysis.complete", Payload: snapshot})
}

// NewErrorMessage wraps an error string for the client.
func NewErrorMessage(text string) []byte {
	return encode(Message{Action: "error", Payload: text})
}
