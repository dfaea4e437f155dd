package websocket

import (
	"encoding/json"
	"time"
)

// Message types sent to preview pages
const (
	TypeConnection = "connection"
	TypeReload     = "reload"
	TypeBuildError = "build_error"
)

// Message is the envelope of every server push
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ReloadData describes the build that triggered a reload
type ReloadData struct {
	RunID    string         `json:"run_id"`
	Rows     map[string]int `json:"rows"`
	Warnings int            `json:"warnings"`
}

// BuildErrorData reports a failed rebuild; pages keep showing the last good build
type BuildErrorData struct {
	RunID string `json:"run_id"`
	Error string `json:"error"`
}

func encode(msgType string, data interface{}, now time.Time) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}
