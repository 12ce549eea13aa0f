package model

import "time"

// Utterance is one raw user turn. Immutable once created.
type Utterance struct {
	Text       string    // Raw text as typed by the user
	Language   string    // BCP-47 language tag, best-effort detected ("" = unknown)
	ReceivedAt time.Time // Arrival timestamp
}

// NewUtterance builds an Utterance stamped with the current time.
func NewUtterance(text, language string) Utterance {
	return Utterance{
		Text:       text,
		Language:   language,
		ReceivedAt: time.Now(),
	}
}
