package models

import "strings"

// Message represents a single mock email held in memory
type Message struct {
	ID      int64  `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Preview string `json:"preview"`
	Body    string `json:"body"`
	Date    string `json:"date"` // Display label only, e.g. "10:30 AM" or "Ayer"
	Read    bool   `json:"read"`
	Starred bool   `json:"starred"`
}

// Paragraphs splits the body into its newline-delimited lines
func (m Message) Paragraphs() []string {
	return strings.Split(m.Body, "\n")
}
