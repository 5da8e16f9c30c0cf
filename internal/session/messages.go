package session

import "fmt"

// Message is one line of the message log. Repeated consecutive messages are
// stacked into a single entry with a count.
type Message struct {
	Text  string
	Color string // Hex color code
	Count int
}

// FullText returns the message text including the stack count.
func (m Message) FullText() string {
	if m.Count > 1 {
		return fmt.Sprintf("%s (x%d)", m.Text, m.Count)
	}
	return m.Text
}

// MessageLog is the ordered history of messages shown to the player.
type MessageLog struct {
	Messages []Message
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{Messages: []Message{}}
}

// Add appends a message, stacking it onto the previous one when identical.
func (l *MessageLog) Add(text, color string) {
	if n := len(l.Messages); n > 0 && l.Messages[n-1].Text == text && l.Messages[n-1].Color == color {
		l.Messages[n-1].Count++
		return
	}
	l.Messages = append(l.Messages, Message{Text: text, Color: color, Count: 1})
}

// Last returns up to n most recent messages, oldest first.
func (l *MessageLog) Last(n int) []Message {
	if n <= 0 {
		return nil
	}
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	return l.Messages[len(l.Messages)-n:]
}
