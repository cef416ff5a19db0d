package event

import "strings"

// Topic names an event category. Topics are dot-separated hierarchies such
// as "buffer.changed" or "file.saved". A subscription pattern may end in
// ".*" to match every topic sharing the prefix, or be "*" to match all.
type Topic string

// Common topics published by the core.
const (
	TopicBufferChanged  Topic = "buffer.changed"
	TopicCursorMoved    Topic = "cursor.moved"
	TopicFileOpened     Topic = "file.opened"
	TopicFileSaved      Topic = "file.saved"
	TopicSessionMessage Topic = "session.message"
	TopicSessionMode    Topic = "session.mode"
)

// Matches reports whether the pattern matches a concrete topic.
func (t Topic) Matches(concrete Topic) bool {
	if t == "*" || t == concrete {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(t), ".*"); ok {
		return strings.HasPrefix(string(concrete), prefix+".")
	}
	return false
}
