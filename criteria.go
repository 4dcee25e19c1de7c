package smslogger

import "strings"

// Criteria defines conditions for filtering messages. Every field is
// optional; set fields combine with logical AND. The zero value matches
// every message.
type Criteria struct {
	Type            *MessageType // Filter by exact message type
	AddressContains string       // Case-sensitive substring match on address
	BodyContains    string       // Case-sensitive substring match on body
	DateFrom        *int64       // Inclusive lower timestamp bound (ms since epoch)
	DateTo          *int64       // Inclusive upper timestamp bound (ms since epoch)
	ThreadID        string       // Exact thread match
	UnreadOnly      bool         // Only messages that have not been read
	Limit           int          // Cap on result count after ordering; 0 means no cap
}

// Matches reports whether a message satisfies every condition set on the
// criteria. Limit is not part of the predicate; stores apply it after
// ordering. A nil criteria matches everything. An inverted date range
// (DateFrom > DateTo) is not an error, it simply matches nothing.
func (c *Criteria) Matches(msg *Message) bool {
	if c == nil {
		return true
	}
	if c.Type != nil && msg.Type != *c.Type {
		return false
	}
	if c.AddressContains != "" && !strings.Contains(msg.Address, c.AddressContains) {
		return false
	}
	if c.BodyContains != "" && !strings.Contains(msg.Body, c.BodyContains) {
		return false
	}
	if c.DateFrom != nil && msg.Timestamp < *c.DateFrom {
		return false
	}
	if c.DateTo != nil && msg.Timestamp > *c.DateTo {
		return false
	}
	if c.ThreadID != "" && msg.ThreadID != c.ThreadID {
		return false
	}
	if c.UnreadOnly && msg.Read {
		return false
	}
	return true
}
