package smslogger

import (
	"fmt"
	"io"
	"strings"
)

// reportTypeOrder fixes the breakdown order in the report.
var reportTypeOrder = []MessageType{
	TypeInbox, TypeSent, TypeDraft, TypeOutbox, TypeFailed, TypeQueued, TypeUnknown,
}

// WriteReport formats a message set as human-readable text: a header with
// the total count, a per-type breakdown, then one labeled block per
// message. The wording is not a machine-readable contract.
func WriteReport(w io.Writer, messages []*Message) error {
	counts := make(map[MessageType]int)
	for _, msg := range messages {
		counts[msg.Type]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Message report: %d messages\n", len(messages))
	for _, msgType := range reportTypeOrder {
		if counts[msgType] == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s: %d\n", msgType, counts[msgType])
	}

	for _, msg := range messages {
		fmt.Fprintf(&b, "\nID:      %s\n", msg.ID)
		fmt.Fprintf(&b, "Thread:  %s\n", msg.ThreadID)
		fmt.Fprintf(&b, "Address: %s\n", msg.Address)
		fmt.Fprintf(&b, "Date:    %s\n", formatTimestamp(msg.Timestamp))
		fmt.Fprintf(&b, "Type:    %s\n", msg.Type)
		fmt.Fprintf(&b, "Read:    %t\n", msg.Read)
		fmt.Fprintf(&b, "Seen:    %t\n", msg.Seen)
		fmt.Fprintf(&b, "Body:    %s\n", msg.Body)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
