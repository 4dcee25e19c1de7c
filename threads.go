package smslogger

import "sort"

// AggregateThreads groups messages by thread and produces one summary per
// conversation, ordered by last-message timestamp descending. The sort is
// stable: threads with equal last-message timestamps keep the order in which
// they were first seen in the input. Within a thread, the first message
// encountered wins a timestamp tie for "latest". A thread never appears
// without at least one message; an empty or malformed thread ID still forms
// a valid group keyed by the literal value.
func AggregateThreads(messages []*Message) []*ThreadSummary {
	byThread := make(map[string]*ThreadSummary)
	order := make([]string, 0)

	for _, msg := range messages {
		summary, exists := byThread[msg.ThreadID]
		if !exists {
			summary = &ThreadSummary{ThreadID: msg.ThreadID}
			byThread[msg.ThreadID] = summary
			order = append(order, msg.ThreadID)
		}

		summary.MessageCount++
		if !msg.Read {
			summary.UnreadCount++
		}

		// Strict > keeps the first-encountered message on a timestamp tie
		if summary.MessageCount == 1 || msg.Timestamp > summary.LastTimestamp {
			summary.Address = msg.Address
			summary.LastTimestamp = msg.Timestamp
			summary.LastBody = msg.Body
			summary.LastType = msg.Type
		}
	}

	summaries := make([]*ThreadSummary, 0, len(order))
	for _, threadID := range order {
		summaries = append(summaries, byThread[threadID])
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastTimestamp > summaries[j].LastTimestamp
	})

	return summaries
}
