package smslogger

import (
	"sort"
	"time"
)

// DefaultStatisticsWindowDays is the length of the trailing activity window
// used by ComputeStatistics.
const DefaultStatisticsWindowDays = 30

// maxTopSenders caps the sender ranking in Statistics.
const maxTopSenders = 10

// ComputeStatistics computes corpus-wide statistics over a message set with
// the trailing activity window anchored at the current time. Statistics are
// always meant to be computed over the entire accessible corpus, not a
// filtered subset.
func ComputeStatistics(messages []*Message) *Statistics {
	return ComputeStatisticsAt(messages, time.Now(), DefaultStatisticsWindowDays)
}

// ComputeStatisticsAt is ComputeStatistics with an explicit window anchor
// and length, for callers that need deterministic results. A windowDays of
// zero or less falls back to the default. An empty input yields an all-zero
// result with empty TopSenders, never an error.
func ComputeStatisticsAt(messages []*Message, now time.Time, windowDays int) *Statistics {
	if windowDays <= 0 {
		windowDays = DefaultStatisticsWindowDays
	}

	stats := &Statistics{WindowDays: windowDays}

	nowMillis := now.UnixMilli()
	windowStart := nowMillis - int64(windowDays)*24*int64(time.Hour/time.Millisecond)

	senderCounts := make(map[string]int)
	senderOrder := make([]string, 0)

	for i, msg := range messages {
		stats.TotalMessages++

		switch msg.Type {
		case TypeInbox:
			stats.Inbox++
		case TypeSent:
			stats.Sent++
		case TypeDraft:
			stats.Draft++
		case TypeFailed:
			stats.Failed++
		}

		if !msg.Read {
			stats.UnreadMessages++
		}

		if i == 0 || msg.Timestamp < stats.OldestTimestamp {
			stats.OldestTimestamp = msg.Timestamp
		}
		if i == 0 || msg.Timestamp > stats.NewestTimestamp {
			stats.NewestTimestamp = msg.Timestamp
		}

		if _, seen := senderCounts[msg.Address]; !seen {
			senderOrder = append(senderOrder, msg.Address)
		}
		senderCounts[msg.Address]++

		if msg.Timestamp >= windowStart && msg.Timestamp <= nowMillis {
			stats.MessagesInWindow++
		}
	}

	// Rank senders by count descending; stable sort over first-seen order
	// makes equal counts deterministic
	top := make([]TopSender, 0, len(senderOrder))
	for _, address := range senderOrder {
		top = append(top, TopSender{Address: address, Count: senderCounts[address]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > maxTopSenders {
		top = top[:maxTopSenders]
	}
	stats.TopSenders = top

	if stats.MessagesInWindow > 0 {
		stats.AveragePerDay = float64(stats.MessagesInWindow) / float64(windowDays)
	}

	return stats
}
