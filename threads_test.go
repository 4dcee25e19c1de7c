package smslogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateThreads_Empty(t *testing.T) {
	summaries := AggregateThreads(nil)
	assert.Empty(t, summaries)

	summaries = AggregateThreads([]*Message{})
	assert.Empty(t, summaries)
}

func TestAggregateThreads_TwoThreadScenario(t *testing.T) {
	// Thread A has messages at t=100 and t=200, thread B one at t=150:
	// A sorts first on its latest message
	messages := []*Message{
		NewMessage("a1", "A", "+1", "first", 100, TypeInbox),
		NewMessage("a2", "A", "+1", "second", 200, TypeSent),
		NewMessage("b1", "B", "+2", "other", 150, TypeInbox),
	}

	summaries := AggregateThreads(messages)
	require.Len(t, summaries, 2)

	assert.Equal(t, "A", summaries[0].ThreadID)
	assert.Equal(t, int64(200), summaries[0].LastTimestamp)
	assert.Equal(t, 2, summaries[0].MessageCount)
	assert.Equal(t, "second", summaries[0].LastBody)
	assert.Equal(t, TypeSent, summaries[0].LastType)
	assert.Equal(t, "+1", summaries[0].Address)

	assert.Equal(t, "B", summaries[1].ThreadID)
	assert.Equal(t, int64(150), summaries[1].LastTimestamp)
	assert.Equal(t, 1, summaries[1].MessageCount)
}

func TestAggregateThreads_CountsAddUp(t *testing.T) {
	unread := NewMessage("a2", "A", "+1", "2", 200, TypeInbox)
	read1 := NewMessage("a1", "A", "+1", "1", 100, TypeInbox)
	read1.Read = true
	read2 := NewMessage("b1", "B", "+2", "3", 150, TypeInbox)
	read2.Read = true

	messages := []*Message{read1, unread, read2}
	summaries := AggregateThreads(messages)

	total := 0
	for _, s := range summaries {
		total += s.MessageCount
		assert.LessOrEqual(t, s.UnreadCount, s.MessageCount)
	}
	assert.Equal(t, len(messages), total)

	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].UnreadCount) // thread A
	assert.Equal(t, 0, summaries[1].UnreadCount) // thread B
}

func TestAggregateThreads_LatestTieKeepsFirstEncountered(t *testing.T) {
	// Two messages in the same thread share the maximum timestamp; the one
	// encountered first in input order wins
	messages := []*Message{
		NewMessage("a1", "A", "+1", "winner", 100, TypeInbox),
		NewMessage("a2", "A", "+1", "loser", 100, TypeInbox),
	}

	summaries := AggregateThreads(messages)
	require.Len(t, summaries, 1)
	assert.Equal(t, "winner", summaries[0].LastBody)
}

func TestAggregateThreads_ThreadTieIsStable(t *testing.T) {
	// Threads with equal last timestamps keep first-seen order
	messages := []*Message{
		NewMessage("b1", "B", "+2", "b", 100, TypeInbox),
		NewMessage("a1", "A", "+1", "a", 100, TypeInbox),
		NewMessage("c1", "C", "+3", "c", 100, TypeInbox),
	}

	summaries := AggregateThreads(messages)
	require.Len(t, summaries, 3)
	assert.Equal(t, "B", summaries[0].ThreadID)
	assert.Equal(t, "A", summaries[1].ThreadID)
	assert.Equal(t, "C", summaries[2].ThreadID)
}

func TestAggregateThreads_EmptyThreadIDFormsGroup(t *testing.T) {
	messages := []*Message{
		NewMessage("m1", "", "+1", "stray", 100, TypeInbox),
		NewMessage("m2", "", "+1", "stray too", 200, TypeInbox),
	}

	summaries := AggregateThreads(messages)
	require.Len(t, summaries, 1)
	assert.Equal(t, "", summaries[0].ThreadID)
	assert.Equal(t, 2, summaries[0].MessageCount)
}
