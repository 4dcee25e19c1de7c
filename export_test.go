package smslogger

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, "id,thread_id,address,body,date,date_formatted,type,type_name,read,seen,service_center\n", buf.String())

	buf.Reset()
	err = WriteCSV(&buf, nil, false)
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestWriteCSV_QuotesOnlyBody(t *testing.T) {
	sc := "+15559999"
	msg := NewMessage("m1", "t1", "+15550001", `He said "hi"`, 1000, TypeInbox)
	msg.Read = true
	msg.ServiceCenter = &sc

	var buf bytes.Buffer
	err := WriteCSV(&buf, []*Message{msg}, false)
	assert.NoError(t, err)

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Contains(t, line, `"He said ""hi"""`)
	assert.True(t, strings.HasPrefix(line, "m1,t1,+15550001,"))
	assert.True(t, strings.HasSuffix(line, ",1,inbox,1,1,"+sc))

	// Reparsing with a standard CSV reader recovers the original body
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `He said "hi"`, records[0][3])
}

func TestWriteCSV_AbsentServiceCenterIsEmpty(t *testing.T) {
	msg := NewMessage("m1", "t1", "+15550001", "hello", 1000, TypeInbox)

	var buf bytes.Buffer
	err := WriteCSV(&buf, []*Message{msg}, false)
	assert.NoError(t, err)

	line := strings.TrimSuffix(buf.String(), "\n")
	// Unread/seen flags as 0/1, trailing field empty, no trailing delimiter beyond it
	assert.True(t, strings.HasSuffix(line, ",1,inbox,0,1,"))
}

func TestWriteCSV_DelimiterInAddressIsNotEscaped(t *testing.T) {
	// Known limitation: only the body is quoted, so a comma in any other
	// field shifts the columns of its row
	msg := NewMessage("m1", "t1", "Smith, John", "hello", 1000, TypeInbox)

	var buf bytes.Buffer
	err := WriteCSV(&buf, []*Message{msg}, false)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "m1,t1,Smith, John,")
}

func TestWriteJSON_EscapingRoundTrip(t *testing.T) {
	body := "line one\nline two\t\"quoted\"\r"
	msg := NewMessage("m1", "t1", "+15550001", body, 1000, TypeInbox)

	var buf bytes.Buffer
	err := WriteJSON(&buf, []*Message{msg})
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `\n`)
	assert.Contains(t, out, `\t`)
	assert.Contains(t, out, `\r`)
	assert.Contains(t, out, `\"quoted\"`)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, body, parsed[0]["body"])
}

func TestWriteJSON_FieldSet(t *testing.T) {
	msg := NewMessage("m1", "t1", "+15550001", "hello", 1000, TypeSent)
	msg.Read = true

	var buf bytes.Buffer
	err := WriteJSON(&buf, []*Message{msg})
	assert.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)

	rec := parsed[0]
	assert.Equal(t, "m1", rec["id"])
	assert.Equal(t, "t1", rec["thread_id"])
	assert.Equal(t, "+15550001", rec["address"])
	assert.Equal(t, float64(1000), rec["date"])
	assert.NotEmpty(t, rec["date_formatted"])
	assert.Equal(t, float64(TypeSent), rec["type"])
	assert.Equal(t, "sent", rec["type_name"])
	assert.Equal(t, true, rec["read"])
	assert.Equal(t, true, rec["seen"])
	// Absent service center is an empty string, never null
	assert.Equal(t, "", rec["service_center"])
}

func TestWriteJSON_EmptyInputIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, nil)
	assert.NoError(t, err)

	var parsed []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Empty(t, parsed)
}

// failingWriter fails after n successful writes.
type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestWriteCSV_WriteFailureAborts(t *testing.T) {
	msgs := []*Message{
		NewMessage("m1", "t1", "+1", "a", 100, TypeInbox),
		NewMessage("m2", "t1", "+1", "b", 200, TypeInbox),
	}

	// Header succeeds, first row fails; the export reports the error and
	// does not retry
	err := WriteCSV(&failingWriter{n: 1}, msgs, true)
	assert.Error(t, err)
}

func TestWriteJSON_WriteFailureAborts(t *testing.T) {
	err := WriteJSON(&failingWriter{n: 0}, []*Message{NewMessage("m1", "t1", "+1", "a", 100, TypeInbox)})
	assert.Error(t, err)
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	msgs := []*Message{NewMessage("m1", "t1", "+1", "hello", 1000, TypeInbox)}

	err := WriteCSVFile(path, msgs, true)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,thread_id,"))
	assert.True(t, strings.HasPrefix(lines[1], "m1,t1,"))
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	msgs := []*Message{NewMessage("m1", "t1", "+1", "hello", 1000, TypeInbox)}

	err := WriteJSONFile(path, msgs)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "m1", parsed[0]["id"])
}
