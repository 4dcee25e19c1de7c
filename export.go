package smslogger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// exportHeader is the fixed CSV column order. The names match the JSON
// field names.
var exportHeader = []string{
	"id", "thread_id", "address", "body", "date", "date_formatted",
	"type", "type_name", "read", "seen", "service_center",
}

const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(millis int64) string {
	return time.UnixMilli(millis).Format(timestampLayout)
}

// exportRecord is the serialized shape of one message.
type exportRecord struct {
	ID            string `json:"id"`
	ThreadID      string `json:"thread_id"`
	Address       string `json:"address"`
	Body          string `json:"body"`
	Date          int64  `json:"date"`
	DateFormatted string `json:"date_formatted"`
	Type          int    `json:"type"`
	TypeName      string `json:"type_name"`
	Read          bool   `json:"read"`
	Seen          bool   `json:"seen"`
	ServiceCenter string `json:"service_center"`
}

func toExportRecord(msg *Message) exportRecord {
	rec := exportRecord{
		ID:            msg.ID,
		ThreadID:      msg.ThreadID,
		Address:       msg.Address,
		Body:          msg.Body,
		Date:          msg.Timestamp,
		DateFormatted: formatTimestamp(msg.Timestamp),
		Type:          int(msg.Type),
		TypeName:      msg.Type.String(),
		Read:          msg.Read,
		Seen:          msg.Seen,
	}
	// An absent service center serializes as an empty string, not null
	if msg.ServiceCenter != nil {
		rec.ServiceCenter = *msg.ServiceCenter
	}
	return rec
}

// WriteCSV serializes messages as CSV, one row per message, optionally
// preceded by a header row. Only the body field is quoted; a literal double
// quote inside the body is doubled. No other field is escaped, so an
// address containing a comma corrupts its row — a known limitation kept for
// compatibility with existing consumers of the format. A write failure
// aborts the export; anything already written stays written.
func WriteCSV(w io.Writer, messages []*Message, header bool) error {
	if header {
		if _, err := io.WriteString(w, strings.Join(exportHeader, ",")+"\n"); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	for _, msg := range messages {
		rec := toExportRecord(msg)
		body := `"` + strings.ReplaceAll(rec.Body, `"`, `""`) + `"`
		row := fmt.Sprintf("%s,%s,%s,%s,%d,%s,%d,%s,%d,%d,%s\n",
			rec.ID, rec.ThreadID, rec.Address, body,
			rec.Date, rec.DateFormatted,
			rec.Type, rec.TypeName,
			boolToInt(rec.Read), boolToInt(rec.Seen),
			rec.ServiceCenter)
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	return nil
}

// WriteJSON serializes messages as a single JSON array of objects sharing
// the CSV field set. Numeric and boolean fields are unquoted; the body is
// escaped per JSON rules. A write failure aborts the export.
func WriteJSON(w io.Writer, messages []*Message) error {
	records := make([]exportRecord, 0, len(messages))
	for _, msg := range messages {
		records = append(records, toExportRecord(msg))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal messages to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write json export: %w", err)
	}

	return nil
}

// WriteCSVFile writes a CSV export to path. On failure the partial file is
// left in place; there is no rollback.
func WriteCSVFile(path string, messages []*Message, header bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteCSV(f, messages, header); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

// WriteJSONFile writes a JSON export to path. On failure the partial file
// is left in place; there is no rollback.
func WriteJSONFile(path string, messages []*Message) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteJSON(f, messages); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
