package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	smslogger "github.com/UmbaMobile/sms-logger"
)

func main() {
	_ = godotenv.Load()

	var (
		dbPath  = flag.String("db", getEnvString("SMS_LOGGER_DB", "sms-logger.db"), "path to the sqlite database")
		format  = flag.String("format", "report", "output format: report, csv or json")
		output  = flag.String("out", "", "write output to a file instead of stdout")
		thread  = flag.String("thread", "", "filter: exact thread ID")
		address = flag.String("address", "", "filter: address substring (case-sensitive)")
		body    = flag.String("body", "", "filter: body substring (case-sensitive)")
		msgType = flag.Int("type", -1, "filter: message type tag (1=inbox 2=sent 3=draft 4=outbox 5=failed 6=queued)")
		unread  = flag.Bool("unread", false, "filter: unread messages only")
		since   = flag.Int64("since", 0, "filter: inclusive lower timestamp bound, ms since epoch")
		until   = flag.Int64("until", 0, "filter: inclusive upper timestamp bound, ms since epoch")
		limit   = flag.Int("limit", 0, "cap on result count, 0 means no cap")
		threads = flag.Bool("threads", false, "print per-conversation summaries instead of messages")
		stats   = flag.Bool("stats", false, "print corpus statistics instead of messages")
		debug   = flag.Bool("debug", getEnvBool("SMS_LOGGER_DEBUG", false), "enable debug logging")
	)
	flag.Parse()

	zlog, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		zlog.Error("open database", zap.String("path", *dbPath), zap.Error(err))
		os.Exit(1)
	}

	store, err := smslogger.NewGormMessageStore(db)
	if err != nil {
		zlog.Error("init message store", zap.Error(err))
		os.Exit(1)
	}

	log := smslogger.NewDefaultMessageLog(store, smslogger.WithLogger(zlog))
	ctx := context.Background()

	switch {
	case *threads:
		err = printThreadSummaries(ctx, log)
	case *stats:
		err = printStatistics(ctx, log)
	default:
		criteria := buildCriteria(*thread, *address, *body, *msgType, *unread, *since, *until, *limit)
		err = runQuery(ctx, log, criteria, *format, *output)
	}

	if err != nil {
		zlog.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildCriteria(thread, address, body string, msgType int, unread bool, since, until int64, limit int) *smslogger.Criteria {
	criteria := &smslogger.Criteria{
		ThreadID:        thread,
		AddressContains: address,
		BodyContains:    body,
		UnreadOnly:      unread,
		Limit:           limit,
	}
	if msgType >= 0 {
		t := smslogger.MessageTypeFromValue(msgType)
		criteria.Type = &t
	}
	if since > 0 {
		criteria.DateFrom = &since
	}
	if until > 0 {
		criteria.DateTo = &until
	}
	return criteria
}

func runQuery(ctx context.Context, log smslogger.MessageLog, criteria *smslogger.Criteria, format, output string) error {
	switch strings.ToLower(format) {
	case "csv":
		if output != "" {
			return log.ExportCSVFile(ctx, output, criteria)
		}
		return log.ExportCSV(ctx, os.Stdout, criteria)
	case "json":
		if output != "" {
			return log.ExportJSONFile(ctx, output, criteria)
		}
		return log.ExportJSON(ctx, os.Stdout, criteria)
	case "report":
		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			w = f
		}
		return log.WriteReport(ctx, w, criteria)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printThreadSummaries(ctx context.Context, log smslogger.MessageLog) error {
	summaries, err := log.GetThreadSummaries(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d conversations\n", len(summaries))
	for _, s := range summaries {
		fmt.Printf("\nThread:  %s\nAddress: %s\nCount:   %d (%d unread)\nLast:    [%s] %s\n",
			s.ThreadID, s.Address, s.MessageCount, s.UnreadCount, s.LastType, s.LastBody)
	}
	return nil
}

func printStatistics(ctx context.Context, log smslogger.MessageLog) error {
	stats, err := log.GetStatistics(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total messages: %d\n", stats.TotalMessages)
	fmt.Printf("  inbox: %d  sent: %d  draft: %d  failed: %d\n",
		stats.Inbox, stats.Sent, stats.Draft, stats.Failed)
	fmt.Printf("Unread: %d\n", stats.UnreadMessages)
	fmt.Printf("Oldest: %d  Newest: %d\n", stats.OldestTimestamp, stats.NewestTimestamp)
	fmt.Printf("Last %d days: %d messages (%.2f/day)\n",
		stats.WindowDays, stats.MessagesInWindow, stats.AveragePerDay)
	if len(stats.TopSenders) > 0 {
		fmt.Println("Top senders:")
		for _, sender := range stats.TopSenders {
			fmt.Printf("  %s: %d\n", sender.Address, sender.Count)
		}
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}
