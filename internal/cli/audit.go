package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saferoot/internal/audit"
	"saferoot/internal/store"
	"saferoot/internal/ui/audittail"
	"saferoot/pkg/pathguard"
)

// followPollInterval is how often the follow mode checks for new rows.
const followPollInterval = 500 * time.Millisecond

// followPollLimit caps how many rows one poll round may pull.
const followPollLimit = 500

// runAudit builds the handler for the audit command.
func runAudit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		dbPath := flags.String("db", "", "Path to the content database")
		limit := flags.Int("limit", 50, "How many recent rejections to show")
		follow := flags.Bool("follow", false, "Keep watching for new rejections")
		uiMode := flags.String("ui", "auto", "Follow display mode: auto|live|plain")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			return ExitUsage
		}
		if *dbPath == "" {
			fmt.Fprintln(stderr, "Missing --db")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintln(stderr, "Too many arguments")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if _, err := os.Stat(*dbPath); err != nil {
			fmt.Fprintf(stderr, "Database not found: %v\n", err)
			return ExitError
		}

		st, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Open database: %v\n", err)
			return ExitError
		}
		defer st.Close()

		if !*follow {
			return listRejections(st, *limit, stdout, stderr)
		}
		return followRejections(st, *dbPath, *uiMode, stdout, stderr)
	}
}

// listRejections prints the newest recorded rejections.
func listRejections(st *store.Store, limit int, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	records, err := st.RecentRejections(ctx, limit)
	if err != nil {
		fmt.Fprintf(stderr, "Load rejections: %v\n", err)
		return ExitError
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No rejections recorded.")
		return ExitOK
	}
	for _, record := range records {
		fmt.Fprintf(stdout, "%s %-10s %-18s %q\n",
			record.OccurredAt.UTC().Format(time.RFC3339),
			record.Source, record.Kind, record.RawInput)
	}
	return ExitOK
}

// followRejections tails the audit table until interrupted, either in the
// live table UI or as plain lines.
func followRejections(st *store.Store, origin, uiMode string, stdout, stderr io.Writer) int {
	decision, err := resolveUIMode(uiMode, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return ExitUsage
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if decision.useLive {
		controller := audittail.Start(stdout, audittail.Options{})
		controller.Attach(origin)
		pollLoop(ctx, st, stderr, controller.Record)
		controller.Detach()
		controller.Close()
		controller.Wait()
		return ExitOK
	}

	sink := audit.NewWriterSink(stdout)
	pollLoop(ctx, st, stderr, sink.Record)
	return ExitOK
}

// follower tracks the tail position across poll rounds. The since query
// is inclusive, so rows sharing the watermark timestamp are deduplicated
// by event id; seen holds the ids recorded at the current watermark.
type follower struct {
	watermark time.Time
	seen      map[string]struct{}
}

func newFollower() *follower {
	return &follower{seen: map[string]struct{}{}}
}

// forward delivers rows not yet seen and advances the watermark.
func (f *follower) forward(records []store.RejectionRecord, deliver func(audit.Event)) {
	for _, record := range records {
		if _, ok := f.seen[record.ID]; ok {
			continue
		}
		deliver(eventFromRecord(record))
		if record.OccurredAt.After(f.watermark) {
			f.watermark = record.OccurredAt
			f.seen = map[string]struct{}{}
		}
		f.seen[record.ID] = struct{}{}
	}
}

// pollLoop forwards new rejection rows to deliver until the context ends.
// The watermark starts at the newest existing row so only fresh events
// are shown.
func pollLoop(ctx context.Context, st *store.Store, stderr io.Writer, deliver func(audit.Event)) {
	f := newFollower()
	if latest, err := st.RecentRejections(ctx, 1); err == nil && len(latest) == 1 {
		f.watermark = latest[0].OccurredAt
		if existing, err := st.RejectionsSince(ctx, f.watermark, followPollLimit); err == nil {
			for _, record := range existing {
				f.seen[record.ID] = struct{}{}
			}
		}
	}

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		records, err := st.RejectionsSince(ctx, f.watermark, followPollLimit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(stderr, "poll rejections: %v\n", err)
			continue
		}
		f.forward(records, deliver)
	}
}

// eventFromRecord rebuilds an audit event from its persisted row. Unknown
// kind codes map to the zero kind rather than being dropped.
func eventFromRecord(record store.RejectionRecord) audit.Event {
	kind, _ := pathguard.ParseKind(record.Kind)
	return audit.Event{
		ID:       record.ID,
		Source:   record.Source,
		RawInput: record.RawInput,
		Kind:     kind,
		At:       record.OccurredAt,
	}
}
