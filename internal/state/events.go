package state

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteEvents writes the most recent events as a text log, newest last.
func WriteEvents(w io.Writer, events []Event, limit int) {
	fmt.Fprintln(w, "Event Log")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	for _, e := range events {
		fmt.Fprintf(w, "%s %s %s\n", e.Timestamp.Format(time.TimeOnly), formatEventType(e.Type), DescribeEvent(e))
	}
}

// DescribeEvent returns a one-line description of an event.
func DescribeEvent(e Event) string {
	switch e.Type {
	case EventLoaded:
		return fmt.Sprintf("%s stars from %s", humanize.Comma(int64(e.Stars)), e.Source)
	case EventReloaded:
		return fmt.Sprintf("%s stars from %s (%+d)", humanize.Comma(int64(e.Stars)), e.Source, e.Delta)
	case EventUnrecognizedRows:
		return fmt.Sprintf("%s rows with unrecognized type code", humanize.Comma(int64(e.Stars)))
	case EventLoadFailed:
		return e.Message
	default:
		return string(e.Type)
	}
}

func formatEventType(t EventType) string {
	switch t {
	case EventLoaded:
		return "●LOAD"
	case EventReloaded:
		return "↻RELD"
	case EventLoadFailed:
		return "✗FAIL"
	case EventUnrecognizedRows:
		return "?SKIP"
	default:
		return string(t)
	}
}
