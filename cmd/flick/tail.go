package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npratt/flick/internal/events"
)

// followPoll is how long tailFollow sleeps at end of file.
var followPoll = 100 * time.Millisecond

// tailLast prints the last n lines of the event log.
func tailLast(w io.Writer, path string, n int, raw bool) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintln(w, "No events yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open event log: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Keep only the last n lines while scanning.
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n <= 0 {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event log: %w", err)
	}

	if len(ring) == 0 {
		_, _ = fmt.Fprintln(w, "No events yet")
		return nil
	}
	for _, line := range ring {
		printEventLine(w, line, raw)
	}
	return nil
}

// waitForFile polls until path exists and returns it opened.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	ticker := time.NewTicker(5 * followPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open event log: %w", err)
			}
		}
	}
}

// tailFollow prints lines appended to the event log until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, path string, raw bool) error {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("open event log: %w", err)
		}
		_, _ = fmt.Fprintln(w, "Waiting for event log to be created...")
		if file, err = waitForFile(ctx, path); err != nil {
			return err
		}
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	_, _ = fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial string
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			// Hold a half-written line until the rest arrives.
			partial += line
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(followPoll):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("read event log: %w", err)
		}
		printEventLine(w, strings.TrimSuffix(partial+line, "\n"), raw)
		partial = ""
	}
}

// printEventLine prints one event log line. Lines that do not decode to a
// known event are printed as they are.
func printEventLine(w io.Writer, line string, raw bool) {
	if raw || strings.TrimSpace(line) == "" {
		_, _ = fmt.Fprintln(w, line)
		return
	}
	ev, err := events.ParseEvent([]byte(line))
	if err != nil || ev == nil {
		_, _ = fmt.Fprintln(w, line)
		return
	}
	_, _ = fmt.Fprintln(w, events.FormatWithTimestamp(ev))
}
