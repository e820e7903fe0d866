package tui

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
	"golang.org/x/term"
)

// maxSettleWait bounds how long line mode waits for an animation.
const maxSettleWait = 10 * time.Second

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalSize returns the current terminal width and height.
// Returns 0, 0 if the terminal size cannot be determined.
func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}

// terminalTooSmall returns true if the terminal is below the minimum size.
func terminalTooSmall() bool {
	width, height := terminalSize()
	return width < minWidth || height < minHeight
}

// errQuit ends line mode.
var errQuit = errors.New("quit")

// runSimple reads one command per line and prints the resulting events.
// It stands in for the TUI when stdin or stdout is not a terminal, so
// decisions can be piped in. Exits at end of input, on "quit" or on
// interrupt.
func (t *TUI) runSimple() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	vw, vh := t.ctrl.Viewport()
	if vw == 0 || vh == 0 {
		cols, rows := terminalSize()
		if cols == 0 || rows == 0 {
			cols, rows = 80, 24
		}
		t.ctrl.SetViewport(float64(cols)*t.cfg.Pointer.CellWidth, float64(rows)*t.cfg.Pointer.CellHeight)
	}
	t.printEvents()

	for {
		select {
		case <-sigChan:
			return nil
		case line, ok := <-lines:
			if !ok {
				t.settle()
				t.printEvents()
				return nil
			}
			err := t.command(line)
			t.settle()
			t.printEvents()
			if errors.Is(err, errQuit) {
				if t.onQuit != nil {
					t.onQuit()
				}
				return nil
			}
			if err != nil {
				_, _ = fmt.Fprintf(t.out, "error: %v\n", err)
			}
		}
	}
}

// command applies one line-mode command to the controller.
func (t *TUI) command(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	c := t.ctrl
	var ok bool
	switch cmd := fields[0]; cmd {
	case "left", "right", "up", "down":
		dir, err := swipe.ParseDirection(cmd)
		if err != nil {
			return err
		}
		ok = c.Trigger(dir)
	case "super":
		ok = c.Trigger(swipe.Up)
	case "undo", "u":
		ok = c.Undo()
	case "prev", "[":
		ok = c.CarouselLeft()
	case "next", "]":
		ok = c.CarouselRight()
	case "close", "esc":
		ok = c.Dismiss()
	case config.ScreenDeck, config.ScreenEdge, config.ScreenFeed:
		return c.Switch(cmd)
	case "switch":
		if len(fields) < 2 {
			return errors.New("switch needs a screen name")
		}
		return c.Switch(fields[1])
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	if !ok {
		_, _ = fmt.Fprintf(t.out, "%s: nothing to do\n", fields[0])
	}
	return nil
}

// settle runs the active animation to completion in real time.
func (t *TUI) settle() {
	deadline := time.Now().Add(maxSettleWait)
	for t.ctrl.Generation() != 0 && time.Now().Before(deadline) {
		time.Sleep(t.ctrl.FrameInterval())
		t.ctrl.Step(time.Now())
	}
}

// printEvents prints every event received since the last call.
func (t *TUI) printEvents() {
	if t.eventChan == nil {
		return
	}
	for {
		select {
		case event, ok := <-t.eventChan:
			if !ok {
				return
			}
			text := events.Format(event)
			if text == "" {
				continue
			}
			timestamp := event.Timestamp().Format("15:04:05")
			_, _ = fmt.Fprintf(t.out, "%s %s\n", timestamp, text)
		default:
			return
		}
	}
}
