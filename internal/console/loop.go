package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tkaufmann/fossibot-cli/core/model"
)

// DeviceController is the command surface the loop drives.
type DeviceController interface {
	TurnUSBOn() error
	TurnUSBOff() error
	SetChargingCurrent(amperes int) error
}

// errInputClosed ends the loop when stdin is exhausted or the context is done.
var errInputClosed = errors.New("input closed")

// Loop is the foreground interactive menu. Input is read on its own
// goroutine so an interrupt ends the session even while a read is pending,
// and inbound message handling is never blocked by the operator.
type Loop struct {
	ctrl DeviceController
	in   io.Reader
	out  io.Writer

	lines   chan string
	scanErr chan error
}

// NewLoop builds a Loop reading operator input from in and writing to out.
func NewLoop(ctrl DeviceController, in io.Reader, out io.Writer) *Loop {
	return &Loop{ctrl: ctrl, in: in, out: out}
}

const menu = `
Commands:
  1 - Turn USB ON
  2 - Turn USB OFF
  3 - Set charging current
  q - Quit
`

// Run shows the menu and dispatches operator choices until quit, end of
// input, or context cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.lines = make(chan string)
	l.scanErr = make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(l.in)
		for scanner.Scan() {
			select {
			case l.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		l.scanErr <- scanner.Err()
		close(l.lines)
	}()

	handlers := map[string]func(context.Context) error{
		"1": l.usbOn,
		"2": l.usbOff,
		"3": l.chargingCurrent,
	}

	for {
		fmt.Fprint(l.out, menu)
		fmt.Fprint(l.out, "\nEnter command: ")

		choice, err := l.readLine(ctx)
		if err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			return err
		}
		choice = strings.TrimSpace(choice)
		if strings.EqualFold(choice, "q") {
			return nil
		}
		handler, known := handlers[choice]
		if !known {
			fmt.Fprintln(l.out, "Invalid command")
			continue
		}
		if err := handler(ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			fmt.Fprintf(l.out, "Error: %v\n", err)
		}
	}
}

func (l *Loop) readLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-l.lines:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	case err := <-l.scanErr:
		if err != nil {
			return "", err
		}
		return "", errInputClosed
	case <-ctx.Done():
		return "", errInputClosed
	}
}

func (l *Loop) usbOn(context.Context) error {
	if err := l.ctrl.TurnUSBOn(); err != nil {
		return err
	}
	fmt.Fprintln(l.out, "Sent: USB ON")
	return nil
}

func (l *Loop) usbOff(context.Context) error {
	if err := l.ctrl.TurnUSBOff(); err != nil {
		return err
	}
	fmt.Fprintln(l.out, "Sent: USB OFF")
	return nil
}

func (l *Loop) chargingCurrent(ctx context.Context) error {
	fmt.Fprintf(l.out, "Enter amperes (%d-%d): ", model.MinChargingAmperes, model.MaxChargingAmperes)
	line, err := l.readLine(ctx)
	if err != nil {
		return err
	}
	amperes, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		// Non-integer input is a local validation error, not a publish.
		return fmt.Errorf("amperes must be an integer, got %q", strings.TrimSpace(line))
	}
	if err := l.ctrl.SetChargingCurrent(amperes); err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Sent: Set charging current to %dA\n", amperes)
	return nil
}
