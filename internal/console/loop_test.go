package console

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tkaufmann/fossibot-cli/core/model"
)

type fakeController struct {
	calls []string
}

func (f *fakeController) TurnUSBOn() error {
	f.calls = append(f.calls, "usb_on")
	return nil
}

func (f *fakeController) TurnUSBOff() error {
	f.calls = append(f.calls, "usb_off")
	return nil
}

func (f *fakeController) SetChargingCurrent(amperes int) error {
	if amperes < model.MinChargingAmperes || amperes > model.MaxChargingAmperes {
		return model.ErrAmperesOutOfRange
	}
	f.calls = append(f.calls, fmt.Sprintf("set_%d", amperes))
	return nil
}

func runLoop(t *testing.T, input string) (*fakeController, string) {
	t.Helper()
	ctrl := &fakeController{}
	var out bytes.Buffer
	loop := NewLoop(ctrl, strings.NewReader(input), &out)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return ctrl, out.String()
}

func TestLoopUSBCommands(t *testing.T) {
	ctrl, out := runLoop(t, "1\n2\nq\n")
	if len(ctrl.calls) != 2 || ctrl.calls[0] != "usb_on" || ctrl.calls[1] != "usb_off" {
		t.Fatalf("calls: %v", ctrl.calls)
	}
	if !strings.Contains(out, "Sent: USB ON") || !strings.Contains(out, "Sent: USB OFF") {
		t.Errorf("confirmations missing in output:\n%s", out)
	}
}

func TestLoopSetChargingCurrent(t *testing.T) {
	ctrl, out := runLoop(t, "3\n5\nq\n")
	if len(ctrl.calls) != 1 {
		t.Fatalf("calls: %v", ctrl.calls)
	}
	if !strings.Contains(out, "Sent: Set charging current to 5A") {
		t.Errorf("confirmation missing:\n%s", out)
	}
}

func TestLoopChargingCurrentOutOfRange(t *testing.T) {
	ctrl, out := runLoop(t, "3\n21\nq\n")
	if len(ctrl.calls) != 0 {
		t.Fatalf("out-of-range value must not reach a publish, calls: %v", ctrl.calls)
	}
	if !strings.Contains(out, "Error:") {
		t.Errorf("error message missing:\n%s", out)
	}
}

func TestLoopChargingCurrentNonInteger(t *testing.T) {
	ctrl, out := runLoop(t, "3\nabc\nq\n")
	if len(ctrl.calls) != 0 {
		t.Fatalf("non-integer input must not reach a publish, calls: %v", ctrl.calls)
	}
	if !strings.Contains(out, "must be an integer") {
		t.Errorf("validation message missing:\n%s", out)
	}
}

func TestLoopInvalidChoice(t *testing.T) {
	ctrl, out := runLoop(t, "7\nq\n")
	if len(ctrl.calls) != 0 {
		t.Fatalf("calls: %v", ctrl.calls)
	}
	if !strings.Contains(out, "Invalid command") {
		t.Errorf("invalid command message missing:\n%s", out)
	}
}

func TestLoopQuitCaseInsensitive(t *testing.T) {
	_, out := runLoop(t, "Q\n")
	if !strings.Contains(out, "Enter command") {
		t.Errorf("menu missing:\n%s", out)
	}
}

func TestLoopEndOfInput(t *testing.T) {
	// Exhausted stdin ends the session like a quit.
	ctrl, _ := runLoop(t, "1\n")
	if len(ctrl.calls) != 1 {
		t.Fatalf("calls: %v", ctrl.calls)
	}
}

func TestLoopContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl := &fakeController{}
	var out bytes.Buffer
	loop := NewLoop(ctrl, blockingReader{}, &out)
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("canceled run should return nil, got %v", err)
	}
	if len(ctrl.calls) != 0 {
		t.Fatalf("calls after cancel: %v", ctrl.calls)
	}
}

// blockingReader never returns input, standing in for an idle terminal.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
