package console

import (
	"fmt"
	"io"

	"github.com/tkaufmann/fossibot-cli/core/control"
)

// Renderer prints decoded bridge events for a human operator. It is called
// from the MQTT receive goroutine, so each event is written in a single call.
type Renderer struct {
	out io.Writer
}

// NewRenderer writes rendered events to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render formats one event.
func (r *Renderer) Render(ev control.Event) {
	switch ev.Kind {
	case control.EventState:
		onOff := func(b bool) string {
			if b {
				return "ON"
			}
			return "OFF"
		}
		fmt.Fprintf(r.out, "\nDevice State Update:\n  Battery: %d%%\n  USB: %s\n  AC: %s\n  Time: %s\n",
			ev.State.SoC, onOff(ev.State.USBOutput), onOff(ev.State.ACOutput), ev.State.Timestamp)
	case control.EventAvailability:
		fmt.Fprintf(r.out, "\nDevice %s: %s\n", ev.DeviceMAC, ev.Availability)
	case control.EventBridgeStatus:
		fmt.Fprintf(r.out, "\nBridge: %s (v%s)\n", ev.Bridge.Status, ev.Bridge.Version)
	}
}
