package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tkaufmann/fossibot-cli/core/model"
)

// ErrUnknownTopic marks a message on a topic the client did not subscribe to.
// Callers discard these.
var ErrUnknownTopic = errors.New("unknown topic")

// EventKind classifies a decoded inbound message.
type EventKind string

const (
	EventState        EventKind = "state"
	EventAvailability EventKind = "availability"
	EventBridgeStatus EventKind = "bridge_status"
)

// Event is the decoded form of one inbound message. Exactly one of the typed
// fields is populated depending on Kind.
type Event struct {
	Kind         EventKind
	DeviceMAC    string
	State        model.DeviceState
	Availability model.Availability
	Bridge       model.BridgeStatus
}

// HandleMessage classifies and decodes an inbound message. It is pure: no
// transport, no side effects. A decode failure is returned as an error so the
// caller can log and drop the message without breaking later dispatch.
func HandleMessage(namespace, topic string, payload []byte) (Event, error) {
	switch {
	case topic == BridgeStatusTopic(namespace):
		var status model.BridgeStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return Event{}, fmt.Errorf("decode bridge status: %w", err)
		}
		return Event{Kind: EventBridgeStatus, Bridge: status}, nil

	case strings.HasSuffix(topic, "/state"):
		var state model.DeviceState
		if err := json.Unmarshal(payload, &state); err != nil {
			return Event{}, fmt.Errorf("decode state on %s: %w", topic, err)
		}
		if err := state.Validate(); err != nil {
			return Event{}, fmt.Errorf("invalid state on %s: %w", topic, err)
		}
		return Event{Kind: EventState, DeviceMAC: deviceFromTopic(namespace, topic), State: state}, nil

	case strings.HasSuffix(topic, "/availability"):
		token := strings.TrimSpace(string(payload))
		return Event{
			Kind:         EventAvailability,
			DeviceMAC:    deviceFromTopic(namespace, topic),
			Availability: model.Availability(token),
		}, nil

	default:
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
}

// deviceFromTopic extracts the device segment from <namespace>/<mac>/<leaf>.
func deviceFromTopic(namespace, topic string) string {
	rest := strings.TrimPrefix(topic, namespace+"/")
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}
	return rest
}
