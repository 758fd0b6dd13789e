package mqtt

// Publisher sends messages to the broker. Command publishes use QoS 1 so the
// bridge receives them at least once.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte) error
}

// MessageHandler processes one inbound message. It must not block: paho
// invokes it from the client's network goroutine.
type MessageHandler func(topic string, payload []byte)

// Subscriber registers interest in broker topics.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// Client is the full connection handle owned by a session.
type Client interface {
	Publisher
	Subscriber
	Disconnect()
}
