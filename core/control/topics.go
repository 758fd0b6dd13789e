package control

// DefaultNamespace is the topic prefix used by the Fossibot bridge.
const DefaultNamespace = "fossibot"

func StateTopic(namespace, mac string) string {
	return namespace + "/" + mac + "/state"
}

func AvailabilityTopic(namespace, mac string) string {
	return namespace + "/" + mac + "/availability"
}

func CommandTopic(namespace, mac string) string {
	return namespace + "/" + mac + "/command"
}

func BridgeStatusTopic(namespace string) string {
	return namespace + "/bridge/status"
}
