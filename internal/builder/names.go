package builder

import "github.com/vk/emucompose/internal/settings"

// Names derives container and network names from the system-unique-id.
type Names struct {
	uniqueID string
}

func NewNames(uniqueID string) Names {
	return Names{uniqueID: uniqueID}
}

// Service prefixes base with the system-unique-id, if any.
func (n Names) Service(base string) string {
	if n.uniqueID == "" {
		return base
	}
	return n.uniqueID + "-" + base
}

// LocalNetwork is the network every service joins. With a system-unique-id
// the id itself names it.
func (n Names) LocalNetwork() string {
	if n.uniqueID == "" {
		return settings.LocalNetwork
	}
	return n.uniqueID
}

// CANNetwork is the network carrying the emulated OT-3 CAN bus.
func (n Names) CANNetwork() string {
	return n.Service(settings.CANNetwork)
}
