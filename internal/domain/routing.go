package domain

import (
	"fmt"
	"strings"
)

// RoutingMode is the interaction mode of the route manager.
type RoutingMode int

const (
	RoutingNone RoutingMode = iota
	RoutingAutomatic
	RoutingManual
)

func (m RoutingMode) String() string {
	switch m {
	case RoutingAutomatic:
		return "automatic"
	case RoutingManual:
		return "manual"
	default:
		return "none"
	}
}

// ParseRoutingMode accepts the String form of a mode, case-insensitively.
func ParseRoutingMode(value string) (RoutingMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none", "":
		return RoutingNone, nil
	case "automatic":
		return RoutingAutomatic, nil
	case "manual":
		return RoutingManual, nil
	default:
		return RoutingNone, fmt.Errorf("unknown routing mode %q", value)
	}
}

// RoutingStatus is published whenever manual routing switches between active and inactive.
type RoutingStatus struct {
	Active bool
}
