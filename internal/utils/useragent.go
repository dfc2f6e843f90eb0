package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// Device types stored on sessions
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

var tabletMarkers = []string{"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 9", "nexus 10", "sm-t"}

// DeviceType classifies a User-Agent string for the sessions table
func DeviceType(userAgent string) string {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceUnknown
	}

	parser := ua.New(userAgent)
	switch {
	case parser.Bot():
		return DeviceBot
	case isTablet(userAgent):
		return DeviceTablet
	case parser.Mobile():
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// Android tablets omit "Mobile" from their UA, so check markers first
func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	if strings.Contains(lower, "android") && !strings.Contains(lower, "mobile") {
		return true
	}
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
