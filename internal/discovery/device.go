package discovery

import (
	"fmt"
	"time"
)

// MDNSDevice is a device found through an mDNS advertisement
type MDNSDevice struct {
	// Instance is the advertised service instance name (often the model)
	Instance string

	// Hostname is the mDNS hostname (e.g., "HIKVISION-64.local.")
	Hostname string

	// IP is the advertised address, IPv4 when available
	IP string

	// Port is the web service port (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *MDNSDevice) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *MDNSDevice) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *MDNSDevice) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
