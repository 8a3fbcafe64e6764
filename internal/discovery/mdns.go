package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/logging"
)

const (
	// ServiceType is the mDNS service type Hikvision cameras and recorders
	// advertise their PSIA/ISAPI web service under.
	ServiceType = "_psia._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for an mDNS scan
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 80
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration

	// Service is the service type to browse (default ServiceType)
	Service string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Service: ServiceType,
	}
}

// ScanForDevices browses for advertising devices until the timeout.
func (s *Scanner) ScanForDevices() ([]*MDNSDevice, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext browses with a custom context
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*MDNSDevice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	service := s.Service
	if service == "" {
		service = ServiceType
	}

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu      sync.Mutex
		devices = make([]*MDNSDevice, 0)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			d := parseServiceEntry(entry)
			if d == nil {
				continue
			}
			logging.Debug("mDNS advertisement",
				zap.String("instance", d.Instance),
				zap.String("ip", d.IP),
				zap.Int("port", d.Port),
			)
			mu.Lock()
			devices = append(devices, d)
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return dedupe(devices), nil
}

// parseServiceEntry converts a zeroconf service entry to an MDNSDevice.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *MDNSDevice {
	if entry == nil {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &MDNSDevice{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// dedupe keeps the first advertisement per instance and address. Devices
// announce on every interface, so repeats are common.
func dedupe(devices []*MDNSDevice) []*MDNSDevice {
	seen := make(map[string]bool, len(devices))
	out := devices[:0]
	for _, d := range devices {
		key := d.Instance + "|" + d.IP
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

// Unmatched returns the mDNS devices whose address did not appear among the
// SADP records. These are usually on another subnet or have SADP disabled.
func Unmatched(mdns []*MDNSDevice, records []device.Record) []*MDNSDevice {
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.IPv4Address] = true
		known[r.IPv6Address] = true
	}

	var out []*MDNSDevice
	for _, d := range mdns {
		if !known[d.IP] {
			out = append(out, d)
		}
	}
	return out
}

// ScanForDevices is a convenience function to scan with a custom timeout
func ScanForDevices(timeout time.Duration) ([]*MDNSDevice, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices()
}
