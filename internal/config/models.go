package config

import (
	"sort"
	"time"

	"github.com/muurk/sadp/internal/device"
)

// registryVersion is the schema version written to config.yaml.
const registryVersion = 1

// Registry represents the known-cameras file.
// It stores what was last seen on the network plus user-defined nicknames.
type Registry struct {
	Version int                `yaml:"version"`
	Cameras map[string]*Camera `yaml:"cameras,omitempty"` // Keyed by device serial number

	path string
}

// Camera is what the registry remembers about one device.
// Passwords are never stored here.
type Camera struct {
	Nickname  string    `yaml:"nickname,omitempty"`  // User-friendly name
	Model     string    `yaml:"model,omitempty"`     // DeviceDescription
	MAC       string    `yaml:"mac,omitempty"`       // MAC address as reported
	LastIP    string    `yaml:"last_ip,omitempty"`   // Last known IPv4 address
	Firmware  string    `yaml:"firmware,omitempty"`  // SoftwareVersion
	Activated bool      `yaml:"activated"`           // Activation state when last seen
	LastSeen  time.Time `yaml:"last_seen,omitempty"` // Last discovery or update time
}

// NewRegistry creates an empty registry that saves to path.
func NewRegistry(path string) *Registry {
	return &Registry{
		Version: registryVersion,
		Cameras: make(map[string]*Camera),
		path:    path,
	}
}

// Path returns the file the registry loads from and saves to.
func (r *Registry) Path() string {
	return r.path
}

// GetCamera retrieves a camera by serial number.
// Returns nil if the camera isn't in the registry.
func (r *Registry) GetCamera(serial string) *Camera {
	return r.Cameras[serial]
}

// EnsureCamera ensures an entry exists for serial and returns it.
func (r *Registry) EnsureCamera(serial string) *Camera {
	if r.Cameras == nil {
		r.Cameras = make(map[string]*Camera)
	}

	if cam, exists := r.Cameras[serial]; exists {
		return cam
	}

	cam := &Camera{}
	r.Cameras[serial] = cam
	return cam
}

// RecordSeen stores the latest view of a device. The nickname is kept.
func (r *Registry) RecordSeen(rec device.Record) {
	r.recordSeenAt(rec, time.Now())
}

func (r *Registry) recordSeenAt(rec device.Record, at time.Time) {
	if rec.Serial == "" {
		return
	}
	cam := r.EnsureCamera(rec.Serial)
	cam.Model = rec.Description
	cam.MAC = rec.MAC
	cam.LastIP = rec.IPv4Address
	cam.Firmware = rec.SoftwareVersion
	cam.Activated = rec.Activated
	cam.LastSeen = at
}

// SetNickname sets a user-friendly nickname for a camera.
func (r *Registry) SetNickname(serial, nickname string) {
	r.EnsureCamera(serial).Nickname = nickname
}

// Nickname returns the nickname for serial, or "".
func (r *Registry) Nickname(serial string) string {
	if cam := r.GetCamera(serial); cam != nil {
		return cam.Nickname
	}
	return ""
}

// Forget removes a camera. It reports whether the camera was known.
func (r *Registry) Forget(serial string) bool {
	if _, ok := r.Cameras[serial]; !ok {
		return false
	}
	delete(r.Cameras, serial)
	return true
}

// Serials returns the known serial numbers in sorted order.
func (r *Registry) Serials() []string {
	serials := make([]string, 0, len(r.Cameras))
	for s := range r.Cameras {
		serials = append(serials, s)
	}
	sort.Strings(serials)
	return serials
}

// Resolve maps a nickname to its serial. Anything that is not a known
// nickname is returned unchanged, so callers can pass either.
func (r *Registry) Resolve(nameOrSerial string) string {
	for serial, cam := range r.Cameras {
		if cam.Nickname != "" && cam.Nickname == nameOrSerial {
			return serial
		}
	}
	return nameOrSerial
}
