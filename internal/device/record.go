package device

import "fmt"

// Record is the fully populated view of a successful reply. It is only
// produced by Reduce and holds no reference to the raw message.
type Record struct {
	// Identity
	DeviceType  string
	Description string
	Serial      string
	MAC         string

	// Network configuration
	IPv4Address      string
	IPv4SubnetMask   string
	IPv4Gateway      string
	IPv6Address      string
	IPv6Gateway      string
	IPv6PrefixLength int
	DHCP             bool
	CommandPort      int
	HTTPPort         int

	// Firmware and hardware
	SoftwareVersion string
	DSPVersion      string
	BootTime        string
	AnalogChannels  int
	DigitalChannels int
	Disks           int

	// Capabilities and state
	ResetAbility            bool
	Activated               bool
	PasswordResetAbility    bool
	PasswordResetModeSecond bool
	SupportsHCPlatform      bool
	HCPlatformEnabled       bool

	// ModifyVerificationCode is passed through as sent; not every firmware
	// reports it.
	ModifyVerificationCode string
}

// String returns a human-readable string representation of the device
func (r Record) String() string {
	return fmt.Sprintf("%s (%s) at %s", r.Description, r.Serial, r.IPv4Address)
}
