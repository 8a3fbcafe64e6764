package device

import (
	"errors"
	"strconv"

	"github.com/muurk/sadp/internal/digest"
	"github.com/muurk/sadp/internal/protocol"
)

// Overrides holds the settings a caller wants changed. A nil field keeps the
// device's current value.
type Overrides struct {
	DHCP             *bool
	IPv4Address      *string
	IPv4SubnetMask   *string
	IPv4Gateway      *string
	CommandPort      *int
	HTTPPort         *int
	IPv6Address      *string
	IPv6Gateway      *string
	IPv6PrefixLength *int
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return o.DHCP == nil &&
		o.IPv4Address == nil &&
		o.IPv4SubnetMask == nil &&
		o.IPv4Gateway == nil &&
		o.CommandPort == nil &&
		o.HTTPPort == nil &&
		o.IPv6Address == nil &&
		o.IPv6Gateway == nil &&
		o.IPv6PrefixLength == nil
}

// Apply returns the record with every set override written over it.
func (o Overrides) Apply(r Record) Record {
	if o.DHCP != nil {
		r.DHCP = *o.DHCP
	}
	if o.IPv4Address != nil {
		r.IPv4Address = *o.IPv4Address
	}
	if o.IPv4SubnetMask != nil {
		r.IPv4SubnetMask = *o.IPv4SubnetMask
	}
	if o.IPv4Gateway != nil {
		r.IPv4Gateway = *o.IPv4Gateway
	}
	if o.CommandPort != nil {
		r.CommandPort = *o.CommandPort
	}
	if o.HTTPPort != nil {
		r.HTTPPort = *o.HTTPPort
	}
	if o.IPv6Address != nil {
		r.IPv6Address = *o.IPv6Address
	}
	if o.IPv6Gateway != nil {
		r.IPv6Gateway = *o.IPv6Gateway
	}
	if o.IPv6PrefixLength != nil {
		r.IPv6PrefixLength = *o.IPv6PrefixLength
	}
	return r
}

// UpdateBuilder provides a fluent API for building an update request from a
// device's current settings.
//
// Example usage:
//
//	req, err := NewUpdateBuilder(current).
//	    SetStaticIPv4("192.168.1.64", "255.255.255.0", "192.168.1.1").
//	    SetHTTPPort(8080).
//	    SetPassword(digest.Password(pw)).
//	    SetCorrelationID(id).
//	    Build()
type UpdateBuilder struct {
	current   Record
	overrides Overrides

	correlationID  string
	password       digest.Digest
	sdkOverTLSPort uint32
}

// NewUpdateBuilder creates a builder with current as the baseline.
func NewUpdateBuilder(current Record) *UpdateBuilder {
	return &UpdateBuilder{current: current}
}

// SetOverrides merges o into the pending changes. Fields set in o replace
// earlier values; nil fields leave them alone.
func (b *UpdateBuilder) SetOverrides(o Overrides) *UpdateBuilder {
	if o.DHCP != nil {
		b.overrides.DHCP = o.DHCP
	}
	if o.IPv4Address != nil {
		b.overrides.IPv4Address = o.IPv4Address
	}
	if o.IPv4SubnetMask != nil {
		b.overrides.IPv4SubnetMask = o.IPv4SubnetMask
	}
	if o.IPv4Gateway != nil {
		b.overrides.IPv4Gateway = o.IPv4Gateway
	}
	if o.CommandPort != nil {
		b.overrides.CommandPort = o.CommandPort
	}
	if o.HTTPPort != nil {
		b.overrides.HTTPPort = o.HTTPPort
	}
	if o.IPv6Address != nil {
		b.overrides.IPv6Address = o.IPv6Address
	}
	if o.IPv6Gateway != nil {
		b.overrides.IPv6Gateway = o.IPv6Gateway
	}
	if o.IPv6PrefixLength != nil {
		b.overrides.IPv6PrefixLength = o.IPv6PrefixLength
	}
	return b
}

// SetDHCP enables or disables DHCP.
func (b *UpdateBuilder) SetDHCP(enabled bool) *UpdateBuilder {
	b.overrides.DHCP = &enabled
	return b
}

// SetStaticIPv4 sets a static address, mask and gateway and turns DHCP off.
func (b *UpdateBuilder) SetStaticIPv4(addr, mask, gateway string) *UpdateBuilder {
	off := false
	b.overrides.DHCP = &off
	b.overrides.IPv4Address = &addr
	b.overrides.IPv4SubnetMask = &mask
	b.overrides.IPv4Gateway = &gateway
	return b
}

// SetCommandPort sets the SDK command port.
func (b *UpdateBuilder) SetCommandPort(port int) *UpdateBuilder {
	b.overrides.CommandPort = &port
	return b
}

// SetHTTPPort sets the web interface port.
func (b *UpdateBuilder) SetHTTPPort(port int) *UpdateBuilder {
	b.overrides.HTTPPort = &port
	return b
}

// SetIPv6 sets the IPv6 address, gateway and prefix length.
func (b *UpdateBuilder) SetIPv6(addr, gateway string, prefix int) *UpdateBuilder {
	b.overrides.IPv6Address = &addr
	b.overrides.IPv6Gateway = &gateway
	b.overrides.IPv6PrefixLength = &prefix
	return b
}

// SetPassword sets the digest of the device's current admin password.
func (b *UpdateBuilder) SetPassword(d digest.Digest) *UpdateBuilder {
	b.password = d
	return b
}

// SetCorrelationID sets the Uuid echoed back by the device.
func (b *UpdateBuilder) SetCorrelationID(id string) *UpdateBuilder {
	b.correlationID = id
	return b
}

// SetSDKOverTLSPort sets the SDK-over-TLS port. Zero leaves it disabled.
func (b *UpdateBuilder) SetSDKOverTLSPort(port uint32) *UpdateBuilder {
	b.sdkOverTLSPort = port
	return b
}

// Overrides returns the pending changes.
func (b *UpdateBuilder) Overrides() Overrides {
	return b.overrides
}

// Target returns the record as it will look once the update is applied.
func (b *UpdateBuilder) Target() Record {
	return b.overrides.Apply(b.current)
}

// HasChanges reports whether any setting differs from the baseline.
func (b *UpdateBuilder) HasChanges() bool {
	return b.Target() != b.current
}

// Validate checks the overrides and the resulting static configuration.
// Returns all problems joined, or nil.
func (b *UpdateBuilder) Validate() error {
	errs := b.overrides.Validate()

	target := b.Target()
	if !target.DHCP && b.overrides.IPv4Gateway != nil {
		if err := ValidateGateway(target.IPv4Address, target.IPv4SubnetMask, target.IPv4Gateway); err != nil {
			errs = append(errs, err)
		}
	}
	if b.password == "" {
		errs = append(errs, NewValidationError("Password", "password is required"))
	}
	if b.current.MAC == "" {
		errs = append(errs, NewValidationError("MAC", "current record has no MAC address"))
	}

	return errors.Join(errs...)
}

// Build validates the pending changes and creates the update request.
func (b *UpdateBuilder) Build() (protocol.Update, error) {
	if err := b.Validate(); err != nil {
		return protocol.Update{}, err
	}

	target := b.Target()
	return protocol.Update{
		UUID:           b.correlationID,
		PWErrorParse:   "true",
		MAC:            b.current.MAC,
		Password:       b.password.Wire(),
		IPv4Address:    target.IPv4Address,
		CommandPort:    strconv.Itoa(target.CommandPort),
		HTTPPort:       strconv.Itoa(target.HTTPPort),
		IPv4SubnetMask: target.IPv4SubnetMask,
		IPv4Gateway:    target.IPv4Gateway,
		IPv6Address:    target.IPv6Address,
		IPv6Gateway:    target.IPv6Gateway,
		IPv6MaskLen:    uint32(target.IPv6PrefixLength),
		DHCP:           target.DHCP,
		SDKOverTLSPort: b.sdkOverTLSPort,
	}, nil
}

// Reset discards all pending changes.
func (b *UpdateBuilder) Reset() *UpdateBuilder {
	b.overrides = Overrides{}
	return b
}
