package device

import (
	"fmt"
	"net"
)

// ValidateIPv4 validates a dotted-quad IPv4 address.
func ValidateIPv4(field, addr string) error {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return NewValidationError(field, fmt.Sprintf("not an IPv4 address: %q", addr))
	}
	return nil
}

// ValidateSubnetMask validates an IPv4 netmask.
// The mask must be contiguous (e.g. 255.255.255.0, not 255.0.255.0).
func ValidateSubnetMask(mask string) error {
	ip := net.ParseIP(mask)
	if ip == nil || ip.To4() == nil {
		return NewValidationError("IPv4SubnetMask", fmt.Sprintf("not an IPv4 netmask: %q", mask))
	}
	if _, bits := net.IPMask(ip.To4()).Size(); bits == 0 {
		return NewValidationError("IPv4SubnetMask", fmt.Sprintf("netmask is not contiguous: %q", mask))
	}
	return nil
}

// ValidateGateway checks that a gateway is inside the address's subnet.
// An unset gateway (0.0.0.0) is accepted.
func ValidateGateway(addr, mask, gateway string) error {
	if err := ValidateIPv4("IPv4Gateway", gateway); err != nil {
		return err
	}
	gw := net.ParseIP(gateway).To4()
	if gw.Equal(net.IPv4zero) {
		return nil
	}

	ip := net.ParseIP(addr)
	m := net.ParseIP(mask)
	if ip == nil || m == nil || ip.To4() == nil || m.To4() == nil {
		// Address and mask are validated on their own.
		return nil
	}

	network := &net.IPNet{IP: ip.To4().Mask(net.IPMask(m.To4())), Mask: net.IPMask(m.To4())}
	if !network.Contains(gw) {
		return NewValidationError("IPv4Gateway", fmt.Sprintf("gateway %s is outside %s", gateway, network))
	}
	return nil
}

// ValidatePort validates a TCP port number.
// Valid range: 1-65535
func ValidatePort(field string, port int) error {
	if port <= 0 || port > 65535 {
		return NewValidationError(field, fmt.Sprintf("port must be 1-65535, got %d", port))
	}
	return nil
}

// ValidateIPv6 validates an IPv6 address. "::" (unset) is accepted.
func ValidateIPv6(field, addr string) error {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() != nil {
		return NewValidationError(field, fmt.Sprintf("not an IPv6 address: %q", addr))
	}
	return nil
}

// ValidateIPv6Prefix validates an IPv6 prefix length.
// Valid range: 0-128
func ValidateIPv6Prefix(prefix int) error {
	if prefix < 0 || prefix > 128 {
		return NewValidationError("IPv6MaskLen", fmt.Sprintf("prefix length must be 0-128, got %d", prefix))
	}
	return nil
}

// Validate checks every override that is set.
// Returns a slice of validation errors (empty if valid).
func (o Overrides) Validate() []error {
	var errs []error

	if o.IPv4Address != nil {
		if err := ValidateIPv4("IPv4Address", *o.IPv4Address); err != nil {
			errs = append(errs, err)
		}
	}
	if o.IPv4SubnetMask != nil {
		if err := ValidateSubnetMask(*o.IPv4SubnetMask); err != nil {
			errs = append(errs, err)
		}
	}
	if o.IPv4Gateway != nil {
		if err := ValidateIPv4("IPv4Gateway", *o.IPv4Gateway); err != nil {
			errs = append(errs, err)
		}
	}
	if o.CommandPort != nil {
		if err := ValidatePort("CommandPort", *o.CommandPort); err != nil {
			errs = append(errs, err)
		}
	}
	if o.HTTPPort != nil {
		if err := ValidatePort("HttpPort", *o.HTTPPort); err != nil {
			errs = append(errs, err)
		}
	}
	if o.IPv6Address != nil {
		if err := ValidateIPv6("IPv6Address", *o.IPv6Address); err != nil {
			errs = append(errs, err)
		}
	}
	if o.IPv6Gateway != nil {
		if err := ValidateIPv6("IPv6Gateway", *o.IPv6Gateway); err != nil {
			errs = append(errs, err)
		}
	}
	if o.IPv6PrefixLength != nil {
		if err := ValidateIPv6Prefix(*o.IPv6PrefixLength); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
