package device

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the device
func (r Record) Summary() string {
	return fmt.Sprintf("%s %s @ %s (FW: %s)", r.Description, r.Serial, r.IPv4Address, r.SoftwareVersion)
}

// FormatDeviceInfo returns a formatted string with device identification information
func (r Record) FormatDeviceInfo() string {
	var b strings.Builder

	b.WriteString("=== Device Information ===\n")
	b.WriteString(fmt.Sprintf("Model:         %s\n", r.Description))
	b.WriteString(fmt.Sprintf("Type:          %s\n", r.DeviceType))
	b.WriteString(fmt.Sprintf("Serial Number: %s\n", r.Serial))
	b.WriteString(fmt.Sprintf("MAC Address:   %s\n", r.MAC))
	b.WriteString(fmt.Sprintf("Firmware:      %s\n", r.SoftwareVersion))
	b.WriteString(fmt.Sprintf("DSP Version:   %s\n", r.DSPVersion))
	b.WriteString(fmt.Sprintf("Boot Time:     %s\n", r.BootTime))
	b.WriteString(fmt.Sprintf("Channels:      %d analog, %d digital\n", r.AnalogChannels, r.DigitalChannels))
	b.WriteString(fmt.Sprintf("Disks:         %d\n", r.Disks))

	return b.String()
}

// FormatNetworkConfig returns a formatted string with network configuration
func (r Record) FormatNetworkConfig() string {
	var b strings.Builder

	b.WriteString("=== Network Configuration ===\n")
	b.WriteString(fmt.Sprintf("DHCP:         %s\n", onOff(r.DHCP)))
	b.WriteString(fmt.Sprintf("IPv4 Address: %s\n", r.IPv4Address))
	b.WriteString(fmt.Sprintf("Subnet Mask:  %s\n", r.IPv4SubnetMask))
	b.WriteString(fmt.Sprintf("Gateway:      %s\n", r.IPv4Gateway))
	b.WriteString(fmt.Sprintf("IPv6 Address: %s/%d\n", r.IPv6Address, r.IPv6PrefixLength))
	b.WriteString(fmt.Sprintf("IPv6 Gateway: %s\n", r.IPv6Gateway))
	b.WriteString(fmt.Sprintf("SDK Port:     %d\n", r.CommandPort))
	b.WriteString(fmt.Sprintf("HTTP Port:    %d\n", r.HTTPPort))

	return b.String()
}

// FormatCapabilities returns a formatted string with activation state and
// optional features
func (r Record) FormatCapabilities() string {
	var b strings.Builder

	b.WriteString("=== State and Capabilities ===\n")
	b.WriteString(fmt.Sprintf("Activated:          %s\n", yesNo(r.Activated)))
	b.WriteString(fmt.Sprintf("Reset Ability:      %s\n", yesNo(r.ResetAbility)))
	b.WriteString(fmt.Sprintf("Password Reset:     %s\n", yesNo(r.PasswordResetAbility)))
	b.WriteString(fmt.Sprintf("Reset Mode Second:  %s\n", yesNo(r.PasswordResetModeSecond)))
	b.WriteString(fmt.Sprintf("Hik-Connect:        %s", yesNo(r.SupportsHCPlatform)))
	if r.SupportsHCPlatform {
		b.WriteString(fmt.Sprintf(" (%s)", onOff(r.HCPlatformEnabled)))
	}
	b.WriteString("\n")
	if r.ModifyVerificationCode != "" {
		b.WriteString(fmt.Sprintf("Verification Code:  %s\n", r.ModifyVerificationCode))
	}

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (r Record) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Device:   %s %s (MAC: %s)\n", r.Description, r.Serial, r.MAC))
	b.WriteString(fmt.Sprintf("Firmware: %s\n", r.SoftwareVersion))
	b.WriteString(fmt.Sprintf("Address:  %s/%s via %s (DHCP %s)\n", r.IPv4Address, r.IPv4SubnetMask, r.IPv4Gateway, onOff(r.DHCP)))
	b.WriteString(fmt.Sprintf("Ports:    sdk %d, http %d\n", r.CommandPort, r.HTTPPort))
	b.WriteString(fmt.Sprintf("Active:   %s\n", yesNo(r.Activated)))

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with all device details
func (r Record) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                    SADP DEVICE DETAILS                         ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")
	b.WriteString("\n")

	b.WriteString(r.FormatDeviceInfo())
	b.WriteString("\n")
	b.WriteString(r.FormatNetworkConfig())
	b.WriteString("\n")
	b.WriteString(r.FormatCapabilities())

	return b.String()
}

// FormatChanges returns a formatted string showing what will be changed
func (o Overrides) FormatChanges() string {
	var b strings.Builder

	b.WriteString("=== Configuration Changes ===\n")

	if o.IsEmpty() {
		b.WriteString("(no changes specified)\n")
		return b.String()
	}

	if o.DHCP != nil {
		b.WriteString(fmt.Sprintf("  DHCP:         %s\n", onOff(*o.DHCP)))
	}
	if o.IPv4Address != nil {
		b.WriteString(fmt.Sprintf("  IPv4 Address: %s\n", *o.IPv4Address))
	}
	if o.IPv4SubnetMask != nil {
		b.WriteString(fmt.Sprintf("  Subnet Mask:  %s\n", *o.IPv4SubnetMask))
	}
	if o.IPv4Gateway != nil {
		b.WriteString(fmt.Sprintf("  Gateway:      %s\n", *o.IPv4Gateway))
	}
	if o.CommandPort != nil {
		b.WriteString(fmt.Sprintf("  SDK Port:     %d\n", *o.CommandPort))
	}
	if o.HTTPPort != nil {
		b.WriteString(fmt.Sprintf("  HTTP Port:    %d\n", *o.HTTPPort))
	}
	if o.IPv6Address != nil {
		b.WriteString(fmt.Sprintf("  IPv6 Address: %s\n", *o.IPv6Address))
	}
	if o.IPv6Gateway != nil {
		b.WriteString(fmt.Sprintf("  IPv6 Gateway: %s\n", *o.IPv6Gateway))
	}
	if o.IPv6PrefixLength != nil {
		b.WriteString(fmt.Sprintf("  IPv6 Prefix:  %d\n", *o.IPv6PrefixLength))
	}

	return b.String()
}

// FormatDiff returns a formatted diff between two records of the same device
func FormatDiff(old, new Record) string {
	var b strings.Builder

	b.WriteString("=== Configuration Differences ===\n")

	hasChanges := false
	diff := func(label, before, after string) {
		if before != after {
			b.WriteString(fmt.Sprintf("  %-13s %s → %s\n", label+":", before, after))
			hasChanges = true
		}
	}

	diff("DHCP", onOff(old.DHCP), onOff(new.DHCP))
	diff("IPv4 Address", old.IPv4Address, new.IPv4Address)
	diff("Subnet Mask", old.IPv4SubnetMask, new.IPv4SubnetMask)
	diff("Gateway", old.IPv4Gateway, new.IPv4Gateway)
	diff("IPv6 Address", old.IPv6Address, new.IPv6Address)
	diff("IPv6 Gateway", old.IPv6Gateway, new.IPv6Gateway)
	diff("IPv6 Prefix", fmt.Sprint(old.IPv6PrefixLength), fmt.Sprint(new.IPv6PrefixLength))
	diff("SDK Port", fmt.Sprint(old.CommandPort), fmt.Sprint(new.CommandPort))
	diff("HTTP Port", fmt.Sprint(old.HTTPPort), fmt.Sprint(new.HTTPPort))
	diff("Firmware", old.SoftwareVersion, new.SoftwareVersion)
	diff("Activated", yesNo(old.Activated), yesNo(new.Activated))

	if !hasChanges {
		b.WriteString("(no differences)\n")
	}

	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
