package device

import "github.com/muurk/sadp/internal/protocol"

// requirement is one attribute a successful reply must carry.
type requirement struct {
	field   string
	present func(*protocol.RawResponse) bool
}

// recordRequirements lists, in wire order, every attribute needed to build a
// Record. Inquiry and update confirmations share this shape.
var recordRequirements = []requirement{
	{"DeviceType", func(r *protocol.RawResponse) bool { return r.DeviceType != nil }},
	{"DeviceDescription", func(r *protocol.RawResponse) bool { return r.DeviceDescription != nil }},
	{"DeviceSN", func(r *protocol.RawResponse) bool { return r.DeviceSN != nil }},
	{"CommandPort", func(r *protocol.RawResponse) bool { return r.CommandPort != nil }},
	{"HttpPort", func(r *protocol.RawResponse) bool { return r.HTTPPort != nil }},
	{"MAC", func(r *protocol.RawResponse) bool { return r.MAC != nil }},
	{"IPv4Address", func(r *protocol.RawResponse) bool { return r.IPv4Address != nil }},
	{"IPv4SubnetMask", func(r *protocol.RawResponse) bool { return r.IPv4SubnetMask != nil }},
	{"IPv4Gateway", func(r *protocol.RawResponse) bool { return r.IPv4Gateway != nil }},
	{"IPv6Address", func(r *protocol.RawResponse) bool { return r.IPv6Address != nil }},
	{"IPv6Gateway", func(r *protocol.RawResponse) bool { return r.IPv6Gateway != nil }},
	{"IPv6MaskLen", func(r *protocol.RawResponse) bool { return r.IPv6MaskLen != nil }},
	{"DHCP", func(r *protocol.RawResponse) bool { return r.DHCP != nil }},
	{"AnalogChannelNum", func(r *protocol.RawResponse) bool { return r.AnalogChannelNum != nil }},
	{"DigitalChannelNum", func(r *protocol.RawResponse) bool { return r.DigitalChannelNum != nil }},
	{"SoftwareVersion", func(r *protocol.RawResponse) bool { return r.SoftwareVersion != nil }},
	{"DSPVersion", func(r *protocol.RawResponse) bool { return r.DSPVersion != nil }},
	{"BootTime", func(r *protocol.RawResponse) bool { return r.BootTime != nil }},
	{"ResetAbility", func(r *protocol.RawResponse) bool { return r.ResetAbility != nil }},
	{"DiskNumber", func(r *protocol.RawResponse) bool { return r.DiskNumber != nil }},
	{"Activated", func(r *protocol.RawResponse) bool { return r.Activated != nil }},
	{"PasswordResetAbility", func(r *protocol.RawResponse) bool { return r.PasswordResetAbility != nil }},
	{"PasswordResetModeSecond", func(r *protocol.RawResponse) bool { return r.PasswordResetModeSecond != nil }},
	{"SupportHCPlatform", func(r *protocol.RawResponse) bool { return r.SupportHCPlatform != nil }},
	{"HCPlatformEnable", func(r *protocol.RawResponse) bool { return r.HCPlatformEnable != nil }},
}

// RequiredFields returns the wire names a reply must carry to reduce to a
// Record, in the order they are checked.
func RequiredFields() []string {
	names := make([]string, len(recordRequirements))
	for i, req := range recordRequirements {
		names[i] = req.field
	}
	return names
}

// Reduce turns a decoded reply into a Record.
//
// A reply flagged failed is rejected before any attribute is read. Otherwise
// every required attribute must be present; missing ones are reported
// together and never defaulted.
func Reduce(raw *protocol.RawResponse) (Record, error) {
	if raw == nil {
		return Record{}, &ReductionError{Kind: ReductionIncomplete, Missing: RequiredFields()}
	}

	if raw.Failed() {
		return Record{}, &ReductionError{Kind: ReductionRejected, Types: raw.Types}
	}

	var missing []string
	for _, req := range recordRequirements {
		if !req.present(raw) {
			missing = append(missing, req.field)
		}
	}
	if len(missing) > 0 {
		return Record{}, &ReductionError{Kind: ReductionIncomplete, Types: raw.Types, Missing: missing}
	}

	rec := Record{
		DeviceType:  *raw.DeviceType,
		Description: *raw.DeviceDescription,
		Serial:      *raw.DeviceSN,
		MAC:         *raw.MAC,

		IPv4Address:      *raw.IPv4Address,
		IPv4SubnetMask:   *raw.IPv4SubnetMask,
		IPv4Gateway:      *raw.IPv4Gateway,
		IPv6Address:      *raw.IPv6Address,
		IPv6Gateway:      *raw.IPv6Gateway,
		IPv6PrefixLength: *raw.IPv6MaskLen,
		DHCP:             *raw.DHCP,
		CommandPort:      *raw.CommandPort,
		HTTPPort:         *raw.HTTPPort,

		SoftwareVersion: *raw.SoftwareVersion,
		DSPVersion:      *raw.DSPVersion,
		BootTime:        *raw.BootTime,
		AnalogChannels:  *raw.AnalogChannelNum,
		DigitalChannels: *raw.DigitalChannelNum,
		Disks:           *raw.DiskNumber,

		ResetAbility:            *raw.ResetAbility,
		Activated:               *raw.Activated,
		PasswordResetAbility:    *raw.PasswordResetAbility,
		PasswordResetModeSecond: *raw.PasswordResetModeSecond,
		SupportsHCPlatform:      *raw.SupportHCPlatform,
		HCPlatformEnabled:       raw.HCPlatformEnable.Bool(),
	}
	if raw.IsModifyVerificationCode != nil {
		rec.ModifyVerificationCode = *raw.IsModifyVerificationCode
	}

	return rec, nil
}
