package protocol

import "strconv"

// Discriminant literals carried in the Types element. These are copied
// verbatim from device captures and must not be normalised.
const (
	TypesInquiry                = "inquiry"
	TypesUpdate                 = "update"
	TypesActivate               = "activate"
	TypesGetEncryptString       = "getencryptstring"
	TypesResetPassword          = "reset"
	TypesGetCode                = "getcode"
	TypesExchangeCode           = "exchangecode"
	TypesGetQRCodes             = "getQRcodes"
	TypesSetHCPlatform          = "setHCPlatform"
	TypesModifyVerificationCode = "modifyVerificationCode"
	TypesGetBindList            = "getbindlist " // trailing space is part of the tag
	TypesDiagnose               = "diagnose"
)

var knownTypes = []string{
	TypesInquiry,
	TypesUpdate,
	TypesActivate,
	TypesGetEncryptString,
	TypesResetPassword,
	TypesGetCode,
	TypesExchangeCode,
	TypesGetQRCodes,
	TypesSetHCPlatform,
	TypesModifyVerificationCode,
	TypesGetBindList,
	TypesDiagnose,
}

// KnownTypes returns every discriminant literal the codec recognises.
func KnownTypes() []string {
	out := make([]string, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// IsKnownType reports whether s is exactly one of the known discriminants.
func IsKnownType(s string) bool {
	for _, t := range knownTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Request is an outbound SADP probe. The set of implementations is closed.
type Request interface {
	// Types returns the wire discriminant for this variant.
	Types() string
	// CorrelationID returns the Uuid placed in the probe.
	CorrelationID() string

	fields() []field
}

// field is one child element in wire order.
type field struct {
	name  string
	value string
}

// Inquiry asks every device on the segment to describe itself.
type Inquiry struct {
	UUID string
}

func (r Inquiry) Types() string { return TypesInquiry }
func (r Inquiry) CorrelationID() string { return r.UUID }
func (r Inquiry) fields() []field { return nil }

// Update pushes new network settings to the device identified by MAC.
//
// CommandPort and HTTPPort are strings because the update schema carries them
// as decimal text; the same ports arrive as integers in responses.
type Update struct {
	UUID           string
	PWErrorParse   string
	MAC            string
	Password       string // digest wire value, never plaintext
	IPv4Address    string
	CommandPort    string
	HTTPPort       string
	IPv4SubnetMask string
	IPv4Gateway    string
	IPv6Address    string
	IPv6Gateway    string
	IPv6MaskLen    uint32
	DHCP           bool
	SDKOverTLSPort uint32
}

func (r Update) Types() string { return TypesUpdate }
func (r Update) CorrelationID() string { return r.UUID }

func (r Update) fields() []field {
	return []field{
		{"PWErrorParse", r.PWErrorParse},
		{"MAC", r.MAC},
		{"Password", r.Password},
		{"IPv4Address", r.IPv4Address},
		{"CommandPort", r.CommandPort},
		{"HttpPort", r.HTTPPort},
		{"IPv4SubnetMask", r.IPv4SubnetMask},
		{"IPv4Gateway", r.IPv4Gateway},
		{"IPv6Address", r.IPv6Address},
		{"IPv6Gateway", r.IPv6Gateway},
		{"IPv6MaskLen", strconv.FormatUint(uint64(r.IPv6MaskLen), 10)},
		{"DHCP", strconv.FormatBool(r.DHCP)},
		{"SDKOverTLSPort", strconv.FormatUint(uint64(r.SDKOverTLSPort), 10)},
	}
}

// The variants below are seen on the wire but their semantics are not
// resolved. They carry only confirmed fields.

// Activate sets the initial admin password on an inactive device.
type Activate struct {
	UUID     string
	MAC      string
	Password string
}

func (r Activate) Types() string { return TypesActivate }
func (r Activate) CorrelationID() string { return r.UUID }
func (r Activate) fields() []field {
	return []field{{"MAC", r.MAC}, {"Password", r.Password}}
}

// GetEncryptString requests the device challenge used by password resets.
type GetEncryptString struct {
	UUID string
	MAC  string
}

func (r GetEncryptString) Types() string { return TypesGetEncryptString }
func (r GetEncryptString) CorrelationID() string { return r.UUID }
func (r GetEncryptString) fields() []field { return []field{{"MAC", r.MAC}} }

// ResetPassword resets the admin password using a vendor-issued code.
type ResetPassword struct {
	UUID     string
	MAC      string
	Code     string
	Password string
}

func (r ResetPassword) Types() string { return TypesResetPassword }
func (r ResetPassword) CorrelationID() string { return r.UUID }
func (r ResetPassword) fields() []field {
	return []field{{"MAC", r.MAC}, {"Code", r.Code}, {"Password", r.Password}}
}

// GetCode requests a reset code from the device.
type GetCode struct {
	UUID string
	MAC  string
}

func (r GetCode) Types() string { return TypesGetCode }
func (r GetCode) CorrelationID() string { return r.UUID }
func (r GetCode) fields() []field { return []field{{"MAC", r.MAC}} }

// ExchangeCode submits a code obtained out of band.
type ExchangeCode struct {
	UUID string
	MAC  string
	Code string
}

func (r ExchangeCode) Types() string { return TypesExchangeCode }
func (r ExchangeCode) CorrelationID() string { return r.UUID }
func (r ExchangeCode) fields() []field {
	return []field{{"MAC", r.MAC}, {"Code", r.Code}}
}

// GetQRCodes requests the QR payloads used by the mobile reset flow.
type GetQRCodes struct {
	UUID string
	MAC  string
}

func (r GetQRCodes) Types() string { return TypesGetQRCodes }
func (r GetQRCodes) CorrelationID() string { return r.UUID }
func (r GetQRCodes) fields() []field { return []field{{"MAC", r.MAC}} }

// SetHCPlatform toggles Hik-Connect cloud binding.
type SetHCPlatform struct {
	UUID             string
	MAC              string
	Password         string
	HCPlatformEnable TriStateBool
}

func (r SetHCPlatform) Types() string { return TypesSetHCPlatform }
func (r SetHCPlatform) CorrelationID() string { return r.UUID }
func (r SetHCPlatform) fields() []field {
	return []field{
		{"MAC", r.MAC},
		{"Password", r.Password},
		{"HCPlatformEnable", r.HCPlatformEnable.String()},
	}
}

// ModifyVerificationCode changes the cloud verification code.
type ModifyVerificationCode struct {
	UUID             string
	MAC              string
	Password         string
	VerificationCode string
}

func (r ModifyVerificationCode) Types() string { return TypesModifyVerificationCode }
func (r ModifyVerificationCode) CorrelationID() string { return r.UUID }
func (r ModifyVerificationCode) fields() []field {
	return []field{
		{"MAC", r.MAC},
		{"Password", r.Password},
		{"VerificationCode", r.VerificationCode},
	}
}

// GetBindList asks which cloud accounts the device is bound to.
type GetBindList struct {
	UUID string
	MAC  string
}

func (r GetBindList) Types() string { return TypesGetBindList }
func (r GetBindList) CorrelationID() string { return r.UUID }
func (r GetBindList) fields() []field { return []field{{"MAC", r.MAC}} }

// Diagnose requests device diagnostic information.
type Diagnose struct {
	UUID string
	MAC  string
}

func (r Diagnose) Types() string { return TypesDiagnose }
func (r Diagnose) CorrelationID() string { return r.UUID }
func (r Diagnose) fields() []field { return []field{{"MAC", r.MAC}} }
