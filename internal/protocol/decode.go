package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Outcome is the optional Result flag devices attach to replies.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeFailed
)

// String returns the wire spelling of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func parseOutcome(s string) (Outcome, error) {
	switch {
	case strings.EqualFold(s, "success"):
		return OutcomeSuccess, nil
	case strings.EqualFold(s, "failed"):
		return OutcomeFailed, nil
	default:
		return 0, fmt.Errorf("invalid outcome %q", s)
	}
}

// RawResponse is a decoded SADP message before any presence rules apply.
// Every attribute is optional: nil means the element was absent.
type RawResponse struct {
	UUID   string
	Types  string
	Result *Outcome

	// Device identity
	DeviceType        *string
	DeviceDescription *string
	DeviceSN          *string
	MAC               *string

	// Network configuration
	CommandPort    *int
	HTTPPort       *int
	IPv4Address    *string
	IPv4SubnetMask *string
	IPv4Gateway    *string
	IPv6Address    *string
	IPv6Gateway    *string
	IPv6MaskLen    *int
	DHCP           *bool

	// Firmware and hardware
	AnalogChannelNum  *int
	DigitalChannelNum *int
	SoftwareVersion   *string
	DSPVersion        *string
	BootTime          *string
	DiskNumber        *int

	// Capabilities and state
	ResetAbility             *bool
	Activated                *bool
	PasswordResetAbility     *bool
	PasswordResetModeSecond  *bool
	SupportHCPlatform        *bool
	HCPlatformEnable         *TriStateBool
	IsModifyVerificationCode *string

	// Request-side fields, present when a probe is decoded
	Password         *string
	PWErrorParse     *string
	SDKOverTLSPort   *int
	Code             *string
	VerificationCode *string

	// Extra holds child elements outside the known schema.
	Extra map[string]string
}

// Failed reports whether the device flagged the operation as failed.
func (r *RawResponse) Failed() bool {
	return r.Result != nil && *r.Result == OutcomeFailed
}

// wireMessage mirrors the flat XML layout. Every element is captured as raw
// text so each field can be parsed with its own rules.
type wireMessage struct {
	UUID   *string `xml:"Uuid"`
	Types  *string `xml:"Types"`
	Result *string `xml:"Result"`

	DeviceType        *string `xml:"DeviceType"`
	DeviceDescription *string `xml:"DeviceDescription"`
	DeviceSN          *string `xml:"DeviceSN"`
	MAC               *string `xml:"MAC"`

	CommandPort    *string `xml:"CommandPort"`
	HTTPPort       *string `xml:"HttpPort"`
	IPv4Address    *string `xml:"IPv4Address"`
	IPv4SubnetMask *string `xml:"IPv4SubnetMask"`
	IPv4Gateway    *string `xml:"IPv4Gateway"`
	IPv6Address    *string `xml:"IPv6Address"`
	IPv6Gateway    *string `xml:"IPv6Gateway"`
	IPv6MaskLen    *string `xml:"IPv6MaskLen"`
	DHCP           *string `xml:"DHCP"`

	AnalogChannelNum  *string `xml:"AnalogChannelNum"`
	DigitalChannelNum *string `xml:"DigitalChannelNum"`
	SoftwareVersion   *string `xml:"SoftwareVersion"`
	DSPVersion        *string `xml:"DSPVersion"`
	BootTime          *string `xml:"BootTime"`
	DiskNumber        *string `xml:"DiskNumber"`

	ResetAbility             *string `xml:"ResetAbility"`
	Activated                *string `xml:"Activated"`
	PasswordResetAbility     *string `xml:"PasswordResetAbility"`
	PasswordResetModeSecond  *string `xml:"PasswordResetModeSecond"`
	SupportHCPlatform        *string `xml:"SupportHCPlatform"`
	HCPlatformEnable         *string `xml:"HCPlatformEnable"`
	IsModifyVerificationCode *string `xml:"IsModifyVerificationCode"`

	Password         *string `xml:"Password"`
	PWErrorParse     *string `xml:"PWErrorParse"`
	SDKOverTLSPort   *string `xml:"SDKOverTLSPort"`
	Code             *string `xml:"Code"`
	VerificationCode *string `xml:"VerificationCode"`

	Extra []wireElement `xml:",any"`
}

type wireElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// checkTrailing consumes the rest of the document after the root element.
// Whitespace, comments and processing instructions may follow it; anything
// else is an error.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after root element: %q", truncate(string(t), 32))
			}
		case xml.Comment, xml.ProcInst:
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", t.Name.Local)
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Decode parses a SADP document into a RawResponse.
//
// The root element name is not checked, so both ProbeMatch replies and Probe
// requests decode. Missing elements are left nil; only malformed input,
// unparseable values and unknown discriminants are errors.
func Decode(data []byte) (*RawResponse, error) {
	var msg wireMessage

	dec := xml.NewDecoder(bytes.NewReader(data))
	// Firmware sometimes declares a legacy charset; SADP fields are ASCII.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := dec.Decode(&msg); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, Err: err}
	}
	if err := checkTrailing(dec); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, Err: err}
	}

	if msg.Types == nil {
		return nil, &DecodeError{Kind: DecodeUnknownVariant, Field: "Types"}
	}
	if !IsKnownType(*msg.Types) {
		return nil, &DecodeError{Kind: DecodeUnknownVariant, Field: "Types", Value: *msg.Types}
	}

	p := &fieldParser{}
	raw := &RawResponse{
		Types: *msg.Types,

		DeviceType:        msg.DeviceType,
		DeviceDescription: msg.DeviceDescription,
		DeviceSN:          msg.DeviceSN,
		MAC:               msg.MAC,

		CommandPort:    p.integer("CommandPort", msg.CommandPort),
		HTTPPort:       p.integer("HttpPort", msg.HTTPPort),
		IPv4Address:    msg.IPv4Address,
		IPv4SubnetMask: msg.IPv4SubnetMask,
		IPv4Gateway:    msg.IPv4Gateway,
		IPv6Address:    msg.IPv6Address,
		IPv6Gateway:    msg.IPv6Gateway,
		IPv6MaskLen:    p.integer("IPv6MaskLen", msg.IPv6MaskLen),
		DHCP:           p.boolean("DHCP", msg.DHCP),

		AnalogChannelNum:  p.integer("AnalogChannelNum", msg.AnalogChannelNum),
		DigitalChannelNum: p.integer("DigitalChannelNum", msg.DigitalChannelNum),
		SoftwareVersion:   msg.SoftwareVersion,
		DSPVersion:        msg.DSPVersion,
		BootTime:          msg.BootTime,
		DiskNumber:        p.integer("DiskNumber", msg.DiskNumber),

		ResetAbility:             p.boolean("ResetAbility", msg.ResetAbility),
		Activated:                p.boolean("Activated", msg.Activated),
		PasswordResetAbility:     p.boolean("PasswordResetAbility", msg.PasswordResetAbility),
		PasswordResetModeSecond:  p.boolean("PasswordResetModeSecond", msg.PasswordResetModeSecond),
		SupportHCPlatform:        p.boolean("SupportHCPlatform", msg.SupportHCPlatform),
		HCPlatformEnable:         p.triState("HCPlatformEnable", msg.HCPlatformEnable),
		IsModifyVerificationCode: msg.IsModifyVerificationCode,

		Password:         msg.Password,
		PWErrorParse:     msg.PWErrorParse,
		SDKOverTLSPort:   p.integer("SDKOverTLSPort", msg.SDKOverTLSPort),
		Code:             msg.Code,
		VerificationCode: msg.VerificationCode,
	}
	if msg.UUID != nil {
		raw.UUID = *msg.UUID
	}
	if msg.Result != nil {
		outcome, err := parseOutcome(*msg.Result)
		if err != nil {
			p.fail("Result", *msg.Result, err)
		} else {
			raw.Result = &outcome
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	if len(msg.Extra) > 0 {
		raw.Extra = make(map[string]string, len(msg.Extra))
		for _, el := range msg.Extra {
			raw.Extra[el.XMLName.Local] = el.Value
		}
	}

	return raw, nil
}

// fieldParser converts raw element text, keeping the first failure.
type fieldParser struct {
	err *DecodeError
}

func (p *fieldParser) fail(name, value string, err error) {
	if p.err == nil {
		p.err = &DecodeError{Kind: DecodeMalformed, Field: name, Value: value, Err: err}
	}
}

func (p *fieldParser) integer(name string, s *string) *int {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseUint(*s, 10, 32)
	if err != nil {
		p.fail(name, *s, err)
		return nil
	}
	v := int(n)
	return &v
}

func (p *fieldParser) boolean(name string, s *string) *bool {
	v := p.triState(name, s)
	if v == nil {
		return nil
	}
	b := v.Bool()
	return &b
}

func (p *fieldParser) triState(name string, s *string) *TriStateBool {
	if s == nil {
		return nil
	}
	v, err := ParseTriStateBool(*s)
	if err != nil {
		p.fail(name, *s, err)
		return nil
	}
	return &v
}

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind int

const (
	// DecodeMalformed covers invalid XML and unparseable field values.
	DecodeMalformed DecodeErrorKind = iota
	// DecodeUnknownVariant means the Types discriminant is missing or unknown.
	DecodeUnknownVariant
)

// String returns a human-readable name for the kind
func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeMalformed:
		return "Malformed"
	case DecodeUnknownVariant:
		return "UnknownVariant"
	default:
		return fmt.Sprintf("DecodeErrorKind(%d)", int(k))
	}
}

var (
	// ErrMalformed matches any DecodeError of kind DecodeMalformed.
	ErrMalformed = errors.New("malformed SADP message")
	// ErrUnknownVariant matches any DecodeError of kind DecodeUnknownVariant.
	ErrUnknownVariant = errors.New("unknown SADP message type")
)

// DecodeError describes why a datagram could not be decoded.
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string // offending element, if any
	Value string // offending raw text, if any
	Err   error  // underlying parse error, if any
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case DecodeUnknownVariant:
		b.WriteString(ErrUnknownVariant.Error())
		if e.Value != "" {
			fmt.Fprintf(&b, " %q", e.Value)
		}
	default:
		b.WriteString(ErrMalformed.Error())
		if e.Field != "" {
			fmt.Fprintf(&b, ": field %s", e.Field)
		}
		if e.Value != "" {
			fmt.Fprintf(&b, " value %q", e.Value)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == DecodeMalformed
	case ErrUnknownVariant:
		return e.Kind == DecodeUnknownVariant
	}
	return false
}
