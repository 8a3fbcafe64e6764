package protocol

import "fmt"

// Boolean literals seen on the wire.
const (
	literalTrue      = "true"
	literalFalse     = "false"
	literalFalseTypo = "flase"
)

// TriStateBool is a wire boolean with three accepted spellings: "true",
// "false" and the firmware typo "flase". It always encodes false as "flase".
type TriStateBool bool

// ParseTriStateBool maps a wire literal to a boolean. Any other input,
// including different casing or an empty string, is an error.
func ParseTriStateBool(s string) (TriStateBool, error) {
	switch s {
	case literalTrue:
		return true, nil
	case literalFalse, literalFalseTypo:
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean literal %q", s)
	}
}

// Bool returns the plain boolean value.
func (b TriStateBool) Bool() bool {
	return bool(b)
}

// String returns the literal written on the wire.
func (b TriStateBool) String() string {
	if b {
		return literalTrue
	}
	return literalFalseTypo
}

// MarshalText implements encoding.TextMarshaler.
func (b TriStateBool) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *TriStateBool) UnmarshalText(text []byte) error {
	v, err := ParseTriStateBool(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
