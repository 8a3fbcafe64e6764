// Package digest derives the password values carried in SADP configuration
// requests.
//
// The only confirmed scheme is base64(md5(password)), used by the update
// operation. Activation, password reset and the QR/exchange-code flows use
// a different derivation that has not been worked out; they are mapped to a
// scheme that refuses to produce a value.
package digest

import (
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/muurk/sadp/internal/protocol"
)

// Digest is the wire form of a password. It is write-only: there is no way
// back to the plaintext, and String redacts it so it stays out of logs.
type Digest string

// String implements fmt.Stringer with a redacted value.
func (d Digest) String() string {
	if d == "" {
		return ""
	}
	return "********"
}

// Wire returns the value to place in the Password element.
func (d Digest) Wire() string {
	return string(d)
}

// Password returns base64(md5(plaintext)) with standard padding.
func Password(plaintext string) Digest {
	sum := md5.Sum([]byte(plaintext))
	return Digest(base64.StdEncoding.EncodeToString(sum[:]))
}

// ErrUnconfirmedScheme is returned by schemes whose derivation is unknown.
var ErrUnconfirmedScheme = errors.New("password scheme not confirmed for this operation")

// Scheme derives a Digest for one family of operations.
type Scheme interface {
	Name() string
	Digest(plaintext string) (Digest, error)
}

// MD5Base64 is the scheme confirmed for the update operation.
type MD5Base64 struct{}

func (MD5Base64) Name() string { return "md5-base64" }

func (MD5Base64) Digest(plaintext string) (Digest, error) {
	return Password(plaintext), nil
}

type unconfirmed struct {
	name string
}

// Unconfirmed returns a scheme that always fails with ErrUnconfirmedScheme.
func Unconfirmed(name string) Scheme {
	return unconfirmed{name: name}
}

func (u unconfirmed) Name() string { return u.name }

func (u unconfirmed) Digest(string) (Digest, error) {
	return "", fmt.Errorf("%s: %w", u.name, ErrUnconfirmedScheme)
}

// ForTypes returns the scheme used by the operation with the given
// discriminant. Operations without a password field get an unconfirmed
// scheme as well, so callers cannot silently send an empty value.
func ForTypes(types string) Scheme {
	switch types {
	case protocol.TypesUpdate:
		return MD5Base64{}
	case protocol.TypesActivate:
		return Unconfirmed("activate")
	case protocol.TypesResetPassword, protocol.TypesExchangeCode, protocol.TypesGetQRCodes:
		return Unconfirmed("reset")
	case protocol.TypesSetHCPlatform, protocol.TypesModifyVerificationCode:
		return Unconfirmed("hik-connect")
	default:
		return Unconfirmed(fmt.Sprintf("%q", types))
	}
}
