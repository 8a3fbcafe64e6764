package discovery

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/digest"
	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/protocol"
)

// UpdateErrorKind represents the category of update failure
type UpdateErrorKind int

const (
	// UpdateNoResponse means no reply arrived before the timeout.
	UpdateNoResponse UpdateErrorKind = iota
	// UpdateRejected means the device answered failed, usually a wrong password.
	UpdateRejected
	// UpdateInvalidResponse means the reply could not be decoded or was incomplete.
	UpdateInvalidResponse
	// UpdateWrongDevice means a different device answered.
	UpdateWrongDevice
)

// String returns a human-readable name for the update error kind
func (k UpdateErrorKind) String() string {
	switch k {
	case UpdateNoResponse:
		return "No Response"
	case UpdateRejected:
		return "Rejected"
	case UpdateInvalidResponse:
		return "Invalid Response"
	case UpdateWrongDevice:
		return "Wrong Device Responded"
	default:
		return fmt.Sprintf("UpdateErrorKind(%d)", int(k))
	}
}

var (
	// ErrNoResponse matches update errors where nothing answered.
	ErrNoResponse = errors.New("device did not respond")
	// ErrRejected matches update errors where the device refused the change.
	ErrRejected = errors.New("device rejected the update")
	// ErrWrongDevice matches update errors where another device answered.
	ErrWrongDevice = errors.New("wrong device responded")
)

// UpdateError is the terminal failure of an update session.
type UpdateError struct {
	Kind         UpdateErrorKind
	TargetSerial string

	// Device is the record that answered, set for UpdateWrongDevice.
	Device *device.Record

	Err error // underlying decode or reduction error
}

// Error implements the error interface
func (e *UpdateError) Error() string {
	switch e.Kind {
	case UpdateNoResponse:
		return fmt.Sprintf("%s: %s did not confirm the update", e.Kind, e.TargetSerial)
	case UpdateRejected:
		return fmt.Sprintf("%s: %s refused the update, is the password correct?", e.Kind, e.TargetSerial)
	case UpdateWrongDevice:
		if e.Device != nil {
			return fmt.Sprintf("%s: expected %s, got %s", e.Kind, e.TargetSerial, e.Device.Serial)
		}
		return fmt.Sprintf("%s: expected %s", e.Kind, e.TargetSerial)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

// Unwrap returns the underlying error
func (e *UpdateError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels.
func (e *UpdateError) Is(target error) bool {
	switch target {
	case ErrNoResponse:
		return e.Kind == UpdateNoResponse
	case ErrRejected:
		return e.Kind == UpdateRejected
	case ErrWrongDevice:
		return e.Kind == UpdateWrongDevice
	}
	return false
}

// UpdateRequest describes one configuration change.
type UpdateRequest struct {
	TargetSerial string
	Current      device.Record
	Overrides    device.Overrides

	// Password is the device's current admin password in plaintext. Only its
	// digest leaves this package.
	Password string

	// CorrelationID is generated when empty.
	CorrelationID string
}

// Update sends one update request and interprets the single confirmation.
//
// Invalid overrides are reported as *device.ValidationError before anything
// is sent. Transport failures are returned wrapped; every other problem with
// the reply is an *UpdateError.
func (s *Session) Update(req UpdateRequest) (device.Record, error) {
	if s.Transport == nil {
		return device.Record{}, errors.New("session has no transport")
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = NewCorrelationID()
	}

	update, err := device.NewUpdateBuilder(req.Current).
		SetOverrides(req.Overrides).
		SetPassword(digest.Password(req.Password)).
		SetCorrelationID(correlationID).
		Build()
	if err != nil {
		return device.Record{}, err
	}

	payload, err := protocol.Encode(update)
	if err != nil {
		return device.Record{}, fmt.Errorf("failed to encode update: %w", err)
	}

	logging.Info("Sending update",
		zap.String("serial", req.TargetSerial),
		zap.String("mac", update.MAC),
		zap.String("uuid", correlationID),
		zap.Bool("dhcp", update.DHCP),
	)

	if err := s.Transport.Send(payload); err != nil {
		return device.Record{}, fmt.Errorf("failed to send update: %w", err)
	}

	raw, err := s.awaitReply(correlationID)
	if errors.Is(err, ErrNoData) {
		return device.Record{}, &UpdateError{Kind: UpdateNoResponse, TargetSerial: req.TargetSerial}
	}
	if err != nil {
		var decErr *protocol.DecodeError
		if errors.As(err, &decErr) {
			return device.Record{}, &UpdateError{Kind: UpdateInvalidResponse, TargetSerial: req.TargetSerial, Err: err}
		}
		return device.Record{}, fmt.Errorf("failed to receive confirmation: %w", err)
	}

	rec, err := device.Reduce(raw)
	switch {
	case device.IsRejected(err):
		return device.Record{}, &UpdateError{Kind: UpdateRejected, TargetSerial: req.TargetSerial, Err: err}
	case err != nil:
		return device.Record{}, &UpdateError{Kind: UpdateInvalidResponse, TargetSerial: req.TargetSerial, Err: err}
	}

	if rec.Serial != req.TargetSerial {
		return device.Record{}, &UpdateError{Kind: UpdateWrongDevice, TargetSerial: req.TargetSerial, Device: &rec}
	}

	logging.Info("Update confirmed", zap.String("serial", rec.Serial), zap.String("ipv4", rec.IPv4Address))
	return rec, nil
}

// awaitReply receives the one reply to an update. Echoes of our own
// broadcast, and uncorrelated replies when MatchCorrelation is set, do not
// count; the wait for the real reply still ends at the original deadline.
func (s *Session) awaitReply(correlationID string) (*protocol.RawResponse, error) {
	deadline := time.Now().Add(s.timeout())
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrNoData
		}

		pkt, err := s.Transport.Receive(remaining)
		if err != nil {
			return nil, err
		}

		if isRequestEcho(pkt.Data) {
			logging.Debug("Ignoring request echo", zap.String("from", addrString(pkt.From)))
			continue
		}

		raw, err := protocol.Decode(pkt.Data)
		if err != nil {
			return nil, err
		}
		if s.MatchCorrelation && raw.UUID != correlationID {
			logging.Debug("Dropping uncorrelated reply",
				zap.String("from", addrString(pkt.From)),
				zap.String("uuid", raw.UUID),
			)
			continue
		}
		return raw, nil
	}
}

// Update runs a one-off update session over t.
func Update(t Transport, targetSerial string, current device.Record, overrides device.Overrides, password string, timeout time.Duration) (device.Record, error) {
	return NewSession(t, timeout).Update(UpdateRequest{
		TargetSerial: targetSerial,
		Current:      current,
		Overrides:    overrides,
		Password:     password,
	})
}
