package discovery

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/protocol"
)

// DefaultTimeout is how long a session waits for each reply.
const DefaultTimeout = 5 * time.Second

// NewCorrelationID returns a fresh random Uuid for a request.
func NewCorrelationID() string {
	return uuid.New().String()
}

// Session runs discovery and update exchanges over one Transport. A session
// keeps a single request in flight and never starts goroutines.
type Session struct {
	Transport Transport

	// Timeout bounds each Receive call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MatchCorrelation drops replies whose Uuid differs from the request's.
	// Off by default: some firmware does not echo the Uuid.
	MatchCorrelation bool
}

// NewSession creates a session with the given per-receive timeout.
func NewSession(t Transport, timeout time.Duration) *Session {
	return &Session{Transport: t, Timeout: timeout}
}

func (s *Session) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

// Result is the outcome for one reply: either Device or Err is set.
type Result struct {
	Device        device.Record
	Err           error
	From          net.Addr
	CorrelationID string
}

// OK reports whether the reply reduced to a device record.
func (r Result) OK() bool {
	return r.Err == nil
}

// Results holds discovery outcomes in arrival order.
type Results []Result

// Devices returns the successfully reduced records, in arrival order.
func (rs Results) Devices() []device.Record {
	var out []device.Record
	for _, r := range rs {
		if r.OK() {
			out = append(out, r.Device)
		}
	}
	return out
}

// Errors returns the per-reply failures, in arrival order.
func (rs Results) Errors() []Result {
	var out []Result
	for _, r := range rs {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first device with the given serial number.
func (rs Results) Find(serial string) (device.Record, bool) {
	for _, r := range rs {
		if r.OK() && r.Device.Serial == serial {
			return r.Device, true
		}
	}
	return device.Record{}, false
}

// Discover broadcasts an inquiry and collects replies until the transport
// reports no more data. An empty correlationID gets a fresh one.
//
// A bad reply is recorded in its Result and the loop moves on. A transport
// failure ends the loop; the results gathered so far are returned with the
// error.
func (s *Session) Discover(correlationID string) (Results, error) {
	if s.Transport == nil {
		return nil, errors.New("session has no transport")
	}
	if correlationID == "" {
		correlationID = NewCorrelationID()
	}

	payload, err := protocol.Encode(protocol.Inquiry{UUID: correlationID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode inquiry: %w", err)
	}

	logging.Info("Starting discovery",
		zap.String("uuid", correlationID),
		zap.Duration("timeout", s.timeout()),
	)

	if err := s.Transport.Send(payload); err != nil {
		return nil, fmt.Errorf("failed to send inquiry: %w", err)
	}

	var results Results
	for {
		pkt, err := s.Transport.Receive(s.timeout())
		if errors.Is(err, ErrNoData) {
			break
		}
		if err != nil {
			return results, fmt.Errorf("failed to receive reply: %w", err)
		}

		result, keep := s.handle(pkt, correlationID)
		if !keep {
			continue
		}
		if result.Err != nil {
			logging.Warn("Discarded reply",
				zap.String("from", addrString(pkt.From)),
				zap.Error(result.Err),
			)
		}
		results = append(results, result)
	}

	logging.Info("Discovery finished",
		zap.Int("devices", len(results.Devices())),
		zap.Int("errors", len(results.Errors())),
	)

	return results, nil
}

// handle decodes and reduces one packet. keep is false for packets the
// session ignores: echoes of requests and, when MatchCorrelation is set,
// replies to someone else's request.
func (s *Session) handle(pkt Packet, correlationID string) (result Result, keep bool) {
	result = Result{From: pkt.From}

	if isRequestEcho(pkt.Data) {
		logging.Debug("Ignoring request echo", zap.String("from", addrString(pkt.From)))
		return result, false
	}

	raw, err := protocol.Decode(pkt.Data)
	if err != nil {
		result.Err = err
		return result, true
	}
	result.CorrelationID = raw.UUID

	if s.MatchCorrelation && raw.UUID != correlationID {
		logging.Debug("Dropping uncorrelated reply",
			zap.String("from", addrString(pkt.From)),
			zap.String("uuid", raw.UUID),
			zap.String("want", correlationID),
		)
		return result, false
	}

	result.Device, result.Err = device.Reduce(raw)
	return result, true
}

// isRequestEcho reports whether data is a request rather than a reply.
// Broadcast sockets receive their own probes.
func isRequestEcho(data []byte) bool {
	root, err := protocol.Root(data)
	return err == nil && root == protocol.RootProbe
}

// Discover runs a one-off discovery over t.
func Discover(t Transport, correlationID string, timeout time.Duration) (Results, error) {
	return NewSession(t, timeout).Discover(correlationID)
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
