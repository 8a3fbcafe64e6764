package discovery

import (
	"errors"
	"net"
	"time"
)

// ErrNoData is returned by Transport.Receive when nothing arrived before the
// timeout. It is the only way a discovery loop ends normally.
var ErrNoData = errors.New("no data before timeout")

// Packet is one inbound datagram.
type Packet struct {
	Data       []byte
	From       net.Addr
	ReceivedAt time.Time
}

// Transport sends SADP payloads and receives replies.
//
// Receive must return ErrNoData (possibly wrapped) on timeout and any other
// error for real I/O failures.
type Transport interface {
	Send(payload []byte) error
	Receive(timeout time.Duration) (Packet, error)
}
