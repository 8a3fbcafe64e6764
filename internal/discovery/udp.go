package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/protocol"
)

const (
	// DefaultBindAddress lets the OS pick an ephemeral port on all interfaces.
	DefaultBindAddress = "0.0.0.0:0"

	// DefaultMulticastGroup is the group some recorders also answer on.
	DefaultMulticastGroup = "239.255.255.250"

	// maxDatagram is larger than any SADP reply seen in practice.
	maxDatagram = 8192
)

// DefaultTarget is the limited broadcast address on the SADP port.
var DefaultTarget = net.JoinHostPort("255.255.255.255", strconv.Itoa(protocol.Port))

// TransportConfig configures a UDPTransport. Empty fields take defaults.
type TransportConfig struct {
	// BindAddress is the local address, e.g. "0.0.0.0:0" or "192.168.1.10:0".
	BindAddress string

	// Target is where requests are sent, normally the broadcast address.
	Target string

	// MulticastGroup, when set, is joined on Interface so replies sent to
	// the group are received too.
	MulticastGroup string

	// Interface names the network interface for multicast ("" = system default).
	Interface string
}

// UDPTransport is the socket-backed Transport. It is not safe for
// concurrent use; a process opens one and shares it between its discovery
// and update sessions.
type UDPTransport struct {
	conn   *net.UDPConn
	pconn  *ipv4.PacketConn
	target *net.UDPAddr
	buf    []byte
}

// NewUDPTransport opens the socket described by cfg.
func NewUDPTransport(cfg TransportConfig) (*UDPTransport, error) {
	if cfg.BindAddress == "" {
		cfg.BindAddress = DefaultBindAddress
	}
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}

	target, err := net.ResolveUDPAddr("udp4", cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", cfg.Target, err)
	}

	local, err := net.ResolveUDPAddr("udp4", cfg.BindAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid bind address %q: %w", cfg.BindAddress, err)
	}

	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", cfg.BindAddress, err)
	}

	t := &UDPTransport{
		conn:   conn,
		target: target,
		buf:    make([]byte, maxDatagram),
	}

	if cfg.MulticastGroup != "" {
		if err := t.joinGroup(cfg.MulticastGroup, cfg.Interface); err != nil {
			conn.Close()
			return nil, err
		}
	}

	logging.Debug("UDP transport ready",
		zap.String("local", conn.LocalAddr().String()),
		zap.String("target", target.String()),
		zap.String("multicast_group", cfg.MulticastGroup),
	)

	return t, nil
}

func (t *UDPTransport) joinGroup(group, ifname string) error {
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() == nil || !ip.IsMulticast() {
		return fmt.Errorf("invalid multicast group %q", group)
	}

	var ifi *net.Interface
	if ifname != "" {
		var err error
		ifi, err = net.InterfaceByName(ifname)
		if err != nil {
			return fmt.Errorf("unknown interface %q: %w", ifname, err)
		}
	}

	t.pconn = ipv4.NewPacketConn(t.conn)
	if err := t.pconn.JoinGroup(ifi, &net.UDPAddr{IP: ip}); err != nil {
		return fmt.Errorf("failed to join %s: %w", group, err)
	}
	if ifi != nil {
		if err := t.pconn.SetMulticastInterface(ifi); err != nil {
			return fmt.Errorf("failed to select interface %s: %w", ifname, err)
		}
	}
	if err := t.pconn.SetMulticastLoopback(false); err != nil {
		return fmt.Errorf("failed to disable multicast loopback: %w", err)
	}

	return nil
}

// LocalAddr returns the bound socket address.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Send writes payload to the configured target.
func (t *UDPTransport) Send(payload []byte) error {
	logging.LogPacket("sent", t.target.String(), payload)
	if _, err := t.conn.WriteToUDP(payload, t.target); err != nil {
		return fmt.Errorf("failed to send to %s: %w", t.target, err)
	}
	return nil
}

// Receive waits up to timeout for one datagram. A timeout yields ErrNoData.
func (t *UDPTransport) Receive(timeout time.Duration) (Packet, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Packet{}, fmt.Errorf("failed to set read deadline: %w", err)
	}

	n, from, err := t.conn.ReadFromUDP(t.buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Packet{}, ErrNoData
		}
		return Packet{}, fmt.Errorf("failed to read datagram: %w", err)
	}

	data := make([]byte, n)
	copy(data, t.buf[:n])

	logging.LogPacket("received", from.String(), data)

	return Packet{Data: data, From: from, ReceivedAt: time.Now()}, nil
}

// Close releases the socket.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
