package discovery

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/protocol"
)

// fakeTransport replays queued packets, then ErrNoData.
type fakeTransport struct {
	sent     [][]byte
	replies  []fakeReply
	sendErr  error
	timeouts []time.Duration
}

type fakeReply struct {
	data []byte
	err  error
}

func (f *fakeTransport) Send(payload []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeTransport) Receive(timeout time.Duration) (Packet, error) {
	f.timeouts = append(f.timeouts, timeout)
	if len(f.replies) == 0 {
		return Packet{}, ErrNoData
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.err != nil {
		return Packet{}, r.err
	}
	return Packet{
		Data:       r.data,
		From:       &net.UDPAddr{IP: net.IPv4(192, 168, 1, 64), Port: protocol.Port},
		ReceivedAt: time.Now(),
	}, nil
}

func (f *fakeTransport) queue(data ...string) {
	for _, d := range data {
		f.replies = append(f.replies, fakeReply{data: []byte(d)})
	}
}

// reply builds a complete inquiry reply for the given serial and Uuid.
func reply(uuid, serial, ip string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><ProbeMatch><Uuid>%s</Uuid><Types>inquiry</Types>`+
		`<DeviceType>138153</DeviceType><DeviceDescription>DS-2CD2042WD-I</DeviceDescription><DeviceSN>%s</DeviceSN>`+
		`<CommandPort>8000</CommandPort><HttpPort>80</HttpPort><MAC>44-19-b6-11-22-33</MAC>`+
		`<IPv4Address>%s</IPv4Address><IPv4SubnetMask>255.255.255.0</IPv4SubnetMask><IPv4Gateway>192.168.1.1</IPv4Gateway>`+
		`<IPv6Address>::</IPv6Address><IPv6Gateway>::</IPv6Gateway><IPv6MaskLen>64</IPv6MaskLen><DHCP>false</DHCP>`+
		`<AnalogChannelNum>0</AnalogChannelNum><DigitalChannelNum>1</DigitalChannelNum>`+
		`<SoftwareVersion>V5.4.5build 170123</SoftwareVersion><DSPVersion>V7.3 build 170119</DSPVersion>`+
		`<BootTime>2024-03-01 10:22:31</BootTime><ResetAbility>false</ResetAbility><DiskNumber>0</DiskNumber>`+
		`<Activated>true</Activated><PasswordResetAbility>true</PasswordResetAbility>`+
		`<PasswordResetModeSecond>true</PasswordResetModeSecond><SupportHCPlatform>true</SupportHCPlatform>`+
		`<HCPlatformEnable>flase</HCPlatformEnable></ProbeMatch>`, uuid, serial, ip)
}

func failedReply(uuid, types string) string {
	return fmt.Sprintf(`<ProbeMatch><Uuid>%s</Uuid><Types>%s</Types><Result>failed</Result></ProbeMatch>`, uuid, types)
}

func TestDiscover_CollectsInArrivalOrder(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(
		reply("id-1", "SN-A", "192.168.1.64"),
		reply("id-1", "SN-B", "192.168.1.65"),
		reply("id-1", "SN-C", "192.168.1.66"),
	)

	results, err := Discover(ft, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	devices := results.Devices()
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}
	for i, want := range []string{"SN-A", "SN-B", "SN-C"} {
		if devices[i].Serial != want {
			t.Errorf("devices[%d].Serial = %q, want %q", i, devices[i].Serial, want)
		}
	}
	if len(results.Errors()) != 0 {
		t.Errorf("Errors() = %v, want none", results.Errors())
	}
}

func TestDiscover_SendsInquiry(t *testing.T) {
	ft := &fakeTransport{}
	if _, err := Discover(ft, "id-1", 2*time.Second); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(ft.sent) != 1 {
		t.Fatalf("sent %d payloads, want 1", len(ft.sent))
	}
	want := `<?xml version="1.0" encoding="utf-8"?><Probe><Uuid>id-1</Uuid><Types>inquiry</Types></Probe>`
	if string(ft.sent[0]) != want {
		t.Errorf("sent %s, want %s", ft.sent[0], want)
	}
	if len(ft.timeouts) != 1 || ft.timeouts[0] != 2*time.Second {
		t.Errorf("Receive timeouts = %v, want [2s]", ft.timeouts)
	}
}

func TestDiscover_GeneratesCorrelationID(t *testing.T) {
	ft := &fakeTransport{}
	if _, err := Discover(ft, "", time.Second); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	raw, err := protocol.Decode(ft.sent[0])
	if err != nil {
		t.Fatalf("Decode(sent) error = %v", err)
	}
	if len(raw.UUID) != 36 {
		t.Errorf("generated Uuid = %q, want a UUID", raw.UUID)
	}
}

func TestDiscover_NoReplies(t *testing.T) {
	results, err := Discover(&fakeTransport{}, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestDiscover_SingleFailedReply(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(failedReply("id-1", "inquiry"))

	results, err := Discover(ft, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !errors.Is(results[0].Err, device.ErrDeviceRejected) {
		t.Errorf("results[0].Err = %v, want ErrDeviceRejected", results[0].Err)
	}
	if n := len(results.Devices()); n != 0 {
		t.Errorf("Devices() has %d records, want 0", n)
	}
	if n := len(results.Errors()); n != 1 {
		t.Errorf("Errors() has %d entries, want 1", n)
	}
}

func TestDiscover_BadRepliesDoNotStopCollection(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(
		reply("id-1", "SN-A", "192.168.1.64"),
		failedReply("id-1", "inquiry"),
		`<ProbeMatch><Types>inquiry`,
		`<ProbeMatch><Types>teleport</Types></ProbeMatch>`,
		`<ProbeMatch><Types>inquiry</Types><DeviceSN>SN-X</DeviceSN></ProbeMatch>`,
		reply("id-1", "SN-B", "192.168.1.65"),
	)

	results, err := Discover(ft, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}

	checks := []func(error) bool{
		func(err error) bool { return err == nil },
		device.IsRejected,
		func(err error) bool { return errors.Is(err, protocol.ErrMalformed) },
		func(err error) bool { return errors.Is(err, protocol.ErrUnknownVariant) },
		device.IsIncomplete,
		func(err error) bool { return err == nil },
	}
	for i, check := range checks {
		if !check(results[i].Err) {
			t.Errorf("results[%d].Err = %v, unexpected", i, results[i].Err)
		}
	}

	if len(results.Devices()) != 2 {
		t.Errorf("Devices() = %d, want 2", len(results.Devices()))
	}
	if len(results.Errors()) != 4 {
		t.Errorf("Errors() = %d, want 4", len(results.Errors()))
	}
}

func TestDiscover_TransportErrorAborts(t *testing.T) {
	ioErr := errors.New("network is down")
	ft := &fakeTransport{}
	ft.queue(reply("id-1", "SN-A", "192.168.1.64"))
	ft.replies = append(ft.replies, fakeReply{err: ioErr})
	ft.queue(reply("id-1", "SN-B", "192.168.1.65"))

	results, err := Discover(ft, "id-1", time.Second)
	if !errors.Is(err, ioErr) {
		t.Fatalf("Discover() error = %v, want %v", err, ioErr)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("I/O error should not look like end of data")
	}
	if len(results) != 1 || results[0].Device.Serial != "SN-A" {
		t.Errorf("results = %+v, want only SN-A", results)
	}
}

func TestDiscover_SendError(t *testing.T) {
	sendErr := errors.New("permission denied")
	_, err := Discover(&fakeTransport{sendErr: sendErr}, "id-1", time.Second)
	if !errors.Is(err, sendErr) {
		t.Errorf("Discover() error = %v, want %v", err, sendErr)
	}
}

func TestDiscover_WrappedNoDataEndsLoop(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(reply("id-1", "SN-A", "192.168.1.64"))
	ft.replies = append(ft.replies, fakeReply{err: fmt.Errorf("socket: %w", ErrNoData)})
	ft.queue(reply("id-1", "SN-B", "192.168.1.65"))

	results, err := Discover(ft, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestDiscover_Correlation(t *testing.T) {
	replies := []string{
		reply("id-1", "SN-A", "192.168.1.64"),
		reply("someone-else", "SN-B", "192.168.1.65"),
		reply("", "SN-C", "192.168.1.66"),
	}

	t.Run("pass-through by default", func(t *testing.T) {
		ft := &fakeTransport{}
		ft.queue(replies...)
		results, err := Discover(ft, "id-1", time.Second)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if len(results.Devices()) != 3 {
			t.Errorf("got %d devices, want 3", len(results.Devices()))
		}
		if results[1].CorrelationID != "someone-else" {
			t.Errorf("CorrelationID = %q, want someone-else", results[1].CorrelationID)
		}
	})

	t.Run("strict drops mismatches", func(t *testing.T) {
		ft := &fakeTransport{}
		ft.queue(replies...)
		s := NewSession(ft, time.Second)
		s.MatchCorrelation = true

		results, err := s.Discover("id-1")
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if len(results) != 1 || results[0].Device.Serial != "SN-A" {
			t.Errorf("results = %+v, want only SN-A", results)
		}
	})
}

func TestDiscover_IgnoresRequestEcho(t *testing.T) {
	echo, err := protocol.Encode(protocol.Inquiry{UUID: "id-1"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	ft := &fakeTransport{}
	ft.queue(string(echo), reply("id-1", "SN-A", "192.168.1.64"))

	results, err := Discover(ft, "id-1", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(results) != 1 || !results[0].OK() {
		t.Errorf("results = %+v, want one device", results)
	}
}

func TestSession_DefaultTimeout(t *testing.T) {
	ft := &fakeTransport{}
	s := &Session{Transport: ft}
	if _, err := s.Discover("id"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if ft.timeouts[0] != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", ft.timeouts[0], DefaultTimeout)
	}
}

func TestSession_NoTransport(t *testing.T) {
	if _, err := (&Session{}).Discover("id"); err == nil {
		t.Error("Discover() without transport should fail")
	}
}

func TestResults_Find(t *testing.T) {
	results := Results{
		{Err: errors.New("bad")},
		{Device: device.Record{Serial: "SN-A", IPv4Address: "192.168.1.64"}},
		{Device: device.Record{Serial: "SN-B"}},
	}

	rec, ok := results.Find("SN-A")
	if !ok || rec.IPv4Address != "192.168.1.64" {
		t.Errorf("Find(SN-A) = %+v, %v", rec, ok)
	}
	if _, ok := results.Find("SN-Z"); ok {
		t.Error("Find(SN-Z) should not match")
	}
}

func TestNewCorrelationID(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if a == b {
		t.Error("NewCorrelationID() returned the same value twice")
	}
	if strings.Count(a, "-") != 4 {
		t.Errorf("NewCorrelationID() = %q, want UUID form", a)
	}
}
