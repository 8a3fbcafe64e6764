// Package discovery finds Hikvision devices with SADP and pushes network
// configuration to them.
//
// A Session sends one request over a Transport and reads replies until the
// transport reports ErrNoData. Discovery keeps going past bad replies and
// records each one in its Result. Update expects exactly one confirmation
// and turns any problem with it into an *UpdateError.
//
// # Usage Example
//
//	t, err := discovery.NewUDPTransport(discovery.TransportConfig{})
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	s := discovery.NewSession(t, 5*time.Second)
//	results, err := s.Discover("")
//	if err != nil {
//	    return err
//	}
//
//	cam, ok := results.Find(serial)
//	if !ok {
//	    return fmt.Errorf("%s not found", serial)
//	}
//	updated, err := s.Update(discovery.UpdateRequest{
//	    TargetSerial: serial,
//	    Current:      cam,
//	    Overrides:    overrides,
//	    Password:     password,
//	})
//
// # mDNS
//
// Scanner browses for the _psia._tcp service that cameras also advertise.
// It is a cross-check for devices the SADP broadcast does not reach.
//
// # Network Requirements
//
//   - UDP 37020 must be reachable in both directions
//   - Replies are unicast back to the sender's port
//   - Devices on other subnets only see the broadcast if a relay forwards it
//
// # Thread Safety
//
// A Session and a UDPTransport are used from one goroutine at a time.
package discovery
