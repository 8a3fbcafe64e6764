// Package protocol implements the SADP wire format used by IP cameras for
// local discovery and network reconfiguration.
//
// SADP messages are small UTF-8 XML documents carried in UDP datagrams on
// port 37020. A requester broadcasts a Probe; every device that handles it
// unicasts back a ProbeMatch.
//
// # Message Format
//
// Every message has a single root element with flat child elements:
//
//	<?xml version="1.0" encoding="utf-8"?>
//	<Probe>
//	  <Uuid>7d0f5b8e-...</Uuid>
//	  <Types>inquiry</Types>
//	</Probe>
//
// The Types element is the discriminant. Its value is one of a fixed set of
// literals (see KnownTypes) and is compared byte for byte: devices expect
// "getQRcodes" with that casing and "getbindlist " with a trailing space.
//
// # Requests
//
// Request is a closed union. Inquiry and Update are the operations this
// package fully supports; the remaining variants carry only their confirmed
// fields so that they round-trip on the wire.
//
// # Responses
//
// Responses vary in shape with the operation and its outcome, so Decode
// produces a RawResponse in which every device attribute is optional.
// Presence rules live with the caller (see the device package). Decode only
// fails when the document is malformed, a present field cannot be parsed as
// its declared type, or the discriminant is unknown.
//
// # Booleans
//
// Devices spell false as "flase" in some fields. TriStateBool accepts
// "true", "false" and "flase", rejects anything else, and writes "flase"
// back out because that is the literal firmware expects.
//
// # Usage Example
//
//	payload, err := protocol.Encode(protocol.Inquiry{UUID: id})
//	if err != nil {
//	    return err
//	}
//	// ... send payload, receive reply ...
//	raw, err := protocol.Decode(reply)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(raw.Types, raw.DeviceSN)
package protocol
