package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

const (
	// Port is the UDP port SADP devices listen on.
	Port = 37020

	// RootProbe is the root element of outbound messages.
	RootProbe = "Probe"

	// RootProbeMatch is the root element devices use in replies.
	RootProbeMatch = "ProbeMatch"

	xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`
)

// ErrNilRequest is returned when Encode is given no request.
var ErrNilRequest = errors.New("nil request")

// Encode renders a request as a SADP Probe document.
//
// Uuid and Types are always written first, followed by the variant's fields
// in wire order. Values are XML-escaped but otherwise written verbatim.
func Encode(r Request) ([]byte, error) {
	if r == nil {
		return nil, ErrNilRequest
	}

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)

	enc := xml.NewEncoder(&buf)
	root := xml.StartElement{Name: xml.Name{Local: RootProbe}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", RootProbe, err)
	}

	elements := append([]field{
		{"Uuid", r.CorrelationID()},
		{"Types", r.Types()},
	}, r.fields()...)

	for _, f := range elements {
		start := xml.StartElement{Name: xml.Name{Local: f.name}}
		if err := enc.EncodeElement(f.value, start); err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", f.name, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", RootProbe, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush encoder: %w", err)
	}

	return buf.Bytes(), nil
}
