// Package device turns decoded SADP replies into device records and builds
// the configuration requests sent back to them.
//
// # Reduction
//
// Reduce applies a single presence policy to every reply: a reply flagged
// failed is rejected outright, and a reply missing any required attribute is
// reported as incomplete with every missing attribute listed. Nothing is
// defaulted.
//
//	raw, err := protocol.Decode(packet)
//	if err != nil {
//	    return err
//	}
//	rec, err := device.Reduce(raw)
//	switch {
//	case device.IsRejected(err):
//	    // device answered "failed"
//	case device.IsIncomplete(err):
//	    // firmware omitted a field
//	}
//
// # Updates
//
// UpdateBuilder starts from a device's current Record, layers Overrides on
// top and produces a protocol.Update carrying the password digest:
//
//	req, err := device.NewUpdateBuilder(rec).
//	    SetDHCP(true).
//	    SetPassword(digest.Password(pw)).
//	    SetCorrelationID(id).
//	    Build()
package device
