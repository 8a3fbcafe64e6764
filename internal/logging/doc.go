// Package logging provides structured logging for the SADP tools.
//
// This package wraps a zap logger with convenience functions. Output is
// silent unless a level is given on the command line or through the
// SADP_LOG_LEVEL environment variable, so normal CLI output stays clean.
//
// # Log Levels
//
//   - Debug: packet dumps, dropped replies, decode details
//   - Info: sessions started and finished
//   - Warn: per-device problems during discovery
//   - Error: transport failures
//
// # Packet Logging
//
// Every datagram the UDP transport sends or receives goes through LogPacket:
//
//	logging.LogPacket("received", from.String(), data)
//
// At debug level this records a hex dump, an ASCII dump and the XML children
// as a flat map.
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging
