// Package ui renders sadp-cfg's terminal output with Lip Gloss and Bubble
// Tea.
//
// Output is "run once and exit": a device table, a header naming the device
// an update targets, and a success or failure box with troubleshooting tips.
// The one animated component is the spinner shown while a discovery or
// update waits for replies; it is drawn on stderr, and skipped entirely when
// stderr is not a terminal, so stdout stays clean for --format json.
//
//	p := ui.NewPrinter(os.Stdout)
//	var results discovery.Results
//	err := ui.RunWithSpinner(os.Stderr, "Searching for cameras...", func() error {
//	    var err error
//	    results, err = session.Discover("")
//	    return err
//	})
//	p.PrintDevices(results.Devices(), reg.Nickname)
//
// Passwords are read with ReadPassword, which disables echo on a terminal
// and reads one line from piped input.
//
// # Logging Integration
//
// zap logging is silent unless SADP_LOG_LEVEL (or --log-level) is set, so
// the styled output is not interleaved with log lines. Logs go to stderr.
package ui
