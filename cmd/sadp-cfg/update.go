package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/config"
	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/discovery"
	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/ui"
)

// Update command flags
var (
	updateSerial   string
	updatePassword string
	assumeYes      bool
	noVerify       bool
	verifyRetries  int
)

func init() {
	rootCmd.AddCommand(updateCmd)

	f := updateCmd.Flags()
	f.StringVar(&updateSerial, "serial", "", "Serial number or nickname of the device to change (required)")
	addOverrideFlags(f)
	f.StringVar(&updatePassword, "password", "", "Device admin password (prompted for when omitted)")
	f.BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	f.BoolVar(&noSave, "no-save", false, "Do not record the updated device in the known cameras file")
	f.BoolVar(&noVerify, "no-verify", false, "Skip re-inquiring the device after the update")
	f.IntVar(&verifyRetries, "verify-retries", 3, "Number of verification retries")
	_ = updateCmd.MarkFlagRequired("serial")
}

// updateCmd changes a device's network settings
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the network settings of a device",
	Long: `Change the IPv4, IPv6, DHCP or port settings of one device.

The device is first found with a SADP search so its current settings can be
carried over; only the settings given on the command line change. The
device's admin password is required and is sent as a digest, never in
plaintext.`,
	Example: `  # Give a camera a static address
  sadp-cfg update --serial DS-2CD2042WD-I20160101AAWR123456789 \
    --ip 192.168.1.70 --mask 255.255.255.0 --gateway 192.168.1.1

  # Switch a camera known as "Front door" to DHCP
  sadp-cfg update --serial "Front door" --dhcp true

  # Change the HTTP port without prompting
  sadp-cfg update --serial SN123 --http-port 8080 --password 12345 --yes`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func addOverrideFlags(f *pflag.FlagSet) {
	f.String("dhcp", "", "Enable or disable DHCP (true or false)")
	f.String("ip", "", "New IPv4 address")
	f.String("mask", "", "New IPv4 subnet mask")
	f.String("gateway", "", "New IPv4 gateway")
	f.Int("command-port", 0, "New SDK command port")
	f.Int("http-port", 0, "New HTTP port")
	f.String("ipv6", "", "New IPv6 address")
	f.String("ipv6-gateway", "", "New IPv6 gateway")
	f.Int("ipv6-prefix", 0, "New IPv6 prefix length")
}

// overridesFromFlags collects the settings the user asked to change. A
// static address given without --dhcp turns DHCP off.
func overridesFromFlags(fs *pflag.FlagSet) (device.Overrides, error) {
	var o device.Overrides

	str := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetInt(name)
		return &v
	}

	if fs.Changed("dhcp") {
		s, _ := fs.GetString("dhcp")
		v, err := strconv.ParseBool(s)
		if err != nil {
			return o, fmt.Errorf("invalid --dhcp value %q (want true or false)", s)
		}
		o.DHCP = &v
	}
	o.IPv4Address = str("ip")
	o.IPv4SubnetMask = str("mask")
	o.IPv4Gateway = str("gateway")
	o.CommandPort = num("command-port")
	o.HTTPPort = num("http-port")
	o.IPv6Address = str("ipv6")
	o.IPv6Gateway = str("ipv6-gateway")
	o.IPv6PrefixLength = num("ipv6-prefix")

	if o.DHCP == nil && (o.IPv4Address != nil || o.IPv4SubnetMask != nil || o.IPv4Gateway != nil) {
		off := false
		o.DHCP = &off
	}

	if o.IsEmpty() {
		return o, errors.New("nothing to change: give at least one of --dhcp, --ip, --mask, --gateway, --command-port, --http-port, --ipv6, --ipv6-gateway, --ipv6-prefix")
	}
	if errs := o.Validate(); len(errs) > 0 {
		return o, errors.Join(errs...)
	}
	return o, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	overrides, err := overridesFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	reg, regErr := openRegistry()
	if regErr != nil {
		logging.Warn("Known cameras file unavailable", zap.Error(regErr))
		reg = config.NewRegistry("")
	}
	serial := reg.Resolve(updateSerial)

	transport, err := openTransport()
	if err != nil {
		return err
	}
	defer transport.Close()

	session := newSession(transport)
	p := ui.NewPrinter(os.Stdout)

	var results discovery.Results
	err = ui.RunWithSpinner(os.Stderr, "Looking for "+serial+"...", func() error {
		var err error
		results, err = session.Discover("")
		return err
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	current, ok := results.Find(serial)
	if !ok {
		p.PrintError("Device not found",
			fmt.Errorf("no device with serial %s answered within %s", serial, settings.Timeout),
			"Run 'sadp-cfg inquire' and check the serial number",
			"Ensure this computer is on the same network segment as the device",
			"Try increasing --timeout",
		)
		return errReported
	}

	p.PrintHeader("Network update", "sadp-cfg update",
		ui.Param{Key: "Serial", Value: current.Serial},
		ui.Param{Key: "Model", Value: current.Description},
		ui.Param{Key: "MAC", Value: current.MAC},
		ui.Param{Key: "IPv4", Value: current.IPv4Address},
	)

	changes := changeLines(current, overrides.Apply(current))
	if len(changes) == 0 {
		p.PrintWarning("Nothing to change", ui.Param{Key: "Reason", Value: "the device already has these settings"})
		return nil
	}

	if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, "Change network settings of "+current.Serial, changes) {
		return nil
	}

	password := updatePassword
	if password == "" {
		password, err = ui.ReadPassword(os.Stdin, os.Stderr, "Device password: ")
		if err != nil {
			return err
		}
	}

	var updated device.Record
	err = ui.RunWithSpinner(os.Stderr, "Sending update...", func() error {
		var err error
		updated, err = session.Update(discovery.UpdateRequest{
			TargetSerial: current.Serial,
			Current:      current,
			Overrides:    overrides,
			Password:     password,
		})
		return err
	})

	var updateErr *discovery.UpdateError
	if errors.As(err, &updateErr) {
		p.PrintError("Update failed", updateErr, troubleshootingFor(updateErr.Kind)...)
		return errReported
	}
	if err != nil {
		return err
	}

	if !noVerify {
		opts := discovery.DefaultVerifyOptions()
		opts.MaxRetries = verifyRetries

		vr, err := verifyUpdate(spinnerOnStderr, session, updated.Serial, overrides, opts)
		if err != nil {
			return err
		}

		if !vr.Success {
			details := []ui.Param{{Key: "Attempts", Value: strconv.Itoa(vr.Attempts)}}
			for _, m := range vr.Mismatches {
				details = append(details, ui.Param{Key: "Mismatch", Value: m})
			}
			p.PrintWarning("Device confirmed the update but does not report it yet", details...)
		} else if vr.Actual != nil {
			updated = *vr.Actual
		}
	}

	if !noSave && regErr == nil {
		reg.RecordSeen(updated)
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to save known cameras", zap.Error(err))
		}
	}

	p.PrintSuccess("Network settings updated",
		ui.Param{Key: "Serial", Value: updated.Serial},
		ui.Param{Key: "DHCP", Value: strconv.FormatBool(updated.DHCP)},
		ui.Param{Key: "IPv4", Value: updated.IPv4Address + " / " + updated.IPv4SubnetMask},
		ui.Param{Key: "Gateway", Value: updated.IPv4Gateway},
		ui.Param{Key: "Ports", Value: fmt.Sprintf("SDK %d, HTTP %d", updated.CommandPort, updated.HTTPPort)},
	)
	return nil
}

// taskRunner runs task while showing label as progress.
type taskRunner func(label string, task func() error) error

func spinnerOnStderr(label string, task func() error) error {
	return ui.RunWithSpinner(os.Stderr, label, task)
}

// verifyUpdate re-inquires the device under run. When run fails, as on an
// interrupt, the result is discarded: the task may still be running.
func verifyUpdate(run taskRunner, s *discovery.Session, serial string, o device.Overrides, opts discovery.VerifyOptions) (discovery.VerifyResult, error) {
	var vr discovery.VerifyResult
	err := run("Verifying...", func() error {
		vr = s.Verify(serial, o, opts)
		return nil
	})
	if err != nil {
		return discovery.VerifyResult{}, err
	}
	return vr, nil
}

// changeLines lists the settings that differ between the two records, one
// "Label: old → new" entry each.
func changeLines(current, target device.Record) []string {
	var lines []string
	for _, line := range strings.Split(device.FormatDiff(current, target), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "===") || line == "(no differences)" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func troubleshootingFor(kind discovery.UpdateErrorKind) []string {
	switch kind {
	case discovery.UpdateNoResponse:
		return []string{
			"The device may already be using its new address; run 'sadp-cfg inquire'",
			"Check the device is still powered and connected",
			"Try increasing --timeout",
		}
	case discovery.UpdateRejected:
		return []string{
			"Check the admin password",
			"Too many wrong passwords lock the device for a while",
			"Inactive devices must be activated before they can be changed",
		}
	case discovery.UpdateWrongDevice:
		return []string{
			"Another device answered first; retry the update",
			"Use --strict-correlation to ignore replies to other requests",
		}
	default:
		return []string{
			"Run with --log-level debug to see the raw reply",
			"Save the reply and inspect it with 'sadp-cfg decode'",
		}
	}
}
