package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/config"
	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/discovery"
	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/protocol"
	"github.com/muurk/sadp/internal/ui"
)

// Command flags
var (
	outputFormat string
	retries      int
	noSave       bool
	mdnsTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(inquireCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(mdnsCmd)
}

func addInquireFlags(fs *pflag.FlagSet) {
	fs.StringVar(&outputFormat, "format", "table", "Output format (table, compact, detailed, json)")
	fs.IntVar(&retries, "retries", 0, "Broadcast this many extra times and merge the replies")
	fs.BoolVar(&noSave, "no-save", false, "Do not record the devices found in the known cameras file")
}

// inquireCmd discovers devices on the network
var inquireCmd = &cobra.Command{
	Use:     "inquire",
	Aliases: []string{"scan"},
	Short:   "Search the local network for SADP devices",
	Long: `Broadcast a SADP inquiry and list every device that answers.

Replies are collected until no packet arrives for --timeout. Devices found
are recorded in the known cameras file unless --no-save is given.`,
	Example: `  # Search with the default 5 second timeout
  sadp-cfg inquire

  # Broadcast three times on a lossy network
  sadp-cfg scan --retries 2

  # Machine-readable output
  sadp-cfg inquire --format json

  # Send on a specific interface
  sadp-cfg inquire --bind 192.168.1.10:0`,
	Args: cobra.NoArgs,
	RunE: runInquire,
}

func init() {
	addInquireFlags(inquireCmd.Flags())
}

func runInquire(cmd *cobra.Command, args []string) error {
	if err := checkFormat(outputFormat); err != nil {
		return err
	}

	transport, err := openTransport()
	if err != nil {
		return err
	}
	defer transport.Close()

	session := newSession(transport)

	var results discovery.Results
	label := fmt.Sprintf("Searching for devices (timeout %s)...", settings.Timeout)
	searchErr := ui.RunWithSpinner(os.Stderr, label, func() error {
		var err error
		results, err = discoverRounds(session, retries+1)
		return err
	})
	if errors.Is(searchErr, ui.ErrInterrupted) {
		return searchErr
	}

	reg, regErr := openRegistry()
	if regErr != nil {
		logging.Warn("Known cameras file unavailable", zap.Error(regErr))
		reg = config.NewRegistry("")
	}

	devices := results.Devices()
	if err := printDevices(os.Stdout, outputFormat, devices, results.Errors(), reg.Nickname); err != nil {
		return err
	}

	if !noSave && regErr == nil && len(devices) > 0 {
		for _, d := range devices {
			reg.RecordSeen(d)
		}
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to save known cameras", zap.Error(err))
		}
	}

	if searchErr != nil {
		return fmt.Errorf("search stopped early: %w", searchErr)
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case "table", "compact", "detailed", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (use table, compact, detailed or json)", format)
}

// discoverRounds runs rounds inquiries and merges the results. A device
// answering more than once is kept at its first position; reply errors are
// kept from every round.
func discoverRounds(s *discovery.Session, rounds int) (discovery.Results, error) {
	var merged discovery.Results
	seen := make(map[string]bool)

	for i := 0; i < max(rounds, 1); i++ {
		results, err := s.Discover("")
		for _, r := range results {
			if r.OK() {
				if seen[r.Device.Serial] {
					continue
				}
				seen[r.Device.Serial] = true
			}
			merged = append(merged, r)
		}
		if err != nil {
			return merged, err
		}
	}
	return merged, nil
}

func printDevices(w io.Writer, format string, devices []device.Record, errs discovery.Results, nickname ui.NicknameFunc) error {
	if format == "json" {
		return writeJSON(w, devices, errs)
	}

	p := ui.NewPrinter(w)
	switch format {
	case "compact":
		for _, d := range devices {
			p.Println(d.FormatCompact())
		}
	case "detailed":
		for i, d := range devices {
			if i > 0 {
				p.Newline()
			}
			p.Println(d.FormatDetailed())
		}
	default:
		p.PrintDevices(devices, nickname)
	}

	if len(errs) > 0 {
		p.Newline()
		p.Print(ui.ReplyErrorList(errs))
	}

	if len(devices) == 0 && format == "table" {
		p.Newline()
		p.Println("Troubleshooting:")
		p.Println("  - Ensure this computer is on the same layer-2 network as the devices")
		p.Println("  - Allow UDP port 37020 through the local firewall")
		p.Println("  - Try --bind with the address of the interface facing the devices")
		p.Println("  - Try increasing --timeout or --retries on busy networks")
	}
	return nil
}

type jsonReplyError struct {
	From  string `json:"from,omitempty"`
	Error string `json:"error"`
}

type jsonOutput struct {
	Devices []device.Record  `json:"devices"`
	Errors  []jsonReplyError `json:"errors,omitempty"`
}

func writeJSON(w io.Writer, devices []device.Record, errs discovery.Results) error {
	out := jsonOutput{Devices: devices}
	if out.Devices == nil {
		out.Devices = []device.Record{}
	}
	for _, r := range errs {
		e := jsonReplyError{Error: r.Err.Error()}
		if r.From != nil {
			e.From = r.From.String()
		}
		out.Errors = append(out.Errors, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// decodeCmd inspects a captured packet
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a captured SADP packet",
	Long: `Decode a SADP document saved from a packet capture and show every
element it carries, then the device record it reduces to.

Use "-" to read the packet from stdin.`,
	Example: `  # Inspect a reply saved from Wireshark
  sadp-cfg decode reply.xml

  cat reply.xml | sadp-cfg decode -`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	return decodePacket(os.Stdout, data)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func decodePacket(w io.Writer, data []byte) error {
	p := ui.NewPrinter(w)
	logging.LogRawBytes("Decoding packet", data)

	root, err := protocol.Root(data)
	if err != nil {
		return err
	}
	fields, err := protocol.Fields(data)
	if err != nil {
		return err
	}

	p.Printf("Root: %s\n", root)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Printf("  %-26s %s\n", k+":", fields[k])
	}
	p.Newline()

	if root == protocol.RootProbe {
		p.Println("This is a request, not a reply.")
		return nil
	}

	raw, err := protocol.Decode(data)
	if err != nil {
		p.PrintError("Not a valid reply", err)
		return errReported
	}

	rec, err := device.Reduce(raw)
	if err != nil {
		p.PrintError("Reply does not describe a device", err)
		return errReported
	}

	p.Println(rec.FormatDetailed())
	return nil
}

// mdnsCmd cross-checks SADP against mDNS
var mdnsCmd = &cobra.Command{
	Use:   "mdns",
	Short: "Find devices that advertise over mDNS but do not answer SADP",
	Long: `Browse mDNS for devices advertising the PSIA web service, run a SADP
search, and list hosts that appear in mDNS only.

Such hosts are usually on another subnet, behind a router that drops
broadcasts, or have SADP disabled.`,
	Args: cobra.NoArgs,
	RunE: runMDNS,
}

func init() {
	mdnsCmd.Flags().DurationVar(&mdnsTimeout, "mdns-timeout", discovery.DefaultScanTimeout, "How long to browse mDNS")
}

func runMDNS(cmd *cobra.Command, args []string) error {
	var advertised []*discovery.MDNSDevice
	err := ui.RunWithSpinner(os.Stderr, "Browsing mDNS...", func() error {
		var err error
		advertised, err = discovery.ScanForDevices(mdnsTimeout)
		return err
	})
	if err != nil {
		return fmt.Errorf("mDNS scan failed: %w", err)
	}

	transport, err := openTransport()
	if err != nil {
		return err
	}
	defer transport.Close()

	var results discovery.Results
	err = ui.RunWithSpinner(os.Stderr, "Searching with SADP...", func() error {
		var err error
		results, err = newSession(transport).Discover("")
		return err
	})
	if err != nil {
		return fmt.Errorf("SADP search failed: %w", err)
	}

	p := ui.NewPrinter(os.Stdout)
	p.Printf("mDNS: %d host(s), SADP: %d device(s)\n\n", len(advertised), len(results.Devices()))

	missing := discovery.Unmatched(advertised, results.Devices())
	if len(missing) == 0 {
		p.PrintSuccess("Every mDNS host answered SADP")
		return nil
	}

	p.Println(ui.MDNSTable(missing))
	p.PrintWarning(fmt.Sprintf("%d host(s) did not answer SADP", len(missing)))
	return nil
}

func openTransport() (*discovery.UDPTransport, error) {
	return discovery.NewUDPTransport(discovery.TransportConfig{
		BindAddress:    settings.Bind,
		Target:         settings.Target,
		MulticastGroup: settings.MulticastGroup,
		Interface:      settings.Interface,
	})
}

func newSession(t discovery.Transport) *discovery.Session {
	s := discovery.NewSession(t, settings.Timeout)
	s.MatchCorrelation = settings.StrictCorrelation
	return s
}

func openRegistry() (*config.Registry, error) {
	if registryFile != "" {
		return config.OpenRegistry(registryFile)
	}
	return config.LoadRegistry()
}
