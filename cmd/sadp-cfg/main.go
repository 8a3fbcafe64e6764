// Sadp-cfg discovers Hikvision-style cameras and recorders on the local
// network with SADP and changes their network settings.
//
// It broadcasts SADP inquiries over UDP port 37020, lists the devices that
// answer, and sends update requests that change a device's IPv4, IPv6, DHCP
// and port settings. Devices it has seen are remembered in a YAML file so
// they can be given nicknames.
//
// Usage:
//
//	sadp-cfg [command] [flags]
//
// Running without arguments searches the network (same as 'sadp-cfg inquire').
// See 'sadp-cfg --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/muurk/sadp/internal/config"
	"github.com/muurk/sadp/internal/logging"
	"github.com/muurk/sadp/internal/version"
)

// errReported marks a failure that has already been shown to the user in a
// result box.
var errReported = errors.New("reported")

// Global state resolved in PersistentPreRunE
var (
	settingsFile string
	registryFile string
	settings     config.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sadp-cfg",
	Short: "SADP camera discovery and network configuration",
	Long: `Find Hikvision-style cameras and recorders on the local network and
change their network settings using the SADP protocol (UDP port 37020).

Settings can come from flags, SADP_* environment variables (SADP_TIMEOUT,
SADP_INTERFACE, SADP_LOG_LEVEL, ...) or settings.yaml in the config
directory, in that order of precedence.

If no command is specified, the network is searched and the devices found
are listed.`,
	Version:           version.Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runInquire,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyTimeout, "5s", "How long to wait for each reply (seconds or a duration like 1500ms)")
	pf.String(config.KeyBind, "0.0.0.0:0", "Local address to bind the UDP socket to")
	pf.String(config.KeyTarget, "255.255.255.255:37020", "Address requests are sent to")
	pf.String(config.KeyMulticastGroup, "", "Multicast group to join for replies (e.g. 239.255.255.250)")
	pf.String(config.KeyInterface, "", "Network interface for multicast")
	pf.Bool(config.KeyStrictCorrelation, false, "Ignore replies whose Uuid does not match the request")
	pf.String(config.KeyLogLevel, "", "Log level (debug, info, warn, error); logs go to stderr")
	pf.StringVar(&settingsFile, "config", "", "Settings file (default is settings.yaml in the config directory)")
	pf.StringVar(&registryFile, "registry", "", "Known cameras file (default is config.yaml in the config directory)")

	addInquireFlags(rootCmd.Flags())

	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves flags, environment and settings file into settings
// and starts logging.
func loadSettings(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	if err := bindSettingFlags(v, cmd); err != nil {
		return err
	}
	if err := config.ReadSettingsFile(v, settingsFile); err != nil {
		return err
	}

	s, err := config.LoadSettings(v)
	if err != nil {
		return err
	}
	settings = s

	if err := logging.Initialize(settings.LogLevel); err != nil {
		return err
	}
	return nil
}

func bindSettingFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, key := range []string{
		config.KeyTimeout,
		config.KeyBind,
		config.KeyTarget,
		config.KeyMulticastGroup,
		config.KeyInterface,
		config.KeyStrictCorrelation,
		config.KeyLogLevel,
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", key, err)
		}
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sadp-cfg %s\n", version.Full())
	},
}
