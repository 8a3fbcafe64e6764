// Package config holds sadp-cfg's runtime settings and its file of known
// cameras.
//
// # Settings
//
// Settings are resolved by viper in this order: command-line flags, SADP_*
// environment variables, settings.yaml, built-in defaults.
//
//	v := config.NewViper()
//	_ = v.BindPFlags(cmd.Flags())
//	if err := config.ReadSettingsFile(v, ""); err != nil {
//	    return err
//	}
//	settings, err := config.LoadSettings(v)
//
// # Known Cameras
//
// The registry is a YAML file recording every device seen by a scan or
// update, keyed by serial number, plus user nicknames:
//
//	reg, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	for _, rec := range results.Devices() {
//	    reg.RecordSeen(rec)
//	}
//	if err := reg.Save(); err != nil {
//	    return err
//	}
//
// # File Locations
//
//   - Linux: $XDG_CONFIG_HOME/sadp or $HOME/.config/sadp
//   - macOS: $HOME/.config/sadp
//   - Windows: %LOCALAPPDATA%\sadp
//
// # Security
//
// Device passwords are never written to either file. sadp-cfg prompts for
// them when an update needs one.
package config
