package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/sadp/internal/config"
	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/discovery"
)

// NicknameFunc looks up the user's nickname for a serial number.
type NicknameFunc func(serial string) string

var deviceColumns = []string{"#", "NAME", "MODEL", "IPV4", "MAC", "FIRMWARE", "DHCP", "ACTIVE"}

const (
	colActive = 7
)

// DeviceTable renders discovered devices as a bordered table. nickname may
// be nil; devices without a nickname show their serial number.
func DeviceTable(records []device.Record, nickname NicknameFunc) string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		name := r.Serial
		if nickname != nil {
			if n := nickname(r.Serial); n != "" {
				name = n
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			r.Description,
			r.IPv4Address,
			r.MAC,
			r.SoftwareVersion,
			onOff(r.DHCP),
			yesNo(r.Activated),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(deviceColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return TableMutedCellStyle
			}
			if col == colActive && row >= 0 && row < len(records) {
				if records[row].Activated {
					return TableCellStyle.Foreground(SuccessColor)
				}
				return TableCellStyle.Foreground(WarningColor)
			}
			return TableCellStyle
		})

	return t.Render()
}

// ReplyErrorList renders the replies that could not be reduced to devices.
func ReplyErrorList(errs discovery.Results) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(ErrorTitleStyle.Render(fmt.Sprintf("%s %d reply(s) could not be used:", FailureMarker, len(errs))))
	b.WriteString("\n")
	for _, r := range errs {
		from := "unknown"
		if r.From != nil {
			from = r.From.String()
		}
		b.WriteString(MutedStyle.Render("  " + from + ": "))
		b.WriteString(ErrorMessageStyle.Render(r.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// MDNSTable renders hosts found by an mDNS scan.
func MDNSTable(devices []*discovery.MDNSDevice) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Instance, d.Hostname, d.IP, strconv.Itoa(d.Port)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers("INSTANCE", "HOST", "IP", "PORT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Render()
}

// KnownTable renders the registry of previously seen cameras, sorted by
// serial number.
func KnownTable(reg *config.Registry) string {
	serials := reg.Serials()
	rows := make([][]string, 0, len(serials))
	for _, serial := range serials {
		cam := reg.GetCamera(serial)
		lastSeen := "never"
		if !cam.LastSeen.IsZero() {
			lastSeen = cam.LastSeen.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{serial, cam.Nickname, cam.Model, cam.LastIP, lastSeen})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("SERIAL", "NICKNAME", "MODEL", "LAST IP", "LAST SEEN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 4 {
				return TableMutedCellStyle
			}
			return TableCellStyle
		}).
		Render()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
