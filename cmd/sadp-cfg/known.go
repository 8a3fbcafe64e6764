package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/sadp/internal/ui"
)

func init() {
	knownCmd.AddCommand(knownNameCmd)
	knownCmd.AddCommand(knownForgetCmd)
	rootCmd.AddCommand(knownCmd)
}

// knownCmd lists previously seen cameras
var knownCmd = &cobra.Command{
	Use:   "known",
	Short: "List devices seen by earlier searches",
	Long: `List every device recorded by 'inquire' or 'update', with its
nickname, model and the address it last answered from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		p := ui.NewPrinter(os.Stdout)
		if len(reg.Cameras) == 0 {
			p.Println("No known devices yet. Run 'sadp-cfg inquire' first.")
			return nil
		}
		p.Println(ui.KnownTable(reg))
		p.Println(ui.MutedStyle.Render("File: " + reg.Path()))
		return nil
	},
}

var knownNameCmd = &cobra.Command{
	Use:   "name <serial> <nickname>",
	Short: "Give a device a nickname",
	Long: `Give a device a nickname that can be used in place of its serial
number, e.g. 'sadp-cfg update --serial "Front door" ...'.

An empty nickname removes it.`,
	Example: `  sadp-cfg known name DS-2CD2042WD-I20160101AAWR123456789 "Front door"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		serial := reg.Resolve(args[0])
		reg.SetNickname(serial, args[1])
		if err := reg.Save(); err != nil {
			return err
		}

		if args[1] == "" {
			fmt.Printf("Removed nickname of %s\n", serial)
		} else {
			fmt.Printf("%s is now known as %q\n", serial, args[1])
		}
		return nil
	},
}

var knownForgetCmd = &cobra.Command{
	Use:   "forget <serial|nickname>",
	Short: "Remove a device from the known list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		serial := reg.Resolve(args[0])
		if !reg.Forget(serial) {
			return fmt.Errorf("%s is not a known device", args[0])
		}
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("Forgot %s\n", serial)
		return nil
	},
}
