package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagCommand  string
	flagNoRC     bool
	flagNoBanner bool
)

var rootCmd = &cobra.Command{
	Use:           "rykeshell [script]",
	Short:         "Interactive POSIX-style shell with job control",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := NewShell(!flagNoRC)

		switch {
		case flagCommand != "":
			status := shell.ProcessLine(flagCommand, nil)
			if !shell.Context().Running() {
				status = shell.Context().ExitStatus()
			}
			exitStatus = status
			shell.shutdown()
		case len(args) == 1:
			exitStatus = shell.RunScript(args[0])
			shell.shutdown()
		default:
			exitStatus = shell.Run(!flagNoBanner)
		}
		return nil
	},
}

var exitStatus int

func init() {
	rootCmd.Flags().StringVarP(&flagCommand, "command", "c", "", "execute a single command line and exit")
	rootCmd.Flags().BoolVar(&flagNoRC, "norc", false, "skip ~/.rykeshellrc")
	rootCmd.Flags().BoolVar(&flagNoBanner, "no-banner", false, "suppress the startup banner")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitStatus)
}
