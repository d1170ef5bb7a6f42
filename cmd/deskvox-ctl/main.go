package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deskvox/internal/ipc"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var socket string

	root := &cobra.Command{
		Use:          "deskvox-ctl",
		Short:        "Control a running deskvox assistant",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&socket, "socket", "s", ipc.DefaultSocketPath, "Control socket path")

	root.AddCommand(&cobra.Command{
		Use:   "say <text...>",
		Short: "Send a typed utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(socket, ipc.ControlMessage{Cmd: ipc.CmdSay, Text: strings.Join(args, " ")})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "trigger",
		Short: "Start listening (push to talk)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(socket, ipc.ControlMessage{Cmd: ipc.CmdTrigger})
		},
	})

	return root
}

func send(socket string, msg ipc.ControlMessage) error {
	if err := ipc.SendCommand(socket, msg); err != nil {
		return fmt.Errorf("deskvox not running: %w", err)
	}
	return nil
}
