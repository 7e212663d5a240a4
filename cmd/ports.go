// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	Long: `List the serial ports of this machine, with USB vendor/product details when
the port belongs to a USB adapter.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found")
		return nil
	}

	for _, p := range ports {
		if p.IsUSB {
			fmt.Fprintf(out, "%s  USB %s:%s", p.Name, p.VID, p.PID)
			if p.Product != "" {
				fmt.Fprintf(out, "  %s", p.Product)
			}
			if p.SerialNumber != "" {
				fmt.Fprintf(out, "  serial=%s", p.SerialNumber)
			}
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintln(out, p.Name)
	}
	return nil
}
