// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/spf13/cobra"
)

var vectorsCmd = &cobra.Command{
	Use:   "vectors",
	Short: "List the sample command frames and self-test the codec",
	Long: `Print the built-in sample frame of every known door command and check that
each one classifies as its own command with a valid checksum.

Exit codes:
  0 - Self-test passed
  1 - A sample frame did not classify as expected`,
	Args: cobra.NoArgs,
	RunE: runVectors,
}

func init() {
	rootCmd.AddCommand(vectorsCmd)
}

func runVectors(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cmds := psd.Commands()
	failed := 0

	for i, v := range psd.TestVectors() {
		result := psd.Classify(v.Hex)
		status := "OK"
		if !result.Recognized() || result.Command != cmds[i] {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(out, "%-4s %-22s %s  %s\n", status, cmds[i], v.Name, v.Hex)
	}

	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "self-test failed: %d vectors\n", failed)
		os.Exit(1)
	}
	return nil
}
