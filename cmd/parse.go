// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <hex>...",
	Short: "Classify frames given as hex text",
	Long: `Decode and classify one or more frames without opening a connection.

Each argument is one frame in hex (case-insensitive, spaces allowed; quote
frames that contain spaces).

Exit codes:
  0 - Every frame is a known command with a valid checksum
  1 - At least one frame failed validation or is not a known command`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, arg := range args {
		result := psd.Classify(arg)
		fmt.Fprint(cmd.OutOrStdout(), psd.FormatResult(result, time.Now()))
		if !result.Recognized() {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d frames not recognized\n", failed, len(args))
		os.Exit(1)
	}
	return nil
}
