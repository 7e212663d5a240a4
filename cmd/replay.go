// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/spf13/cobra"
)

var replaySentToo bool

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Re-classify the frames of a capture file",
	Long: `Read a capture file written with --record and classify every received frame
again with the current codec, printing each result and a statistics summary.

Use --sent to include frames this tool transmitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replaySentToo, "sent", false, "Include transmitted frames")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	return replay(cmd.OutOrStdout(), f, replaySentToo)
}

func replay(out io.Writer, r io.Reader, includeSent bool) error {
	reader := capture.NewReader(r)
	stats := psd.NewStatistics()

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		result := psd.ClassifyBytes(rec.Frame)
		if rec.Direction == capture.Sent {
			if includeSent {
				fmt.Fprint(out, psd.FormatSent(result.CommandName, rec.Frame, rec.Time()))
			}
			continue
		}

		stats.Update(result)
		if uint8(result.Fault) != rec.Fault {
			fmt.Fprintf(out, "note: recorded fault %s, now %s\n", psd.Fault(rec.Fault), result.Fault)
		}
		fmt.Fprint(out, psd.FormatResult(result, rec.Time()))
	}

	fmt.Fprint(out, stats.String())
	return nil
}
