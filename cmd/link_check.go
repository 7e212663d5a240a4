// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/spf13/cobra"
)

var linkCheckCmd = &cobra.Command{
	Use:   "link_check",
	Short: "Hold a connection open and report link stability",
	Long: `Keep the connection open for --duration seconds without sending anything,
logging each frame that arrives and any connection error.

Useful for debugging cabling, baud rate and bridge stability issues before
driving the doors.

Exit codes:
  0 - Link stayed up for the whole duration
  1 - Link dropped during the check
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runLinkCheck,
}

var linkCheckDuration int

func init() {
	rootCmd.AddCommand(linkCheckCmd)
	linkCheckCmd.Flags().IntVar(&linkCheckDuration, "duration", 30, "Check duration in seconds")
}

// linkReport accumulates what was seen on the link
type linkReport struct {
	Frames      int
	Bytes       int
	ValidFrames int
}

func (r *linkReport) add(frame []byte) psd.ParseResult {
	result := psd.ClassifyBytes(frame)
	r.Frames++
	r.Bytes += len(frame)
	if result.ChecksumValid {
		r.ValidFrames++
	}
	return result
}

func (r linkReport) write(w io.Writer, elapsed time.Duration, verdict string) {
	fmt.Fprintf(w, "\n--- Link Check Results ---\n")
	fmt.Fprintf(w, "Duration: %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Frames received: %d (%d with valid checksum)\n", r.Frames, r.ValidFrames)
	fmt.Fprintf(w, "Bytes received: %d\n", r.Bytes)
	fmt.Fprintf(w, "Result: %s\n", verdict)
}

func runLinkCheck(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Link Stability Check\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Duration: %d seconds\n\n", linkCheckDuration)

	frames := make(chan frameEvent, 16)
	go func() {
		for {
			frame, err := conn.ReadFrame()
			frames <- frameEvent{frame: frame, err: err}
			if err != nil {
				return
			}
		}
	}()

	start := time.Now()
	deadline := time.After(time.Duration(linkCheckDuration) * time.Second)
	heartbeat := time.NewTicker(time.Second)
	defer heartbeat.Stop()

	var report linkReport
	fmt.Printf("Listening for frames...\n\n")

	for {
		select {
		case ev := <-frames:
			if ev.err != nil {
				fmt.Printf("\n[%s] Connection error: %v\n", time.Now().Format("15:04:05.000"), ev.err)
				report.write(os.Stdout, time.Since(start), "FAILED (connection error)")
				os.Exit(1)
			}
			result := report.add(ev.frame)
			status := "checksum FAIL"
			if result.ChecksumValid {
				status = result.CommandName
			}
			fmt.Printf("[%s] Received %d bytes: %s (%s)\n",
				time.Now().Format("15:04:05.000"), len(ev.frame), psd.FormatHex(ev.frame), status)

		case <-heartbeat.C:
			remaining := time.Duration(linkCheckDuration)*time.Second - time.Since(start)
			fmt.Printf("[%s] Still connected... (%.0fs remaining)\n",
				time.Now().Format("15:04:05.000"), remaining.Seconds())

		case <-deadline:
			report.write(os.Stdout, time.Since(start), "PASSED (link stable)")
			return nil
		}
	}
}
