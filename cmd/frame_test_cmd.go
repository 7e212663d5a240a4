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

var (
	frameTestTimeout int
)

var frameTestCmd = &cobra.Command{
	Use:   "frame_test",
	Short: "Test connection by waiting for a valid door command frame",
	Long: `Wait for a valid door command frame on the connection until timeout.

Frames that fail validation or are not known commands are counted and
skipped. The test succeeds on the first recognized frame with a valid
checksum.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runFrameTest,
}

func init() {
	rootCmd.AddCommand(frameTestCmd)
	frameTestCmd.Flags().IntVar(&frameTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runFrameTest(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("psdstat - Frame Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", frameTestTimeout)
	fmt.Printf("Waiting for valid door command...\n\n")

	resultChan := make(chan psd.ParseResult, 1)
	errChan := make(chan error, 1)

	go func() {
		rejected := 0
		for {
			frame, err := conn.ReadFrame()
			if err != nil {
				errChan <- err
				return
			}

			result := psd.ClassifyBytes(frame)
			if !result.Recognized() {
				rejected++
				continue
			}
			if rejected > 0 {
				fmt.Printf("(skipped %d invalid frames)\n", rejected)
			}
			resultChan <- result
			return
		}
	}()

	select {
	case result := <-resultChan:
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Command: %s (%s)\n", result.CommandName, result.Command)
		fmt.Printf("  Frame: %s\n", result.OriginalHex)
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(frameTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", frameTestTimeout)
		os.Exit(1)
	}

	return nil
}
