// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <command | hex>",
	Short: "Send a door command",
	Long: `Send a known door command by name, or a custom frame as hex text.

Known commands:
  ALL_RISE (全部上升)             ALL_DESCEND (全部下降)
  ALL_STOP (全部停止)             SHORT_FORMATION_RISE (短编上升)
  RECONNECTED_TRAIN_RISE (重联上升)

Custom frames are validated before sending and rejected when the checksum does
not verify.

Exit codes:
  0 - Frame sent
  1 - Frame rejected by validation
  2 - Connection error`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	out, err := resolveFrame(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	rec, err := openRecorder(recordPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	log.Printf("Connection: %s", connInfo)

	if _, err := conn.Write(out.frame); err != nil {
		fmt.Fprintf(os.Stderr, "SEND FAILED: %v\n", err)
		os.Exit(2)
	}
	fmt.Print(psd.FormatSent(out.name, out.frame, time.Now()))

	if err := rec.record(capture.Sent, out.frame, psd.ClassifyBytes(out.frame)); err != nil {
		log.Printf("Capture error: %v", err)
	}
	return nil
}
