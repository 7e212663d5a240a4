// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	monitorStatsInterval int
	monitorErrorsOnly    bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode and display frames as they arrive",
	Long: `Continuously read frames from the connection, classify each one and print
the command, checksum status and any error.

Valid frames are shown in green, failing frames in red. A statistics summary
is printed every --stats-interval seconds (0 disables it).

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 0, "Statistics summary interval (seconds)")
	monitorCmd.Flags().BoolVar(&monitorErrorsOnly, "errors-only", false, "Only show frames that failed validation")
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderResult colors a formatted result by checksum status
func renderResult(r psd.ParseResult, ts time.Time) string {
	text := psd.FormatResult(r, ts)
	if r.ChecksumValid {
		return passStyle.Render(text)
	}
	return failStyle.Render(text)
}

type frameEvent struct {
	frame []byte
	err   error
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	rec, err := openRecorder(recordPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	fmt.Printf("psdstat - Frame Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

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

	stats := psd.NewStatistics()
	var tick <-chan time.Time
	if monitorStatsInterval > 0 {
		ticker := time.NewTicker(time.Duration(monitorStatsInterval) * time.Second)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case ev := <-frames:
			if ev.err != nil {
				if ev.err == ErrConnectionClosed {
					log.Printf("Connection closed")
				} else {
					log.Printf("Read error: %v", ev.err)
				}
				fmt.Print(stats.String())
				return nil
			}

			result := psd.ClassifyBytes(ev.frame)
			stats.Update(result)
			if err := rec.record(capture.Received, ev.frame, result); err != nil {
				log.Printf("Capture error: %v", err)
			}

			if monitorErrorsOnly && result.Recognized() {
				continue
			}
			fmt.Println(renderResult(result, time.Now()))

		case <-tick:
			fmt.Print(stats.String())
		}
	}
}
