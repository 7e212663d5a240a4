// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var assistantCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive debug assistant for platform door controllers",
	Long: `Drive and watch a platform door controller from a terminal UI.

Features:
  - Keys 1-5 send the sample frame of each known door command
  - 'i' opens a text input for custom frames (validated before sending)
  - Received frames are decoded live: green when the checksum passes,
    red otherwise, with the command name and any error
  - Separate send log, statistics, and --record capture support

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runAssistant,
}

func init() {
	rootCmd.AddCommand(assistantCmd)
}

func runAssistant(cmd *cobra.Command, args []string) error {
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

	p := tea.NewProgram(initialAssistantModel(conn, connInfo, rec), tea.WithAltScreen())

	go func() {
		for {
			frame, err := conn.ReadFrame()
			if err != nil {
				p.Send(connectionLostMsg{err: err})
				return
			}
			p.Send(frameReceivedMsg{frame: frame, at: time.Now()})
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
