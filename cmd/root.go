// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int
	frameGap time.Duration

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Capture file for sent and received frames
	recordPath string
)

var rootCmd = &cobra.Command{
	Use:   "psdstat",
	Short: "Platform Screen Door Protocol Analyzer",
	Long: `psdstat - A CLI tool for driving and monitoring platform screen door controllers.

Decodes the controller's command frames (fixed header, action selector, CRC-16
checksum), sends the known door commands, and records traffic for later replay.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600] [--gap 50ms]
  WebSocket: --url ws://host/path [--username user]

Serial frames are delimited by line idle time (--gap). Over WebSocket each
binary message is one frame.

For WebSocket authentication, the password is read from the PSD_PASSWORD
environment variable, or prompted interactively if not set.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")
	rootCmd.PersistentFlags().DurationVar(&frameGap, "gap", 50*time.Millisecond, "Idle time that ends a frame (serial only)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&recordPath, "record", "", "Append sent and received frames to a capture file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
