// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// psdstat - Platform Screen Door Command Analyzer
//
// A CLI tool for decoding, sending, and monitoring platform screen door
// controller command frames over serial or WebSocket links.

package main

import (
	"os"

	"github.com/Thermoquad/psdstat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
