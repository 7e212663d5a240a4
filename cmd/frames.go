// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
)

// outgoingFrame is a frame ready to transmit
type outgoingFrame struct {
	name  string
	frame []byte
}

// resolveFrame turns a command name or custom hex text into a frame.
// Custom frames must pass the checksum; unrecognized commands are allowed
// so new controller commands can be probed.
func resolveFrame(arg string) (outgoingFrame, error) {
	if cmd, ok := psd.ParseCommandName(arg); ok {
		frame, _ := psd.VectorFrame(cmd)
		return outgoingFrame{name: cmd.Name(), frame: frame}, nil
	}

	text := strings.NewReplacer("\n", "", "\r", "", "\t", "").Replace(arg)
	if strings.TrimSpace(text) == "" {
		return outgoingFrame{}, fmt.Errorf("empty command")
	}

	result := psd.Classify(text)
	if !result.ChecksumValid {
		return outgoingFrame{}, fmt.Errorf("command validation failed: %s", result.ErrorMessage)
	}

	frame, err := hex.DecodeString(psd.NormalizeHex(text))
	if err != nil {
		return outgoingFrame{}, fmt.Errorf("command validation failed: %w", err)
	}
	return outgoingFrame{name: result.CommandName, frame: frame}, nil
}

// recorder appends frames to the --record capture file. A nil recorder
// discards everything.
type recorder struct {
	file   *os.File
	writer *capture.Writer
}

func openRecorder(path string) (*recorder, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return &recorder{file: f, writer: capture.NewWriter(f)}, nil
}

func (r *recorder) record(dir capture.Direction, frame []byte, result psd.ParseResult) error {
	if r == nil {
		return nil
	}
	return r.writer.Write(capture.NewRecord(time.Now(), dir, frame, result))
}

func (r *recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.file.Close()
}
