// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MinPayloadSize is the smallest payload that yields a frame of MinFrameLength
const MinPayloadSize = MinFrameLength - OffsetPayload - ChecksumSize

// EncodeCommand builds a complete wire frame for a known command.
// The payload is copied verbatim between the selector and the checksum.
func EncodeCommand(cmd CommandType, payload []byte) ([]byte, error) {
	triple, ok := cmd.Triple()
	if !ok {
		return nil, fmt.Errorf("cannot encode command %s", cmd)
	}
	if len(payload) < MinPayloadSize {
		return nil, fmt.Errorf("payload too short: %d bytes (min %d)", len(payload), MinPayloadSize)
	}

	data := make([]byte, 0, OffsetPayload+len(payload))
	data = append(data, Header[:]...)
	data = append(data, triple[:]...)
	data = append(data, payload...)

	return AppendChecksum(data), nil
}

// MustEncodeCommand is EncodeCommand for static inputs.
// Panics on encoding error.
func MustEncodeCommand(cmd CommandType, payload []byte) []byte {
	frame, err := EncodeCommand(cmd, payload)
	if err != nil {
		panic(fmt.Sprintf("psd: encode error: %v", err))
	}
	return frame
}

// VectorFrame returns the decoded sample frame of a known command
func VectorFrame(cmd CommandType) ([]byte, bool) {
	for i, c := range Commands() {
		if c != cmd {
			continue
		}
		frame, err := hex.DecodeString(NormalizeHex(testVectors[i].Hex))
		if err != nil {
			return nil, false
		}
		return frame, true
	}
	return nil, false
}

// FormatHex renders a frame as space separated uppercase hex
func FormatHex(frame []byte) string {
	var sb strings.Builder
	for i, b := range frame {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
