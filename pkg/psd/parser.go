// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"bytes"
	"encoding/hex"
	"strings"
)

// ParseResult is the outcome of classifying one frame
type ParseResult struct {
	ChecksumValid bool
	Command       CommandType
	CommandName   string
	ErrorMessage  string // empty when the frame is a known command
	OriginalHex   string
	Fault         Fault
}

// Recognized reports whether the frame is a known command with a valid checksum
func (r ParseResult) Recognized() bool {
	return r.ChecksumValid && r.Command != Unknown
}

// Err returns the classification failure as an error, or nil
func (r ParseResult) Err() error {
	if r.Fault == FaultNone {
		return nil
	}
	return &FrameError{Fault: r.Fault, Message: r.ErrorMessage}
}

func failure(fault Fault, msg, original string) ParseResult {
	return ParseResult{
		ChecksumValid: fault == FaultUnrecognized,
		Command:       Unknown,
		CommandName:   UnknownName,
		ErrorMessage:  msg,
		OriginalHex:   original,
		Fault:         fault,
	}
}

// NormalizeHex removes spaces and uppercases hex text
func NormalizeHex(hexText string) string {
	return strings.ToUpper(strings.ReplaceAll(hexText, " ", ""))
}

// Classify decodes hex text and classifies the frame it contains.
// It never fails: every problem is reported in the returned result.
func Classify(hexText string) ParseResult {
	data, err := hex.DecodeString(NormalizeHex(hexText))
	if err != nil {
		return failure(FaultDecode, msgDecodePrefix+err.Error(), hexText)
	}
	return classify(data, hexText)
}

// ClassifyBytes classifies an already decoded frame
func ClassifyBytes(frame []byte) ParseResult {
	return classify(frame, strings.ToUpper(hex.EncodeToString(frame)))
}

func classify(data []byte, original string) ParseResult {
	if len(data) < MinFrameLength {
		return failure(FaultLength, MsgLength, original)
	}

	if !VerifyChecksum(data) {
		return failure(FaultChecksum, MsgChecksum, original)
	}

	cmd := Unknown
	if bytes.Equal(data[:HeaderSize], Header[:]) {
		cmd = LookupTriple(Triple{data[OffsetActionGroup], data[OffsetSubType], data[OffsetAction]})
	}
	if cmd == Unknown {
		return failure(FaultUnrecognized, MsgUnrecognized, original)
	}

	return ParseResult{
		ChecksumValid: true,
		Command:       cmd,
		CommandName:   cmd.Name(),
		OriginalHex:   original,
		Fault:         FaultNone,
	}
}

// TestVector is a pre-validated sample frame for one known command
type TestVector struct {
	Hex  string
	Name string
}

var testVectors = []TestVector{
	{"5A027E000408F1030201 80A56DFC", "全部上升"},
	{"5A027E000408F1030101 7FA5D9BD", "全部下降"},
	{"5A027E000408F1030301 81A501FC", "全部停止"},
	{"5A027E000408D1030201 60A5CDB2", "短编上升"},
	{"5A027E000408E1030201 70A5FDBA", "重联上升"},
}

// TestVectors returns one sample frame per known command, in table order
func TestVectors() []TestVector {
	out := make([]TestVector, len(testVectors))
	copy(out, testVectors)
	return out
}
