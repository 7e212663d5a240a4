// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import "errors"

// Fault classifies why a frame was not recognized
type Fault int

const (
	FaultNone Fault = iota
	FaultDecode
	FaultLength
	FaultChecksum
	FaultUnrecognized
)

// Error messages carried in ParseResult.ErrorMessage
const (
	msgDecodePrefix = "hex decode error: "
	MsgLength       = "insufficient frame length"
	MsgChecksum     = "checksum verification failed"
	MsgUnrecognized = "checksum valid but command unrecognized"
)

// Sentinel errors matched by FrameError through errors.Is
var (
	ErrDecode       = errors.New("hex decode error")
	ErrLength       = errors.New(MsgLength)
	ErrChecksum     = errors.New(MsgChecksum)
	ErrUnrecognized = errors.New(MsgUnrecognized)
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultDecode:
		return "decode"
	case FaultLength:
		return "length"
	case FaultChecksum:
		return "checksum"
	case FaultUnrecognized:
		return "unrecognized"
	default:
		return "invalid"
	}
}

func (f Fault) sentinel() error {
	switch f {
	case FaultDecode:
		return ErrDecode
	case FaultLength:
		return ErrLength
	case FaultChecksum:
		return ErrChecksum
	case FaultUnrecognized:
		return ErrUnrecognized
	default:
		return nil
	}
}

// FrameError describes a frame that failed classification
type FrameError struct {
	Fault   Fault
	Message string
}

// Error implements the error interface
func (e *FrameError) Error() string {
	return e.Message
}

// Is matches the sentinel error of the fault
func (e *FrameError) Is(target error) bool {
	return target != nil && target == e.Fault.sentinel()
}
