// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package psd implements the command frame codec of the platform screen door
// controller serial protocol.
//
// A frame is a fixed 6-byte header, an action group / sub-type / action
// triple selecting the command, an opaque payload and a trailing CRC-16
// (MODBUS register, transmitted high byte first). All functions in this
// package are pure and safe for concurrent use.
package psd

// Frame layout
const (
	HeaderSize     = 6
	ChecksumSize   = 2
	MinFrameLength = 14

	OffsetActionGroup = 6
	OffsetSubType     = 7
	OffsetAction      = 8
	OffsetPayload     = 9
)

// Header is the fixed prefix of every classifiable frame.
var Header = [HeaderSize]byte{0x5A, 0x02, 0x7E, 0x00, 0x04, 0x08}

// Action groups (byte 6)
const (
	GroupAllCars          = 0xF1
	GroupShortFormation   = 0xD1
	GroupReconnectedTrain = 0xE1
)

// SubTypeCommand is the sub-type marker (byte 7) shared by all known commands.
const SubTypeCommand = 0x03

// Actions (byte 8)
const (
	ActionDescend = 0x01
	ActionRise    = 0x02
	ActionStop    = 0x03
)

// CRC-16/MODBUS configuration
const (
	crcPolynomial = 0xA001
	crcInitial    = 0xFFFF
)
