// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import "bytes"

// CalculateCRC computes the CRC-16/MODBUS register for the given data
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// ComputeChecksum returns the frame checksum for data.
// The controller transmits the register high byte first, the reverse of
// conventional MODBUS order.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	crc := CalculateCRC(data)
	return [ChecksumSize]byte{byte(crc >> 8), byte(crc & 0xFF)}
}

// VerifyChecksum reports whether the last two bytes of frame hold the
// checksum of the bytes before them. Frames shorter than 3 bytes never verify.
func VerifyChecksum(frame []byte) bool {
	if len(frame) < 3 {
		return false
	}
	body := len(frame) - ChecksumSize
	want := ComputeChecksum(frame[:body])
	return bytes.Equal(want[:], frame[body:])
}

// AppendChecksum returns data followed by its checksum
func AppendChecksum(data []byte) []byte {
	sum := ComputeChecksum(data)
	out := make([]byte, 0, len(data)+ChecksumSize)
	out = append(out, data...)
	return append(out, sum[:]...)
}
