// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"fmt"
	"time"
)

// Statistics tracks frame counts and error rates for a monitoring session.
// Not safe for concurrent use; owners serialize updates.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames    uint64
	ValidFrames    uint64
	DecodeErrors   uint64
	LengthErrors   uint64
	ChecksumErrors uint64
	Unrecognized   uint64
	ByCommand      map[CommandType]uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		ByCommand:      make(map[CommandType]uint64),
	}
}

// Update counts one classified frame
func (s *Statistics) Update(r ParseResult) {
	s.TotalFrames++

	switch r.Fault {
	case FaultNone:
		s.ValidFrames++
		s.ByCommand[r.Command]++
	case FaultDecode:
		s.DecodeErrors++
	case FaultLength:
		s.LengthErrors++
	case FaultChecksum:
		s.ChecksumErrors++
	case FaultUnrecognized:
		s.Unrecognized++
	}

	s.LastUpdateTime = time.Now()
}

// Errors returns the number of frames that were not recognized commands
func (s *Statistics) Errors() uint64 {
	return s.DecodeErrors + s.LengthErrors + s.ChecksumErrors + s.Unrecognized
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

func percent(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100.0 / float64(total)
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, percent(s.ValidFrames, s.TotalFrames))

	for _, cmd := range Commands() {
		if n := s.ByCommand[cmd]; n > 0 {
			result += fmt.Sprintf("  %-22s %5d\n", cmd.String()+":", n)
		}
	}

	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, percent(s.DecodeErrors, s.TotalFrames))
	}
	if s.LengthErrors > 0 {
		result += fmt.Sprintf("Length Errors:   %8d (%.1f%%)\n", s.LengthErrors, percent(s.LengthErrors, s.TotalFrames))
	}
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d (%.1f%%)\n", s.ChecksumErrors, percent(s.ChecksumErrors, s.TotalFrames))
	}
	if s.Unrecognized > 0 {
		result += fmt.Sprintf("Unrecognized:    %8d (%.1f%%)\n", s.Unrecognized, percent(s.Unrecognized, s.TotalFrames))
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
