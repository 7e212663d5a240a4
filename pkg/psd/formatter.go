// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"fmt"
	"strings"
	"time"
)

// FormatResult formats a received frame and its classification as a
// multi-line log block
func FormatResult(r ParseResult, ts time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] RX: %s\n", ts.Format("15:04:05.000"), r.OriginalHex)
	fmt.Fprintf(&sb, "  ├─ command: %s\n", r.CommandName)
	if r.ChecksumValid {
		sb.WriteString("  ├─ checksum: PASS ✓\n")
	} else {
		sb.WriteString("  ├─ checksum: FAIL ✗\n")
	}

	switch {
	case r.ErrorMessage != "":
		fmt.Fprintf(&sb, "  └─ error: %s\n", r.ErrorMessage)
	case r.Recognized():
		fmt.Fprintf(&sb, "  └─ status: parsed (%s)\n", r.Command)
	}

	return sb.String()
}

// FormatSent formats a transmitted frame as a single log line
func FormatSent(name string, frame []byte, ts time.Time) string {
	return fmt.Sprintf("[%s] TX [%s]: %s\n", ts.Format("15:04:05.000"), name, FormatHex(frame))
}
