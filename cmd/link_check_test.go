// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/stretchr/testify/assert"
)

func TestLinkReport(t *testing.T) {
	var report linkReport
	rise, _ := psd.VectorFrame(psd.AllRise)

	assert.Equal(t, "全部上升", report.add(rise).CommandName)
	assert.False(t, report.add([]byte{0x5A, 0x02, 0x7E}).ChecksumValid)

	assert.Equal(t, 2, report.Frames)
	assert.Equal(t, 1, report.ValidFrames)
	assert.Equal(t, len(rise)+3, report.Bytes)

	var out bytes.Buffer
	report.write(&out, 1500*time.Millisecond, "PASSED (link stable)")
	assert.Contains(t, out.String(), "Duration: 1.5s")
	assert.Contains(t, out.String(), "Frames received: 2 (1 with valid checksum)")
	assert.Contains(t, out.String(), "Bytes received: 17")
	assert.Contains(t, out.String(), "Result: PASSED (link stable)")
}
