// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFrame(t *testing.T) {
	rise, _ := psd.VectorFrame(psd.AllRise)

	tests := []struct {
		name     string
		arg      string
		wantName string
		wantErr  string
	}{
		{name: "display name", arg: "全部上升", wantName: "全部上升"},
		{name: "identifier", arg: "all-rise", wantName: "全部上升"},
		{name: "custom hex", arg: "5A027E000408F1030201 80A56DFC", wantName: "全部上升"},
		{name: "custom hex with newline", arg: "5A027E000408F1030201\n80A56DFC", wantName: "全部上升"},
		{name: "valid checksum unknown command", arg: "5A027E000408AA03020180A546F1", wantName: "unknown"},
		{name: "bad checksum", arg: "5A027E000408F1030201 80A50000", wantErr: "checksum verification failed"},
		{name: "too short", arg: "5A02", wantErr: "insufficient frame length"},
		{name: "not hex", arg: "open the doors", wantErr: "hex decode error"},
		{name: "blank", arg: "  ", wantErr: "empty command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := resolveFrame(tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, out.name)
			assert.True(t, psd.VerifyChecksum(out.frame))
			if tt.wantName == "全部上升" {
				assert.Equal(t, rise, out.frame)
			}
		})
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	rec, err := openRecorder("")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, rec.record(capture.Received, []byte{0x01}, psd.ClassifyBytes([]byte{0x01})))
	assert.NoError(t, rec.Close())
}

func TestRecorder_AppendsAndReplays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	stop, _ := psd.VectorFrame(psd.AllStop)
	bad := append([]byte(nil), stop...)
	bad[len(bad)-1] ^= 0xFF

	// Two sessions append to the same file
	for _, frame := range [][]byte{stop, bad} {
		rec, err := openRecorder(path)
		require.NoError(t, err)
		require.NoError(t, rec.record(capture.Sent, stop, psd.ClassifyBytes(stop)))
		require.NoError(t, rec.record(capture.Received, frame, psd.ClassifyBytes(frame)))
		require.NoError(t, rec.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	require.NoError(t, replay(&out, f, true))

	text := out.String()
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("TX [全部停止]")))
	assert.Contains(t, text, "status: parsed (ALL_STOP)")
	assert.Contains(t, text, "error: checksum verification failed")
	assert.Contains(t, text, "Total Frames:           2")
	assert.NotContains(t, text, "note: recorded fault")
}

func TestReplay_SkipsSentByDefault(t *testing.T) {
	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	rise, _ := psd.VectorFrame(psd.AllRise)
	require.NoError(t, w.Write(capture.Record{Direction: capture.Sent, Frame: rise}))

	var out bytes.Buffer
	require.NoError(t, replay(&out, &buf, false))
	assert.NotContains(t, out.String(), "TX [")
	assert.Contains(t, out.String(), "Total Frames:           0")
}

func TestReplay_ReportsChangedClassification(t *testing.T) {
	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	rise, _ := psd.VectorFrame(psd.AllRise)
	require.NoError(t, w.Write(capture.Record{
		Direction: capture.Received,
		Frame:     rise,
		Fault:     uint8(psd.FaultUnrecognized),
	}))

	var out bytes.Buffer
	require.NoError(t, replay(&out, &buf, false))
	assert.Contains(t, out.String(), "note: recorded fault unrecognized, now none")
}
