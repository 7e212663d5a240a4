// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package capture

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader_Sequence(t *testing.T) {
	t.Parallel()

	ts := time.UnixMilli(1735822800123)
	rise, ok := psd.VectorFrame(psd.AllRise)
	require.True(t, ok)
	bad := append([]byte(nil), rise...)
	bad[len(bad)-1] = 0x00

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(NewRecord(ts, Sent, rise, psd.ClassifyBytes(rise))))
	require.NoError(t, w.Write(NewRecord(ts.Add(time.Second), Received, bad, psd.ClassifyBytes(bad))))
	assert.Equal(t, 2, w.Count())

	records, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Sent, records[0].Direction)
	assert.Equal(t, rise, records[0].Frame)
	assert.Equal(t, uint8(psd.AllRise), records[0].Command)
	assert.Equal(t, uint8(psd.FaultNone), records[0].Fault)
	assert.True(t, records[0].Time().Equal(ts))

	assert.Equal(t, Received, records[1].Direction)
	assert.Equal(t, uint8(psd.FaultChecksum), records[1].Fault)
	assert.Equal(t, psd.FaultChecksum, psd.ClassifyBytes(records[1].Frame).Fault)
}

func TestNewRecord_CopiesFrame(t *testing.T) {
	t.Parallel()

	frame := []byte{0x01, 0x02, 0x03}
	rec := NewRecord(time.Now(), Received, frame, psd.ClassifyBytes(frame))
	frame[0] = 0xFF

	assert.Equal(t, byte(0x01), rec.Frame[0])
	assert.Equal(t, uint8(psd.FaultLength), rec.Fault)
}

func TestReader_EmptyStream(t *testing.T) {
	t.Parallel()

	_, err := NewReader(bytes.NewReader(nil)).Next()
	assert.Equal(t, io.EOF, err)

	records, err := ReadAll(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReader_Corrupt(t *testing.T) {
	t.Parallel()

	// A CBOR text string where a record map is expected
	_, err := NewReader(bytes.NewReader([]byte{0x63, 'a', 'b', 'c'})).Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestDirection_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RX", Received.String())
	assert.Equal(t, "TX", Sent.String())
}
