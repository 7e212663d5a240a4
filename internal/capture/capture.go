// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package capture reads and writes frame capture files.
//
// A capture file is a CBOR sequence of Record values, one per frame seen on
// the link, in arrival order.
package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/fxamacker/cbor/v2"
)

// Direction of a captured frame
type Direction uint8

const (
	Received Direction = iota
	Sent
)

func (d Direction) String() string {
	if d == Sent {
		return "TX"
	}
	return "RX"
}

// Record is one captured frame
type Record struct {
	UnixMilli int64     `cbor:"0,keyasint"`
	Direction Direction `cbor:"1,keyasint"`
	Frame     []byte    `cbor:"2,keyasint"`
	Command   uint8     `cbor:"3,keyasint,omitempty"`
	Fault     uint8     `cbor:"4,keyasint,omitempty"`
}

// NewRecord builds a record from a frame and its classification
func NewRecord(ts time.Time, dir Direction, frame []byte, r psd.ParseResult) Record {
	return Record{
		UnixMilli: ts.UnixMilli(),
		Direction: dir,
		Frame:     append([]byte(nil), frame...),
		Command:   uint8(r.Command),
		Fault:     uint8(r.Fault),
	}
}

// Time returns the capture timestamp
func (r Record) Time() time.Time {
	return time.UnixMilli(r.UnixMilli)
}

// Writer appends records to a capture stream
type Writer struct {
	enc   *cbor.Encoder
	count int
}

// NewWriter creates a capture writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write encodes one record
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode capture record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records written
func (w *Writer) Count() int {
	return w.count
}

// Reader iterates the records of a capture stream
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a capture reader on r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to decode capture record: %w", err)
	}
	return rec, nil
}

// ReadAll returns every record in the stream
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	var records []Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
