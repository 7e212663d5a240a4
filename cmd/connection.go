// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// maxFrameBytes bounds a gap-delimited frame on a line that never goes idle
const maxFrameBytes = 512

// Connection carries door controller frames over serial or WebSocket
type Connection interface {
	io.Reader
	io.Writer
	io.Closer

	// ReadFrame blocks until one complete frame has been received
	ReadFrame() ([]byte, error)
}

// ErrConnectionClosed is returned when reading from a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// timeoutReader is the subset of serial.Port used for gap delimiting
type timeoutReader interface {
	io.Reader
	SetReadTimeout(t time.Duration) error
}

// gapFramer splits a byte stream into frames at idle periods. The door
// controller sends one frame per burst, so a quiet line ends a frame.
type gapFramer struct {
	r       timeoutReader
	gap     time.Duration
	pending []byte
	buf     []byte
}

func newGapFramer(r timeoutReader, gap time.Duration) (*gapFramer, error) {
	if err := r.SetReadTimeout(gap); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return &gapFramer{r: r, gap: gap, buf: make([]byte, 128)}, nil
}

func (g *gapFramer) ReadFrame() ([]byte, error) {
	for {
		n, err := g.r.Read(g.buf)
		if n > 0 {
			g.pending = append(g.pending, g.buf[:n]...)
			if len(g.pending) >= maxFrameBytes {
				return g.flush(), nil
			}
		}
		if err != nil {
			if len(g.pending) > 0 {
				return g.flush(), nil
			}
			return nil, err
		}
		// A timed out read returns no bytes
		if n == 0 && len(g.pending) > 0 {
			return g.flush(), nil
		}
	}
}

func (g *gapFramer) flush() []byte {
	frame := g.pending
	g.pending = nil
	return frame
}

// SerialConnection wraps a serial port
type SerialConnection struct {
	port   serial.Port
	framer *gapFramer
}

func (s *SerialConnection) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialConnection) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialConnection) Close() error {
	return s.port.Close()
}

func (s *SerialConnection) ReadFrame() ([]byte, error) {
	return s.framer.ReadFrame()
}

// WebSocketConnection wraps a WebSocket connection to a serial bridge.
// Each binary message carries one frame.
type WebSocketConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool // Track if connection has failed/closed
}

func (w *WebSocketConnection) nextMessage() ([]byte, error) {
	if w.closed {
		return nil, ErrConnectionClosed
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return nil, ErrConnectionClosed
		}

		// Text messages are bridge status chatter
		if messageType != websocket.BinaryMessage {
			continue
		}
		return data, nil
	}
}

func (w *WebSocketConnection) Read(p []byte) (int, error) {
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	data, err := w.nextMessage()
	if err != nil {
		return 0, err
	}
	w.buf = data
	n := copy(p, w.buf)
	w.bufOffset = n
	return n, nil
}

func (w *WebSocketConnection) ReadFrame() ([]byte, error) {
	// Drain a message partially consumed through Read first
	if w.bufOffset < len(w.buf) {
		rest := w.buf[w.bufOffset:]
		w.bufOffset = len(w.buf)
		return rest, nil
	}
	return w.nextMessage()
}

func (w *WebSocketConnection) Write(p []byte) (int, error) {
	err := w.conn.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketConnection) Close() error {
	return w.conn.Close()
}

// OpenSerialConnection opens a serial port connection
func OpenSerialConnection(portName string, baudRate int, gap time.Duration) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	framer, err := newGapFramer(port, gap)
	if err != nil {
		port.Close()
		return nil, err
	}

	return &SerialConnection{port: port, framer: framer}, nil
}

// OpenWebSocketConnection opens a WebSocket connection with HTTP Basic auth
func OpenWebSocketConnection(wsURL, username, password string, skipSSLVerify bool) (Connection, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return &WebSocketConnection{conn: conn}, nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	if pw := os.Getenv("PSD_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal, read a plain line
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenConnection opens either a serial or WebSocket connection based on flags
func OpenConnection() (Connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := OpenSerialConnection(portName, baudRate, frameGap)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}
