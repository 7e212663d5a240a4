// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/psdstat/pkg/psd"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("port gone")
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// step applies msg and executes the returned command once, feeding its
// message back into the model
func step(t *testing.T, m assistantModel, msg tea.Msg) assistantModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(assistantModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isSent := out.(frameSentMsg); isSent {
				next, _ = m.Update(out)
				m = next.(assistantModel)
			}
		}
	}
	return m
}

func TestAssistant_SendsSampleCommands(t *testing.T) {
	var wire bytes.Buffer
	m := initialAssistantModel(&wire, "test", nil)

	m = step(t, m, runeKey('1'))
	m = step(t, m, runeKey('5'))

	rise, _ := psd.VectorFrame(psd.AllRise)
	reconnect, _ := psd.VectorFrame(psd.ReconnectedTrainRise)
	assert.Equal(t, append(append([]byte(nil), rise...), reconnect...), wire.Bytes())

	require.Len(t, m.txLog, 2)
	assert.Contains(t, m.txLog[0].lines[0], "TX [全部上升]")
	assert.Contains(t, m.txLog[1].lines[0], "TX [重联上升]")
}

func TestAssistant_CustomCommandValidation(t *testing.T) {
	var wire bytes.Buffer
	m := initialAssistantModel(&wire, "test", nil)

	// Focus returns a cursor blink command, which is not run here
	next, _ := m.Update(runeKey('i'))
	m = next.(assistantModel)
	require.True(t, m.input.Focused())

	m.input.SetValue("5A027E000408F1030201 80A50000")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Zero(t, wire.Len(), "invalid frame must not be sent")
	assert.True(t, m.noticeIsError)
	assert.Contains(t, m.notice, "checksum verification failed")

	m.input.SetValue("5A027E000408F1030301 81A501FC")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	stop, _ := psd.VectorFrame(psd.AllStop)
	assert.Equal(t, stop, wire.Bytes())
	assert.Empty(t, m.input.Value())
	require.Len(t, m.txLog, 1)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.input.Focused())
}

func TestAssistant_ReceivedFrames(t *testing.T) {
	m := initialAssistantModel(&bytes.Buffer{}, "test", nil)
	now := time.Now()

	descend, _ := psd.VectorFrame(psd.AllDescend)
	m = step(t, m, frameReceivedMsg{frame: descend, at: now})
	m = step(t, m, frameReceivedMsg{frame: []byte{0x5A, 0x02}, at: now})

	require.Len(t, m.rxLog, 2)
	assert.True(t, m.rxLog[0].ok)
	assert.False(t, m.rxLog[1].ok)
	assert.Contains(t, strings.Join(m.rxLog[0].lines, "\n"), "command: 全部下降")
	assert.Contains(t, strings.Join(m.rxLog[1].lines, "\n"), "insufficient frame length")

	assert.Equal(t, uint64(2), m.stats.TotalFrames)
	assert.Equal(t, uint64(1), m.stats.ValidFrames)
	assert.Equal(t, uint64(1), m.stats.LengthErrors)

	view := m.View()
	assert.Contains(t, view, "全部下降")
	assert.Contains(t, view, "insufficient frame length")
}

func TestAssistant_LogIsCapped(t *testing.T) {
	m := initialAssistantModel(&bytes.Buffer{}, "test", nil)
	m.maxLogEntries = 3

	for i := 0; i < 10; i++ {
		m = step(t, m, frameReceivedMsg{frame: []byte{byte(i)}, at: time.Now()})
	}
	assert.Len(t, m.rxLog, 3)
	assert.Equal(t, uint64(10), m.stats.TotalFrames)
}

func TestAssistant_ClearAndErrors(t *testing.T) {
	m := initialAssistantModel(failingWriter{}, "test", nil)

	m = step(t, m, runeKey('3'))
	assert.True(t, m.noticeIsError)
	assert.Contains(t, m.notice, "send failed: port gone")
	assert.Empty(t, m.txLog)

	m = step(t, m, frameReceivedMsg{frame: []byte{0x01}, at: time.Now()})
	m = step(t, m, runeKey('c'))
	assert.Empty(t, m.rxLog)
	assert.Zero(t, m.stats.TotalFrames)
	assert.False(t, m.noticeIsError)

	m = step(t, m, connectionLostMsg{err: ErrConnectionClosed})
	assert.True(t, m.connLost)
	assert.Contains(t, m.View(), "Connection lost")
}

func TestAssistant_Quit(t *testing.T) {
	m := initialAssistantModel(&bytes.Buffer{}, "test", nil)
	next, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.True(t, next.(assistantModel).quitting)
}
