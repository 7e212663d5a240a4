// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Thermoquad/psdstat/internal/capture"
	"github.com/Thermoquad/psdstat/pkg/psd"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Log entry shown in the receive or send pane
type logEntry struct {
	timestamp time.Time
	lines     []string
	ok        bool
}

// Debug assistant model
type assistantModel struct {
	conn          io.Writer
	connInfo      string
	rec           *recorder
	stats         *psd.Statistics
	rxLog         []logEntry
	txLog         []logEntry
	maxLogEntries int
	input         textinput.Model
	notice        string
	noticeIsError bool
	connLost      bool
	width         int
	height        int
	quitting      bool
}

// Messages
type assistantTickMsg time.Time
type frameReceivedMsg struct {
	frame []byte
	at    time.Time
}
type frameSentMsg struct {
	name  string
	frame []byte
	at    time.Time
	err   error
}
type connectionLostMsg struct {
	err error
}

func initialAssistantModel(conn io.Writer, connInfo string, rec *recorder) assistantModel {
	ti := textinput.New()
	ti.Placeholder = "custom frame hex, e.g. 5A027E000408F1030201 80A56DFC"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 60

	return assistantModel{
		conn:          conn,
		connInfo:      connInfo,
		rec:           rec,
		stats:         psd.NewStatistics(),
		rxLog:         make([]logEntry, 0),
		txLog:         make([]logEntry, 0),
		maxLogEntries: 100,
		input:         ti,
		width:         100,
		height:        30,
	}
}

func (m assistantModel) Init() tea.Cmd {
	return assistantTickCmd()
}

func assistantTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return assistantTickMsg(t)
	})
}

// sendFrameCmd writes a frame off the UI goroutine
func sendFrameCmd(w io.Writer, out outgoingFrame) tea.Cmd {
	return func() tea.Msg {
		_, err := w.Write(out.frame)
		return frameSentMsg{name: out.name, frame: out.frame, at: time.Now(), err: err}
	}
}

func (m assistantModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case assistantTickMsg:
		m.stats.CalculateRates()
		return m, assistantTickCmd()

	case frameReceivedMsg:
		result := psd.ClassifyBytes(msg.frame)
		m.stats.Update(result)
		if err := m.rec.record(capture.Received, msg.frame, result); err != nil {
			m.setNotice(fmt.Sprintf("capture error: %v", err), true)
		}
		m.rxLog = appendCapped(m.rxLog, receiveEntry(result, msg.at), m.maxLogEntries)

	case frameSentMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("send failed: %v", msg.err), true)
			return m, nil
		}
		if err := m.rec.record(capture.Sent, msg.frame, psd.ClassifyBytes(msg.frame)); err != nil {
			m.setNotice(fmt.Sprintf("capture error: %v", err), true)
		}
		line := strings.TrimSuffix(psd.FormatSent(msg.name, msg.frame, msg.at), "\n")
		m.txLog = appendCapped(m.txLog, logEntry{timestamp: msg.at, lines: []string{line}, ok: true}, m.maxLogEntries)

	case connectionLostMsg:
		m.connLost = true
		m.setNotice(fmt.Sprintf("connection lost: %v", msg.err), true)
	}

	return m, nil
}

func (m assistantModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "1", "2", "3", "4", "5":
		cmds := psd.Commands()
		idx := int(key[0] - '1')
		if idx >= len(cmds) {
			return m, nil
		}
		frame, _ := psd.VectorFrame(cmds[idx])
		return m, sendFrameCmd(m.conn, outgoingFrame{name: cmds[idx].Name(), frame: frame})

	case "i", "tab":
		m.notice = ""
		cmd := m.input.Focus()
		return m, cmd

	case "c":
		m.rxLog = m.rxLog[:0]
		m.txLog = m.txLog[:0]
		m.stats.Reset()
		m.setNotice("logs cleared", false)
	}
	return m, nil
}

func (m assistantModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.setNotice("enter a command first", true)
			return m, nil
		}
		out, err := resolveFrame(text)
		if err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.input.SetValue("")
		m.notice = ""
		return m, sendFrameCmd(m.conn, out)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *assistantModel) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

func receiveEntry(r psd.ParseResult, at time.Time) logEntry {
	text := strings.TrimSuffix(psd.FormatResult(r, at), "\n")
	return logEntry{timestamp: at, lines: strings.Split(text, "\n"), ok: r.ChecksumValid}
}

// appendCapped keeps only the newest max entries
func appendCapped(entries []logEntry, e logEntry, max int) []logEntry {
	entries = append(entries, e)
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	return entries
}

func (m assistantModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	okStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("PSDSTAT - PLATFORM DOOR DEBUG ASSISTANT"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Connection: %s | 'i' custom command | 'c' clear | 'q' quit", m.connInfo)))
	s.WriteString("\n\n")

	// Command keys
	var keys []string
	for i, cmd := range psd.Commands() {
		keys = append(keys, fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("[%d]", i+1)), cmd.Name()))
	}
	s.WriteString(strings.Join(keys, "  "))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")

	if m.notice != "" {
		if m.noticeIsError {
			s.WriteString(errorStyle.Render("✗ " + m.notice))
		} else {
			s.WriteString(okStyle.Render("ℹ " + m.notice))
		}
		s.WriteString("\n")
	}
	if m.connLost {
		s.WriteString(errorStyle.Render("Connection lost, restart to reconnect"))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	// Statistics
	s.WriteString(boxStyle.Render(fmt.Sprintf("%s %d   %s %s   %s %s   %s %.1f frames/s",
		labelStyle.Render("Received:"), m.stats.TotalFrames,
		labelStyle.Render("Valid:"), okStyle.Render(fmt.Sprintf("%d", m.stats.ValidFrames)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.Errors())),
		labelStyle.Render("Rate:"), m.stats.FrameRate,
	)))
	s.WriteString("\n")

	// Logs, newest first
	logHeight := m.height - 16
	if logHeight < 6 {
		logHeight = 6
	}
	paneWidth := (m.width - 6) / 2
	if paneWidth < 30 {
		paneWidth = 30
	}

	render := func(entries []logEntry, empty string) string {
		var b strings.Builder
		lines := 0
		for i := len(entries) - 1; i >= 0 && lines < logHeight; i-- {
			style := okStyle
			if !entries[i].ok {
				style = errorStyle
			}
			for _, line := range entries[i].lines {
				b.WriteString(style.Render(line))
				b.WriteString("\n")
				lines++
			}
		}
		if b.Len() == 0 {
			return headerStyle.Render(empty)
		}
		return b.String()
	}

	rx := labelStyle.Render("Received") + "\n" + render(m.rxLog, "(no frames yet)")
	tx := labelStyle.Render("Sent") + "\n" + render(m.txLog, "(nothing sent)")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Width(paneWidth).Render(rx),
		boxStyle.Width(paneWidth).Render(tx),
	))

	return s.String()
}
