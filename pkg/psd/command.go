// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"strings"
)

// CommandType identifies a door command
type CommandType uint8

const (
	Unknown CommandType = iota
	AllRise
	AllDescend
	AllStop
	ShortFormationRise
	ReconnectedTrainRise
)

// UnknownName is the command name reported for unclassified frames
const UnknownName = "unknown"

// Triple is the (action group, sub-type, action) selector at bytes 6-8
type Triple [3]byte

type commandEntry struct {
	cmd    CommandType
	triple Triple
	id     string
	name   string
}

// commandTable is the closed command vocabulary. Each triple appears once.
var commandTable = []commandEntry{
	{AllRise, Triple{GroupAllCars, SubTypeCommand, ActionRise}, "ALL_RISE", "全部上升"},
	{AllDescend, Triple{GroupAllCars, SubTypeCommand, ActionDescend}, "ALL_DESCEND", "全部下降"},
	{AllStop, Triple{GroupAllCars, SubTypeCommand, ActionStop}, "ALL_STOP", "全部停止"},
	{ShortFormationRise, Triple{GroupShortFormation, SubTypeCommand, ActionRise}, "SHORT_FORMATION_RISE", "短编上升"},
	{ReconnectedTrainRise, Triple{GroupReconnectedTrain, SubTypeCommand, ActionRise}, "RECONNECTED_TRAIN_RISE", "重联上升"},
}

func (c CommandType) entry() (commandEntry, bool) {
	for _, e := range commandTable {
		if e.cmd == c {
			return e, true
		}
	}
	return commandEntry{}, false
}

// String returns the identifier of the command (e.g. ALL_RISE)
func (c CommandType) String() string {
	if e, ok := c.entry(); ok {
		return e.id
	}
	return "UNKNOWN"
}

// Name returns the display name the controller documentation uses
func (c CommandType) Name() string {
	if e, ok := c.entry(); ok {
		return e.name
	}
	return UnknownName
}

// Triple returns the selector bytes of a known command
func (c CommandType) Triple() (Triple, bool) {
	e, ok := c.entry()
	return e.triple, ok
}

// Commands returns the known command types in table order
func Commands() []CommandType {
	cmds := make([]CommandType, len(commandTable))
	for i, e := range commandTable {
		cmds[i] = e.cmd
	}
	return cmds
}

// LookupTriple maps selector bytes to a command, Unknown when not in the table
func LookupTriple(t Triple) CommandType {
	for _, e := range commandTable {
		if e.triple == t {
			return e.cmd
		}
	}
	return Unknown
}

// ParseCommandName resolves a command from its display name or identifier.
// Identifiers are case-insensitive and accept '-' in place of '_'.
func ParseCommandName(s string) (CommandType, bool) {
	s = strings.TrimSpace(s)
	id := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for _, e := range commandTable {
		if s == e.name || id == e.id {
			return e.cmd, true
		}
	}
	return Unknown, false
}
