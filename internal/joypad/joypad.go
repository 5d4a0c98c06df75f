// Package joypad models the Game Boy's eight-button input state and
// its JOYP (0xFF00) register contract.
package joypad

import "github.com/merenut/dmgcore/internal/interrupts"

// Button identifies one of the eight physical inputs.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad tracks pressed-button state and the JOYP select bits.
type Joypad struct {
	pressed   [8]bool
	selectReg uint8 // raw JOYP bits 4-5 as last written; 0 means selected

	irq *interrupts.Controller
}

// New returns a Joypad with no buttons pressed, wired to irq for
// Joypad-interrupt requests on a press edge.
func New(irq *interrupts.Controller) *Joypad {
	return &Joypad{irq: irq}
}

// SetPressed sets the pressed state of btn. A false->true transition
// requests the Joypad interrupt (SPEC_FULL.md §4.8).
func (j *Joypad) SetPressed(btn Button, pressed bool) {
	if pressed && !j.pressed[btn] {
		j.irq.Request(interrupts.Joypad)
	}
	j.pressed[btn] = pressed
}

// Read returns the JOYP register (0xFF00) as the CPU observes it:
// bits 6-7 always read 1; bits 4-5 reflect the write-selected group;
// bits 0-3 reflect the selected group's button state, forced to 1
// (not pressed) when neither group is selected.
func (j *Joypad) Read() uint8 {
	selectDirections := j.selectReg&0x10 == 0
	selectActions := j.selectReg&0x20 == 0

	lower := uint8(0x0F)
	if selectDirections {
		lower &^= boolBit(j.pressed[Right], 0)
		lower &^= boolBit(j.pressed[Left], 1)
		lower &^= boolBit(j.pressed[Up], 2)
		lower &^= boolBit(j.pressed[Down], 3)
	}
	if selectActions {
		lower &^= boolBit(j.pressed[A], 0)
		lower &^= boolBit(j.pressed[B], 1)
		lower &^= boolBit(j.pressed[Select], 2)
		lower &^= boolBit(j.pressed[Start], 3)
	}
	return 0xC0 | j.selectReg | lower
}

func boolBit(v bool, bit uint8) uint8 {
	if v {
		return 1 << bit
	}
	return 0
}

// Write updates the JOYP select bits; only bits 4-5 are writable.
func (j *Joypad) Write(v uint8) {
	j.selectReg = v & 0x30
}
