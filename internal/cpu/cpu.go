// Package cpu implements the LR35902 instruction set: the register
// file, ALU flag rules, the primary and CB-prefixed opcode tables, and
// the fetch/decode/execute/interrupt-service master step
// (SPEC_FULL.md §4.5).
package cpu

import (
	"github.com/merenut/dmgcore/internal/interrupts"
	"github.com/merenut/dmgcore/pkg/log"
)

// Bus is the memory interface the CPU executes against. The MMU
// satisfies it.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// interruptSource is the subset of *interrupts.Controller the CPU
// drives directly.
type interruptSource interface {
	Pending() bool
	TryGetPending() (interrupts.Source, bool)
	Service(src interrupts.Source) uint16
}

const interruptServiceCycles = 20

// CPU holds the LR35902 register file and execution state.
type CPU struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16

	bus Bus
	irq interruptSource
	Log log.Logger

	ime        bool
	imeDelay   int // 0 = no pending change; counts down instructions after EI
	halted     bool
	haltBug    bool
	stopped    bool
	lastCycles uint16

	// Breakpoint is invoked, if set, whenever the CPU is about to
	// execute the trap opcode (LD B,B). Supplements spec.md with a
	// debug hook per SPEC_FULL.md §12.
	Breakpoint func(pc uint16)
}

// New returns a CPU wired to bus for memory access and irq for
// interrupt delivery, with the post-boot-ROM register state
// (SPEC_FULL.md §4.5, Open Question OQ-1: boot ROM is out of scope,
// so Step begins from the documented post-boot state).
func New(bus Bus, irq interruptSource) *CPU {
	c := &CPU{
		A: 0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		SP: 0xFFFE,
		PC: 0x0100,

		bus: bus,
		irq: irq,
		Log: log.Nop(),
	}
	return c
}

func (c *CPU) readByte(addr uint16) uint8        { return c.bus.Read(addr) }
func (c *CPU) writeByte(addr uint16, v uint8)    { c.bus.Write(addr, v) }
func (c *CPU) readWord(addr uint16) uint16       { return uint16(c.readByte(addr)) | uint16(c.readByte(addr+1))<<8 }
func (c *CPU) writeWord(addr uint16, v uint16) {
	c.writeByte(addr, uint8(v))
	c.writeByte(addr+1, uint8(v>>8))
}

func (c *CPU) fetch8() uint8 {
	v := c.readByte(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) push(v uint16) {
	c.SP -= 2
	c.writeWord(c.SP, v)
}

func (c *CPU) pop() uint16 {
	v := c.readWord(c.SP)
	c.SP += 2
	return v
}

// IME reports whether interrupts are currently enabled.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is parked in HALT.
func (c *CPU) Halted() bool { return c.halted }

// Step executes exactly one instruction (or one halted/stalled tick)
// and returns the number of master cycles it consumed. Interrupt
// service, when it fires, is its own 20-cycle step.
func (c *CPU) Step() uint16 {
	if n, serviced := c.serviceInterrupt(); serviced {
		return n
	}

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			return 4 // parked, burns one NOP-equivalent tick
		}
	}

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	pc := c.PC
	opcode := c.fetch8()
	if opcode == 0x40 { // LD B,B: debug trap
		c.Log.Debugf("breakpoint hit at %#04x: %s", pc, describeOpcode(opcode))
		if c.Breakpoint != nil {
			c.Breakpoint(pc)
		}
	}
	if c.haltBug {
		// the HALT bug fails to increment PC past the opcode that
		// follows a HALT executed with IME=0 and a pending interrupt
		c.PC--
		c.haltBug = false
	}

	c.lastCycles = 0
	c.execute(opcode)

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}
	return c.lastCycles
}

// serviceInterrupt handles one pending interrupt if IME is set and a
// source is pending. Returns the fixed 20-cycle cost and true when it
// did so.
func (c *CPU) serviceInterrupt() (uint16, bool) {
	if !c.ime || !c.irq.Pending() {
		return 0, false
	}
	src, ok := c.irq.TryGetPending()
	if !ok {
		return 0, false
	}
	c.ime = false
	c.halted = false
	vector := c.irq.Service(src)
	c.push(c.PC)
	c.PC = vector
	return interruptServiceCycles, true
}

// requestEnableIME arms IME to flip on after the instruction following
// EI finishes (the one-instruction delay is architectural).
func (c *CPU) requestEnableIME() { c.imeDelay = 1 }

// enterHalt parks the CPU, applying the halt-bug quirk when IME is
// clear but an interrupt is already pending at the moment of HALT.
func (c *CPU) enterHalt() {
	if !c.ime && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}
