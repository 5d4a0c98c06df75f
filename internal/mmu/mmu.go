// Package mmu implements the Game Boy's memory map: address decoding
// across cartridge, VRAM, WRAM, OAM, HRAM and I/O registers, plus the
// masking and echo rules each region carries.
package mmu

import (
	"github.com/merenut/dmgcore/internal/cartridge"
	"github.com/merenut/dmgcore/internal/interrupts"
	"github.com/merenut/dmgcore/internal/joypad"
	"github.com/merenut/dmgcore/internal/ppu"
	"github.com/merenut/dmgcore/internal/serial"
	"github.com/merenut/dmgcore/internal/timer"
	"github.com/merenut/dmgcore/pkg/log"
)

// MMU owns WRAM and HRAM directly, and routes everything else
// (cartridge, VRAM/OAM, I/O registers) to the component that owns it.
type MMU struct {
	cart *cartridge.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF, 8 KiB
	hram [0x7F]byte   // 0xFF80-0xFFFE, 127 bytes

	PPU     *ppu.PPU
	Timer   *timer.Timer
	Joypad  *joypad.Joypad
	Serial  *serial.Controller
	IRQ     *interrupts.Controller
	DMA     *ppu.DMA

	Log log.Logger
}

// New wires an MMU around the given cartridge and subsystem handles.
// Any subsystem argument may be nil for tests that only exercise
// address decoding over WRAM/HRAM/cartridge.
func New(cart *cartridge.Cartridge, irq *interrupts.Controller, p *ppu.PPU, t *timer.Timer, jp *joypad.Joypad, sr *serial.Controller) *MMU {
	m := &MMU{
		cart:   cart,
		PPU:    p,
		Timer:  t,
		Joypad: jp,
		Serial: sr,
		IRQ:    irq,
		Log:    log.Nop(),
	}
	if p != nil {
		m.DMA = ppu.NewDMA(p, m)
	}
	return m
}

// Cartridge returns the currently attached cartridge, or nil.
func (m *MMU) Cartridge() *cartridge.Cartridge { return m.cart }

// SetCartridge attaches (or detaches, with nil) a cartridge.
func (m *MMU) SetCartridge(c *cartridge.Cartridge) { m.cart = c }

// ReadBusByte satisfies ppu.dmaSource: DMA reads its source page
// through the regular address-decoding path, handling the OAM
// self-read wraparound by walking through Read like any other
// caller would.
func (m *MMU) ReadBusByte(addr uint16) uint8 {
	return m.Read(addr)
}

// Read returns the byte at addr, applying every region's masking and
// echo rules (SPEC_FULL.md §3, §4.1).
func (m *MMU) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.ReadROM(addr)
	case addr <= 0x9FFF:
		return m.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.ReadRAM(addr)
	case addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return m.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return m.PPU.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr <= 0xFF7F:
		return m.readIO(addr)
	case addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	default: // 0xFFFF
		return m.IRQ.Enable
	}
}

// Write stores value at addr, applying every region's masking and
// echo rules.
func (m *MMU) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF:
		if m.cart != nil {
			m.cart.WriteROM(addr, value)
		}
	case addr <= 0x9FFF:
		m.PPU.WriteVRAM(addr, value)
	case addr <= 0xBFFF:
		if m.cart != nil {
			m.cart.WriteRAM(addr, value)
		}
	case addr <= 0xDFFF:
		m.wram[addr-0xC000] = value
	case addr <= 0xFDFF:
		m.Log.Debugf("mmu: write to echo RAM at %#04x", addr)
		m.wram[addr-0xE000] = value
	case addr <= 0xFE9F:
		m.PPU.WriteOAM(addr, value)
	case addr <= 0xFEFF:
		// unusable; writes discarded
	case addr <= 0xFF7F:
		m.writeIO(addr, value)
	case addr <= 0xFFFE:
		m.hram[addr-0xFF80] = value
	default: // 0xFFFF
		m.IRQ.Enable = value
	}
}

// ReadWord / WriteWord perform little-endian 16-bit memory access.
func (m *MMU) ReadWord(addr uint16) uint16 {
	lo := uint16(m.Read(addr))
	hi := uint16(m.Read(addr + 1))
	return lo | hi<<8
}

func (m *MMU) WriteWord(addr uint16, v uint16) {
	m.Write(addr, uint8(v&0xFF))
	m.Write(addr+1, uint8(v>>8))
}

// StepDMA advances the DMA engine's advisory active-window countdown.
func (m *MMU) StepDMA(cycles uint16) {
	if m.DMA != nil {
		m.DMA.Step(cycles)
	}
}
