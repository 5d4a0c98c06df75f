// Package ppu implements the Game Boy's pixel-processing unit: the
// mode state machine (OAM scan / drawing / HBlank / VBlank), the
// STAT/LY/LYC register contract, and the scanline renderer that
// composes background, window and sprites into an RGBA frame buffer.
package ppu

import (
	"image/color"

	"github.com/cespare/xxhash"
	"github.com/merenut/dmgcore/internal/bits"
	"github.com/merenut/dmgcore/internal/interrupts"
)

// Screen dimensions in pixels.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode is one of the four PPU modes exposed through STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = 0
	VBlank Mode = 1
	OAMScan Mode = 2
	Drawing Mode = 3
)

// Per-scanline cycle budget (SPEC_FULL.md §4.6).
const (
	oamScanCycles  = 80
	drawingCycles  = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + drawingCycles + hblankCycles // 456
	visibleLines   = 144
	totalLines     = 154
	// FrameCycles is the number of master cycles in one full frame.
	FrameCycles = scanlineCycles * totalLines // 70224
)

// spriteEntry is one decoded OAM sprite candidate for the scanline
// currently being composed.
type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         int
}

// PPU holds VRAM, OAM, the LCD registers, and the mode FSM.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat         uint8
	scy, scx           uint8
	ly, lyc            uint8
	bgp, obp0, obp1    uint8
	wy, wx             uint8

	mode         Mode
	cycle        uint16
	frame        [ScreenHeight][ScreenWidth]color.RGBA
	frameReady   bool
	windowLine   uint8 // internal window-line counter, advances only on lines the window was drawn

	irq *interrupts.Controller
}

// New returns a PPU wired to irq for VBlank/LCDStat interrupt
// requests, with LY/mode reset as if the LCD had just been enabled.
func New(irq *interrupts.Controller) *PPU {
	return &PPU{irq: irq, mode: OAMScan}
}

// ReadVRAM / WriteVRAM expose the 8 KiB VRAM window (0x8000-0x9FFF).
func (p *PPU) ReadVRAM(addr uint16) uint8    { return p.vram[addr&0x1FFF] }
func (p *PPU) WriteVRAM(addr uint16, v uint8) { p.vram[addr&0x1FFF] = v }

// ReadOAM / WriteOAM expose the 160-byte OAM window (0xFE00-0xFE9F).
func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr&0xFF]
}
func (p *PPU) WriteOAM(addr uint16, v uint8) {
	p.oam[addr&0xFF] = v
}

// OAMBytes returns a pointer to the backing OAM array.
func (p *PPU) OAMBytes() *[0xA0]byte { return &p.oam }

// --- register access ---

func (p *PPU) ReadLCDC() uint8   { return p.lcdc }
func (p *PPU) WriteLCDC(v uint8) {
	wasOn := bits.Test(p.lcdc, 7)
	p.lcdc = v
	if !bits.Test(v, 7) {
		// LCD disable: reset LY and force mode 0, per SPEC_FULL.md §4.6.
		p.ly = 0
		p.cycle = 0
		p.mode = HBlank
	} else if !wasOn {
		// re-enabling resumes at line 0 in OAM scan.
		p.ly = 0
		p.cycle = 0
		p.mode = OAMScan
	}
}

func (p *PPU) enabled() bool { return bits.Test(p.lcdc, 7) }

// ReadSTAT returns STAT with bit 7 forced high and bits 0-2 reflecting
// live mode/coincidence state.
func (p *PPU) ReadSTAT() uint8 {
	v := p.stat&0x78 | 0x80
	v |= uint8(p.mode) & 0x03
	if p.ly == p.lyc {
		v |= 0x04
	}
	return v
}

// WriteSTAT writes the interrupt-enable bits of STAT; bits 0-2 are
// read-only (set by the PPU itself).
func (p *PPU) WriteSTAT(v uint8) {
	p.stat = v & 0x78
}

func (p *PPU) ReadLY() uint8 { return p.ly }

func (p *PPU) ReadLYC() uint8   { return p.lyc }
func (p *PPU) WriteLYC(v uint8) { p.lyc = v }

func (p *PPU) ReadSCY() uint8   { return p.scy }
func (p *PPU) WriteSCY(v uint8) { p.scy = v }
func (p *PPU) ReadSCX() uint8   { return p.scx }
func (p *PPU) WriteSCX(v uint8) { p.scx = v }
func (p *PPU) ReadWY() uint8    { return p.wy }
func (p *PPU) WriteWY(v uint8)  { p.wy = v }
func (p *PPU) ReadWX() uint8    { return p.wx }
func (p *PPU) WriteWX(v uint8)  { p.wx = v }

func (p *PPU) ReadBGP() uint8    { return p.bgp }
func (p *PPU) WriteBGP(v uint8)  { p.bgp = v }
func (p *PPU) ReadOBP0() uint8   { return p.obp0 }
func (p *PPU) WriteOBP0(v uint8) { p.obp0 = v }
func (p *PPU) ReadOBP1() uint8   { return p.obp1 }
func (p *PPU) WriteOBP1(v uint8) { p.obp1 = v }

// CurrentMode reports the PPU's current mode (for tests and contention
// checks elsewhere in the core).
func (p *PPU) CurrentMode() Mode { return p.mode }

// --- mode FSM ---

// checkStatInterrupt computes the OR of every currently-active
// STAT interrupt source and requests LCDStat if it is set. It keeps no
// line state: it is called at each mode or LY change and requests
// again on every such call while a source stays active.
func (p *PPU) checkStatInterrupt() {
	fire := false
	if p.ly == p.lyc && bits.Test(p.stat, 6) {
		fire = true
	}
	switch p.mode {
	case HBlank:
		fire = fire || bits.Test(p.stat, 3)
	case VBlank:
		fire = fire || bits.Test(p.stat, 4)
	case OAMScan:
		fire = fire || bits.Test(p.stat, 5)
	}
	if fire {
		p.irq.Request(interrupts.LCDStat)
	}
}

// Tick advances the PPU by cycles master cycles.
func (p *PPU) Tick(cycles uint16) {
	if !p.enabled() {
		return
	}
	for i := uint16(0); i < cycles; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	p.cycle++

	switch p.mode {
	case OAMScan:
		if p.cycle == oamScanCycles {
			p.mode = Drawing
		}
	case Drawing:
		if p.cycle == oamScanCycles+drawingCycles {
			p.mode = HBlank
			p.renderScanline()
			p.checkStatInterrupt()
		}
	case HBlank:
		if p.cycle == scanlineCycles {
			p.cycle = 0
			p.ly++
			if p.ly == visibleLines {
				p.mode = VBlank
				p.irq.Request(interrupts.VBlank)
				p.frameReady = true
				p.checkStatInterrupt()
			} else {
				p.mode = OAMScan
				p.checkStatInterrupt()
			}
		}
	case VBlank:
		if p.cycle == scanlineCycles {
			p.cycle = 0
			p.ly++
			if p.ly == totalLines {
				p.ly = 0
				p.windowLine = 0
				p.mode = OAMScan
			}
			p.checkStatInterrupt()
		}
	}
}

// HasFrame reports whether a frame has completed since the last
// ConsumeFrame call.
func (p *PPU) HasFrame() bool { return p.frameReady }

// ConsumeFrame clears the frame-ready flag and returns the completed
// frame buffer.
func (p *PPU) ConsumeFrame() [ScreenHeight][ScreenWidth]color.RGBA {
	p.frameReady = false
	return p.frame
}

// FrameBuffer returns the current frame buffer without clearing the
// ready flag (SPEC_FULL.md §6: callers may read it after a frame
// step completes).
func (p *PPU) FrameBuffer() *[ScreenHeight][ScreenWidth]color.RGBA {
	return &p.frame
}

// FrameHash fingerprints the current frame buffer with xxhash, the
// same hashing library the teacher's web display hub uses to detect
// duplicate frames before sending them out over the wire. Here it
// gives a test harness a cheap way to compare rendered output against
// a known-good value without shipping golden images (SPEC_FULL.md
// §11).
func (p *PPU) FrameHash() uint64 {
	buf := make([]byte, 0, ScreenWidth*ScreenHeight*4)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			c := p.frame[y][x]
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return xxhash.Sum64(buf)
}
