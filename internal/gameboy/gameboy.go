// Package gameboy wires the cartridge, memory map, interrupt
// controller, timer, PPU, DMA engine, joypad and serial port into a
// single steppable DMG core (SPEC_FULL.md §1, §2, §6).
package gameboy

import (
	"fmt"
	"image/color"

	"github.com/merenut/dmgcore/internal/cartridge"
	"github.com/merenut/dmgcore/internal/cpu"
	"github.com/merenut/dmgcore/internal/interrupts"
	"github.com/merenut/dmgcore/internal/joypad"
	"github.com/merenut/dmgcore/internal/mmu"
	"github.com/merenut/dmgcore/internal/ppu"
	"github.com/merenut/dmgcore/internal/serial"
	"github.com/merenut/dmgcore/internal/timer"
	"github.com/merenut/dmgcore/pkg/log"
)

// GameBoy is a fully wired DMG core: load a ROM, then call Step or
// StepFrame to advance emulation.
type GameBoy struct {
	Cart *cartridge.Cartridge
	MMU  *mmu.MMU
	CPU  *cpu.CPU
	IRQ  *interrupts.Controller

	Timer  *timer.Timer
	PPU    *ppu.PPU
	Joypad *joypad.Joypad
	Serial *serial.Controller

	log log.Logger
}

// Option configures a GameBoy at construction time.
type Option func(*config)

type config struct {
	logger     log.Logger
	breakpoint func(pc uint16)
}

// WithLogger overrides the default no-op logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBreakpoint installs a hook invoked whenever the CPU is about to
// execute the LD B,B trap opcode (SPEC_FULL.md §12).
func WithBreakpoint(fn func(pc uint16)) Option {
	return func(c *config) { c.breakpoint = fn }
}

// New loads rom and returns a fully wired GameBoy ready to Step.
func New(rom []byte, opts ...Option) (*GameBoy, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, fmt.Errorf("gameboy: load cartridge: %w", err)
	}

	cfg := &config{logger: log.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	irq := interrupts.New()
	p := ppu.New(irq)
	t := timer.New(irq)
	jp := joypad.New(irq)
	sr := serial.New(irq)

	m := mmu.New(cart, irq, p, t, jp, sr)
	m.Log = cfg.logger

	c := cpu.New(m, irq)
	c.Log = cfg.logger
	c.Breakpoint = cfg.breakpoint

	return &GameBoy{
		Cart:   cart,
		MMU:    m,
		CPU:    c,
		IRQ:    irq,
		Timer:  t,
		PPU:    p,
		Joypad: jp,
		Serial: sr,
		log:    cfg.logger,
	}, nil
}

// Step executes exactly one CPU instruction (or interrupt-service
// step) and fans its cycle cost out to every other subsystem in the
// fixed order timer, PPU, DMA, serial (SPEC_FULL.md §2). It returns
// the number of master cycles consumed.
func (g *GameBoy) Step() uint16 {
	cycles := g.CPU.Step()
	g.Timer.Tick(cycles)
	g.PPU.Tick(cycles)
	g.MMU.StepDMA(cycles)
	g.Serial.Step(cycles)
	return cycles
}

// StepFrame runs Step until the PPU completes a frame, then returns
// its RGBA buffer (SPEC_FULL.md §6).
func (g *GameBoy) StepFrame() [ppu.ScreenHeight][ppu.ScreenWidth]color.RGBA {
	for !g.PPU.HasFrame() {
		g.Step()
	}
	return g.PPU.ConsumeFrame()
}

// SetButton reports a joypad button's new pressed state.
func (g *GameBoy) SetButton(btn joypad.Button, pressed bool) {
	g.Joypad.SetPressed(btn, pressed)
}

// ExternalRAM returns the cartridge's battery-backed save blob, or
// nil if the cartridge has none.
func (g *GameBoy) ExternalRAM() []byte {
	if b, ok := g.Cart.Battery(); ok {
		return b.ExternalRAM()
	}
	return nil
}

// LoadExternalRAM restores a previously saved battery-backed blob.
func (g *GameBoy) LoadExternalRAM(data []byte) {
	if b, ok := g.Cart.Battery(); ok {
		b.LoadExternalRAM(data)
	}
}
