// Package cartridge implements ROM loading, header parsing, and the
// memory bank controllers (MBC0/1/2/3/5) that remap the cartridge
// address space in response to writes into the ROM window.
package cartridge

import "errors"

// Sentinel errors returned by Load. These are the only recoverable
// boundary errors the core raises (see SPEC_FULL.md §7); everything
// else about a loaded cartridge is modeled as well-typed state.
var (
	ErrRomTooSmall         = errors.New("cartridge: rom buffer shorter than 0x0150 bytes")
	ErrUnsupportedCartridge = errors.New("cartridge: recognized but unsupported cartridge type")
	ErrUnknownCartridge     = errors.New("cartridge: unknown cartridge type byte")
)

// Battery is the optional capability exposed by cartridges that carry
// battery-backed external RAM. The blob format is controller-specific
// and opaque to callers (SPEC_FULL.md §4.2, §6).
type Battery interface {
	HasBattery() bool
	ExternalRAM() []byte
	LoadExternalRAM(blob []byte)
}

// Controller is the common operation set every bank controller
// implements. Cartridge embeds exactly one concrete controller behind
// this interface, so every ROM/RAM access is an interface method call
// (dynamic dispatch), while callers still share one type.
type Controller interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)
}

// Cartridge is a loaded ROM image plus its active bank controller.
type Cartridge struct {
	Controller
	header *Header
	rom    []byte
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() *Header { return c.header }

// Title is a convenience accessor for the header's game title.
func (c *Cartridge) Title() string { return c.header.Title }

// Battery returns the controller's Battery capability and whether it
// implements one at all.
func (c *Cartridge) Battery() (Battery, bool) {
	b, ok := c.Controller.(Battery)
	return b, ok
}

// Load parses rom's header and constructs the Cartridge with the
// appropriate bank controller. rom must be at least 0x150 bytes.
func Load(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, ErrRomTooSmall
	}
	header := parseHeader(rom)

	var ctrl Controller
	switch header.CartridgeType {
	case ROM:
		ctrl = newMBC0(rom)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		ctrl = newMBC1(rom, header)
	case MBC2, MBC2BATT:
		ctrl = newMBC2(rom, header)
	case MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATT:
		ctrl = newMBC3(rom, header)
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		ctrl = newMBC5(rom, header)
	case MMM01, MMM01RAM, MMM01RAMBATT, MBC4, MBC4RAM, MBC4RAMBATT, MBC6, MBC7,
		POCKETCAMERA, BANDAITAMA5, HUDSONHUC3, HUDSONHUC1:
		return nil, ErrUnsupportedCartridge
	default:
		return nil, ErrUnknownCartridge
	}

	return &Cartridge{Controller: ctrl, header: header, rom: rom}, nil
}
