package cartridge

// mbc2 implements the MBC2 bank controller: a 4-bit ROM bank register
// addressed by writes into 0x0000-0x3FFF (gated by address bit 8, the
// real chip's odd/even addressing quirk) and a built-in 512x4-bit RAM
// window at 0xA000-0xA1FF where only the low nibble of each byte is
// wired; reads of the unwired upper nibble come back set.
//
// This supplements the distilled spec, which rejects MBC2 as
// unsupported; see SPEC_FULL.md §4.2 and §12.
type mbc2 struct {
	rom []byte
	ram [512]byte

	romBank    uint8
	ramEnabled bool
	romBanks   int
	hasBattery bool
}

func newMBC2(rom []byte, header *Header) *mbc2 {
	return &mbc2{
		rom:        rom,
		romBank:    1,
		romBanks:   romBankCount(len(rom)),
		hasBattery: header.CartridgeType == MBC2BATT,
	}
}

func (m *mbc2) ReadROM(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		if int(addr) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[addr]
	default:
		off := int(m.romBank)%m.romBanks*0x4000 + int(addr-0x4000)
		if off >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	}
}

func (m *mbc2) WriteROM(addr uint16, value uint8) {
	if addr >= 0x4000 {
		return
	}
	// bit 8 of the address selects RAM-enable (0) vs ROM-bank (1).
	if addr&0x0100 == 0 {
		m.ramEnabled = value&0x0F == 0x0A
		return
	}
	bank := value & 0x0F
	if bank == 0 {
		bank = 1
	}
	m.romBank = bank
}

func (m *mbc2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	idx := int(addr-0xA000) % len(m.ram)
	return m.ram[idx] | 0xF0
}

func (m *mbc2) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	idx := int(addr-0xA000) % len(m.ram)
	m.ram[idx] = value & 0x0F
}

func (m *mbc2) HasBattery() bool    { return m.hasBattery }
func (m *mbc2) ExternalRAM() []byte { return m.ram[:] }
func (m *mbc2) LoadExternalRAM(b []byte) {
	if len(b) != len(m.ram) {
		return
	}
	copy(m.ram[:], b)
}
