package cartridge

// mbc5 implements the MBC5 bank controller: a 9-bit ROM bank register
// split across two write windows (low 8 bits at 0x2000-0x2FFF, bit 8
// at 0x3000-0x3FFF) and a 4-bit RAM bank register. Unlike MBC1/MBC3,
// bank 0 is a legal ROM selection — there is no "bank 0 maps to 1"
// adjustment.
type mbc5 struct {
	rom []byte
	ram []byte

	romBank int
	ramBank uint8

	ramEnabled bool
	romBanks   int
	ramBanks   int
	hasBattery bool
}

func newMBC5(rom []byte, header *Header) *mbc5 {
	return &mbc5{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		romBank:  1,
		romBanks: romBankCount(len(rom)),
		ramBanks: ramBankCount(int(header.RAMSize)),
		hasBattery: header.CartridgeType == MBC5RAMBATT ||
			header.CartridgeType == MBC5RUMBLERAMBATT,
	}
}

func (m *mbc5) ReadROM(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		if int(addr) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[addr]
	default:
		if m.romBanks == 0 || m.romBank >= m.romBanks {
			return 0xFF
		}
		off := m.romBank*0x4000 + int(addr-0x4000)
		if off >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	}
}

func (m *mbc5) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x3000:
		m.romBank = (m.romBank &^ 0xFF) | int(value)
	case addr < 0x4000:
		m.romBank = (m.romBank & 0xFF) | (int(value&0x01) << 8)
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	default:
		// writes to 0x6000-0x7FFF are ignored on MBC5
	}
}

func (m *mbc5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	bank := int(m.ramBank) % m.ramBanks
	off := bank*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc5) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	bank := int(m.ramBank) % m.ramBanks
	off := bank*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return
	}
	m.ram[off] = value
}

func (m *mbc5) HasBattery() bool    { return m.hasBattery }
func (m *mbc5) ExternalRAM() []byte { return m.ram }
func (m *mbc5) LoadExternalRAM(b []byte) {
	if len(b) != len(m.ram) {
		return
	}
	copy(m.ram, b)
}
