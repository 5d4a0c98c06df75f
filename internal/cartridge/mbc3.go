package cartridge

// rtcRegister indexes the five latched RTC registers, in the order
// they're exposed through the 0x08-0x0C bank-select range and in the
// order they're serialized to a battery blob.
type rtcRegister int

const (
	rtcSeconds rtcRegister = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHighFlags
	rtcRegisterCount
)

// mbc3 implements the MBC3 bank controller: a 7-bit ROM bank register
// (bank 0 remaps to 1), a combined RAM-bank/RTC-register select, and
// the two-byte latch sequence (write 0x00 then 0x01 to 0x6000-0x7FFF)
// that freezes the live RTC into the visible registers.
type mbc3 struct {
	rom []byte
	ram []byte

	romBank    uint8
	ramBank    uint8 // 0x00-0x03 selects a RAM bank; 0x08-0x0C selects an RTC register
	ramEnabled bool
	romBanks   int
	ramBanks   int

	rtc        [rtcRegisterCount]uint8
	latched    [rtcRegisterCount]uint8
	latchState uint8 // tracks the 0x00-then-0x01 latch sequence

	hasRTC     bool
	hasBattery bool
}

func newMBC3(rom []byte, header *Header) *mbc3 {
	hasRTC := header.CartridgeType == MBC3TIMERBATT || header.CartridgeType == MBC3TIMERRAMBATT
	hasBattery := hasRTC || header.CartridgeType == MBC3RAMBATT
	return &mbc3{
		rom:        rom,
		ram:        make([]byte, header.RAMSize),
		romBank:    1,
		romBanks:   romBankCount(len(rom)),
		ramBanks:   ramBankCount(int(header.RAMSize)),
		hasRTC:     hasRTC,
		hasBattery: hasBattery,
	}
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
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

func (m *mbc3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.ramBank = value
	case addr < 0x8000:
		if !m.hasRTC {
			return
		}
		if m.latchState == 0x00 && value == 0x01 {
			m.latched = m.rtc
		}
		m.latchState = value
	}
}

// selectsRTC reports whether the current ramBank value addresses an
// RTC register rather than a RAM bank.
func (m *mbc3) selectsRTC() bool {
	return m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C
}

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.selectsRTC() {
		return m.latched[m.ramBank-0x08]
	}
	if m.ramBanks == 0 || int(m.ramBank) >= m.ramBanks {
		return 0xFF
	}
	off := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc3) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if m.selectsRTC() {
		m.rtc[m.ramBank-0x08] = value
		return
	}
	if m.ramBanks == 0 || int(m.ramBank) >= m.ramBanks {
		return
	}
	off := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return
	}
	m.ram[off] = value
}

func (m *mbc3) HasBattery() bool { return m.hasBattery }

// ExternalRAM returns external RAM, extended by the 5 latched RTC
// bytes when the cartridge has an RTC (SPEC_FULL.md §4.2, §6). The
// layout is controller-specific; callers must treat it as opaque.
func (m *mbc3) ExternalRAM() []byte {
	if !m.hasRTC {
		out := make([]byte, len(m.ram))
		copy(out, m.ram)
		return out
	}
	out := make([]byte, len(m.ram)+int(rtcRegisterCount))
	copy(out, m.ram)
	copy(out[len(m.ram):], m.latched[:])
	return out
}

func (m *mbc3) LoadExternalRAM(blob []byte) {
	want := len(m.ram)
	if m.hasRTC {
		want += int(rtcRegisterCount)
	}
	if len(blob) != want {
		return
	}
	copy(m.ram, blob[:len(m.ram)])
	if m.hasRTC {
		copy(m.latched[:], blob[len(m.ram):])
		m.rtc = m.latched
	}
}
