package cartridge

import (
	"fmt"
	"strings"
)

// Type is the cartridge-type byte at ROM offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBATT      Type = 0x0D
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC4              Type = 0x15
	MBC4RAM           Type = 0x16
	MBC4RAMBATT       Type = 0x17
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	MBC6              Type = 0x20
	MBC7              Type = 0x22
	POCKETCAMERA      Type = 0xFC
	BANDAITAMA5       Type = 0xFD
	HUDSONHUC3        Type = 0xFE
	HUDSONHUC1        Type = 0xFF
)

// String names the cartridge type the way a diagnostic dump would.
func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM"
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return "MBC1"
	case MBC2, MBC2BATT:
		return "MBC2"
	case MMM01, MMM01RAM, MMM01RAMBATT:
		return "MMM01"
	case MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATT:
		return "MBC3"
	case MBC4, MBC4RAM, MBC4RAMBATT:
		return "MBC4"
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return "MBC5"
	case MBC6:
		return "MBC6"
	case MBC7:
		return "MBC7"
	case POCKETCAMERA:
		return "POCKET CAMERA"
	case BANDAITAMA5:
		return "TAMA5"
	case HUDSONHUC3:
		return "HuC3"
	case HUDSONHUC1:
		return "HuC1"
	default:
		return fmt.Sprintf("unknown(%#02x)", uint8(t))
	}
}

// romSizeTable maps the ROM-size byte (0x0148) to a total ROM size in
// bytes. Codes 0x00-0x08 double from 32 KiB; 0x52-0x54 are the three
// documented "odd" sizes found on a handful of real carts.
var romSizeTable = map[uint8]uint{
	0x00: 32 * 1024,
	0x01: 64 * 1024,
	0x02: 128 * 1024,
	0x03: 256 * 1024,
	0x04: 512 * 1024,
	0x05: 1024 * 1024,
	0x06: 2 * 1024 * 1024,
	0x07: 4 * 1024 * 1024,
	0x08: 8 * 1024 * 1024,
	0x52: 1125 * 1024 * 1024 / 1024, // 1.1 MiB
	0x53: 1250 * 1024 * 1024 / 1024, // 1.2 MiB
	0x54: 1536 * 1024,               // 1.5 MiB
}

// ramSizeTable maps the RAM-size byte (0x0149) to external RAM size.
var ramSizeTable = map[uint8]uint{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed contents of ROM offsets 0x0134-0x014F plus the
// ambient diagnostic fields (licensee codes, checksums) a production
// loader also carries.
type Header struct {
	Title            string
	ManufacturerCode string
	CGBFlag          uint8
	NewLicenseeCode  string
	SGBFlag          bool
	CartridgeType    Type
	ROMSize          uint
	RAMSize          uint
	DestinationCode  uint8
	OldLicenseeCode  uint8
	MaskROMVersion   uint8
	HeaderChecksum   uint8
	GlobalChecksum   uint16
}

// GameboyColor reports whether the header's CGB-compatibility byte
// indicates CGB support or CGB-only hardware.
func (h *Header) GameboyColor() bool {
	return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0
}

func (h *Header) String() string {
	return fmt.Sprintf("%s (%s) ROM=%dKiB RAM=%dKiB", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}

// Validate recomputes the header checksum over bytes 0x0134-0x014C
// against the stored checksum byte at 0x014D. It never fails the
// load (see SPEC_FULL.md §3); it simply reports a mismatch so a
// caller that cares can flag a corrupt ROM image.
func (h *Header) Validate(rom []byte) bool {
	if len(rom) < 0x150 {
		return false
	}
	var sum uint8
	for i := 0x134; i <= 0x14C; i++ {
		sum = sum - rom[i] - 1
	}
	return sum == h.HeaderChecksum
}

// parseHeader parses the cartridge header out of a full ROM image.
// The caller must have already validated len(rom) >= 0x150.
func parseHeader(rom []byte) *Header {
	h := &Header{}

	h.CGBFlag = rom[0x143]
	if h.GameboyColorFlagOnly(rom) {
		h.Title = strings.TrimRight(string(rom[0x134:0x143]), "\x00")
	} else {
		h.Title = strings.TrimRight(string(rom[0x134:0x144]), "\x00")
	}
	h.ManufacturerCode = string(rom[0x13F:0x143])
	h.NewLicenseeCode = string(rom[0x144:0x146])
	h.SGBFlag = rom[0x146] == 0x03
	h.CartridgeType = Type(rom[0x147])
	if sz, ok := romSizeTable[rom[0x148]]; ok {
		h.ROMSize = sz
	} else {
		h.ROMSize = (32 * 1024) << rom[0x148]
	}
	h.RAMSize = ramSizeTable[rom[0x149]]
	h.DestinationCode = rom[0x14A]
	h.OldLicenseeCode = rom[0x14B]
	h.MaskROMVersion = rom[0x14C]
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	return h
}

// GameboyColorFlagOnly reports whether byte 0x143 is one of the CGB
// markers, which shortens the title field by one byte.
func (h *Header) GameboyColorFlagOnly(rom []byte) bool {
	return rom[0x143] == 0x80 || rom[0x143] == 0xC0
}
