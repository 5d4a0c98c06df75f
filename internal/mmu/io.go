package mmu

// I/O register addresses the MMU dispatches by hand (SPEC_FULL.md
// §4.1). Everything else in 0xFF00-0xFF7F that isn't named here
// returns 0xFF on read and discards writes.
const (
	addrJOYP = 0xFF00
	addrSB   = 0xFF01
	addrSC   = 0xFF02
	addrDIV  = 0xFF04
	addrTIMA = 0xFF05
	addrTMA  = 0xFF06
	addrTAC  = 0xFF07
	addrIF   = 0xFF0F
	addrLCDC = 0xFF40
	addrSTAT = 0xFF41
	addrSCY  = 0xFF42
	addrSCX  = 0xFF43
	addrLY   = 0xFF44
	addrLYC  = 0xFF45
	addrDMA  = 0xFF46
	addrBGP  = 0xFF47
	addrOBP0 = 0xFF48
	addrOBP1 = 0xFF49
	addrWY   = 0xFF4A
	addrWX   = 0xFF4B
)

func (m *MMU) readIO(addr uint16) uint8 {
	switch addr {
	case addrJOYP:
		if m.Joypad == nil {
			return 0xFF
		}
		return m.Joypad.Read()
	case addrSB:
		return m.Serial.ReadSB()
	case addrSC:
		return m.Serial.ReadSC()
	case addrDIV:
		return m.Timer.ReadDIV()
	case addrTIMA:
		return m.Timer.ReadTIMA()
	case addrTMA:
		return m.Timer.ReadTMA()
	case addrTAC:
		return m.Timer.ReadTAC()
	case addrIF:
		return m.IRQ.ReadFlag()
	case addrLCDC:
		return m.PPU.ReadLCDC()
	case addrSTAT:
		return m.PPU.ReadSTAT()
	case addrSCY:
		return m.PPU.ReadSCY()
	case addrSCX:
		return m.PPU.ReadSCX()
	case addrLY:
		return m.PPU.ReadLY()
	case addrLYC:
		return m.PPU.ReadLYC()
	case addrDMA:
		return m.DMA.Read()
	case addrBGP:
		return m.PPU.ReadBGP()
	case addrOBP0:
		return m.PPU.ReadOBP0()
	case addrOBP1:
		return m.PPU.ReadOBP1()
	case addrWY:
		return m.PPU.ReadWY()
	case addrWX:
		return m.PPU.ReadWX()
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(addr uint16, v uint8) {
	switch addr {
	case addrJOYP:
		if m.Joypad != nil {
			m.Joypad.Write(v)
		}
	case addrSB:
		m.Serial.WriteSB(v)
	case addrSC:
		m.Serial.WriteSC(v)
	case addrDIV:
		m.Timer.WriteDIV()
	case addrTIMA:
		m.Timer.WriteTIMA(v)
	case addrTMA:
		m.Timer.WriteTMA(v)
	case addrTAC:
		m.Timer.WriteTAC(v)
	case addrIF:
		m.IRQ.WriteFlag(v)
	case addrLCDC:
		m.PPU.WriteLCDC(v)
	case addrSTAT:
		m.PPU.WriteSTAT(v)
	case addrSCY:
		m.PPU.WriteSCY(v)
	case addrSCX:
		m.PPU.WriteSCX(v)
	case addrLY:
		// read-only
	case addrLYC:
		m.PPU.WriteLYC(v)
	case addrDMA:
		m.DMA.Write(v)
	case addrBGP:
		m.PPU.WriteBGP(v)
	case addrOBP0:
		m.PPU.WriteOBP0(v)
	case addrOBP1:
		m.PPU.WriteOBP1(v)
	case addrWY:
		m.PPU.WriteWY(v)
	case addrWX:
		m.PPU.WriteWX(v)
	default:
		// unimplemented I/O register: silently discarded
	}
}
