package ppu

import (
	"sort"

	"github.com/merenut/dmgcore/internal/bits"
)

// bgTileMapBase returns the VRAM-relative base address of the
// background tile map selected by LCDC bit 3.
func (p *PPU) bgTileMapBase() uint16 {
	if bits.Test(p.lcdc, 3) {
		return 0x1C00 // 0x9C00 - 0x8000
	}
	return 0x1800 // 0x9800 - 0x8000
}

// windowTileMapBase returns the VRAM-relative base address of the
// window tile map selected by LCDC bit 6.
func (p *PPU) windowTileMapBase() uint16 {
	if bits.Test(p.lcdc, 6) {
		return 0x1C00
	}
	return 0x1800
}

// tileRow returns the two bit-planes (low, high) of row `row` (0-7) of the
// tile identified by `id`, interpreted per LCDC bit 4 (unsigned
// indexing from 0x8000 when set, signed from 0x8800/0x9000 otherwise).
func (p *PPU) tileRow(id uint8, row uint8) (lo, hi uint8) {
	var base uint16
	if bits.Test(p.lcdc, 4) {
		base = uint16(id) * 16
	} else {
		base = uint16(0x1000 + int16(int8(id))*16)
	}
	addr := base + uint16(row)*2
	return p.vram[addr&0x1FFF], p.vram[(addr+1)&0x1FFF]
}

// colorID extracts the 2-bit color index for pixel column `col`
// (0-7, 0 is leftmost) out of a tile row's two bit planes.
func colorID(lo, hi uint8, col uint8) uint8 {
	bit := 7 - col
	return (bits.Val(hi, bit) << 1) | bits.Val(lo, bit)
}

// renderScanline composes the current LY row: background, then
// window, then sprites (SPEC_FULL.md §4.6).
func (p *PPU) renderScanline() {
	var bgColor [ScreenWidth]uint8
	drewWindow := false

	if bits.Test(p.lcdc, 0) {
		p.renderBackgroundLine(&bgColor)
	} else {
		for x := range bgColor {
			bgColor[x] = 0
			p.frame[p.ly][x] = shade(p.bgp, 0)
		}
	}

	if bits.Test(p.lcdc, 5) && p.wy <= p.ly {
		drewWindow = p.renderWindowLine(&bgColor)
	}
	if drewWindow {
		p.windowLine++
	}

	if bits.Test(p.lcdc, 1) {
		p.renderSpriteLine(&bgColor)
	}
}

func (p *PPU) renderBackgroundLine(bgColor *[ScreenWidth]uint8) {
	mapBase := p.bgTileMapBase()
	y := p.scy + p.ly
	tileRow := y / 8
	pixelRow := y % 8

	for x := 0; x < ScreenWidth; x++ {
		bx := p.scx + uint8(x)
		tileCol := bx / 8
		pixelCol := bx % 8

		mapIdx := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileID := p.vram[mapIdx&0x1FFF]
		lo, hi := p.tileRow(tileID, pixelRow)
		id := colorID(lo, hi, pixelCol)

		bgColor[x] = id
		p.frame[p.ly][x] = shade(p.bgp, id)
	}
}

// renderWindowLine draws the window over bgColor for any column where
// the window covers the pixel. Returns whether the window was visible
// on this scanline at all (used to advance the internal line counter).
func (p *PPU) renderWindowLine(bgColor *[ScreenWidth]uint8) bool {
	if p.wx > 166 {
		return false
	}
	mapBase := p.windowTileMapBase()
	winY := p.windowLine
	tileRow := winY / 8
	pixelRow := winY % 8

	drew := false
	for x := 0; x < ScreenWidth; x++ {
		wxStart := int(p.wx) - 7
		if x < wxStart {
			continue
		}
		winX := uint8(x - wxStart)
		tileCol := winX / 8
		pixelCol := winX % 8

		mapIdx := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileID := p.vram[mapIdx&0x1FFF]
		lo, hi := p.tileRow(tileID, pixelRow)
		id := colorID(lo, hi, pixelCol)

		bgColor[x] = id
		p.frame[p.ly][x] = shade(p.bgp, id)
		drew = true
	}
	return drew
}

// scanOAM selects up to 10 sprite candidates intersecting the current
// LY, in OAM order, the way real hardware's OAM-scan phase does.
func (p *PPU) scanOAM() []spriteEntry {
	height := uint8(8)
	if bits.Test(p.lcdc, 2) {
		height = 16
	}

	var found []spriteEntry
	for i := 0; i < 40 && len(found) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		screenY := int(y) - 16
		if int(p.ly) < screenY || int(p.ly) >= screenY+int(height) {
			continue
		}
		found = append(found, spriteEntry{
			y:        y,
			x:        p.oam[base+1],
			tile:     p.oam[base+2],
			attr:     p.oam[base+3],
			oamIndex: i,
		})
	}
	return found
}

// renderSpriteLine composites sprites onto the current scanline.
// Priority: lower X wins; ties broken by lower OAM index
// (SPEC_FULL.md §3, §4.6).
func (p *PPU) renderSpriteLine(bgColor *[ScreenWidth]uint8) {
	sprites := p.scanOAM()
	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].x != sprites[j].x {
			return sprites[i].x < sprites[j].x
		}
		return sprites[i].oamIndex < sprites[j].oamIndex
	})

	height := uint8(8)
	if bits.Test(p.lcdc, 2) {
		height = 16
	}

	drawn := [ScreenWidth]bool{}
	for _, s := range sprites {
		screenY := int(s.y) - 16
		screenX := int(s.x) - 8

		line := int(p.ly) - screenY
		if bits.Test(s.attr, 6) { // vertical flip
			line = int(height) - 1 - line
		}

		tile := s.tile
		if height == 16 {
			tile &^= 0x01
			if line >= 8 {
				tile |= 0x01
				line -= 8
			}
		}

		lo, hi := p.tileRow(tile, uint8(line))

		for col := 0; col < 8; col++ {
			x := screenX + col
			if x < 0 || x >= ScreenWidth || drawn[x] {
				continue
			}
			srcCol := col
			if bits.Test(s.attr, 5) { // horizontal flip
				srcCol = 7 - col
			}
			id := colorID(lo, hi, uint8(srcCol))
			if id == 0 {
				continue // transparent
			}
			if bits.Test(s.attr, 7) && bgColor[x] != 0 {
				continue // behind background, and background is non-zero
			}

			pal := p.obp0
			if bits.Test(s.attr, 4) {
				pal = p.obp1
			}
			p.frame[p.ly][x] = shade(pal, id)
			drawn[x] = true
		}
	}
}
