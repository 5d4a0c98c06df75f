package ppu

import "image/color"

// dmgShades are the four palette-resolved colors, green-tinted
// grayscale from lightest (color index 0) to darkest (color index 3),
// matching the original DMG LCD (SPEC_FULL.md §4.6).
var dmgShades = [4]color.RGBA{
	{R: 0x9B, G: 0xBC, B: 0x0F, A: 0xFF},
	{R: 0x8B, G: 0xAC, B: 0x0F, A: 0xFF},
	{R: 0x30, G: 0x62, B: 0x30, A: 0xFF},
	{R: 0x0F, G: 0x38, B: 0x0F, A: 0xFF},
}

// shade resolves a 2-bit color id through a palette register (BGP,
// OBP0 or OBP1): each 2-bit field of the register maps one color id
// to one of the four shades.
func shade(palette uint8, id uint8) color.RGBA {
	return dmgShades[(palette>>(id*2))&0x03]
}
