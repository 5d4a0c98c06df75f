// Package serial is a boundary stub for the Game Boy's serial port:
// it models only enough of SB/SC for a program to believe a transfer
// happened and receive the completion interrupt. No link-partner
// communication is implemented (SPEC_FULL.md §1 non-goals).
package serial

import "github.com/merenut/dmgcore/internal/interrupts"

// transferCycles is the fixed countdown armed by StartTransfer.
const transferCycles = 512

// Controller is the serial port's register-side state machine.
type Controller struct {
	data      uint8
	control   uint8 // bit 7: transfer start/in-progress, bit 0: clock select
	remaining uint16

	irq *interrupts.Controller
}

// New returns a Controller wired to irq for Serial-interrupt requests.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq}
}

// ReadSB returns the SB register (0xFF01).
func (c *Controller) ReadSB() uint8 { return c.data }

// WriteSB writes the SB register (0xFF01).
func (c *Controller) WriteSB(v uint8) { c.data = v }

// ReadSC returns the SC register (0xFF02); unused bits read high.
func (c *Controller) ReadSC() uint8 { return c.control | 0x7E }

// WriteSC writes the SC register (0xFF02). Setting bit 7 arms a
// transfer countdown.
func (c *Controller) WriteSC(v uint8) {
	c.control = v
	if v&0x80 != 0 {
		c.StartTransfer()
	}
}

// StartTransfer arms the 512-cycle completion countdown.
func (c *Controller) StartTransfer() {
	c.control |= 0x80
	c.remaining = transferCycles
}

// Step advances the countdown by cycles master cycles. On reaching
// zero it clears the transfer-in-progress bit and requests the
// Serial interrupt.
func (c *Controller) Step(cycles uint16) {
	if c.control&0x80 == 0 {
		return
	}
	if uint16(cycles) >= c.remaining {
		c.remaining = 0
		c.control &^= 0x80
		c.irq.Request(interrupts.Serial)
		return
	}
	c.remaining -= cycles
}
