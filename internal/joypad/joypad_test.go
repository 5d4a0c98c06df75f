package joypad

import (
	"testing"

	"github.com/merenut/dmgcore/internal/interrupts"
)

func TestReadUnselectedReturnsAllHigh(t *testing.T) {
	j := New(interrupts.New())
	j.SetPressed(A, true)
	j.Write(0x30) // neither group selected
	if got := j.Read(); got != 0xFF {
		t.Fatalf("Read() = %#02x, want 0xFF with nothing selected", got)
	}
}

func TestReadSelectedActionGroup(t *testing.T) {
	j := New(interrupts.New())
	j.SetPressed(A, true)
	j.SetPressed(Start, true)
	j.Write(0x10) // select actions (bit 5 low selects actions per this controller's encoding)
	got := j.Read()
	// bits 6-7 always 1; with the action group selected, bit3 (Start)
	// and bit0 (A) read low since both are pressed.
	if got&0x08 != 0 {
		t.Fatalf("Read() = %#08b, want bit3 (Start) low", got)
	}
	if got&0x01 != 0 {
		t.Fatalf("Read() = %#08b, want bit0 (A) low", got)
	}
}

func TestPressEdgeRequestsInterrupt(t *testing.T) {
	irq := interrupts.New()
	irq.Enable = 0x10
	j := New(irq)
	j.SetPressed(B, true)
	if !irq.Pending() {
		t.Fatal("Joypad interrupt not requested on press edge")
	}
}

func TestHoldingDoesNotReRequest(t *testing.T) {
	irq := interrupts.New()
	irq.Enable = 0x10
	j := New(irq)
	j.SetPressed(B, true)
	irq.Service(interrupts.Joypad)
	j.SetPressed(B, true) // still pressed, not a new edge
	if irq.Pending() {
		t.Fatal("Joypad interrupt re-requested without a new press edge")
	}
}
