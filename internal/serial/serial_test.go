package serial

import (
	"testing"

	"github.com/merenut/dmgcore/internal/interrupts"
)

func TestWriteSCArmsTransfer(t *testing.T) {
	c := New(interrupts.New())
	c.WriteSC(0x81)
	if c.ReadSC()&0x80 == 0 {
		t.Fatal("transfer-in-progress bit not set after WriteSC with bit7 set")
	}
	if c.remaining != transferCycles {
		t.Fatalf("remaining = %d, want %d", c.remaining, transferCycles)
	}
}

func TestStepCountsDownWithoutCompleting(t *testing.T) {
	irq := interrupts.New()
	irq.Enable = 0x08
	c := New(irq)
	c.StartTransfer()

	c.Step(transferCycles - 1)
	if irq.Pending() {
		t.Fatal("Serial interrupt requested before the countdown reached zero")
	}
	if c.ReadSC()&0x80 == 0 {
		t.Fatal("transfer-in-progress bit cleared early")
	}
}

func TestStepCompletesAndRequestsInterrupt(t *testing.T) {
	irq := interrupts.New()
	irq.Enable = 0x08
	c := New(irq)
	c.StartTransfer()

	c.Step(transferCycles)
	if !irq.Pending() {
		t.Fatal("Serial interrupt not requested on countdown completion")
	}
	if c.ReadSC()&0x80 != 0 {
		t.Fatal("transfer-in-progress bit still set after completion")
	}
}

func TestStepOvershootStillCompletesExactlyOnce(t *testing.T) {
	irq := interrupts.New()
	irq.Enable = 0x08
	c := New(irq)
	c.StartTransfer()

	c.Step(transferCycles + 100)
	if !irq.Pending() {
		t.Fatal("Serial interrupt not requested when cycles overshoot the countdown")
	}
	irq.Service(interrupts.Serial)

	c.Step(100) // no transfer armed, must be a no-op
	if irq.Pending() {
		t.Fatal("Serial interrupt re-requested with no transfer in progress")
	}
}

func TestSBReadWriteRoundTrip(t *testing.T) {
	c := New(interrupts.New())
	c.WriteSB(0x42)
	if got := c.ReadSB(); got != 0x42 {
		t.Fatalf("ReadSB() = %#02x, want 0x42", got)
	}
}

func TestReadSCUnusedBitsReadHigh(t *testing.T) {
	c := New(interrupts.New())
	c.WriteSC(0x01)
	if got := c.ReadSC(); got&0x7E != 0x7E {
		t.Fatalf("ReadSC() = %#08b, want bits 1-6 forced high", got)
	}
}
