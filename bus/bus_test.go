package bus

import (
	"testing"

	"github.com/mguler/atari2600/cartridge"
	"github.com/mguler/atari2600/input"
	"github.com/mguler/atari2600/riot"
	"github.com/mguler/atari2600/tia"
)

func newTestBus(t *testing.T, rom []byte) *Bus {
	t.Helper()
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	in := input.NewInputState()
	r, err := riot.New(in, false)
	if err != nil {
		t.Fatalf("riot.New: %v", err)
	}
	tc, err := tia.New(in, false)
	if err != nil {
		t.Fatalf("tia.New: %v", err)
	}
	b, err := New(cart, r, tc)
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	return b
}

func TestF8BankswitchThroughBus(t *testing.T) {
	rom := make([]byte, 16384/2) // 8192 bytes, F8 scheme
	rom[0x0000] = 0xAA           // bank 0's byte at cart-relative $0000
	rom[0x1000] = 0xBB           // bank 1's byte at cart-relative $1000
	b := newTestBus(t, rom)

	// Power-on bank for F8 is bank 1: reading $F000 (-> cart addr $1000)
	// should return bank 1's byte at offset $1000.
	if got := b.Read(0xF000); got != 0xBB {
		t.Fatalf("Read($F000) = %.2X, want BB (power-on bank 1)", got)
	}

	// Hitting the $1FF8 hotspot (-> cart addr $0FF8) switches to bank 0.
	b.Read(0xFFF8)
	if got := b.Read(0xF000); got != 0xAA {
		t.Fatalf("Read($F000) after hotspot = %.2X, want AA (bank 0)", got)
	}
}

func TestRIOTRAMMirroredIntoStackPage(t *testing.T) {
	b := newTestBus(t, make([]byte, 4096))
	b.Write(0x0080, 0x42) // page 0 upper half
	if got := b.Read(0x0180); got != 0x42 {
		t.Errorf("Read($0180) = %.2X, want 42 (mirror of $0080 in stack page)", got)
	}
	b.Write(0x01FF, 0x99)
	if got := b.Read(0x00FF); got != 0x99 {
		t.Errorf("Read($00FF) = %.2X, want 99 (mirror of $01FF)", got)
	}
}

func TestRIOTTimerUnderflowThroughBus(t *testing.T) {
	b := newTestBus(t, make([]byte, 4096))
	b.Write(0x0295, 0x02) // STA TIM8T with A=$02

	for i := 0; i < 9; i++ {
		b.TickRIOTTimer()
	}
	if got := b.Read(0x0284); got != 0x01 {
		t.Errorf("INTIM after 9 cycles = %.2X, want 01", got)
	}
	for i := 0; i < 8; i++ {
		b.TickRIOTTimer()
	}
	if got := b.Read(0x0284); got != 0x00 {
		t.Errorf("INTIM after 17 cycles = %.2X, want 00", got)
	}
	for i := 0; i < 8; i++ {
		b.TickRIOTTimer()
	}
	if got := b.Read(0x0284); got != 0xFF {
		t.Errorf("INTIM after 25 cycles = %.2X, want FF", got)
	}
	if got := b.Read(0x0285); got&0x80 == 0 {
		t.Errorf("INSTAT = %.2X, want bit7 set after underflow", got)
	}
}

func TestOpenBusDefaultsToZero(t *testing.T) {
	b := newTestBus(t, make([]byte, 4096))
	// $0298 has a low byte (>=$80) past the RIOT RAM mirror window (addr
	// >= $0200) and past the RIOT I/O range (addr > $0297): undecoded.
	if got := b.Read(0x0298); got != 0 {
		t.Errorf("Read($0298) = %.2X, want 0 (undecoded region)", got)
	}
}
