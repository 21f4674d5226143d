// Package bus implements the 6507's 13 bit address decoder, wiring the CPU
// to the cartridge ROM window, RIOT RAM/IO/timer and TIA registers. Grounded
// on the teacher's atari2600.controller (same mask-and-switch decode, same
// per-CPU-cycle timer tick), generalized to call through to this module's
// standalone cartridge/riot/tia packages instead of the teacher's single
// combined VCS struct.
package bus

import (
	"fmt"

	"github.com/mguler/atari2600/cartridge"
	"github.com/mguler/atari2600/riot"
	"github.com/mguler/atari2600/tia"
)

const (
	addressMask = uint16(0x1FFF)

	romMask = uint16(0x1000)

	riotIOStart = uint16(0x0280)
	riotIOEnd   = uint16(0x0297)
)

// Bus is the memory-mapped address space the CPU sees: cartridge ROM at
// $1000-$1FFF, RIOT RAM mirrored below $0200 wherever the low byte is >=
// $80, RIOT I/O/timer at $0280-$0297, and TIA registers everywhere else the
// low byte is <= $7F. Anything left over reads as open bus (0) and
// ignores writes.
type Bus struct {
	cart *cartridge.Cartridge
	riot *riot.RIOT
	tia  *tia.TIA
}

// New returns a Bus wiring the three chips together. None of cart, r or t
// may be nil.
func New(cart *cartridge.Cartridge, r *riot.RIOT, t *tia.TIA) (*Bus, error) {
	if cart == nil || r == nil || t == nil {
		return nil, fmt.Errorf("bus: cart, riot and tia must all be non-nil")
	}
	return &Bus{cart: cart, riot: r, tia: t}, nil
}

// Read implements cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	addr &= addressMask

	switch {
	case addr&romMask == romMask:
		return b.cart.ReadROM(addr)
	case addr < 0x0200 && addr&0xFF >= 0x80:
		return b.riot.ReadRAM(addr)
	case addr >= riotIOStart && addr <= riotIOEnd:
		return b.riot.ReadReg(addr)
	case addr&0xFF <= 0x7F:
		return b.tia.Read(addr)
	}
	return 0
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	addr &= addressMask

	switch {
	case addr&romMask == romMask:
		b.cart.WriteHotspot(addr)
	case addr < 0x0200 && addr&0xFF >= 0x80:
		b.riot.WriteRAM(addr, val)
	case addr >= riotIOStart && addr <= riotIOEnd:
		b.riot.WriteReg(addr, val)
	case addr&0xFF <= 0x7F:
		b.tia.Write(addr, val)
	}
}

// TickRIOTTimer advances the RIOT's interval timer by one CPU cycle. The
// Console calls this once per CPU cycle regardless of whether the CPU
// itself stepped (WSYNC stalls the CPU, not the RIOT).
func (b *Bus) TickRIOTTimer() {
	b.riot.Tick()
}
