// Package cpu implements the 6507: the 6502 variant used in the Atari 2600,
// wired to a 13 bit address bus. Grounded on the teacher's cpu package for
// register/flag naming and vector addresses, but the dispatch engine itself
// is new: the teacher drives every opcode through a per-cycle closure state
// machine, while this package uses the simpler cycles_remaining countdown
// the spec calls for, paired with a fixed [256]opcode table of plain
// functions (no closures) so the table is a package-level var instead of
// per-Chip state.
package cpu

import (
	"fmt"

	"github.com/mguler/atari2600/irq"
)

// Bus is the memory-mapped address space the CPU reads and writes through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Status flag bits.
const (
	FlagCarry     = uint8(0x01)
	FlagZero      = uint8(0x02)
	FlagInterrupt = uint8(0x04)
	FlagDecimal   = uint8(0x08)
	FlagBreak     = uint8(0x10)
	FlagUnused    = uint8(0x20) // always 1
	FlagOverflow  = uint8(0x40)
	FlagNegative  = uint8(0x80)
)

const (
	vectorNMI   = uint16(0xFFFA)
	vectorReset = uint16(0xFFFC)
	vectorIRQ   = uint16(0xFFFE)

	stackPage = uint16(0x0100)
)

// noSender never reports an interrupt raised; used when the caller doesn't
// wire an IRQ or NMI source (the stock VCS never asserts either).
type noSender struct{}

func (noSender) Raised() bool { return false }

// CPU is the 6507 register/state set.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	cyclesRemaining    int
	resetVectorPatched bool
	unknownOpcodeCount int

	bus Bus
	irq irq.Sender
	nmi irq.Sender

	prevNMI bool

	debug bool
}

// New returns a CPU wired to the given bus. irqSrc and nmiSrc may be nil, in
// which case the interrupt line is treated as never asserted.
func New(bus Bus, irqSrc, nmiSrc irq.Sender, debug bool) (*CPU, error) {
	if bus == nil {
		return nil, fmt.Errorf("cpu: nil bus")
	}
	if irqSrc == nil {
		irqSrc = noSender{}
	}
	if nmiSrc == nil {
		nmiSrc = noSender{}
	}
	c := &CPU{bus: bus, irq: irqSrc, nmi: nmiSrc, debug: debug}
	c.Reset()
	return c, nil
}

// Reset performs a power-on/reset-line reset: A=X=Y=0, SP=$FD, P=U|I, PC
// loaded from the reset vector, cycles_remaining=7. A reset vector of
// $0000 (an unprogrammed or truncated ROM image) is patched to $F000 so the
// CPU doesn't immediately wander off into open bus; resetVectorPatched
// records that this happened.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagUnused | FlagInterrupt
	lo := c.bus.Read(vectorReset)
	hi := c.bus.Read(vectorReset + 1)
	pc := uint16(hi)<<8 | uint16(lo)
	if pc == 0x0000 {
		pc = 0xF000
		c.resetVectorPatched = true
	} else {
		c.resetVectorPatched = false
	}
	c.PC = pc
	c.cyclesRemaining = 7
	c.unknownOpcodeCount = 0
	c.prevNMI = c.nmi.Raised()
}

// ResetVectorPatched reports whether the last Reset() found a zeroed reset
// vector and substituted $F000.
func (c *CPU) ResetVectorPatched() bool { return c.resetVectorPatched }

// UnknownOpcodeCount returns how many undocumented opcodes have executed
// (as NOP) since the last Reset.
func (c *CPU) UnknownOpcodeCount() int { return c.unknownOpcodeCount }

// Clock runs one CPU cycle: if an instruction is still paying for its
// earlier cycles, only the countdown advances. Otherwise a pending
// interrupt is serviced, or the next opcode is fetched, decoded and fully
// executed in this call, and cycles_remaining is set to its cost (base plus
// any page-cross/branch-taken extra) before being decremented for the cycle
// that just elapsed.
func (c *CPU) Clock() {
	if c.cyclesRemaining > 0 {
		c.cyclesRemaining--
		return
	}

	if c.checkInterrupts() {
		return
	}

	op := c.fetch()
	entry := &opcodeTable[op]
	addr, pageCrossed := entry.mode.fn(c)
	extra := entry.handler(c, addr, pageCrossed)
	if !entry.documented {
		c.unknownOpcodeCount++
	}

	c.P |= FlagUnused

	c.cyclesRemaining = entry.cycles + extra
	c.cyclesRemaining--
}

// AtInstructionBoundary reports whether the next Clock call will fetch a
// new opcode rather than continue paying for one already in flight. Used
// by trace/disassembly tooling to avoid printing the same instruction once
// per remaining cycle.
func (c *CPU) AtInstructionBoundary() bool { return c.cyclesRemaining == 0 }

func (c *CPU) fetch() uint8 {
	op := c.bus.Read(c.PC)
	c.PC++
	return op
}

// checkInterrupts services a pending NMI (edge-triggered) or IRQ
// (level-triggered, masked by the I flag) ahead of fetching a new opcode.
// Returns true if an interrupt was serviced this call.
func (c *CPU) checkInterrupts() bool {
	nmiNow := c.nmi.Raised()
	nmiEdge := nmiNow && !c.prevNMI
	c.prevNMI = nmiNow

	if nmiEdge {
		c.serviceInterrupt(vectorNMI, false)
		return true
	}
	if c.irq.Raised() && c.P&FlagInterrupt == 0 {
		c.serviceInterrupt(vectorIRQ, false)
		return true
	}
	return false
}

// serviceInterrupt pushes PC and P (with the Break flag set only for a
// software BRK) and jumps to the given vector.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	flags := c.P | FlagUnused
	if brk {
		flags |= FlagBreak
	} else {
		flags &^= FlagBreak
	}
	c.push(flags)
	c.P |= FlagInterrupt
	lo := c.bus.Read(vector)
	hi := c.bus.Read(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.cyclesRemaining = 7
}

func (c *CPU) push(val uint8) {
	c.bus.Write(stackPage+uint16(c.SP), val)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackPage + uint16(c.SP))
}

func (c *CPU) push16(val uint16) {
	c.push(uint8(val >> 8))
	c.push(uint8(val))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) setZN(val uint8) {
	if val == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	if val&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

func (c *CPU) flag(bit uint8) bool { return c.P&bit != 0 }

func (c *CPU) setFlag(bit uint8, v bool) {
	if v {
		c.P |= bit
	} else {
		c.P &^= bit
	}
}

// Debug returns a short register dump when constructed with debug=true.
func (c *CPU) Debug() string {
	if !c.debug {
		return ""
	}
	return fmt.Sprintf("PC=%.4X A=%.2X X=%.2X Y=%.2X SP=%.2X P=%.2X cyc=%d",
		c.PC, c.A, c.X, c.Y, c.SP, c.P, c.cyclesRemaining)
}
