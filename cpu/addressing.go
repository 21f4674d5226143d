package cpu

// An addrMode fetches any operand bytes the instruction needs, advancing PC,
// and returns the effective address (unused by Implied/Accumulator/
// Immediate-style handlers that read c.A or the byte at addr directly) plus
// whether indexing crossed a page boundary, for instructions that charge an
// extra cycle when it does.

func modeImplied(c *CPU) (uint16, bool) { return 0, false }

func modeAccumulator(c *CPU) (uint16, bool) { return 0, false }

func modeImmediate(c *CPU) (uint16, bool) {
	addr := c.PC
	c.PC++
	return addr, false
}

func modeZeroPage(c *CPU) (uint16, bool) {
	return uint16(c.fetch()), false
}

func modeZeroPageX(c *CPU) (uint16, bool) {
	return uint16(c.fetch() + c.X), false
}

func modeZeroPageY(c *CPU) (uint16, bool) {
	return uint16(c.fetch() + c.Y), false
}

func modeAbsolute(c *CPU) (uint16, bool) {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo), false
}

func modeAbsoluteX(c *CPU) (uint16, bool) {
	lo := c.fetch()
	hi := c.fetch()
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.X)
	return addr, base&0xFF00 != addr&0xFF00
}

func modeAbsoluteY(c *CPU) (uint16, bool) {
	lo := c.fetch()
	hi := c.fetch()
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.Y)
	return addr, base&0xFF00 != addr&0xFF00
}

// modeIndirect is used only by JMP (ind) and reproduces the classic 6502
// page-wrap bug: if the pointer's low byte is $FF, the high byte of the
// target is fetched from the start of the same page instead of the next
// page.
func modeIndirect(c *CPU) (uint16, bool) {
	lo := c.fetch()
	hi := c.fetch()
	ptr := uint16(hi)<<8 | uint16(lo)
	loAddr := ptr
	hiAddr := ptr&0xFF00 | uint16(uint8(ptr)+1)
	rlo := c.bus.Read(loAddr)
	rhi := c.bus.Read(hiAddr)
	return uint16(rhi)<<8 | uint16(rlo), false
}

// modeIndirectX is indexed indirect: (zp,X).
func modeIndirectX(c *CPU) (uint16, bool) {
	zp := c.fetch() + c.X
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo), false
}

// modeIndirectY is indirect indexed: (zp),Y.
func modeIndirectY(c *CPU) (uint16, bool) {
	zp := c.fetch()
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(zp + 1))
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.Y)
	return addr, base&0xFF00 != addr&0xFF00
}

// modeRelative computes a branch target from a signed 8 bit offset, and
// reports whether the branch crosses a page boundary (for the +1 cycle on
// top of the +1 already charged for a taken branch).
func modeRelative(c *CPU) (uint16, bool) {
	offset := int8(c.fetch())
	addr := uint16(int32(c.PC) + int32(offset))
	return addr, c.PC&0xFF00 != addr&0xFF00
}
