package cpu

// adc implements ADC including the NMOS decimal-mode quirk: in BCD mode the
// Zero flag is computed from the plain binary sum, while Negative and
// Overflow are computed from the nibble-corrected (but not yet carry-
// corrected) result -- a long-documented inconsistency of the real chip,
// not a bug in this emulation.
func (c *CPU) adc(val uint8) {
	carryIn := uint16(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	a := uint16(c.A)
	v := uint16(val)

	if c.flag(FlagDecimal) {
		lo := (a & 0x0F) + (v & 0x0F) + carryIn
		hi := (a >> 4) + (v >> 4)
		if lo > 9 {
			lo += 6
			hi++
		}
		binSum := uint8((a + v + carryIn) & 0xFF)
		c.setFlag(FlagZero, binSum == 0)
		c.setFlag(FlagNegative, hi&0x08 != 0)
		c.setFlag(FlagOverflow, (a^v)&0x80 == 0 && (a^(hi<<4))&0x80 != 0)
		if hi > 9 {
			hi += 6
		}
		c.setFlag(FlagCarry, hi > 15)
		c.A = uint8(hi<<4 | (lo & 0x0F))
	} else {
		sum := a + v + carryIn
		c.setFlag(FlagCarry, sum > 0xFF)
		c.setFlag(FlagOverflow, (a^v)&0x80 == 0 && (a^sum)&0x80 != 0)
		c.A = uint8(sum)
		c.setZN(c.A)
	}
}

// sbc implements SBC. Unlike ADC, all four affected flags (C, V, Z, N) are
// computed from the plain binary subtraction even in decimal mode; only the
// stored accumulator value gets the BCD nibble correction.
func (c *CPU) sbc(val uint8) {
	carryIn := 0
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	a := int(c.A)
	v := int(val)
	borrow := 1 - carryIn
	bin := a - v - borrow

	c.setFlag(FlagCarry, bin >= 0)
	c.setFlag(FlagOverflow, (a^v)&0x80 != 0 && (a^bin)&0x80 != 0)
	binResult := uint8(bin)
	c.setZN(binResult)

	if c.flag(FlagDecimal) {
		lo := (a & 0x0F) - (v & 0x0F) - borrow
		hi := (a >> 4) - (v >> 4)
		if lo < 0 {
			lo -= 6
			hi--
		}
		if hi < 0 {
			hi -= 6
		}
		c.A = uint8(hi<<4&0xF0 | lo&0x0F)
	} else {
		c.A = binResult
	}
}

func (c *CPU) compare(reg, val uint8) {
	result := reg - val
	c.setFlag(FlagCarry, reg >= val)
	c.setZN(result)
}

func (c *CPU) asl(val uint8) uint8 {
	c.setFlag(FlagCarry, val&0x80 != 0)
	result := val << 1
	c.setZN(result)
	return result
}

func (c *CPU) lsr(val uint8) uint8 {
	c.setFlag(FlagCarry, val&0x01 != 0)
	result := val >> 1
	c.setZN(result)
	return result
}

func (c *CPU) rol(val uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, val&0x80 != 0)
	result := val<<1 | carryIn
	c.setZN(result)
	return result
}

func (c *CPU) ror(val uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, val&0x01 != 0)
	result := val>>1 | carryIn
	c.setZN(result)
	return result
}
