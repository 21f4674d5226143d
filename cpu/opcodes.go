package cpu

// opcodeEntry describes one of the 256 possible opcode bytes: its
// addressing mode, base cycle cost, and handler. This replaces the
// teacher's per-opcode closures-over-Chip-state dispatch with a fixed-size
// table of tagged descriptors whose handler is a plain function taking an
// explicit *CPU -- no captured state, so the table is a package-level var
// built once in init() rather than per-Chip.
type addrMode struct {
	name string
	fn   func(*CPU) (uint16, bool)
	// operandLen is the number of operand bytes this mode consumes,
	// for disassembly.
	operandLen int
}

var (
	modeImpliedM     = addrMode{"implied", modeImplied, 0}
	modeAccumulatorM = addrMode{"A", modeAccumulator, 0}
	modeImmediateM   = addrMode{"imm", modeImmediate, 1}
	modeZeroPageM    = addrMode{"zp", modeZeroPage, 1}
	modeZeroPageXM   = addrMode{"zp,X", modeZeroPageX, 1}
	modeZeroPageYM   = addrMode{"zp,Y", modeZeroPageY, 1}
	modeAbsoluteM    = addrMode{"abs", modeAbsolute, 2}
	modeAbsoluteXM   = addrMode{"abs,X", modeAbsoluteX, 2}
	modeAbsoluteYM   = addrMode{"abs,Y", modeAbsoluteY, 2}
	modeIndirectM    = addrMode{"ind", modeIndirect, 2}
	modeIndirectXM   = addrMode{"(zp,X)", modeIndirectX, 1}
	modeIndirectYM   = addrMode{"(zp),Y", modeIndirectY, 1}
	modeRelativeM    = addrMode{"rel", modeRelative, 1}
)

type opcodeEntry struct {
	name       string
	mode       addrMode
	cycles     int
	handler    func(c *CPU, addr uint16, pageCrossed bool) int
	documented bool
}

var opcodeTable [256]opcodeEntry

func set(op uint8, name string, mode addrMode, cycles int, handler func(*CPU, uint16, bool) int) {
	opcodeTable[op] = opcodeEntry{name: name, mode: mode, cycles: cycles, handler: handler, documented: true}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeEntry{name: "NOP", mode: modeImpliedM, cycles: 2, handler: hNOP, documented: false}
	}

	set(0x00, "BRK", modeImpliedM, 7, hBRK)
	set(0x01, "ORA", modeIndirectXM, 6, hORA)
	set(0x05, "ORA", modeZeroPageM, 3, hORA)
	set(0x06, "ASL", modeZeroPageM, 5, hASL)
	set(0x08, "PHP", modeImpliedM, 3, hPHP)
	set(0x09, "ORA", modeImmediateM, 2, hORA)
	set(0x0A, "ASL", modeAccumulatorM, 2, hASLA)
	set(0x0D, "ORA", modeAbsoluteM, 4, hORA)
	set(0x0E, "ASL", modeAbsoluteM, 6, hASL)

	set(0x10, "BPL", modeRelativeM, 2, hBPL)
	set(0x11, "ORA", modeIndirectYM, 5, hORA)
	set(0x15, "ORA", modeZeroPageXM, 4, hORA)
	set(0x16, "ASL", modeZeroPageXM, 6, hASL)
	set(0x18, "CLC", modeImpliedM, 2, hCLC)
	set(0x19, "ORA", modeAbsoluteYM, 4, hORA)
	set(0x1D, "ORA", modeAbsoluteXM, 4, hORA)
	set(0x1E, "ASL", modeAbsoluteXM, 7, hASL)

	set(0x20, "JSR", modeAbsoluteM, 6, hJSR)
	set(0x21, "AND", modeIndirectXM, 6, hAND)
	set(0x24, "BIT", modeZeroPageM, 3, hBIT)
	set(0x25, "AND", modeZeroPageM, 3, hAND)
	set(0x26, "ROL", modeZeroPageM, 5, hROL)
	set(0x28, "PLP", modeImpliedM, 4, hPLP)
	set(0x29, "AND", modeImmediateM, 2, hAND)
	set(0x2A, "ROL", modeAccumulatorM, 2, hROLA)
	set(0x2C, "BIT", modeAbsoluteM, 4, hBIT)
	set(0x2D, "AND", modeAbsoluteM, 4, hAND)
	set(0x2E, "ROL", modeAbsoluteM, 6, hROL)

	set(0x30, "BMI", modeRelativeM, 2, hBMI)
	set(0x31, "AND", modeIndirectYM, 5, hAND)
	set(0x35, "AND", modeZeroPageXM, 4, hAND)
	set(0x36, "ROL", modeZeroPageXM, 6, hROL)
	set(0x38, "SEC", modeImpliedM, 2, hSEC)
	set(0x39, "AND", modeAbsoluteYM, 4, hAND)
	set(0x3D, "AND", modeAbsoluteXM, 4, hAND)
	set(0x3E, "ROL", modeAbsoluteXM, 7, hROL)

	set(0x40, "RTI", modeImpliedM, 6, hRTI)
	set(0x41, "EOR", modeIndirectXM, 6, hEOR)
	set(0x45, "EOR", modeZeroPageM, 3, hEOR)
	set(0x46, "LSR", modeZeroPageM, 5, hLSR)
	set(0x48, "PHA", modeImpliedM, 3, hPHA)
	set(0x49, "EOR", modeImmediateM, 2, hEOR)
	set(0x4A, "LSR", modeAccumulatorM, 2, hLSRA)
	set(0x4C, "JMP", modeAbsoluteM, 3, hJMP)
	set(0x4D, "EOR", modeAbsoluteM, 4, hEOR)
	set(0x4E, "LSR", modeAbsoluteM, 6, hLSR)

	set(0x50, "BVC", modeRelativeM, 2, hBVC)
	set(0x51, "EOR", modeIndirectYM, 5, hEOR)
	set(0x55, "EOR", modeZeroPageXM, 4, hEOR)
	set(0x56, "LSR", modeZeroPageXM, 6, hLSR)
	set(0x58, "CLI", modeImpliedM, 2, hCLI)
	set(0x59, "EOR", modeAbsoluteYM, 4, hEOR)
	set(0x5D, "EOR", modeAbsoluteXM, 4, hEOR)
	set(0x5E, "LSR", modeAbsoluteXM, 7, hLSR)

	set(0x60, "RTS", modeImpliedM, 6, hRTS)
	set(0x61, "ADC", modeIndirectXM, 6, hADC)
	set(0x65, "ADC", modeZeroPageM, 3, hADC)
	set(0x66, "ROR", modeZeroPageM, 5, hROR)
	set(0x68, "PLA", modeImpliedM, 4, hPLA)
	set(0x69, "ADC", modeImmediateM, 2, hADC)
	set(0x6A, "ROR", modeAccumulatorM, 2, hRORA)
	set(0x6C, "JMP", modeIndirectM, 5, hJMP)
	set(0x6D, "ADC", modeAbsoluteM, 4, hADC)
	set(0x6E, "ROR", modeAbsoluteM, 6, hROR)

	set(0x70, "BVS", modeRelativeM, 2, hBVS)
	set(0x71, "ADC", modeIndirectYM, 5, hADC)
	set(0x75, "ADC", modeZeroPageXM, 4, hADC)
	set(0x76, "ROR", modeZeroPageXM, 6, hROR)
	set(0x78, "SEI", modeImpliedM, 2, hSEI)
	set(0x79, "ADC", modeAbsoluteYM, 4, hADC)
	set(0x7D, "ADC", modeAbsoluteXM, 4, hADC)
	set(0x7E, "ROR", modeAbsoluteXM, 7, hROR)

	set(0x81, "STA", modeIndirectXM, 6, hSTA)
	set(0x84, "STY", modeZeroPageM, 3, hSTY)
	set(0x85, "STA", modeZeroPageM, 3, hSTA)
	set(0x86, "STX", modeZeroPageM, 3, hSTX)
	set(0x88, "DEY", modeImpliedM, 2, hDEY)
	set(0x8A, "TXA", modeImpliedM, 2, hTXA)
	set(0x8C, "STY", modeAbsoluteM, 4, hSTY)
	set(0x8D, "STA", modeAbsoluteM, 4, hSTA)
	set(0x8E, "STX", modeAbsoluteM, 4, hSTX)

	set(0x90, "BCC", modeRelativeM, 2, hBCC)
	set(0x91, "STA", modeIndirectYM, 6, hSTA)
	set(0x94, "STY", modeZeroPageXM, 4, hSTY)
	set(0x95, "STA", modeZeroPageXM, 4, hSTA)
	set(0x96, "STX", modeZeroPageYM, 4, hSTX)
	set(0x98, "TYA", modeImpliedM, 2, hTYA)
	set(0x99, "STA", modeAbsoluteYM, 5, hSTA)
	set(0x9A, "TXS", modeImpliedM, 2, hTXS)
	set(0x9D, "STA", modeAbsoluteXM, 5, hSTA)

	set(0xA0, "LDY", modeImmediateM, 2, hLDY)
	set(0xA1, "LDA", modeIndirectXM, 6, hLDA)
	set(0xA2, "LDX", modeImmediateM, 2, hLDX)
	set(0xA4, "LDY", modeZeroPageM, 3, hLDY)
	set(0xA5, "LDA", modeZeroPageM, 3, hLDA)
	set(0xA6, "LDX", modeZeroPageM, 3, hLDX)
	set(0xA8, "TAY", modeImpliedM, 2, hTAY)
	set(0xA9, "LDA", modeImmediateM, 2, hLDA)
	set(0xAA, "TAX", modeImpliedM, 2, hTAX)
	set(0xAC, "LDY", modeAbsoluteM, 4, hLDY)
	set(0xAD, "LDA", modeAbsoluteM, 4, hLDA)
	set(0xAE, "LDX", modeAbsoluteM, 4, hLDX)

	set(0xB0, "BCS", modeRelativeM, 2, hBCS)
	set(0xB1, "LDA", modeIndirectYM, 5, hLDA)
	set(0xB4, "LDY", modeZeroPageXM, 4, hLDY)
	set(0xB5, "LDA", modeZeroPageXM, 4, hLDA)
	set(0xB6, "LDX", modeZeroPageYM, 4, hLDX)
	set(0xB8, "CLV", modeImpliedM, 2, hCLV)
	set(0xB9, "LDA", modeAbsoluteYM, 4, hLDA)
	set(0xBA, "TSX", modeImpliedM, 2, hTSX)
	set(0xBC, "LDY", modeAbsoluteXM, 4, hLDY)
	set(0xBD, "LDA", modeAbsoluteXM, 4, hLDA)
	set(0xBE, "LDX", modeAbsoluteYM, 4, hLDX)

	set(0xC0, "CPY", modeImmediateM, 2, hCPY)
	set(0xC1, "CMP", modeIndirectXM, 6, hCMP)
	set(0xC4, "CPY", modeZeroPageM, 3, hCPY)
	set(0xC5, "CMP", modeZeroPageM, 3, hCMP)
	set(0xC6, "DEC", modeZeroPageM, 5, hDEC)
	set(0xC8, "INY", modeImpliedM, 2, hINY)
	set(0xC9, "CMP", modeImmediateM, 2, hCMP)
	set(0xCA, "DEX", modeImpliedM, 2, hDEX)
	set(0xCC, "CPY", modeAbsoluteM, 4, hCPY)
	set(0xCD, "CMP", modeAbsoluteM, 4, hCMP)
	set(0xCE, "DEC", modeAbsoluteM, 6, hDEC)

	set(0xD0, "BNE", modeRelativeM, 2, hBNE)
	set(0xD1, "CMP", modeIndirectYM, 5, hCMP)
	set(0xD5, "CMP", modeZeroPageXM, 4, hCMP)
	set(0xD6, "DEC", modeZeroPageXM, 6, hDEC)
	set(0xD8, "CLD", modeImpliedM, 2, hCLD)
	set(0xD9, "CMP", modeAbsoluteYM, 4, hCMP)
	set(0xDD, "CMP", modeAbsoluteXM, 4, hCMP)
	set(0xDE, "DEC", modeAbsoluteXM, 7, hDEC)

	set(0xE0, "CPX", modeImmediateM, 2, hCPX)
	set(0xE1, "SBC", modeIndirectXM, 6, hSBC)
	set(0xE4, "CPX", modeZeroPageM, 3, hCPX)
	set(0xE5, "SBC", modeZeroPageM, 3, hSBC)
	set(0xE6, "INC", modeZeroPageM, 5, hINC)
	set(0xE8, "INX", modeImpliedM, 2, hINX)
	set(0xE9, "SBC", modeImmediateM, 2, hSBC)
	set(0xEA, "NOP", modeImpliedM, 2, hNOP)
	set(0xEC, "CPX", modeAbsoluteM, 4, hCPX)
	set(0xED, "SBC", modeAbsoluteM, 4, hSBC)
	set(0xEE, "INC", modeAbsoluteM, 6, hINC)

	set(0xF0, "BEQ", modeRelativeM, 2, hBEQ)
	set(0xF1, "SBC", modeIndirectYM, 5, hSBC)
	set(0xF5, "SBC", modeZeroPageXM, 4, hSBC)
	set(0xF6, "INC", modeZeroPageXM, 6, hINC)
	set(0xF8, "SED", modeImpliedM, 2, hSED)
	set(0xF9, "SBC", modeAbsoluteYM, 4, hSBC)
	set(0xFD, "SBC", modeAbsoluteXM, 4, hSBC)
	set(0xFE, "INC", modeAbsoluteXM, 7, hINC)
}

// --- load/store ---

func hLDA(c *CPU, addr uint16, pageCrossed bool) int {
	c.A = c.bus.Read(addr)
	c.setZN(c.A)
	return extraIf(pageCrossed)
}

func hLDX(c *CPU, addr uint16, pageCrossed bool) int {
	c.X = c.bus.Read(addr)
	c.setZN(c.X)
	return extraIf(pageCrossed)
}

func hLDY(c *CPU, addr uint16, pageCrossed bool) int {
	c.Y = c.bus.Read(addr)
	c.setZN(c.Y)
	return extraIf(pageCrossed)
}

func hSTA(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.A)
	return 0
}

func hSTX(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.X)
	return 0
}

func hSTY(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.Y)
	return 0
}

func extraIf(pageCrossed bool) int {
	if pageCrossed {
		return 1
	}
	return 0
}

// --- ALU ---

func hADC(c *CPU, addr uint16, pageCrossed bool) int {
	c.adc(c.bus.Read(addr))
	return extraIf(pageCrossed)
}

func hSBC(c *CPU, addr uint16, pageCrossed bool) int {
	c.sbc(c.bus.Read(addr))
	return extraIf(pageCrossed)
}

func hAND(c *CPU, addr uint16, pageCrossed bool) int {
	c.A &= c.bus.Read(addr)
	c.setZN(c.A)
	return extraIf(pageCrossed)
}

func hORA(c *CPU, addr uint16, pageCrossed bool) int {
	c.A |= c.bus.Read(addr)
	c.setZN(c.A)
	return extraIf(pageCrossed)
}

func hEOR(c *CPU, addr uint16, pageCrossed bool) int {
	c.A ^= c.bus.Read(addr)
	c.setZN(c.A)
	return extraIf(pageCrossed)
}

func hCMP(c *CPU, addr uint16, pageCrossed bool) int {
	c.compare(c.A, c.bus.Read(addr))
	return extraIf(pageCrossed)
}

func hCPX(c *CPU, addr uint16, pageCrossed bool) int {
	c.compare(c.X, c.bus.Read(addr))
	return 0
}

func hCPY(c *CPU, addr uint16, pageCrossed bool) int {
	c.compare(c.Y, c.bus.Read(addr))
	return 0
}

func hBIT(c *CPU, addr uint16, pageCrossed bool) int {
	val := c.bus.Read(addr)
	c.setFlag(FlagZero, c.A&val == 0)
	c.setFlag(FlagOverflow, val&0x40 != 0)
	c.setFlag(FlagNegative, val&0x80 != 0)
	return 0
}

// --- shifts/rotates ---

func hASL(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.asl(c.bus.Read(addr)))
	return 0
}
func hASLA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.asl(c.A); return 0 }

func hLSR(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.lsr(c.bus.Read(addr)))
	return 0
}
func hLSRA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.lsr(c.A); return 0 }

func hROL(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.rol(c.bus.Read(addr)))
	return 0
}
func hROLA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.rol(c.A); return 0 }

func hROR(c *CPU, addr uint16, pageCrossed bool) int {
	c.bus.Write(addr, c.ror(c.bus.Read(addr)))
	return 0
}
func hRORA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.ror(c.A); return 0 }

// --- inc/dec ---

func hINC(c *CPU, addr uint16, pageCrossed bool) int {
	val := c.bus.Read(addr) + 1
	c.bus.Write(addr, val)
	c.setZN(val)
	return 0
}
func hDEC(c *CPU, addr uint16, pageCrossed bool) int {
	val := c.bus.Read(addr) - 1
	c.bus.Write(addr, val)
	c.setZN(val)
	return 0
}
func hINX(c *CPU, addr uint16, pageCrossed bool) int { c.X++; c.setZN(c.X); return 0 }
func hINY(c *CPU, addr uint16, pageCrossed bool) int { c.Y++; c.setZN(c.Y); return 0 }
func hDEX(c *CPU, addr uint16, pageCrossed bool) int { c.X--; c.setZN(c.X); return 0 }
func hDEY(c *CPU, addr uint16, pageCrossed bool) int { c.Y--; c.setZN(c.Y); return 0 }

// --- register transfers ---

func hTAX(c *CPU, addr uint16, pageCrossed bool) int { c.X = c.A; c.setZN(c.X); return 0 }
func hTXA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.X; c.setZN(c.A); return 0 }
func hTAY(c *CPU, addr uint16, pageCrossed bool) int { c.Y = c.A; c.setZN(c.Y); return 0 }
func hTYA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.Y; c.setZN(c.A); return 0 }
func hTSX(c *CPU, addr uint16, pageCrossed bool) int { c.X = c.SP; c.setZN(c.X); return 0 }
func hTXS(c *CPU, addr uint16, pageCrossed bool) int { c.SP = c.X; return 0 }

// --- flags ---

func hCLC(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagCarry, false); return 0 }
func hSEC(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagCarry, true); return 0 }
func hCLI(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagInterrupt, false); return 0 }
func hSEI(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagInterrupt, true); return 0 }
func hCLV(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagOverflow, false); return 0 }
func hCLD(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagDecimal, false); return 0 }
func hSED(c *CPU, addr uint16, pageCrossed bool) int { c.setFlag(FlagDecimal, true); return 0 }

// --- stack ---

func hPHA(c *CPU, addr uint16, pageCrossed bool) int { c.push(c.A); return 0 }
func hPLA(c *CPU, addr uint16, pageCrossed bool) int { c.A = c.pop(); c.setZN(c.A); return 0 }
func hPHP(c *CPU, addr uint16, pageCrossed bool) int {
	c.push(c.P | FlagBreak | FlagUnused)
	return 0
}
func hPLP(c *CPU, addr uint16, pageCrossed bool) int {
	val := c.pop()
	c.P = val&^FlagBreak | FlagUnused
	return 0
}

// --- control flow ---

func hJMP(c *CPU, addr uint16, pageCrossed bool) int { c.PC = addr; return 0 }
func hJSR(c *CPU, addr uint16, pageCrossed bool) int {
	c.push16(c.PC - 1)
	c.PC = addr
	return 0
}
func hRTS(c *CPU, addr uint16, pageCrossed bool) int { c.PC = c.pop16() + 1; return 0 }
func hBRK(c *CPU, addr uint16, pageCrossed bool) int {
	c.PC++ // the byte after BRK's opcode is skipped, by convention
	c.serviceInterrupt(vectorIRQ, true)
	return 0
}
func hRTI(c *CPU, addr uint16, pageCrossed bool) int {
	val := c.pop()
	c.P = val&^FlagBreak | FlagUnused
	c.PC = c.pop16()
	return 0
}
func hNOP(c *CPU, addr uint16, pageCrossed bool) int { return 0 }

func (c *CPU) branch(taken bool, addr uint16, pageCrossed bool) int {
	if !taken {
		return 0
	}
	extra := 1
	if pageCrossed {
		extra = 2
	}
	c.PC = addr
	return extra
}

func hBCC(c *CPU, addr uint16, pageCrossed bool) int { return c.branch(!c.flag(FlagCarry), addr, pageCrossed) }
func hBCS(c *CPU, addr uint16, pageCrossed bool) int { return c.branch(c.flag(FlagCarry), addr, pageCrossed) }
func hBEQ(c *CPU, addr uint16, pageCrossed bool) int { return c.branch(c.flag(FlagZero), addr, pageCrossed) }
func hBNE(c *CPU, addr uint16, pageCrossed bool) int { return c.branch(!c.flag(FlagZero), addr, pageCrossed) }
func hBMI(c *CPU, addr uint16, pageCrossed bool) int { return c.branch(c.flag(FlagNegative), addr, pageCrossed) }
func hBPL(c *CPU, addr uint16, pageCrossed bool) int {
	return c.branch(!c.flag(FlagNegative), addr, pageCrossed)
}
func hBVC(c *CPU, addr uint16, pageCrossed bool) int {
	return c.branch(!c.flag(FlagOverflow), addr, pageCrossed)
}
func hBVS(c *CPU, addr uint16, pageCrossed bool) int {
	return c.branch(c.flag(FlagOverflow), addr, pageCrossed)
}
