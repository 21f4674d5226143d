package cpu

import "fmt"

// Disassemble decodes the single instruction at addr using the live bus (so
// it reflects whatever is currently mapped there, including cartridge bank
// state), returning its text and total length in bytes. It does not mutate
// CPU state.
func (c *CPU) Disassemble(addr uint16) (string, int) {
	op := c.bus.Read(addr)
	entry := &opcodeTable[op]

	switch entry.mode.operandLen {
	case 0:
		return entry.name, 1
	case 1:
		b := c.bus.Read(addr + 1)
		if entry.mode.name == "rel" {
			target := uint16(int32(addr+2) + int32(int8(b)))
			return fmt.Sprintf("%s $%.4X", entry.name, target), 2
		}
		return fmt.Sprintf("%s %s $%.2X", entry.name, entry.mode.name, b), 2
	default:
		lo := c.bus.Read(addr + 1)
		hi := c.bus.Read(addr + 2)
		return fmt.Sprintf("%s %s $%.2X%.2X", entry.name, entry.mode.name, hi, lo), 3
	}
}
