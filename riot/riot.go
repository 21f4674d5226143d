// Package riot implements the 6532 RIOT (RAM + I/O + Timer) as wired into
// an Atari 2600: 128 bytes of RAM, the two 8 bit joystick/console-switch
// ports, and the programmable interval timer. Grounded on the teacher's
// pia6532 package (same Init/Tick/TickDone shape, same register-offset
// switch), simplified to the subset the VCS actually exercises: SWACNT/
// SWBCNT are plain read/write registers (the VCS never attaches an output
// device to either port, so the teacher's DDR-masked output latch and PA7
// edge-interrupt logic have no effect here and are dropped).
package riot

import (
	"fmt"

	"github.com/mguler/atari2600/input"
	"github.com/mguler/atari2600/memory"
)

const ramSize = 128

// Prescale values the timer can be programmed with.
const (
	Prescale1    = 1
	Prescale8    = 8
	Prescale64   = 64
	Prescale1024 = 1024
)

// RIOT is the 6532 chip state.
type RIOT struct {
	ram memory.Bank
	in  *input.InputState

	swacnt uint8
	swbcnt uint8

	intim           uint8
	running         bool
	underflow       bool
	prescale        int
	prescaleCounter int

	debug bool
}

// New returns a powered-on RIOT wired to the given shared input state.
func New(in *input.InputState, debug bool) (*RIOT, error) {
	ram, err := memory.NewRAM(ramSize)
	if err != nil {
		return nil, fmt.Errorf("riot: can't allocate RAM: %v", err)
	}
	r := &RIOT{ram: ram, in: in, debug: debug}
	r.PowerOn()
	return r, nil
}

// PowerOn resets the RIOT to its power-on state.
func (r *RIOT) PowerOn() {
	r.ram.PowerOn()
	r.swacnt = 0
	r.swbcnt = 0
	r.intim = 0
	r.running = false
	r.underflow = false
	r.prescale = Prescale1024
	r.prescaleCounter = Prescale1024
}

// ReadRAM returns a byte from the 128 byte internal RAM. addr is masked to
// 7 bits; the Bus is responsible for deciding an access belongs to RAM.
func (r *RIOT) ReadRAM(addr uint16) uint8 { return r.ram.Read(addr & 0x7F) }

// WriteRAM writes a byte to the 128 byte internal RAM.
func (r *RIOT) WriteRAM(addr uint16, val uint8) { r.ram.Write(addr&0x7F, val) }

// Register offsets, relative to the I/O page (addr & 0xFF).
const (
	regSWCHA  = 0x80
	regSWACNT = 0x81
	regSWCHB  = 0x82
	regSWBCNT = 0x83
	regINTIM  = 0x84
	regINSTAT = 0x85

	regTIM1T    = 0x94
	regTIM8T    = 0x95
	regTIM64T   = 0x96
	regTIM1024T = 0x97
)

// ReadReg returns the value of an I/O or timer register. Any offset not
// named in the table above reads as open bus (0), matching the Bus's
// default for undecoded addresses.
func (r *RIOT) ReadReg(addr uint16) uint8 {
	switch addr & 0xFF {
	case regSWCHA:
		return r.in.SWCHA()
	case regSWACNT:
		return r.swacnt
	case regSWCHB:
		return r.in.SWCHB()
	case regSWBCNT:
		return r.swbcnt
	case regINTIM:
		return r.intim
	case regINSTAT:
		if r.underflow {
			return 0x80
		}
		return 0x00
	}
	return 0
}

// WriteReg handles a write to an I/O or timer register.
func (r *RIOT) WriteReg(addr uint16, val uint8) {
	switch addr & 0xFF {
	case regSWACNT:
		r.swacnt = val
	case regSWBCNT:
		r.swbcnt = val
	case regTIM1T:
		r.startTimer(val, Prescale1)
	case regTIM8T:
		r.startTimer(val, Prescale8)
	case regTIM64T:
		r.startTimer(val, Prescale64)
	case regTIM1024T:
		r.startTimer(val, Prescale1024)
	}
}

func (r *RIOT) startTimer(val uint8, prescale int) {
	r.intim = val
	r.prescale = prescale
	r.prescaleCounter = prescale
	r.underflow = false
	r.running = true
}

// Tick advances the timer by one CPU cycle.
func (r *RIOT) Tick() {
	if !r.running {
		return
	}
	r.prescaleCounter--
	if r.prescaleCounter == 0 {
		r.prescaleCounter = r.prescale
		if r.intim == 0 {
			r.intim = 0xFF
			r.underflow = true
		} else {
			r.intim--
		}
	}
}

// Intim returns the current timer value, for debug tooling.
func (r *RIOT) Intim() uint8 { return r.intim }

// Underflow reports whether the timer has wrapped since it was last
// (re)started, for debug tooling.
func (r *RIOT) Underflow() bool { return r.underflow }

// Debug returns a short state summary when constructed with debug=true,
// or the empty string otherwise, matching the teacher's chip Debug()
// convention.
func (r *RIOT) Debug() string {
	if !r.debug {
		return ""
	}
	return fmt.Sprintf("intim=%.2X running=%t underflow=%t prescale=%d", r.intim, r.running, r.underflow, r.prescale)
}
