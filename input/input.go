// Package input holds the controller and console-switch state shared
// between the host and the emulated RIOT and TIA. The host (keyboard, SDL2
// joystick events, etc.) is the only writer; RIOT and TIA are read-only
// consumers. Per-bit tearing between a write and a read is acceptable: each
// bit is latched into its own readback independently and real game code
// polls repeatedly, so a single stale bit for one frame is invisible.
//
// Paddle and keypad controllers are not emulated and have no
// representation here.
package input

// Stick is a single 4-direction-plus-button joystick.
type Stick struct {
	Up, Down, Left, Right bool
	Button                bool
}

// InputState is the complete set of controller and console switch state for
// one emulated session. It is owned by the Console and handed by reference
// to RIOT and TIA at construction time.
type InputState struct {
	Joystick [2]Stick

	// Difficulty is the pair of right/left difficulty switches. false =
	// Beginner (B), true = Advanced (A).
	Difficulty [2]bool

	// ColorBW is the TV type switch. true = Color, false = Black & White.
	ColorBW bool

	// GameSelect is the console SELECT switch. true = held.
	GameSelect bool

	// Reset is the console RESET switch. true = held.
	Reset bool
}

// NewInputState returns a power-on default: color mode, both difficulty
// switches set to Advanced (the common default for homebrew test ROMs),
// nothing pressed.
func NewInputState() *InputState {
	return &InputState{
		ColorBW:    true,
		Difficulty: [2]bool{true, true},
	}
}

// SWCHA returns the port A joystick direction byte as RIOT would see it,
// active-low, with joystick 0 in the upper nibble and joystick 1 in the
// lower nibble. Bits: Right=bit7, Left=bit6, Down=bit5, Up=bit4 for P0;
// Right=bit3, Left=bit2, Down=bit1, Up=bit0 for P1.
func (s *InputState) SWCHA() uint8 {
	out := uint8(0xFF)
	j := s.Joystick[0]
	if j.Right {
		out &^= 0x80
	}
	if j.Left {
		out &^= 0x40
	}
	if j.Down {
		out &^= 0x20
	}
	if j.Up {
		out &^= 0x10
	}
	j = s.Joystick[1]
	if j.Right {
		out &^= 0x08
	}
	if j.Left {
		out &^= 0x04
	}
	if j.Down {
		out &^= 0x02
	}
	if j.Up {
		out &^= 0x01
	}
	return out
}

// SWCHB returns the console switch byte as RIOT would see it: bit0=Reset,
// bit1=Select, bit3=Color/BW, bit6=P0 difficulty, bit7=P1 difficulty, all
// active-low for the two momentary switches (Reset/Select).
func (s *InputState) SWCHB() uint8 {
	out := uint8(0xFF)
	if s.Reset {
		out &^= 0x01
	}
	if s.GameSelect {
		out &^= 0x02
	}
	if !s.ColorBW {
		out &^= 0x08
	}
	if s.Difficulty[0] {
		out |= 0x40
	} else {
		out &^= 0x40
	}
	if s.Difficulty[1] {
		out |= 0x80
	} else {
		out &^= 0x80
	}
	return out
}

// Trigger reports the fire button state for joystick idx (0 or 1). The
// button is wired directly to the TIA's INPT4/INPT5 latches on real
// hardware, not through the RIOT.
func (s *InputState) Trigger(idx int) bool {
	return s.Joystick[idx].Button
}
