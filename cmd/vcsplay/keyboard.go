package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mguler/atari2600/input"
)

// keyboardState tracks which keys are currently held, translated into
// joystick 0 and the console switches each frame. A real joystick/gamepad
// is out of scope for this demo binary; arrow keys plus space stand in for
// the one controller most test ROMs expect.
type keyboardState struct {
	up, down, left, right, button bool
	reset, selectSw               bool
	colorBW                       bool
	difficultyA, difficultyB      bool
}

func newKeyboardState() *keyboardState {
	return &keyboardState{colorBW: true, difficultyA: true, difficultyB: true}
}

func (k *keyboardState) handle(e *sdl.KeyboardEvent) {
	pressed := e.State == sdl.PRESSED
	switch e.Keysym.Sym {
	case sdl.K_UP:
		k.up = pressed
	case sdl.K_DOWN:
		k.down = pressed
	case sdl.K_LEFT:
		k.left = pressed
	case sdl.K_RIGHT:
		k.right = pressed
	case sdl.K_SPACE:
		k.button = pressed
	case sdl.K_F1:
		if pressed {
			k.reset = !k.reset
		}
	case sdl.K_F2:
		if pressed {
			k.selectSw = !k.selectSw
		}
	case sdl.K_F3:
		if pressed {
			k.colorBW = !k.colorBW
		}
	case sdl.K_F4:
		if pressed {
			k.difficultyA = !k.difficultyA
		}
	case sdl.K_F5:
		if pressed {
			k.difficultyB = !k.difficultyB
		}
	}
}

// apply writes the current key state into the shared InputState the
// console reads controller/switch bits from.
func (k *keyboardState) apply(in *input.InputState) {
	in.Joystick[0] = input.Stick{Up: k.up, Down: k.down, Left: k.left, Right: k.right, Button: k.button}
	in.Reset = k.reset
	in.GameSelect = k.selectSw
	in.ColorBW = k.colorBW
	in.Difficulty[0] = k.difficultyA
	in.Difficulty[1] = k.difficultyB
}
