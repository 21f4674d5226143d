package tia

import "github.com/mguler/atari2600/palette"

// copyOffsets returns the copy-base offsets a NUSIZx mode replicates a
// player/missile at, the number of offsets in use, and the player size
// multiplier (missiles and the ball have their own width fields and ignore
// the multiplier). A fixed [3]int array returned by value avoids allocating
// on every pixel, unlike an iterator over the copy list.
func copyOffsets(nusiz uint8) ([3]int, int, int) {
	switch nusiz & 0x07 {
	case 0:
		return [3]int{0, 0, 0}, 1, 1
	case 1:
		return [3]int{0, 16, 0}, 2, 1
	case 2:
		return [3]int{0, 32, 0}, 2, 1
	case 3:
		return [3]int{0, 16, 32}, 3, 1
	case 4:
		return [3]int{0, 64, 0}, 2, 1
	case 5:
		return [3]int{0, 0, 0}, 1, 2
	case 6:
		return [3]int{0, 32, 64}, 3, 1
	case 7:
		return [3]int{0, 0, 0}, 1, 4
	}
	return [3]int{0, 0, 0}, 1, 1
}

func (t *TIA) playfieldBit(dot int) bool {
	switch {
	case dot >= 0 && dot <= 3:
		return t.pf0&(1<<uint(4+dot)) != 0
	case dot >= 4 && dot <= 11:
		return t.pf1&(1<<uint(7-(dot-4))) != 0
	case dot >= 12 && dot <= 19:
		return t.pf2&(1<<uint(dot-12)) != 0
	}
	return false
}

// playfieldPixel reports whether the playfield is lit at column x (0-159).
// Each playfield bit spans 4 pixels; the right half of the screen either
// repeats or mirrors the left half depending on CTRLPF bit0.
func (t *TIA) playfieldPixel(x int) bool {
	dot := x >> 2
	if dot < 20 {
		return t.playfieldBit(dot)
	}
	if t.ctrlpf&0x01 != 0 {
		return t.playfieldBit(39 - dot)
	}
	return t.playfieldBit(dot - 20)
}

func (t *TIA) playerPixel(x, objX int, nusiz, refp, grpCur, grpOld uint8, vdel bool) bool {
	grp := grpCur
	if vdel {
		grp = grpOld
	}
	if grp == 0 {
		return false
	}
	offsets, n, sizeMul := copyOffsets(nusiz)
	for i := 0; i < n; i++ {
		b := wrap160(objX + offsets[i])
		dx := wrap160(x - b)
		if dx < 8*sizeMul {
			bitIndex := dx / sizeMul
			chosen := 7 - bitIndex
			if refp&0x08 != 0 {
				chosen = bitIndex
			}
			if grp&(1<<uint(chosen)) != 0 {
				return true
			}
		}
	}
	return false
}

func (t *TIA) missilePixel(x, objX int, nusiz, enam uint8) bool {
	if enam&0x02 == 0 {
		return false
	}
	width := 1 << ((nusiz >> 4) & 0x03)
	offsets, n, _ := copyOffsets(nusiz)
	for i := 0; i < n; i++ {
		b := wrap160(objX + offsets[i])
		dx := wrap160(x - b)
		if dx < width {
			return true
		}
	}
	return false
}

func (t *TIA) ballPixel(x int) bool {
	en := t.enabl
	if t.vdelbl {
		en = t.enablOld
	}
	if en&0x02 == 0 {
		return false
	}
	width := 1 << ((t.ctrlpf >> 4) & 0x03)
	dx := wrap160(x - t.blx)
	return dx < width
}

func (t *TIA) grp0Shown() (uint8, uint8) { return t.grp0, t.grp0Old }
func (t *TIA) grp1Shown() (uint8, uint8) { return t.grp1, t.grp1Old }

// composeAndRender computes the logical per-object hit flags for column x,
// updates the collision latches from them regardless of priority or score
// mode, then picks a color by priority and writes one framebuffer pixel.
//
// Collision detection shares the same visible() gate as rendering: objects
// are only checked against each other within the rendered window, rather
// than continuously as real TIA counters run. This is a deliberate
// simplification (every collision property a game depends on fires during
// the visible picture, never during blanking).
func (t *TIA) composeAndRender(x int) {
	pf := t.playfieldPixel(x)

	grp0, grp0Old := t.grp0Shown()
	grp1, grp1Old := t.grp1Shown()
	p0 := t.playerPixel(x, t.p0x, t.nusiz0, t.refp0, grp0, grp0Old, t.vdelp0)
	p1 := t.playerPixel(x, t.p1x, t.nusiz1, t.refp1, grp1, grp1Old, t.vdelp1)
	m0 := t.missilePixel(x, t.m0x, t.nusiz0, t.enam0)
	m1 := t.missilePixel(x, t.m1x, t.nusiz1, t.enam1)
	bl := t.ballPixel(x)

	if m0 && p0 {
		t.collision[CXM0P] |= 0x80
	}
	if m0 && p1 {
		t.collision[CXM0P] |= 0x40
	}
	if m1 && p1 {
		t.collision[CXM1P] |= 0x80
	}
	if m1 && p0 {
		t.collision[CXM1P] |= 0x40
	}
	if p0 && pf {
		t.collision[CXP0FB] |= 0x80
	}
	if p0 && bl {
		t.collision[CXP0FB] |= 0x40
	}
	if p1 && pf {
		t.collision[CXP1FB] |= 0x80
	}
	if p1 && bl {
		t.collision[CXP1FB] |= 0x40
	}
	if m0 && pf {
		t.collision[CXM0FB] |= 0x80
	}
	if m0 && bl {
		t.collision[CXM0FB] |= 0x40
	}
	if m1 && pf {
		t.collision[CXM1FB] |= 0x80
	}
	if m1 && bl {
		t.collision[CXM1FB] |= 0x40
	}
	if bl && pf {
		t.collision[CXBLPF] |= 0x80
	}
	if p0 && p1 {
		t.collision[CXPPMM] |= 0x80
	}
	if m0 && m1 {
		t.collision[CXPPMM] |= 0x40
	}

	priority := t.ctrlpf&0x04 != 0
	score := t.ctrlpf&0x02 != 0

	pfOrBallColor := func() uint8 {
		if score {
			if x < 80 {
				return t.colup0
			}
			return t.colup1
		}
		return t.colupf
	}
	objColor := func() (uint8, bool) {
		switch {
		case p0:
			return t.colup0, true
		case m0:
			return t.colup0, true
		case p1:
			return t.colup1, true
		case m1:
			return t.colup1, true
		}
		return 0, false
	}

	var colorVal uint8
	switch {
	case priority && pf:
		colorVal = pfOrBallColor()
	case priority && bl:
		colorVal = t.colupf
	default:
		if c, ok := objColor(); ok {
			colorVal = c
		} else if pf {
			colorVal = pfOrBallColor()
		} else if bl {
			colorVal = t.colupf
		} else {
			colorVal = t.colubk
		}
	}

	row := t.sl - t.visibleStart
	if row < 0 || row >= FrameHeight {
		if !t.ignoreVisibleWindow {
			return
		}
		row = ((row % FrameHeight) + FrameHeight) % FrameHeight
	}
	idx := row*VisibleWidth + x
	if idx >= 0 && idx < len(t.fb) {
		t.fb[idx] = 0xFF000000 | palette.Lookup(colorVal)
	}
}
