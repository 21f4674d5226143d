package tia

import (
	"testing"

	"github.com/mguler/atari2600/input"
)

func newTestTIA(t *testing.T) *TIA {
	t.Helper()
	tc, err := New(input.NewInputState(), false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tc.SetIgnoreVBlank(true)
	tc.SetIgnoreVisibleWindow(true)
	return tc
}

// writeAndSettle issues a register write and ticks four color clocks so
// the write-delay scheduler applies it: a write issued at absCC=n applies
// at the start of the tick where absCC reaches n+3, which is the fourth
// tick (VSYNC/VBLANK/WSYNC are immediate and don't need this).
func writeAndSettle(tc *TIA, reg, val uint8) {
	tc.Write(uint16(reg), val)
	tc.Tick()
	tc.Tick()
	tc.Tick()
	tc.Tick()
}

func TestCXCLRZeroesAllCollisionLatches(t *testing.T) {
	tc := newTestTIA(t)
	for i := range tc.collision {
		tc.collision[i] = 0xC0
	}
	writeAndSettle(tc, regCXCLR, 0)
	for i, v := range tc.collision {
		if v != 0 {
			t.Errorf("collision[%d] = %.2X after CXCLR, want 0", i, v)
		}
	}
}

// TestPlayfieldReflect checks the reflected playfield layout: with
// COLUBK=$00, COLUPF=$0E, CTRLPF bit0 (reflect) set, PF0=$E0 (bit4 clear,
// so dot 0 is off), PF1=$FF, PF2=$FF, pixels 0-3 are background, 4-79 and
// 80-155 are playfield color (the right half reflected), and 156-159 are
// background again.
func TestPlayfieldReflect(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regCOLUBK, 0x00)
	writeAndSettle(tc, regCOLUPF, 0x0E)
	writeAndSettle(tc, regCTRLPF, 0x01)
	writeAndSettle(tc, regPF0, 0xE0)
	writeAndSettle(tc, regPF1, 0xFF)
	writeAndSettle(tc, regPF2, 0xFF)

	for x := 0; x < VisibleWidth; x++ {
		tc.composeAndRender(x)
	}
	row := tc.sl - tc.visibleStart
	row = ((row % FrameHeight) + FrameHeight) % FrameHeight
	bgColor := tc.fb[row*VisibleWidth+0]
	pfColor := tc.fb[row*VisibleWidth+4]
	if bgColor == pfColor {
		t.Fatalf("background and playfield colors are identical (%.8X): test can't distinguish regions", bgColor)
	}
	for x := 0; x < 4; x++ {
		if got := tc.fb[row*VisibleWidth+x]; got != bgColor {
			t.Errorf("x=%d = %.8X, want background color %.8X", x, got, bgColor)
		}
	}
	for _, x := range []int{4, 40, 79, 80, 120, 155} {
		if got := tc.fb[row*VisibleWidth+x]; got != pfColor {
			t.Errorf("x=%d = %.8X, want playfield color %.8X", x, got, pfColor)
		}
	}
	for x := 156; x < 160; x++ {
		if got := tc.fb[row*VisibleWidth+x]; got != bgColor {
			t.Errorf("x=%d = %.8X, want background color %.8X", x, got, bgColor)
		}
	}
}

func TestGRP1WriteLatchesGRP0AndENABLOld(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regGRP0, 0xAA)
	writeAndSettle(tc, regENABL, 0x02)
	writeAndSettle(tc, regGRP1, 0x55)

	if tc.grp0Old != 0xAA {
		t.Errorf("grp0Old = %.2X after GRP1 write, want AA", tc.grp0Old)
	}
	if tc.enablOld != 0x02 {
		t.Errorf("enablOld = %.2X after GRP1 write, want 02", tc.enablOld)
	}

	// Changing GRP0 afterwards must not retroactively change the latched
	// old value VDELP0 would read.
	writeAndSettle(tc, regGRP0, 0x11)
	if tc.grp0Old != 0xAA {
		t.Errorf("grp0Old changed to %.2X after a later GRP0 write, want still AA", tc.grp0Old)
	}
}

func TestHMOVEPlusNThenMinusNRestoresPosition(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regRESP0, 0) // strobe positions p0x somewhere
	original := tc.p0x

	writeAndSettle(tc, regHMP0, 0x30) // nibble 3: decodeMotion gives -3, 3 pixels left
	writeAndSettle(tc, regHMOVE, 0)
	moved := tc.p0x

	// Apply the exact inverse nibble and HMOVE again. decodeMotion negates
	// the nibble, so the nibble whose motion is +3 is -3 (0xD).
	inverse := uint8((int8(decodeMotion(0x30)) & 0x0F) << 4)
	writeAndSettle(tc, regHMP0, inverse)
	writeAndSettle(tc, regHMOVE, 0)

	if tc.p0x != original {
		t.Errorf("p0x after +n/-n HMOVE round trip = %d, want %d (moved was %d)", tc.p0x, original, moved)
	}
}

func TestCollisionLatchesSetOnOverlap(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regCOLUBK, 0x00)
	writeAndSettle(tc, regCTRLPF, 0x00)
	writeAndSettle(tc, regPF0, 0xF0) // dots 0-3 lit -> x 0..15 lit

	writeAndSettle(tc, regNUSIZ0, 0x00)
	writeAndSettle(tc, regGRP0, 0xFF)
	writeAndSettle(tc, regRESP0, 0)
	tc.p0x = 0 // force the player to the lit playfield region

	tc.composeAndRender(4)

	if tc.collision[CXP0FB]&0x80 == 0 {
		t.Errorf("CXP0FB bit7 = 0 after P0/PF overlap at x=4, want 1")
	}

	writeAndSettle(tc, regCXCLR, 0)
	if tc.collision[CXP0FB] != 0 {
		t.Errorf("CXP0FB = %.2X after CXCLR, want 0", tc.collision[CXP0FB])
	}
}

func TestAudioBufferGrowsWithColorClocks(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regAUDV0, 0x0F)
	writeAndSettle(tc, regAUDC0, 0x01)
	writeAndSettle(tc, regAUDF0, 0x00)

	const clocks = 3579545 / 10 // one tenth of a second of color clocks
	for i := 0; i < clocks; i++ {
		tc.Tick()
	}
	samples := tc.DrainAudio()
	want := 4410 // 44100 Hz / 10
	if diff := len(samples) - want; diff > 5 || diff < -5 {
		t.Errorf("DrainAudio() returned %d samples, want within 5 of %d", len(samples), want)
	}
}

func TestBothChannelsZeroVolumeProducesExactZeroSample(t *testing.T) {
	tc := newTestTIA(t)
	writeAndSettle(tc, regAUDV0, 0x00)
	writeAndSettle(tc, regAUDV1, 0x00)
	for i := 0; i < 100; i++ {
		tc.Tick()
	}
	samples := tc.DrainAudio()
	for _, s := range samples {
		if s != 0 {
			t.Errorf("sample = %d with both channels silent, want exact 0", s)
			break
		}
	}
}

func TestVSYNCFallingEdgeArmsNewFrame(t *testing.T) {
	tc := newTestTIA(t)
	tc.SetSyncMode(VSyncMode)
	tc.Write(uint16(regVSYNC), 0x02)
	tc.Write(uint16(regVSYNC), 0x00)
	startCount := tc.frameCount
	for tc.cc != 0 {
		tc.Tick()
	}
	tc.Tick() // cc==0 check happens at the start of Tick
	if tc.frameCount != startCount+1 {
		t.Errorf("frameCount = %d, want %d after a VSYNC falling edge and scanline wrap", tc.frameCount, startCount+1)
	}
}
