// Command vcsplay is a minimal SDL2 host for the console package: it loads
// a ROM, pumps keyboard state into the emulated joystick and console
// switches, runs one emulated frame per host frame, and blits the
// framebuffer to a window. Grounded on the teacher's vcs/vcs_main.go (same
// flag set, same pprof side-effect import, same "Tick in a loop, update a
// window on FrameDone" shape), adapted from its raw image.Image/Surface
// poking to an SDL2 streaming texture since this module's Framebuffer is
// already a packed pixel buffer rather than a Go image.Image.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mguler/atari2600/console"
)

var (
	debug       = flag.Bool("debug", false, "If true, emit CPU/RIOT/TIA debug state to stderr while running")
	cartPath    = flag.String("cart", "", "Path to the cartridge ROM image to load")
	scale       = flag.Int("scale", 3, "Integer scale factor for the display window")
	port        = flag.Int("port", 6060, "Port to run the pprof HTTP server on")
	advance     = flag.Bool("advance", false, "If true, toggle the Game Select switch periodically to cycle game variations")
	advanceRate = flag.Int("advance_rate", 180, "Frames between Game Select toggles when -advance is set")
	dumpAudio   = flag.String("dump-audio", "", "If set, write all drained PCM samples to this .wav file path")
)

func main() {
	flag.Parse()
	if *cartPath == "" {
		log.Fatal("vcsplay: -cart is required")
	}

	go func() {
		log.Println(http.ListenAndServe(fmt.Sprintf("localhost:%d", *port), nil))
	}()

	rom, err := os.ReadFile(*cartPath)
	if err != nil {
		log.Fatalf("vcsplay: can't read cart %q: %v", *cartPath, err)
	}
	c, err := console.New(rom, *debug)
	if err != nil {
		log.Fatalf("vcsplay: can't initialize console: %v", err)
	}

	var dumper *audioDumper
	if *dumpAudio != "" {
		dumper, err = newAudioDumper(*dumpAudio)
		if err != nil {
			log.Fatalf("vcsplay: can't open audio dump %q: %v", *dumpAudio, err)
		}
		defer dumper.Close()
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("vcsplay: can't init SDL: %v", err)
	}
	defer sdl.Quit()

	w, h := int32(console.FrameWidth), int32(console.FrameHeight)
	window, err := sdl.CreateWindow("vcsplay", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		w*int32(*scale), h*int32(*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("vcsplay: can't create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("vcsplay: can't create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		log.Fatalf("vcsplay: can't create texture: %v", err)
	}
	defer texture.Destroy()

	var overlay *debugOverlay
	var overlayTexture *sdl.Texture
	if *debug {
		overlayW, overlayH := w*int32(*scale), h*int32(*scale)
		overlay = newDebugOverlay(int(overlayW), int(overlayH))
		overlayTexture, err = renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, overlayW, overlayH)
		if err != nil {
			log.Fatalf("vcsplay: can't create overlay texture: %v", err)
		}
		overlayTexture.SetBlendMode(sdl.BLENDMODE_BLEND)
		defer overlayTexture.Destroy()
	}

	kb := newKeyboardState()
	frameCount := 0
	gameSelectHeld := false
	hostFrames := 0
	var frameTotal time.Duration
	const targetFrameTime = time.Second / 60

	for {
		frameStart := time.Now()
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return
			case *sdl.KeyboardEvent:
				kb.handle(e)
			}
		}
		kb.apply(c.Input())

		if *advance {
			frameCount++
			if frameCount%*advanceRate == 0 {
				gameSelectHeld = !gameSelectHeld
			}
			c.Input().GameSelect = gameSelectHeld
		}

		c.RunFrame()
		blit(texture, c.Framebuffer(), int(h))
		renderer.Copy(texture, nil, nil)

		if dumper != nil {
			if err := dumper.Append(c.DrainAudio()); err != nil {
				log.Fatalf("vcsplay: can't write audio dump: %v", err)
			}
		} else {
			c.DrainAudio() // discard; no live audio device is wired up
		}

		if *debug {
			v := c.Debug()
			fmt.Fprintf(os.Stderr, "CPU: %s\nRIOT: %s\nTIA: %s\n", v.CPU, v.RIOT, v.TIA)
			lines := []string{
				fmt.Sprintf("frame %d", hostFrames),
				"CPU: " + v.CPU,
				"RIOT: " + v.RIOT,
				"TIA: " + v.TIA,
			}
			blitOverlay(overlayTexture, overlay.Render(lines))
			renderer.Copy(overlayTexture, nil, nil)
		}

		renderer.Present()

		df := time.Since(frameStart)
		frameTotal += df
		hostFrames++
		if hostFrames%60 == 0 {
			fmt.Printf("Frame took %s average %s\n", df, frameTotal/time.Duration(hostFrames))
		}
		if df < targetFrameTime {
			time.Sleep(targetFrameTime - df)
		}
	}
}

// blit copies a 0xAARRGGBB framebuffer into a locked streaming texture.
func blit(texture *sdl.Texture, fb []uint32, rows int) {
	pixels, pitch, err := texture.Lock(nil)
	if err != nil {
		log.Fatalf("vcsplay: can't lock texture: %v", err)
	}
	defer texture.Unlock()

	cols := pitch / 4
	for row := 0; row < rows; row++ {
		for col := 0; col*4 < pitch && col < cols; col++ {
			idx := row*cols + col
			if idx >= len(fb) {
				continue
			}
			off := row*pitch + col*4
			binary.LittleEndian.PutUint32(pixels[off:off+4], fb[idx])
		}
	}
}

// blitOverlay copies an RGBA debug-text image into a locked streaming
// texture, row by row to account for the texture's own pitch.
func blitOverlay(texture *sdl.Texture, img *image.RGBA) {
	pixels, pitch, err := texture.Lock(nil)
	if err != nil {
		log.Fatalf("vcsplay: can't lock overlay texture: %v", err)
	}
	defer texture.Unlock()

	bounds := img.Bounds()
	for row := 0; row < bounds.Dy(); row++ {
		srcOff := row * img.Stride
		dstOff := row * pitch
		n := bounds.Dx() * 4
		copy(pixels[dstOff:dstOff+n], img.Pix[srcOff:srcOff+n])
	}
}

// audioDumper streams drained PCM samples to a mono 16 bit 44.1kHz WAV file.
type audioDumper struct {
	f   *os.File
	enc *wav.Encoder
}

func newAudioDumper(path string) (*audioDumper, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	return &audioDumper{f: f, enc: enc}, nil
}

func (d *audioDumper) Append(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 44100},
		Data:           data,
		SourceBitDepth: 16,
	}
	return d.enc.Write(buf)
}

func (d *audioDumper) Close() error {
	if err := d.enc.Close(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
