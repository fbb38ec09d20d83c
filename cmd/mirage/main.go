// mirage - Terminal SDF Raymarcher
// Fly a camera through signed-distance-field scenes rendered in your
// terminal.
//
// Controls:
//
//	Mouse drag  - Look around (yaw/pitch)
//	W/S         - Move forward/backward along the look vector
//	A/D         - Strafe left/right
//	Space/C     - Rise/descend along world vertical
//	G           - Toggle gamma correction
//	O           - Toggle soft shadows
//	X           - Toggle reflections
//	P           - Save a screenshot (PNG)
//	R           - Reset camera to the scene's pose
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/hollisb/mirage/pkg/camera"
	"github.com/hollisb/mirage/pkg/march"
	"github.com/hollisb/mirage/pkg/render"
	"github.com/hollisb/mirage/pkg/scene"
)

var (
	targetFPS = flag.Int("fps", 30, "Target FPS")
	nearPlane = flag.Float64("near", 0.1, "Near clipping plane")
	farPlane  = flag.Float64("far", 100, "Far clipping plane")
	outPrefix = flag.String("out", "mirage", "Screenshot filename prefix")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mirage - Terminal SDF Raymarcher\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mirage [options] <scene.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move and strafe\n")
		fmt.Fprintf(os.Stderr, "  Space/C     - Rise/descend\n")
		fmt.Fprintf(os.Stderr, "  G/O/X       - Toggle gamma, soft shadows, reflections\n")
		fmt.Fprintf(os.Stderr, "  P           - Screenshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// MotionAxis smooths keyboard impulses along one movement channel with
// a harmonica spring, so taps accelerate and glide instead of stepping.
type MotionAxis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

// NewMotionAxis creates an axis with a critically damped spring.
func NewMotionAxis(fps int) MotionAxis {
	return MotionAxis{
		// Frequency 5.0 = responsive, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 5.0, 1.0),
	}
}

// Impulse adds velocity to the axis.
func (a *MotionAxis) Impulse(v float64) {
	a.Velocity += v
}

// Update decays velocity toward 0 using the spring.
func (a *MotionAxis) Update() {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// MotionState holds the three movement channels: along look, across
// look, and along world vertical.
type MotionState struct {
	Forward MotionAxis
	Strafe  MotionAxis
	Lift    MotionAxis
	fps     int
}

func NewMotionState(fps int) *MotionState {
	return &MotionState{
		Forward: NewMotionAxis(fps),
		Strafe:  NewMotionAxis(fps),
		Lift:    NewMotionAxis(fps),
		fps:     fps,
	}
}

func (m *MotionState) Update() {
	m.Forward.Update()
	m.Strafe.Update()
	m.Lift.Update()
}

func (m *MotionState) Reset() {
	m.Forward = NewMotionAxis(m.fps)
	m.Strafe = NewMotionAxis(m.fps)
	m.Lift = NewMotionAxis(m.fps)
}

// Apply translates the camera by the blended displacement queries.
func (m *MotionState) Apply(cam *camera.Camera) {
	disp := cam.Forward().Scale(m.Forward.Velocity).
		Add(cam.StrafeRight().Scale(m.Strafe.Velocity)).
		Add(cam.Ascend().Scale(m.Lift.Velocity))
	if disp.LenSq() == 0 {
		return
	}
	cam.ApplyTranslation(disp)
}

// HUD renders a status overlay directly to the terminal.
type HUD struct {
	scenePath string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	Show      bool
}

func NewHUD(scenePath string) *HUD {
	return &HUD{scenePath: scenePath, fpsTime: time.Now(), Show: true}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD rows.
func (h *HUD) Render(width, height int, opts march.Options) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.Show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.scenePath)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.scenePath, reset)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	status := fmt.Sprintf("%s%s %s gamma  %s soft shadows  %s reflections %s",
		bgBlack, fgWhite,
		check(opts.GammaCorrection), check(opts.SoftShadows), check(opts.Reflections), reset)
	fmt.Print(moveTo(height, 1) + status)
}

func run(scenePath string) error {
	doc, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	objects, lights := doc.Build()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	cam, err := camera.New(doc.CameraDescription(), camera.Viewport{
		Width:  fbWidth,
		Height: fbHeight,
		Near:   *nearPlane,
		Far:    *farPlane,
	})
	if err != nil {
		return err
	}

	marcher := march.New(cam, fb, objects, lights)
	motion := NewMotionState(*targetFPS)
	hud := NewHUD(scenePath)

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Mouse state
	var mouseDown bool
	var lastMouseX, lastMouseY int
	const moveImpulse = 0.12

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				marcher.SetFramebuffer(fb)
				if fbWidth > 0 && fbHeight > 0 {
					_ = cam.Resize(fbWidth, fbHeight)
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w", "up"):
					motion.Forward.Impulse(moveImpulse)
				case ev.MatchString("s", "down"):
					motion.Forward.Impulse(-moveImpulse)
				case ev.MatchString("a", "left"):
					motion.Strafe.Impulse(-moveImpulse)
				case ev.MatchString("d", "right"):
					motion.Strafe.Impulse(moveImpulse)
				case ev.MatchString("space"):
					motion.Lift.Impulse(moveImpulse)
				case ev.MatchString("c"):
					motion.Lift.Impulse(-moveImpulse)
				case ev.MatchString("g"):
					marcher.Options.GammaCorrection = !marcher.Options.GammaCorrection
				case ev.MatchString("o"):
					marcher.Options.SoftShadows = !marcher.Options.SoftShadows
				case ev.MatchString("x"):
					marcher.Options.Reflections = !marcher.Options.Reflections
				case ev.MatchString("p"):
					name := fmt.Sprintf("%s-%s.png", *outPrefix, time.Now().Format("20060102-150405"))
					_ = fb.SavePNG(name)
				case ev.MatchString("r"):
					motion.Reset()
					if reset, rerr := camera.New(doc.CameraDescription(), camera.Viewport{
						Width:  fbWidth,
						Height: fbHeight,
						Near:   *nearPlane,
						Far:    *farPlane,
					}); rerr == nil {
						*cam = *reset
					}
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					hud.Show = !hud.Show
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					// Terminal cells are one framebuffer column wide
					// but two rows tall.
					_ = cam.RotateYaw(float64(dx))
					_ = cam.RotatePitch(float64(2 * dy))
					lastMouseX, lastMouseY = ev.X, ev.Y
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(*targetFPS)

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()

		motion.Update()
		motion.Apply(cam)

		marcher.Render()

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, marcher.Options)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
