// Package gui is the raylib frontend: a window the size of the table with a
// status bar underneath.
package gui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/tablesim/internal/audio"
	"github.com/san-kum/tablesim/internal/config"
	"github.com/san-kum/tablesim/internal/palette"
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/render"
	"github.com/san-kum/tablesim/internal/table"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBar     = rl.NewColor(20, 20, 20, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

type App struct {
	Table   table.Table
	Reg     *table.Registry
	Stepper *physics.Stepper
	Ctrl    *pointer.Controller
	Panel   *palette.Panel
	Pass    render.Pass
	Audio   *audio.Processor

	Running bool
	Ticks   int
	Last    physics.Stats
	Total   physics.Stats
	Quit    bool

	mouse table.Vec2
	seen  bool
}

func initWindow(t table.Table) {
	rl.InitWindow(int32(t.Width), int32(t.Height)+StatusBarHeight, "tablesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp wires the table, input and audio for cfg. Audio failures are
// reported and the app runs silent.
func NewApp(cfg *config.Config, mute bool) (*App, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	panel := palette.New(reg)

	proc := audio.NewProcessor()
	proc.SetMuted(mute)
	if !mute {
		if err := proc.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "audio disabled: %v\n", err)
		}
	}

	t := cfg.TableSpec()
	return &App{
		Table:   t,
		Reg:     reg,
		Stepper: cfg.Stepper(),
		Ctrl:    pointer.New(reg, panel, cfg.Input.ImpulseScale),
		Panel:   panel,
		Pass:    render.NewPass(t),
		Audio:   proc,
		Running: true,
	}, nil
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(cfg *config.Config, mute bool) error {
	t := cfg.TableSpec()
	initWindow(t)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, mute)
	if err != nil {
		return err
	}
	defer app.Audio.Stop()

	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	a.handleKeys()
	in := a.readInput()
	a.Frame(in)
	a.setCursor(table.Vec2{X: in.X, Y: in.Y})
}

func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		a.Audio.SetMuted(!a.Audio.Muted())
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.Panel.Blur()
	}
}

func (a *App) readInput() Input {
	mp := rl.GetMousePosition()
	p := table.Vec2{X: float64(mp.X), Y: float64(mp.Y)}
	moved := !a.seen || p != a.mouse
	a.mouse, a.seen = p, true

	return Input{
		X:                p.X,
		Y:                p.Y,
		Moved:            moved,
		PrimaryPressed:   rl.IsMouseButtonPressed(rl.MouseLeftButton),
		SecondaryPressed: rl.IsMouseButtonPressed(rl.MouseRightButton),
		PrimaryReleased:  rl.IsMouseButtonReleased(rl.MouseLeftButton),
	}
}

func (a *App) setCursor(p table.Vec2) {
	if a.Ctrl.Cursor() == pointer.CursorPointer || a.swatchUnder(p) >= 0 {
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

func (a *App) swatchUnder(p table.Vec2) int {
	i, open := a.Panel.Target()
	if !open {
		return -1
	}
	b, err := a.Reg.At(i)
	if err != nil {
		return -1
	}
	return swatchAt(swatchStrip(a.Table, b), p)
}

func (a *App) reset() {
	a.Reg.Reset()
	a.Ctrl.Reset()
	a.Panel.Blur()
	a.Ticks = 0
	a.Last = physics.Stats{}
	a.Total = physics.Stats{}
	a.seen = false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	a.Pass.DrawRegistry(screen{}, a.Reg)
	a.drawDrag()
	a.drawPanel()
	a.drawStatus()
	rl.EndDrawing()
}

// drawDrag shows the launch vector while a ball is held.
func (a *App) drawDrag() {
	if _, ok := a.Ctrl.Selected(); !ok {
		return
	}
	from, to := a.Ctrl.Anchor(), a.Ctrl.Pointer()
	rl.DrawLineV(
		rl.NewVector2(float32(from.X), float32(from.Y)),
		rl.NewVector2(float32(to.X), float32(to.Y)),
		ColSelect,
	)
}

func (a *App) drawPanel() {
	i, open := a.Panel.Target()
	if !open {
		return
	}
	b, err := a.Reg.At(i)
	if err != nil {
		return
	}
	current := a.Panel.SwatchIndex()
	for j, r := range swatchStrip(a.Table, b) {
		rec := rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
		rl.DrawRectangleRec(rec, toRL(palette.Swatches[j]))
		if j == current {
			rl.DrawRectangleLinesEx(rec, 2, ColSelect)
		} else {
			rl.DrawRectangleLinesEx(rec, 1, ColTextDim)
		}
	}
}

func (a *App) drawStatus() {
	y := int32(a.Table.Height)
	rl.DrawRectangle(0, y, int32(a.Table.Width), StatusBarHeight, ColBar)

	state := "RUN"
	if !a.Running {
		state = "PAUSE"
	}
	sound := "SND"
	if a.Audio.Muted() || !a.Audio.Active {
		sound = "MUTE"
	}
	status := fmt.Sprintf("%s  t=%d  hits=%d  walls=%d  %s  %s",
		state, a.Ticks, a.Total.Collisions, a.Total.Bounces, a.Ctrl.Mode(), sound)
	rl.DrawText(status, 6, y+6, 12, ColText)

	if i, open := a.Panel.Target(); open {
		label := fmt.Sprintf("ball %d  %s", i, a.Panel.Value())
		w := rl.MeasureText(label, 12)
		rl.DrawText(label, int32(a.Table.Width)-w-6, y+6, 12, ColSelect)
	}
}
