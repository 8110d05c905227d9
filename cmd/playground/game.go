package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/mobile"
)

const (
	redrawInterval = 16 * time.Millisecond
	flashDuration  = 0.4 // seconds
	driftSpeed     = 8.0
	hudRows        = 2
)

// impact is one floor contact. err is set when the rebound command failed.
type impact struct {
	speed   float64
	settled bool
	err     error
}

// Game is the terminal playground: a car steered from the keyboard and a
// bomb bouncing on the floor, both driven by one frame clock.
type Game struct {
	screen        tcell.Screen
	width, height int
	maxW, maxH    int // zero: no limit

	car    *mobile.Object
	bomb   *mobile.Object
	bounce *bouncer
	power  float64

	audio   *audio
	log     logging.Logger
	impacts chan impact
	flash   *gween.Tween
	glow    float32
	last    time.Time
	message string
}

func NewGame(screen tcell.Screen, car, bomb *mobile.Object, cfg *config.Config, snd *audio, log logging.Logger) *Game {
	g := &Game{
		screen:  screen,
		car:     car,
		bomb:    bomb,
		power:   cfg.Presets[config.PresetCar].Power,
		audio:   snd,
		log:     log,
		impacts: make(chan impact, 16),
		last:    time.Now(),
		maxW:    cfg.Playground.Width,
		maxH:    cfg.Playground.Height,
	}
	g.width, g.height = g.arena()

	p := cfg.Presets[config.PresetBomb]
	g.bounce = newBouncer(bomb, p.Gravity, p.Restitution, float64(g.height-1))
	g.bounce.onImpact = func(im impact) {
		select {
		case g.impacts <- im:
		default:
		}
	}
	return g
}

// arena returns the drawable area below the HUD.
func (g *Game) arena() (int, int) {
	w, h := g.screen.Size()
	h = max(h-hudRows, 1)
	if g.maxW > 0 {
		w = min(w, g.maxW)
	}
	if g.maxH > 0 {
		h = min(h, g.maxH)
	}
	return w, h
}

func (g *Game) handleResize() {
	g.screen.Sync()
	g.width, g.height = g.arena()
	g.bounce.setFloor(float64(g.height - 1))
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if err := g.handleKey(ev); err != nil {
			g.message = err.Error()
			g.log.Warn("command failed", "error", err)
		}
		return !(ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q'))
	case *tcell.EventResize:
		g.handleResize()
	}
	return true
}

func (g *Game) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyLeft:
		return g.car.AccelerateX(-g.power)
	case tcell.KeyRight:
		return g.car.AccelerateX(g.power)
	case tcell.KeyUp:
		return g.car.AccelerateY(-g.power)
	case tcell.KeyDown:
		return g.car.AccelerateY(g.power)
	case tcell.KeyRune:
	default:
		return nil
	}

	switch ev.Rune() {
	case ' ':
		g.message = "brake"
		return g.car.Brake()
	case 'x':
		g.message = "coast"
		if err := g.car.AccelerateX(0); err != nil {
			return err
		}
		return g.car.AccelerateY(0)
	case 'b':
		g.message = "bomb away"
		return g.bounce.drop()
	case 'h':
		return g.bomb.SetVelocityX(-driftSpeed)
	case 'l':
		return g.bomb.SetVelocityX(driftSpeed)
	}
	return nil
}

func (g *Game) handleImpact(im impact) {
	g.flash = gween.New(1, 0, flashDuration, ease.OutQuad)
	if im.err != nil {
		g.message = fmt.Sprintf("bounce failed: %v", im.err)
		g.log.Error("bounce failed", "speed", im.speed, "error", im.err)
		return
	}
	if im.settled {
		g.message = "bomb settled"
		g.audio.tone(settleTone, 120*time.Millisecond)
		g.log.Debug("bomb settled", "speed", im.speed)
		return
	}
	g.audio.tone(bounceTone, 50*time.Millisecond)
	g.log.Debug("bomb bounced", "speed", im.speed)
}

func (g *Game) update(now time.Time) {
	dt := float32(now.Sub(g.last).Seconds())
	g.last = now
	if g.flash == nil {
		return
	}
	val, done := g.flash.Update(dt)
	g.glow = val
	if done {
		g.flash = nil
		g.glow = 0
	}
}

func (g *Game) draw() {
	g.screen.Clear()

	// Floor, lit up on impact.
	level := int32(80 + g.glow*175)
	floor := tcell.StyleDefault.Foreground(tcell.NewRGBColor(level, level, level))
	for x := 0; x < g.width; x++ {
		g.screen.SetContent(x, g.height-1, '▁', nil, floor)
	}

	bx := reflect(g.bomb.SpaceTravelledX()+float64(g.width)/2, g.width)
	by := clampCell(int(g.bounce.height()), g.height)
	g.screen.SetContent(bx, by, '●', nil, tcell.StyleDefault.Foreground(tcell.ColorRed))

	cx := wrap(g.car.SpaceTravelledX()+float64(g.width)/4, g.width)
	cy := wrap(g.car.SpaceTravelledY()+float64(g.height)/2, g.height)
	g.screen.SetContent(cx, cy, '▶', nil, tcell.StyleDefault.Foreground(tcell.ColorGreen))

	snap := g.car.Snapshot()
	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	g.drawText(0, g.height, hud, fmt.Sprintf("car vx=%6.1f vy=%6.1f %-12s bomb vy=%6.1f %s",
		snap.X.Velocity, snap.Y.Velocity, snap.X.Phase, g.bomb.VelocityY(), g.message))
	g.drawText(0, g.height+1, hud.Dim(true),
		"arrows: accelerate  space: brake  x: coast  b: drop bomb  h/l: drift  q: quit")

	g.screen.Show()
}

func (g *Game) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= g.width {
			return
		}
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// run is the render loop. It returns when the player quits or either
// object stops.
func (g *Game) run() {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	defer g.bounce.close()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case im := <-g.impacts:
			g.handleImpact(im)
		case <-g.car.Done():
			return
		case <-g.bomb.Done():
			return
		case now := <-ticker.C:
			g.update(now)
			g.draw()
		}
	}
}
