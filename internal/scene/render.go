package scene

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
)

// Guide and frame colors.
const (
	guideColor = core.ColorBrightWhite
	frameColor = core.ColorGray
)

type effectStyle struct {
	glyph  rune
	color  core.Color
	spread float64 // World distance a particle travels over its lifetime
}

var effectStyles = map[engine.EffectKind]effectStyle{
	engine.EffectDropDust:      {glyph: '░', color: core.ColorGray, spread: 0.6},
	engine.EffectMatchBurst:    {glyph: '*', color: core.ColorBrightYellow, spread: 1.5},
	engine.EffectTerminalShine: {glyph: '✦', color: core.ColorBrightCyan, spread: 2.5},
}

// Render draws the board into dst: frame, placement markers, cars, the
// drop guide and effect particles, in that order.
func (b *Board) Render(dst *core.Screen, effects []engine.Emitter) {
	view := b.camera.Viewport()
	dst.DrawBox(core.NewRect(view.X-1, view.Y-1, view.W+2, view.H+2), frameColor)

	lvl := b.catalog.Level()
	for _, m := range b.markers {
		p := b.camera.ToScreen(m)
		if view.Contains(p.X, p.Y) {
			dst.SetColored(p.X, p.Y, lvl.GroundGlyph, lvl.GroundColor)
		}
	}

	for _, n := range b.cars {
		b.drawCar(dst, n, view)
	}

	for _, g := range b.Guides() {
		p := b.camera.ToScreen(g)
		if view.Contains(p.X-1, p.Y) {
			dst.SetColored(p.X-1, p.Y, '[', guideColor)
		}
		if view.Contains(p.X+1, p.Y) {
			dst.SetColored(p.X+1, p.Y, ']', guideColor)
		}
	}

	for _, em := range effects {
		b.drawEffect(dst, em, view)
	}
}

func (b *Board) drawCar(dst *core.Screen, n *carNode, view core.Rect) {
	v, ok := b.catalog.Vehicle(n.typ)
	if !ok {
		return
	}

	box := b.bounds(n)
	lo := b.camera.ToScreen(box.Min)
	hi := b.camera.ToScreen(box.Max)
	drawn := false
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if !view.Contains(x, y) {
				continue
			}
			c := b.camera.ToWorld(core.ScreenPos{X: x, Y: y})
			if box.ContainsGround(c.X, c.Z) {
				dst.SetColored(x, y, v.Glyph, v.Color)
				drawn = true
			}
		}
	}

	pos := n.transform.Position
	if !drawn {
		p := b.camera.ToScreen(pos)
		if view.Contains(p.X, p.Y) {
			dst.SetColored(p.X, p.Y, v.Glyph, v.Color)
		}
	}

	// Nose marker shows the heading.
	reach := v.Footprint.Front * n.transform.Scale * 0.75
	sin, cos := math.Sincos(n.transform.Yaw)
	nose := b.camera.ToScreen(core.Vec3{X: pos.X + sin*reach, Z: pos.Z + cos*reach})
	if view.Contains(nose.X, nose.Y) && dst.Get(nose.X, nose.Y) == v.Glyph {
		dst.SetColored(nose.X, nose.Y, '▪', v.Color)
	}
}

// drawEffect scatters an emitter's particles. Positions derive from the
// emitter's kind and generation, so a frame can be redrawn identically.
func (b *Board) drawEffect(dst *core.Screen, em engine.Emitter, view core.Rect) {
	style, ok := effectStyles[em.Kind]
	if !ok || em.MaxAge <= 0 {
		return
	}

	h := fnv.New64a()
	h.Write([]byte(em.Kind))
	rng := rand.New(rand.NewSource(int64(h.Sum64()) + int64(em.Generation)))

	count := max(1, em.Particles/10)
	for i := 0; i < count; i++ {
		born := time.Duration(rng.Float64() * float64(em.Duration))
		angle := rng.Float64() * 2 * math.Pi
		speed := 0.3 + rng.Float64()*0.7

		age := em.Age - born
		if age < 0 || age > em.MaxAge {
			continue
		}
		r := style.spread * speed * float64(age) / float64(em.MaxAge)
		p := b.camera.ToScreen(core.Vec3{
			X: em.Position.X + math.Cos(angle)*r,
			Z: em.Position.Z + math.Sin(angle)*r,
		})
		if view.Contains(p.X, p.Y) {
			dst.SetColored(p.X, p.Y, style.glyph, style.color)
		}
	}
}
