package stage

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

type particle struct {
	x, y    float64
	vx, vy  float64
	rot     float64
	spin    float64
	size    float64
	life    float64
	maxLife float64
	alpha   float64
	color   Color
}

// EmitterConfig controls how confetti-style particles spawn and move. Each
// particle is a small square drawn in local coordinates of the emitter node.
type EmitterConfig struct {
	// MaxParticles is the pool size. Spawns beyond it are dropped.
	MaxParticles int
	// EmitRate is particles per second while active.
	EmitRate float64
	// Lifetime in seconds.
	Lifetime Range
	// Speed in pixels per second.
	Speed Range
	// Angle of the initial velocity in radians.
	Angle Range
	// Spread is the width of the spawn line centered on the origin.
	Spread float64
	// Size of the square edge in pixels.
	Size Range
	// Spin in radians per second.
	Spin    Range
	Gravity Vec2
	Colors  []Color
	// StartAlpha fades linearly to EndAlpha over a particle's life.
	StartAlpha float64
	EndAlpha   float64
}

// Emitter is a CPU particle pool owned by a particles node.
type Emitter struct {
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool
}

func newEmitter(cfg EmitterConfig) *Emitter {
	max := cfg.MaxParticles
	if max <= 0 {
		max = 128
	}
	return &Emitter{
		config:    cfg,
		particles: make([]particle, max),
	}
}

// Start begins continuous emission.
func (e *Emitter) Start() { e.active = true }

// Stop ends emission. Live particles play out.
func (e *Emitter) Stop() { e.active = false }

// Reset stops emission and kills every particle.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether the emitter is emitting.
func (e *Emitter) IsActive() bool { return e.active }

// AliveCount returns the number of live particles.
func (e *Emitter) AliveCount() int { return e.alive }

// Config returns the live config.
func (e *Emitter) Config() *EmitterConfig { return &e.config }

// Burst spawns up to n particles at once.
func (e *Emitter) Burst(n int) {
	for i := 0; i < n && e.alive < len(e.particles); i++ {
		e.spawn()
	}
}

func (e *Emitter) update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.rot += p.spin * dt
		t := 1 - p.life/p.maxLife
		p.alpha = e.config.StartAlpha + (e.config.EndAlpha-e.config.StartAlpha)*t
		i++
	}

	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1 {
			e.emitAccum--
			if e.alive < len(e.particles) {
				e.spawn()
			}
		}
	}
}

func (e *Emitter) spawn() {
	p := &e.particles[e.alive]
	angle := e.config.Angle.Random()
	speed := e.config.Speed.Random()
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.x = (rand.Float64() - 0.5) * e.config.Spread
	p.y = 0
	p.rot = rand.Float64() * 2 * math.Pi
	p.spin = e.config.Spin.Random()
	p.size = e.config.Size.Random()
	if p.size <= 0 {
		p.size = 6
	}
	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life
	p.alpha = e.config.StartAlpha
	p.color = ColorWhite
	if n := len(e.config.Colors); n > 0 {
		p.color = e.config.Colors[rand.IntN(n)]
	}
	e.alive++
}

func (e *Emitter) draw(dst *ebiten.Image, world ebiten.GeoM, alpha float64) {
	px := WhitePixel()
	op := &ebiten.DrawImageOptions{}
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		if p.alpha <= 0 {
			continue
		}
		op.GeoM.Reset()
		op.GeoM.Translate(-0.5, -0.5)
		op.GeoM.Scale(p.size, p.size*0.6)
		op.GeoM.Rotate(p.rot)
		op.GeoM.Translate(p.x, p.y)
		op.GeoM.Concat(world)
		op.ColorScale.Reset()
		tint(&op.ColorScale, p.color, alpha*p.alpha)
		dst.DrawImage(px, op)
	}
}
