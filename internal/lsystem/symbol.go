// Package lsystem grows rivers from bracketed L-system grammars and carves
// them into the terrain one chunk at a time.
package lsystem

import (
	"fmt"
	"strings"

	"riverworld/internal/noise"
)

// Symbol is one grammar token. Width and Length are carried by drawing
// actions, Angle by turns.
type Symbol struct {
	Action byte
	Down   bool
	Width  float32
	Length float32
	Angle  float32
}

// Grammar actions
const (
	Forward byte = 'F'
	Left    byte = 'L'
	Right   byte = 'R'
	Lake    byte = 'K'
	Fork    byte = 'B'
	Grow    byte = 'G'
	Push    byte = '['
	Pop     byte = ']'
)

func (s Symbol) String() string {
	return fmt.Sprintf("%c(%.2f,%.2f,%.2f)", s.Action, s.Width, s.Length, s.Angle)
}

// Turtle is a pen position and heading in radians.
type Turtle struct {
	X, Z float32
	Dir  float32
}

// Kind selects the rewrite rules of a river.
type Kind uint8

const (
	Linear Kind = iota
	Delta
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Delta:
		return "delta"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Params tunes river growth and carving.
type Params struct {
	// ErosionScale multiplies the half width into the carve radius.
	ErosionScale     float32 `yaml:"erosion_scale"`
	Seed             float32 `yaml:"seed"`
	LinearIterations int     `yaml:"linear_iterations"`
	DeltaIterations  int     `yaml:"delta_iterations"`
	// SeaLevel is the height carve depths are measured from. It is not
	// read from config; the loader copies the terrain sea level in.
	SeaLevel int `yaml:"-"`
}

func DefaultParams() Params {
	return Params{
		ErosionScale:     10,
		Seed:             72.5,
		LinearIterations: 6,
		DeltaIterations:  20,
		SeaLevel:         128,
	}
}

// rewriteContext is the per-symbol state handed to a rule.
type rewriteContext struct {
	iter, total int
	rand        float32
	seed        float32
}

type rewriteRule func(ctx rewriteContext, s Symbol, out []Symbol) []Symbol

var rules = map[Kind]rewriteRule{
	Linear: rewriteLinear,
	Delta:  rewriteDelta,
}

// Expand rewrites axiom the given number of times. The iteration counter
// runs down from iterations to 1 and, with the symbol index and the start
// position, seeds every random choice.
func Expand(kind Kind, axiom []Symbol, iterations int, start Turtle, p Params) []Symbol {
	rule, ok := rules[kind]
	if !ok {
		return append([]Symbol(nil), axiom...)
	}
	grammar := append([]Symbol(nil), axiom...)
	for iter := iterations; iter > 0; iter-- {
		next := make([]Symbol, 0, len(grammar)*2)
		for i, s := range grammar {
			seed := (start.X+start.Z)*noise.Rand1D(float32(i))*noise.Rand1D(float32(iter)) + p.Seed
			ctx := rewriteContext{iter: iter, total: iterations, rand: noise.Rand1D(seed), seed: seed}
			next = rule(ctx, s, next)
		}
		grammar = next
	}
	return grammar
}

func rewriteLinear(ctx rewriteContext, s Symbol, out []Symbol) []Symbol {
	w, l, d := s.Width, s.Length, s.Down
	dw, dl := float32(0.9), float32(0.95)
	if d {
		dw, dl = 1.2, 1.05
	}
	angle := noise.RandRange(0.1, 0.5, ctx.seed+12.3)
	grown := func(action byte, down bool, a float32) Symbol {
		return Symbol{Action: action, Down: down, Width: w * dw, Length: l * dl, Angle: a}
	}

	switch s.Action {
	case Fork:
		// side streams only sprout in the middle iterations
		if ctx.iter < 2 || ctx.iter > 4 {
			return out
		}
		turn, back := Left, Right
		if ctx.rand >= 0.5 {
			turn, back = Right, Left
		}
		return append(out,
			Symbol{Action: Push},
			Symbol{Action: turn, Width: w, Length: l, Angle: 3},
			Symbol{Action: Forward, Width: w, Length: l},
			Symbol{Action: back, Width: w, Length: l, Angle: angle},
			Symbol{Action: Forward, Width: w, Length: l},
			Symbol{Action: turn, Width: w, Length: l, Angle: angle},
			Symbol{Action: Pop},
		)
	case Forward:
		out = append(out, s)
		if d {
			switch {
			case ctx.rand < 0.7:
				return append(out,
					Symbol{Action: Fork, Down: true, Width: w * 0.6, Length: l * 0.8},
					grown(Forward, true, 0))
			case ctx.rand < 0.85:
				return append(out, grown(Left, true, angle))
			default:
				return append(out, grown(Right, true, angle))
			}
		}
		switch {
		case ctx.rand < 0.4:
			return append(out, grown(Left, false, angle), grown(Forward, false, 0), grown(Right, false, angle))
		case ctx.rand < 0.8:
			return append(out, grown(Right, false, angle), grown(Forward, false, 0), grown(Left, false, angle))
		default:
			return append(out, grown(Forward, false, 0), grown(Forward, false, 0))
		}
	case Left:
		out = append(out, s)
		if !d {
			out = append(out, grown(Forward, d, 0))
		}
		switch {
		case ctx.rand < 0.5:
			return append(out, grown(Right, d, angle))
		case ctx.rand < 0.6:
			return append(out, grown(Left, d, angle))
		default:
			return append(out, grown(Forward, d, 0))
		}
	case Right:
		out = append(out, s)
		switch {
		case ctx.rand < 0.5:
			return append(out, grown(Left, d, angle))
		case ctx.rand < 0.6:
			return append(out, grown(Right, d, angle))
		default:
			return append(out, grown(Forward, d, 0))
		}
	}
	return append(out, s)
}

func rewriteDelta(ctx rewriteContext, s Symbol, out []Symbol) []Symbol {
	w, l := s.Width, s.Length
	const dw, dl = 0.95, 1.05
	angle := noise.RandRange(0.3, 0.9, ctx.seed+12.3)
	grown := func(action byte, a float32) Symbol {
		return Symbol{Action: action, Down: true, Width: w * dw, Length: l * dl, Angle: a}
	}

	switch s.Action {
	case Fork:
		if ctx.iter < 2 {
			return out
		}
		return append(out,
			Symbol{Action: Push, Down: true},
			Symbol{Action: Left, Down: true, Width: w, Length: l, Angle: 0.7},
			grown(Right, angle),
			grown(Forward, 0),
			Symbol{Action: Pop, Down: true},
			Symbol{Action: Push, Down: true},
			Symbol{Action: Right, Down: true, Width: w, Length: l, Angle: 0.7},
			grown(Left, angle),
			grown(Forward, 0),
			Symbol{Action: Pop, Down: true},
		)
	case Grow:
		switch {
		case ctx.rand < 0.2:
			return append(out, grown(Grow, 0), grown(Grow, 0))
		case ctx.rand < 0.6:
			return append(out, grown(Forward, 0))
		case ctx.rand < 0.8:
			return append(out, grown(Left, angle), grown(Right, angle))
		default:
			return append(out, grown(Right, angle), grown(Left, angle))
		}
	case Forward:
		if ctx.rand < float32(ctx.iter)/float32(ctx.total)*0.8 {
			return append(out, Symbol{Action: Fork, Down: true, Width: w * 0.8, Length: l * dl})
		}
		return append(out, grown(Grow, 0))
	}
	return append(out, s)
}

// Format renders a grammar as its action letters.
func Format(grammar []Symbol) string {
	var b strings.Builder
	for _, s := range grammar {
		b.WriteByte(s.Action)
	}
	return b.String()
}
