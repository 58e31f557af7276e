package lsystem

import (
	"riverworld/internal/spatial"
)

// River is an expanded grammar split into branches. Its domain is
// computed once when the river is built.
type River struct {
	kind     Kind
	start    Turtle
	grammar  []Symbol
	branches []*Branch
	domain   *spatial.Domain
	end      Turtle
}

// NewRiver expands axiom and traces its branches from start.
func NewRiver(kind Kind, axiom []Symbol, iterations int, start Turtle, p Params) *River {
	r := &River{
		kind:    kind,
		start:   start,
		grammar: Expand(kind, axiom, iterations, start, p),
	}
	r.build(p)
	r.end = start
	if len(r.branches) > 0 {
		r.end = r.branches[0].Current()
	}
	r.domain = spatial.NewDomain()
	for _, b := range r.branches {
		r.domain.AddDomain(b.Domain())
	}
	return r
}

// build splits the grammar at brackets. A '[' opens a branch at the
// current pen of the enclosing branch, a ']' closes it.
func (r *River) build(p Params) {
	var stack []*Branch
	for _, s := range r.grammar {
		switch s.Action {
		case Push:
			from := r.start
			if len(stack) > 0 {
				from = stack[len(stack)-1].Current()
			}
			b := newBranch(from, p)
			r.branches = append(r.branches, b)
			stack = append(stack, b)
		case Pop:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			if len(stack) == 0 {
				b := newBranch(r.start, p)
				r.branches = append(r.branches, b)
				stack = append(stack, b)
			}
			stack[len(stack)-1].Append(s)
		}
	}
}

func (r *River) Kind() Kind          { return r.kind }
func (r *River) Grammar() []Symbol   { return r.grammar }
func (r *River) Branches() []*Branch { return r.branches }

// Domain is the union of the branch domains.
func (r *River) Domain() *spatial.Domain { return r.domain }

// EndPos is where the first branch ends, or the start for an empty river.
func (r *River) EndPos() Turtle { return r.end }

// EndSymbol is the last non-bracket symbol of the grammar.
func (r *River) EndSymbol() Symbol {
	for i := len(r.grammar) - 1; i >= 0; i-- {
		if a := r.grammar[i].Action; a != Push && a != Pop {
			return r.grammar[i]
		}
	}
	return Symbol{Action: Pop, Down: true}
}

// Draw carves every branch inside scope and forgets finished ones. It
// reports false once nothing is left to draw.
func (r *River) Draw(scope spatial.Rect, t Terrain) bool {
	if len(r.branches) == 0 {
		return false
	}
	kept := r.branches[:0]
	for _, b := range r.branches {
		if !b.Draw(scope, t) {
			kept = append(kept, b)
		}
	}
	r.branches = kept
	return true
}

// Settle drops cells of chunks that are already generated, except those
// inside keep.
func (r *River) Settle(keep spatial.Rect, t Terrain) {
	skip := func(cell spatial.Rect) bool {
		return !cell.IsInside(keep) && t.Explored(cell)
	}
	kept := r.branches[:0]
	for _, b := range r.branches {
		b.Settle(skip)
		if !b.Done() {
			kept = append(kept, b)
		}
	}
	r.branches = kept
}
