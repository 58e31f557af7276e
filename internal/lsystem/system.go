package lsystem

import (
	"io"
	"log/slog"
	"sync"

	"riverworld/internal/profiling"
	"riverworld/internal/spatial"
)

// neighbour offsets scanned for open land, in region units
var around = [8]spatial.Vec2{
	{X: -spatial.RegionSize, Z: -spatial.RegionSize},
	{X: 0, Z: -spatial.RegionSize},
	{X: spatial.RegionSize, Z: -spatial.RegionSize},
	{X: -spatial.RegionSize, Z: 0},
	{X: spatial.RegionSize, Z: 0},
	{X: -spatial.RegionSize, Z: spatial.RegionSize},
	{X: 0, Z: spatial.RegionSize},
	{X: spatial.RegionSize, Z: spatial.RegionSize},
}

// System keeps every live river and the regions they claim. Update is
// safe to call from the streaming worker while the viewer reads stats.
type System struct {
	mu      sync.Mutex
	params  Params
	rivers  []*River
	claimed *spatial.Domain
	log     *slog.Logger

	spawned, discarded int
}

// NewSystem creates an empty river system. A nil logger discards output.
func NewSystem(p Params, log *slog.Logger) *System {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &System{params: p, claimed: spatial.NewDomain(), log: log}
}

func (s *System) Params() Params { return s.params }

// Stats reports live, spawned and discarded river counts.
func (s *System) Stats() (live, spawned, discarded int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rivers), s.spawned, s.discarded
}

// Claimed returns a copy of the regions owned by rivers.
func (s *System) Claimed() *spatial.Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimed.Clone()
}

// Rivers returns the live rivers.
func (s *System) Rivers() []*River {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*River(nil), s.rivers...)
}

// Update carves existing rivers into scope, then tries to start a new
// linear river with a delta at its mouth from the middle of scope's
// region. The pair is dropped when it would reach explored or claimed
// land. It reports whether a pair was accepted.
func (s *System) Update(scope spatial.Rect, t Terrain) bool {
	defer profiling.Track("lsystem.Update")()
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rivers[:0]
	for _, r := range s.rivers {
		if r.Draw(scope, t) {
			kept = append(kept, r)
		}
	}
	s.rivers = kept

	region := spatial.Rect64(scope.XMid(), scope.ZMid())
	if s.claimed.Has(region) {
		return false
	}
	start := s.heading(region, t)
	linear := NewRiver(Linear, []Symbol{
		{Action: Push, Down: true},
		{Action: Forward, Down: true, Width: 2, Length: 3},
		{Action: Pop, Down: true},
	}, s.params.LinearIterations, start, s.params)
	mouth := linear.EndSymbol()
	delta := NewRiver(Delta, []Symbol{
		{Action: Push, Down: true},
		{Action: Fork, Down: true, Width: mouth.Width, Length: mouth.Length},
		{Action: Pop, Down: true},
	}, s.params.DeltaIterations, linear.EndPos(), s.params)

	domain := linear.Domain().Clone()
	domain.AddDomain(delta.Domain())
	if exploredExcept(t, domain, region) || s.claimed.Intersects(domain) {
		s.discarded++
		s.log.Debug("river discarded", "region", region.String(), "regions", domain.Len())
		return false
	}

	for _, r := range []*River{linear, delta} {
		r.Draw(scope, t)
		r.Settle(scope, t)
		s.rivers = append(s.rivers, r)
	}
	s.claimed.AddDomain(domain)
	s.spawned++
	s.log.Info("river spawned", "region", region.String(), "regions", domain.Len(),
		"heading", start.Dir, "symbols", len(linear.Grammar())+len(delta.Grammar()))
	return true
}

// heading points from the middle of region towards its unexplored
// neighbours. With no preference the heading is 0.
func (s *System) heading(region spatial.Rect, t Terrain) Turtle {
	mid := spatial.Vec2{X: region.XMid(), Z: region.ZMid()}
	var total spatial.Vec2
	for _, off := range around {
		p := mid.Add(off)
		if !t.Explored(spatial.Rect64(p.X, p.Z)) {
			total = total.Add(off)
		}
	}
	return Turtle{X: float32(mid.X), Z: float32(mid.Z), Dir: total.Vec2f().Radians()}
}

func exploredExcept(t Terrain, d *spatial.Domain, ignore spatial.Rect) bool {
	for _, r := range d.Rects() {
		if r == ignore {
			continue
		}
		if t.Explored(r) {
			return true
		}
	}
	return false
}
