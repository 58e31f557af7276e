package spatial

import (
	"sort"
)

// Domain is a set of unique 64-aligned regions.
type Domain struct {
	rects map[Rect]struct{}
}

// NewDomain returns an empty domain.
func NewDomain() *Domain {
	return &Domain{rects: make(map[Rect]struct{})}
}

// Has reports whether the region containing r's origin is in the domain.
func (d *Domain) Has(r Rect) bool {
	if d == nil {
		return false
	}
	_, ok := d.rects[Rect64(r.XMin, r.ZMin)]
	return ok
}

// Intersects reports whether the two domains share any region.
func (d *Domain) Intersects(other *Domain) bool {
	if d == nil || other == nil {
		return false
	}
	small, big := d, other
	if len(small.rects) > len(big.rects) {
		small, big = big, small
	}
	for r := range small.rects {
		if _, ok := big.rects[r]; ok {
			return true
		}
	}
	return false
}

// AddRect adds every region the rectangle overlaps.
func (d *Domain) AddRect(r Rect) {
	for x := r.XMin & -RegionSize; x <= r.XMax; x += RegionSize {
		for z := r.ZMin & -RegionSize; z <= r.ZMax; z += RegionSize {
			d.Add64(Rect64(x, z))
		}
	}
}

// Add64 adds the region containing r's origin.
func (d *Domain) Add64(r Rect) {
	if d.rects == nil {
		d.rects = make(map[Rect]struct{})
	}
	d.rects[Rect64(r.XMin, r.ZMin)] = struct{}{}
}

// AddDomain unions other into d.
func (d *Domain) AddDomain(other *Domain) {
	if other == nil {
		return
	}
	for r := range other.rects {
		d.Add64(r)
	}
}

func (d *Domain) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rects)
}

// Rects returns the regions ordered by x then z.
func (d *Domain) Rects() []Rect {
	if d == nil {
		return nil
	}
	out := make([]Rect, 0, len(d.rects))
	for r := range d.rects {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XMin != out[j].XMin {
			return out[i].XMin < out[j].XMin
		}
		return out[i].ZMin < out[j].ZMin
	})
	return out
}

// Clone returns an independent copy.
func (d *Domain) Clone() *Domain {
	c := NewDomain()
	c.AddDomain(d)
	return c
}
