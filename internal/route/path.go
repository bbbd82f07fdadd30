package route

// Path is the realised segment sequence of one route. A Path is never
// modified after synthesis; a rebuild produces a new Path that replaces the
// old one wholesale.
type Path struct {
	segments []Segment
	looped   bool
	length   float64
}

func newPath(segments []Segment, looped bool) *Path {
	p := &Path{segments: segments, looped: looped}
	for _, s := range segments {
		p.length += s.Length()
	}
	return p
}

// Len returns the number of segments.
func (p *Path) Len() int { return len(p.segments) }

// Looped reports whether the last segment connects back to the first.
func (p *Path) Looped() bool { return p.looped }

// Segment returns segment i. Out-of-range indices panic: callers hold
// indices revalidated against this Path.
func (p *Path) Segment(i int) Segment { return p.segments[i] }

// Segments returns a copy of the sequence.
func (p *Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// TrackLength is the summed length of every segment, i.e. one direction of
// a non-looped route or one lap of a looped one.
func (p *Path) TrackLength() float64 { return p.length }

// Next returns the index following i when travelling in dir. ok is false when
// a non-looped path has no segment beyond i.
func (p *Path) Next(i int, dir Direction) (next int, ok bool) {
	n := len(p.segments)
	if dir > 0 {
		if i+1 < n {
			return i + 1, true
		}
		if p.looped {
			return 0, true
		}
		return i, false
	}
	if i > 0 {
		return i - 1, true
	}
	if p.looped {
		return n - 1, true
	}
	return i, false
}

// FirstPlatform returns the index of the arrival arc of the route's first
// stop on a looped path (the loop-closing pair), or 0 for a non-looped path
// whose first segment is the origin terminus.
func (p *Path) FirstPlatform() int {
	if p.looped && len(p.segments) >= 2 {
		return len(p.segments) - 2
	}
	return 0
}
