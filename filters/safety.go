package filters

type lifetime struct {
	destroyed bool
}

// Safety is taken from a filter before a call that may destroy it, and
// tells afterwards whether that happened:
//
//	s := f.Safety()
//	filters.HandlerOf(f).OnEOM()
//	if s.Destroyed() {
//		return
//	}
type Safety struct {
	life *lifetime
}

// Destroyed tells whether the filter was destroyed since the token was
// taken. The zero Safety reports destroyed.
func (s Safety) Destroyed() bool {
	return s.life == nil || s.life.destroyed
}
