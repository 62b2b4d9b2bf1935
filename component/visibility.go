package component

// Blend controls whether blank glyph cells occlude lower layers
type Blend uint8

const (
	Opaque      Blend = iota // spaces paint as solid fill
	Transparent              // spaces let lower layers show through
)

func (b Blend) String() string {
	if b == Transparent {
		return "transparent"
	}
	return "opaque"
}

// Visibility is an entity's blend mode plus a hidden flag.
// The zero value is a visible opaque entity
type Visibility struct {
	Blend  Blend
	Hidden bool
}

// Opaque and Transparent visibilities for the common cases
var (
	VisibleOpaque      = Visibility{Blend: Opaque}
	VisibleTransparent = Visibility{Blend: Transparent}
)

// IsTransparent reports whether spaces are see-through
func (v Visibility) IsTransparent() bool {
	return v.Blend == Transparent
}
