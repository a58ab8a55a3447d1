package physics

// AnimatedBody is a dynamic body driven only by its own velocities. It is not
// affected by gravity or collisions; scripts drive it through OnPreAnimate.
type AnimatedBody struct {
	Dynamic

	// OnPreAnimate fires before each substep.
	OnPreAnimate Event[PreAnimate]
}

// NewAnimatedBody returns an animated body attached to frame (a new frame at
// the origin if nil). radius bounds the body for indexing and may be 0.
func NewAnimatedBody(frame *Frame, radius float64) (*AnimatedBody, error) {
	if err := checkFinite("radius", radius); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, outOfRange("radius must be >= 0, got %v", radius)
	}
	return &AnimatedBody{Dynamic: newDynamic(frame, radius)}, nil
}
