package components

// Transform is an entity's world position. Tendroids are rooted at it.
type Transform struct {
	X, Y, Z float32
}

// Velocity is a creature's velocity in units per second.
type Velocity struct {
	X, Y, Z float32
}
