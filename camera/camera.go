// Package camera provides an orbit camera for viewing the tendroid field.
// It is pure math so the viewer can convert it to a raylib camera and
// tests can run without a window.
package camera

import "github.com/chewxy/math32"

// Camera orbits a target point on a sphere described by yaw, pitch and
// distance. Yaw 0 looks along -Z; pitch is positive above the target.
type Camera struct {
	// Target is the point the camera looks at.
	TargetX, TargetY, TargetZ float32

	Yaw, Pitch float32 // radians
	Distance   float32

	// Vertical field of view in radians.
	FovY float32

	ViewportW, ViewportH float32

	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	home pose
}

// pose is the placement restored by Reset.
type pose struct {
	TargetX, TargetY, TargetZ float32
	Yaw, Pitch, Distance      float32
}

// New creates a camera looking down at a field of the given half-extent
// from slightly above the tendroid tips.
func New(viewportW, viewportH, extent float32) *Camera {
	if extent <= 0 {
		extent = 1
	}
	c := &Camera{
		TargetY:     0.5,
		Yaw:         math32.Pi / 6,
		Pitch:       math32.Pi / 7,
		Distance:    extent*2 + 1.5,
		FovY:        math32.Pi / 4,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 0.5,
		MaxDistance: extent*6 + 5,
		MinPitch:    -math32.Pi/2 + 0.05,
		MaxPitch:    math32.Pi/2 - 0.05,
	}
	c.home = c.save()
	return c
}

func (c *Camera) save() pose {
	return pose{c.TargetX, c.TargetY, c.TargetZ, c.Yaw, c.Pitch, c.Distance}
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() (x, y, z float32) {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return c.TargetX + c.Distance*cp*sy,
		c.TargetY + c.Distance*sp,
		c.TargetZ + c.Distance*cp*cy
}

// Forward returns the unit view direction.
func (c *Camera) Forward() (x, y, z float32) {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return -cp * sy, -sp, -cp * cy
}

// Rotate orbits by dx, dy screen pixels. A full viewport width is one
// turn.
func (c *Camera) Rotate(dx, dy float32) {
	if c.ViewportW <= 0 {
		return
	}
	turn := 2 * math32.Pi / c.ViewportW
	c.Yaw = math32.Mod(c.Yaw-dx*turn, 2*math32.Pi)
	c.Pitch = clamp(c.Pitch+dy*turn, c.MinPitch, c.MaxPitch)
}

// Pan moves the target across the floor plane, dx to the camera's right
// and dz away from it, in world units.
func (c *Camera) Pan(dx, dz float32) {
	sy, cy := math32.Sincos(c.Yaw)
	// right is (cos, 0, -sin), ground forward is (-sin, 0, -cos)
	c.TargetX += dx*cy - dz*sy
	c.TargetZ += -dx*sy - dz*cy
}

// ZoomBy scales the orbit distance; factors below 1 move closer.
func (c *Camera) ZoomBy(factor float32) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW, c.ViewportH = viewportW, viewportH
}

// Reset restores the pose the camera was created with.
func (c *Camera) Reset() {
	h := c.home
	c.TargetX, c.TargetY, c.TargetZ = h.TargetX, h.TargetY, h.TargetZ
	c.Yaw, c.Pitch, c.Distance = h.Yaw, h.Pitch, h.Distance
}

// basis returns the camera's right, up and forward unit vectors.
func (c *Camera) basis() (r, u, f [3]float32) {
	fx, fy, fz := c.Forward()
	f = [3]float32{fx, fy, fz}
	sy, cy := math32.Sincos(c.Yaw)
	r = [3]float32{cy, 0, -sy}
	u = cross(r, f)
	return r, u, f
}

// WorldToScreen projects a world point. ok is false when the point is
// behind the camera.
func (c *Camera) WorldToScreen(x, y, z float32) (sx, sy float32, ok bool) {
	ex, ey, ez := c.Position()
	d := [3]float32{x - ex, y - ey, z - ez}
	r, u, f := c.basis()

	depth := dot(d, f)
	if depth <= 1e-6 {
		return 0, 0, false
	}
	scale := (c.ViewportH / 2) / math32.Tan(c.FovY/2)
	sx = c.ViewportW/2 + dot(d, r)/depth*scale
	sy = c.ViewportH/2 - dot(d, u)/depth*scale
	return sx, sy, true
}

// ScreenRay returns the eye position and the unit direction through
// screen point (sx, sy).
func (c *Camera) ScreenRay(sx, sy float32) (origin, dir [3]float32) {
	ex, ey, ez := c.Position()
	r, u, f := c.basis()
	scale := (c.ViewportH / 2) / math32.Tan(c.FovY/2)
	px := (sx - c.ViewportW/2) / scale
	py := -(sy - c.ViewportH/2) / scale
	for i := range dir {
		dir[i] = f[i] + r[i]*px + u[i]*py
	}
	return [3]float32{ex, ey, ez}, normalize(dir)
}

// FloorPoint intersects the ray through (sx, sy) with the plane y = h.
func (c *Camera) FloorPoint(sx, sy, h float32) (x, z float32, ok bool) {
	o, d := c.ScreenRay(sx, sy)
	if math32.Abs(d[1]) < 1e-6 {
		return 0, 0, false
	}
	t := (h - o[1]) / d[1]
	if t < 0 {
		return 0, 0, false
	}
	return o[0] + d[0]*t, o[2] + d[2]*t, true
}

func dot(a, b [3]float32) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	n := math32.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	return [3]float32{v[0] / n, v[1] / n, v[2] / n}
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
