package camera

import "github.com/chewxy/math32"

// RayCylinder intersects a ray with an upright capped cylinder standing
// on y = 0 at (cx, cz). It returns the distance along dir to the nearest
// hit on the side or the top cap. dir must be unit length.
func RayCylinder(origin, dir [3]float32, cx, cz, radius, height float32) (float32, bool) {
	best := math32.Inf(1)
	ox, oz := origin[0]-cx, origin[2]-cz

	a := dir[0]*dir[0] + dir[2]*dir[2]
	if a > 1e-9 {
		b := 2 * (ox*dir[0] + oz*dir[2])
		c := ox*ox + oz*oz - radius*radius
		if disc := b*b - 4*a*c; disc >= 0 {
			sq := math32.Sqrt(disc)
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if y := origin[1] + t*dir[1]; t >= 0 && y >= 0 && y <= height {
					best = t
					break
				}
			}
		}
	}

	if math32.Abs(dir[1]) > 1e-9 {
		t := (height - origin[1]) / dir[1]
		px, pz := ox+t*dir[0], oz+t*dir[2]
		if t >= 0 && px*px+pz*pz <= radius*radius && t < best {
			best = t
		}
	}
	return best, !math32.IsInf(best, 1)
}
