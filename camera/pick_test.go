package camera

import "testing"

func TestRayCylinder(t *testing.T) {
	tests := []struct {
		name   string
		origin [3]float32
		dir    [3]float32
		want   float32
		hit    bool
	}{
		{"side", [3]float32{-5, 0.5, 0}, [3]float32{1, 0, 0}, 4.9, true},
		{"above", [3]float32{-5, 1.5, 0}, [3]float32{1, 0, 0}, 0, false},
		{"top cap", [3]float32{0, 5, 0}, [3]float32{0, -1, 0}, 4, true},
		{"away", [3]float32{-5, 0.5, 0}, [3]float32{-1, 0, 0}, 0, false},
		{"offset miss", [3]float32{-5, 0.5, 0.2}, [3]float32{1, 0, 0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RayCylinder(tt.origin, tt.dir, 0, 0, 0.1, 1)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && !near(got, tt.want) {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayCylinderFromScreen(t *testing.T) {
	cam := New(1280, 720, 1.2)
	cam.TargetY = 0.5
	sx, sy, ok := cam.WorldToScreen(0, 0.5, 0)
	if !ok {
		t.Fatal("target not visible")
	}
	o, d := cam.ScreenRay(sx, sy)
	if _, hit := RayCylinder(o, d, 0, 0, 0.05, 1); !hit {
		t.Error("ray through the projected target missed the cylinder")
	}
}
