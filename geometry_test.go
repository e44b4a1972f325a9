package voxelverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.MulScalar(2))
	assert.Equal(t, Vec3{2, 2, 2}, Vec3{4, 8, 12}.DivScalar(2))
}

func TestIsInsideCenteredCube(t *testing.T) {
	// side=8 => half-open [-4, 3]
	assert.True(t, Vec3{-4, 0, 3}.IsInsideCenteredCube(8))
	assert.False(t, Vec3{4, 0, 0}.IsInsideCenteredCube(8), "upper face excluded")
	assert.False(t, Vec3{-5, 0, 0}.IsInsideCenteredCube(8))
}

func TestQuadrantFromPos(t *testing.T) {
	assert.Equal(t, XpYpZp, QuadrantFromPos(Vec3{1, 1, 1}))
	assert.Equal(t, XnYnZn, QuadrantFromPos(Vec3{-1, -1, -1}))
	// on-axis (zero) goes to the positive octant by convention
	assert.Equal(t, XpYpZp, QuadrantFromPos(Vec3{0, 0, 0}))
}

func TestQuadrantBitTrickLaws(t *testing.T) {
	dirs := []Vec3{{1, 0, 0}, {0, -1, 0}, {1, 1, 1}, {-1, 1, -1}, {0, 0, 0}}
	for q := Quadrant(0); q < NumQuadrants; q++ {
		assert.Equal(t, q, q.Invert().Invert(), "invert is an involution")
		for _, d := range dirs {
			assert.Equal(t, q, q.Mirror(d).Mirror(d), "mirror is an involution for %v", d)
		}
		same, ok := q.MoveTo(Vec3{0, 0, 0})
		assert.True(t, ok)
		assert.Equal(t, q, same)
	}
}

func TestQuadrantMoveToBounds(t *testing.T) {
	// XnYnZn moving further negative on any axis leaves the cube.
	_, ok := XnYnZn.MoveTo(Vec3{-1, 0, 0})
	assert.False(t, ok)
	_, ok = XpYpZp.MoveTo(Vec3{1, 0, 0})
	assert.False(t, ok)

	next, ok := XnYnZn.MoveTo(Vec3{1, 0, 0})
	assert.True(t, ok)
	assert.Equal(t, XpYnZn, next)
}

func TestFineDirectionRoundTrip(t *testing.T) {
	for cx := int64(-1); cx <= 1; cx++ {
		for cy := int64(-1); cy <= 1; cy++ {
			for cz := int64(-1); cz <= 1; cz++ {
				pos := Vec3{cx * 100, cy * 100, cz * 100}
				d := FineDirectionFromOffset(pos, 10)
				assert.Equal(t, Vec3{cx, cy, cz}, d.OutsiderDirectionVec())
			}
		}
	}
}

func TestFineDirectionCenterIsZero(t *testing.T) {
	d := FineDirectionFromOffset(Vec3{0, 0, 0}, 10)
	assert.Equal(t, Vec3{0, 0, 0}, d.OutsiderDirectionVec())
}

func TestSphereIntersects(t *testing.T) {
	a := Sphere{Center: Vec3{0, 0, 0}, Radius: 5}
	b := Sphere{Center: Vec3{8, 0, 0}, Radius: 5}
	c := Sphere{Center: Vec3{20, 0, 0}, Radius: 5}
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestSphereIsInsideQuadrant(t *testing.T) {
	outerSize := int64(100)
	inQ := Sphere{Center: Vec3{20, 20, 20}, Radius: 2}
	assert.True(t, inQ.IsInsideQuadrant(outerSize, XpYpZp))
	assert.False(t, inQ.IsInsideQuadrant(outerSize, XnYnZn))

	straddling := Sphere{Center: Vec3{0, 0, 0}, Radius: 2}
	for q := Quadrant(0); q < NumQuadrants; q++ {
		assert.False(t, straddling.IsInsideQuadrant(outerSize, q))
	}
}

func TestCubeChildCube(t *testing.T) {
	root := Cube{Origin: Vec3{-8, -8, -8}, Side: 16}
	child := root.ChildCube(XpYpZp)
	assert.Equal(t, Cube{Origin: Vec3{0, 0, 0}, Side: 8}, child)

	child2 := root.ChildCube(XnYnZn)
	assert.Equal(t, Cube{Origin: Vec3{-8, -8, -8}, Side: 8}, child2)
}
