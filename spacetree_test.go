package voxelverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEntityIntoFreshUniverseStaysSingleLeaf(t *testing.T) {
	root := NewSpaceTree()
	root = InsertEntity(root, Entity{BoundingSphere: Sphere{Center: Vec3{0, 0, 0}, Radius: 1}})

	assert.Equal(t, SpaceMatter, root.Kind)
	assert.Equal(t, 1, root.NodeCount())
	assert.Equal(t, 1, root.EntityCount())
}

func TestRefreshRootNoOverflowIsNoop(t *testing.T) {
	root := NewSpaceTree()
	root = InsertEntity(root, Entity{BoundingSphere: Sphere{Center: Vec3{0, 0, 0}, Radius: 1}})

	root = RefreshRoot(root)

	assert.Equal(t, SpaceMatter, root.Kind)
	assert.Equal(t, 1, root.EntityCount())
}

// Scenario: Ascent on overflow (spec §8.3). An entity just inside the root
// matter cell's +x face moves further +x past the boundary; the tree grows
// one level and the entity lands in the new +x leaf with its coordinate
// rescaled relative to that leaf's own center. Root tightness then collapses
// the (now-empty) former root away, leaving a single matter leaf again.
func TestRefreshRootGrowsThenShrinksOnOverflow(t *testing.T) {
	root := NewSpaceTree()
	root.Matter.Entities = []Entity{
		{BoundingSphere: Sphere{Center: Vec3{MaxSize/2 - 10, 0, 0}, Radius: 1}, Velocity: Vec3{20, 0, 0}},
	}
	root.Matter.Entities[0].Integrate()

	root = RefreshRoot(root)

	require.Equal(t, SpaceMatter, root.Kind, "tightness collapses the trivial 2-leaf parent back to one leaf")
	assert.Equal(t, 1, root.EntityCount())
	got := root.Matter.Entities[0].BoundingSphere.Center
	assert.Equal(t, Vec3{10 - MaxSize/2, 0, 0}, got)
}

// Scenario: Return home (spec §8.4). Continuing the overflow scenario with
// velocity reversed eventually brings the tree back to a single leaf at the
// original location.
func TestRefreshRootReturnsHomeAfterRoundTrip(t *testing.T) {
	root := NewSpaceTree()
	root.Matter.Entities = []Entity{
		{BoundingSphere: Sphere{Center: Vec3{MaxSize/2 - 10, 0, 0}, Radius: 1}, Velocity: Vec3{20, 0, 0}},
	}
	root.Matter.Entities[0].Integrate()
	root = RefreshRoot(root)

	// Now heading back the way it came.
	root.Matter.Entities[0].Velocity = Vec3{-20, 0, 0}
	for i := 0; i < 5; i++ {
		for j := range root.Matter.Entities {
			root.Matter.Entities[j].Integrate()
		}
		root = RefreshRoot(root)
	}

	assert.Equal(t, SpaceMatter, root.Kind)
	assert.Equal(t, 1, root.NodeCount())
	assert.Equal(t, 1, root.EntityCount())
}

// Scenario: Corner growth (spec §8.5). A single growth step handles all
// three overflowing axes at once, placing the former root at the quadrant
// opposite the expansion corner.
func TestGrowRootAndRouteCornerIsSingleStep(t *testing.T) {
	oldRoot := NewSpaceTree()
	o := outsider{
		Entity:    Entity{BoundingSphere: Sphere{Center: Vec3{1, 1, 1}, Radius: 1}},
		Direction: Vec3{1, 1, 1},
	}

	newRoot := growRootAndRoute(oldRoot, []outsider{o})

	require.Equal(t, SpaceParent, newRoot.Kind)
	assert.Same(t, oldRoot, newRoot.Children[XnYnZn])
	require.NotNil(t, newRoot.Children[XpYpZp])
	assert.Equal(t, 1, newRoot.Children[XpYpZp].EntityCount())
}

func TestGrowRootAndRouteConflictingAxisTakesTwoSteps(t *testing.T) {
	plusX := outsider{Entity: Entity{BoundingSphere: Sphere{Center: Vec3{1, 0, 0}, Radius: 1}}, Direction: Vec3{1, 0, 0}}
	minusX := outsider{Entity: Entity{BoundingSphere: Sphere{Center: Vec3{-1, 0, 0}, Radius: 1}}, Direction: Vec3{-1, 0, 0}}

	root := growRootAndRoute(NewSpaceTree(), []outsider{plusX, minusX})

	require.Equal(t, SpaceParent, root.Kind)
	assert.Equal(t, uint32(1), root.Scale, "resolving a same-axis conflict takes two nested growth steps")
	assert.Equal(t, 2, root.EntityCount())
}

// The one-level inter-matter-tree collision case (spec §4.5/§9(ii)): an
// entity touching its matter leaf's shared face collides against the
// neighboring sibling leaf's local entities, translated into the
// neighbor's own coordinate frame.
func TestApplyCollisionsCrossesAdjacentMatterSiblings(t *testing.T) {
	left := NewSpaceTree()
	right := NewSpaceTree()
	half := left.Matter.Area.Side / 2

	left.Matter.Entities = []Entity{{BoundingSphere: Sphere{Center: Vec3{half - 3, 0, 0}, Radius: 5}}}
	right.Matter.Entities = []Entity{{BoundingSphere: Sphere{Center: Vec3{-half - 1, 0, 0}, Radius: 5}}}

	parent := &SpaceTree{Kind: SpaceParent, Scale: 0}
	parent.Children[XnYnZn] = left
	parent.Children[XpYnZn] = right

	count := 0
	parent.ApplyCollisions(func(a, b *Entity) { count++ })

	assert.Equal(t, 1, count)
}

// A touch whose MoveTo fails belongs to a more distant ancestor this parent
// doesn't own; it is skipped, not mishandled.
func TestApplyCollisionsSkipsTouchLeavingThisParent(t *testing.T) {
	corner := NewSpaceTree()
	half := corner.Matter.Area.Side / 2
	corner.Matter.Entities = []Entity{{BoundingSphere: Sphere{Center: Vec3{half - 3, half - 3, half - 3}, Radius: 5}}}

	parent := &SpaceTree{Kind: SpaceParent, Scale: 0}
	parent.Children[XpYpZp] = corner

	count := 0
	assert.NotPanics(t, func() {
		parent.ApplyCollisions(func(a, b *Entity) { count++ })
	})
	assert.Equal(t, 0, count)
}

func TestShrinkRootCollapsesSingleNonEmptyChild(t *testing.T) {
	leaf := NewSpaceTree()
	leaf.Matter.Entities = []Entity{{BoundingSphere: Sphere{Center: Vec3{0, 0, 0}, Radius: 1}}}

	parent := &SpaceTree{Kind: SpaceParent, Scale: 0}
	parent.Children[XpYpZp] = leaf
	parent.Children[XnYnZn] = NewSpaceTree() // empty sibling

	shrunk := shrinkRoot(parent)
	assert.Same(t, leaf, shrunk)
}
