package voxelverse

import "github.com/go-gl/mathgl/mgl32"

// Controller is the shared-mutable handle between an external front-end and
// a controlled-agent entity. The front-end writes it between ticks; the
// core reads it during the tick and never writes it. DropBlock and
// DropBlockFixed are read in phase 2 (run actions) and ControlForces in
// phase 3 (integrate); nothing reads it during phase 1 (collect inputs).
type Controller struct {
	ControlForces  Vec3
	DropBlock      bool
	DropBlockFixed bool
}

// EntityPayload is a closed sum of the two things an Entity can carry. It is
// intentionally a marker interface rather than a rich one: unlike the
// Parent|Matter split in the space tree, a handful of payload-specific
// behaviors (control forces, drop actions) are cheap to express as type
// switches in entity.go, so there is no temptation to grow shared methods
// on it.
type EntityPayload interface {
	isEntityPayload()
}

// ControlledAgentPayload marks an entity as driven by an external
// Controller, grounded on player.rs's Player/Entity split.
type ControlledAgentPayload struct {
	Controller *Controller
}

func (ControlledAgentPayload) isEntityPayload() {}

// VoxelBodyPayload is an opaque voxel body: a sparse voxel octree plus its
// own nested matter tree (for in-body collision) and an orientation. The
// core never interprets VoxelTree contents.
type VoxelBodyPayload struct {
	Model       AssetID
	Body        *MatterTree
	Orientation mgl32.Mat3
}

func (VoxelBodyPayload) isEntityPayload() {}

// Entity holds the physical state of one body: bounding sphere, velocity,
// mass, an external-force accumulator, and a payload variant. Coordinates
// are always relative to the center of the owning matter cell's root, never
// a world origin.
type Entity struct {
	BoundingSphere Sphere
	Velocity       Vec3
	Mass           float64
	ExternalForces Vec3
	Payload        EntityPayload
}

func (e *Entity) controlForces() Vec3 {
	if ca, ok := e.Payload.(ControlledAgentPayload); ok && ca.Controller != nil {
		return ca.Controller.ControlForces
	}
	return Vec3{}
}

// Integrate runs one tick's symplectic integration step: accumulate control
// forces, translate position by velocity, then (if massive) update velocity
// from the accumulated forces, finally resetting the accumulator. The order
// is load-bearing — velocity used to translate is last tick's velocity, not
// this tick's force response, which is what makes the integrator
// deterministic under integer arithmetic.
func (e *Entity) Integrate() {
	e.ExternalForces = e.ExternalForces.Add(e.controlForces())
	e.BoundingSphere = e.BoundingSphere.Translate(e.Velocity)
	if e.Mass > 0 {
		e.Velocity = e.Velocity.Add(e.ExternalForces.DivFloat(e.Mass))
	}
	e.ExternalForces = Vec3{}
}

// CheckCollision is a pure sphere-sphere overlap test.
func (e Entity) CheckCollision(other Entity) bool {
	return e.BoundingSphere.Intersects(other.BoundingSphere)
}

// CollisionHandler is invoked for every colliding unordered pair. Response
// math is out of core scope; tests commonly substitute a counting handler
// (see the pair-collision-symmetry scenario).
type CollisionHandler func(a, b *Entity)

// ApplyCollision runs CheckCollision and, on overlap, invokes handler
// exactly once for the pair. It reports whether the pair collided.
func ApplyCollision(a, b *Entity, handler CollisionHandler) bool {
	if !a.CheckCollision(*b) {
		return false
	}
	if handler != nil {
		handler(a, b)
	}
	return true
}

// CellPartKind is the classification of an entity against a cube, per the
// four-way rule in §4.2: CenterOutside, PartlyOutside, a single Quadrant, or
// MultiQuadrant.
type CellPartKind uint8

const (
	CenterOutside CellPartKind = iota
	PartlyOutside
	QuadrantPart
	MultiQuadrant
)

type CellPart struct {
	Kind     CellPartKind
	Quadrant Quadrant
}

// sphereWithinCube reports whether s (already center-relative) lies wholly
// inside a centered cube of the given side — i.e. it does not cross any
// face.
func sphereWithinCube(s Sphere, side int64) bool {
	half := side / 2
	min := -half + s.Radius
	max := half - 1 - s.Radius
	return s.Center.X >= min && s.Center.X <= max &&
		s.Center.Y >= min && s.Center.Y <= max &&
		s.Center.Z >= min && s.Center.Z <= max
}

// ClassifyCellPart classifies e against area, evaluating conditions in the
// required order: center-outside, then partly-outside, then each octant in
// ascending 3-bit order, then multi-quadrant.
func ClassifyCellPart(e Entity, area Cube) CellPart {
	rel := e.BoundingSphere.SubToCenter(area.Center())

	if !rel.Center.IsInsideCenteredCube(area.Side) {
		return CellPart{Kind: CenterOutside}
	}
	if !sphereWithinCube(rel, area.Side) {
		return CellPart{Kind: PartlyOutside}
	}
	for q := Quadrant(0); q < NumQuadrants; q++ {
		if rel.IsInsideQuadrant(area.Side, q) {
			return CellPart{Kind: QuadrantPart, Quadrant: q}
		}
	}
	return CellPart{Kind: MultiQuadrant}
}

// axisTouches reports which of {-1, +1} the sphere's extent on one axis
// protrudes past area's half-extent on, or {0} if it stays clear of both
// faces with radius to spare.
func axisTouches(c, half, radius int64) []int64 {
	var touches []int64
	if c-radius < -half {
		touches = append(touches, -1)
	}
	if c+radius > half-1 {
		touches = append(touches, 1)
	}
	if len(touches) == 0 {
		touches = []int64{0}
	}
	return touches
}

// TouchedNeighborCells returns the set of FineDirections the entity's
// bounding sphere protrudes into, relative to area's outer faces. Empty if
// the sphere sits wholly inside area shrunk by its own radius — the common
// fast path.
func TouchedNeighborCells(e Entity, area Cube) []FineDirection {
	rel := e.BoundingSphere.Center.Sub(area.Center())
	r := e.BoundingSphere.Radius
	half := area.Side / 2

	if sphereWithinCube(Sphere{Center: rel, Radius: r}, area.Side) {
		return nil
	}

	xs := axisTouches(rel.X, half, r)
	ys := axisTouches(rel.Y, half, r)
	zs := axisTouches(rel.Z, half, r)

	var out []FineDirection
	for _, cx := range xs {
		for _, cy := range ys {
			for _, cz := range zs {
				if cx == 0 && cy == 0 && cz == 0 {
					continue
				}
				out = append(out, FineDirectionFromVec(Vec3{cx, cy, cz}))
			}
		}
	}
	return out
}

// CollidedQuadrants returns every octant of area whose half-cube, grown by
// the entity's radius, contains the sphere's center. Used to decide which
// child subtrees must consider this entity as an external collider.
func CollidedQuadrants(e Entity, area Cube) []Quadrant {
	rel := e.BoundingSphere.Center.Sub(area.Center())
	r := e.BoundingSphere.Radius
	half := area.Side / 2
	subHalf := half / 2
	subCenterOffset := half / 2

	var out []Quadrant
	for q := Quadrant(0); q < NumQuadrants; q++ {
		center := Vec3{
			X: signedShift(q.XP(), subCenterOffset),
			Y: signedShift(q.YP(), subCenterOffset),
			Z: signedShift(q.ZP(), subCenterOffset),
		}
		d := rel.Sub(center)
		lo, hi := -subHalf-r, subHalf-1+r
		if d.X >= lo && d.X <= hi && d.Y >= lo && d.Y <= hi && d.Z >= lo && d.Z <= hi {
			out = append(out, q)
		}
	}
	return out
}

// RescaleAcrossBoundary re-expresses the entity's center relative to a
// neighboring matter cell's center, after it has crossed a space-tree
// boundary in the given direction. This is what keeps coordinates bounded
// no matter how far an entity has traveled: the space tree never stores a
// world-absolute position.
func (e *Entity) RescaleAcrossBoundary(direction Vec3, cellSize int64) {
	e.BoundingSphere.Center = e.BoundingSphere.Center.Sub(direction.MulScalar(cellSize))
}

// voxelDropMass and voxelDropRadius size the block an agent drops via
// Controller.DropBlock — the physical metadata carried on the registered
// VoxelModel template (asset.go's newSolidBlockModel) rather than
// hardcoded per spawn.
const (
	voxelDropMass   = 10.0
	voxelDropRadius = int64(16)
)

// matterScaleForRadius returns the smallest matter-tree scale whose side
// covers a sphere of the given radius, clamped to MaxMatterScale — used to
// size a freshly spawned voxel body's own nested matter tree.
func matterScaleForRadius(radius int64) uint32 {
	side := radius * 2
	var scale uint32
	for MinSize<<scale < side && scale < MaxMatterScale {
		scale++
	}
	return scale
}

// RunActions implements tick phase 2 for this entity: a controlled agent
// with DropBlock set spawns a voxel-body entity at its current position,
// referencing the registry's default block asset and allocating its own
// nested matter tree for in-body collision. The core never clears
// DropBlock, so a block is spawned on every tick while it stays set (the
// caller must clear DropBlock for a single-shot drop); DropBlockFixed, while
// set, suppresses the action entirely. Returns nil if no default block asset
// is registered.
func (e *Entity) RunActions(assets *AssetServer) *Entity {
	ca, ok := e.Payload.(ControlledAgentPayload)
	if !ok || ca.Controller == nil {
		return nil
	}
	if !ca.Controller.DropBlock || ca.Controller.DropBlockFixed {
		return nil
	}
	id, ok := assets.DefaultBlock()
	if !ok {
		return nil
	}
	model := assets.MustGet(id)

	return &Entity{
		BoundingSphere: Sphere{Center: e.BoundingSphere.Center, Radius: model.Radius},
		Mass:           model.Mass,
		Payload: VoxelBodyPayload{
			Model:       id,
			Body:        NewMatterTree(matterScaleForRadius(model.Radius), Vec3{}),
			Orientation: mgl32.Ident3(),
		},
	}
}
