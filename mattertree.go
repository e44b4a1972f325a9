package voxelverse

// Matter-tree sizing. MIN_SIZE and MAX_MATTER_SCALE are implementation
// choices per §3/§4.3; these match the values the end-to-end scenarios in
// §8 are seeded with (MIN_SIZE=32, MAX_MATTER_SCALE=8, MAX_SIZE=8192), well
// clear of the 2^62 overflow headroom required to avoid coordinate overflow.
const (
	MinSizePow     = 5
	MinSize        int64  = 1 << MinSizePow
	MaxMatterScale uint32 = 8
	MaxSize        int64  = MinSize << MaxMatterScale
)

// MatterTree is a fixed-extent octree node. The root has Scale ==
// MaxMatterScale; a leaf has either Scale == 0 or no children. Children are
// created lazily on first insertion into their octant and pruned as soon as
// they hold neither entities nor grandchildren.
type MatterTree struct {
	Scale    uint32
	Area     Cube
	Entities []Entity
	Children [NumQuadrants]*MatterTree
}

// NewMatterTree builds a node of the given scale centered at center.
func NewMatterTree(scale uint32, center Vec3) *MatterTree {
	side := MinSize << scale
	half := side / 2
	return &MatterTree{
		Scale: scale,
		Area:  Cube{Origin: center.Sub(Vec3{half, half, half}), Side: side},
	}
}

// NewMatterTreeRoot builds a root-scale matter tree centered at center.
func NewMatterTreeRoot(center Vec3) *MatterTree {
	return NewMatterTree(MaxMatterScale, center)
}

func (m *MatterTree) childOrCreate(q Quadrant) *MatterTree {
	if m.Children[q] == nil {
		childArea := m.Area.ChildCube(q)
		m.Children[q] = NewMatterTree(m.Scale-1, childArea.Center())
	}
	return m.Children[q]
}

// IsEmpty reports whether m holds no entities and no children — the
// condition refresh prunes on.
func (m *MatterTree) IsEmpty() bool {
	if len(m.Entities) > 0 {
		return false
	}
	for _, c := range m.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// AddEntities is the only placement rule: if the node ends up with at most
// one entity, or Scale == 0, everything stays here. Otherwise each new
// entity is classified against this node's center; anything wholly inside
// an octant recurses into that (lazily created) child, the rest stays.
func (m *MatterTree) AddEntities(es []Entity) {
	if len(m.Entities)+len(es) <= 1 || m.Scale == 0 {
		m.Entities = append(m.Entities, es...)
		return
	}

	var stay []Entity
	toChild := make(map[Quadrant][]Entity)
	for _, e := range es {
		part := ClassifyCellPart(e, m.Area)
		if part.Kind == QuadrantPart {
			toChild[part.Quadrant] = append(toChild[part.Quadrant], e)
		} else {
			stay = append(stay, e)
		}
	}

	m.Entities = append(m.Entities, stay...)
	for q, list := range toChild {
		m.childOrCreate(q).AddEntities(list)
	}
}

// Refresh is the per-tick relocation pass. It classifies every local entity
// and every outsider returned from a child against this node's area,
// routing each to stay, evict further up, demote into a (possibly new)
// child, or fold back in as MultiQuadrant/root-absorbed PartlyOutside. It
// returns the entities evicted upward from this node.
func (m *MatterTree) Refresh(isRoot bool) []Entity {
	var outsiders []Entity
	var keep []Entity
	toDemote := make(map[Quadrant][]Entity)

	classify := func(e Entity) {
		part := ClassifyCellPart(e, m.Area)
		switch part.Kind {
		case MultiQuadrant:
			keep = append(keep, e)
		case PartlyOutside:
			if isRoot {
				keep = append(keep, e)
			} else {
				outsiders = append(outsiders, e)
			}
		case CenterOutside:
			outsiders = append(outsiders, e)
		case QuadrantPart:
			if m.Scale > 0 {
				toDemote[part.Quadrant] = append(toDemote[part.Quadrant], e)
			} else {
				keep = append(keep, e)
			}
		}
	}

	for _, e := range m.Entities {
		classify(e)
	}

	for q := Quadrant(0); q < NumQuadrants; q++ {
		child := m.Children[q]
		if child == nil {
			continue
		}
		for _, e := range child.Refresh(false) {
			classify(e)
		}
	}

	m.Entities = keep

	for q, list := range toDemote {
		m.childOrCreate(q).AddEntities(list)
	}

	for q := Quadrant(0); q < NumQuadrants; q++ {
		if c := m.Children[q]; c != nil && c.IsEmpty() {
			m.Children[q] = nil
		}
	}

	return outsiders
}

// ApplyNeighbourhoodCollisions applies collisions local to this node (every
// unordered pair of its own entities, each exactly once), then uses
// CollidedQuadrants to pass each local entity as an external collider into
// the immediately-adjacent child subtrees. It recurses into children so
// every subtree resolves its own one-level neighbourhood in turn. A node's
// entities are checked only against its direct children's entities: a pair
// formed with an entity two or more levels further down is not checked.
func (m *MatterTree) ApplyNeighbourhoodCollisions(handler CollisionHandler) {
	for i := 0; i < len(m.Entities); i++ {
		for j := i + 1; j < len(m.Entities); j++ {
			ApplyCollision(&m.Entities[i], &m.Entities[j], handler)
		}
	}

	for i := range m.Entities {
		for _, q := range CollidedQuadrants(m.Entities[i], m.Area) {
			child := m.Children[q]
			if child == nil {
				continue
			}
			for j := range child.Entities {
				ApplyCollision(&m.Entities[i], &child.Entities[j], handler)
			}
		}
	}

	for q := Quadrant(0); q < NumQuadrants; q++ {
		if child := m.Children[q]; child != nil {
			child.ApplyNeighbourhoodCollisions(handler)
		}
	}
}

// RunActions runs tick phase 2 over every local entity, recursively: each
// entity that spawns a child (e.g. a controlled agent dropping a voxel
// body) has it appended to this same node's Entities, per §4.5's "spawned
// entities are appended to the same matter node and become visible next
// tick" — they are not reclassified against m.Area until the next refresh.
func (m *MatterTree) RunActions(assets *AssetServer) {
	var spawned []Entity
	for i := range m.Entities {
		if child := m.Entities[i].RunActions(assets); child != nil {
			spawned = append(spawned, *child)
		}
	}
	m.Entities = append(m.Entities, spawned...)

	for _, c := range m.Children {
		if c != nil {
			c.RunActions(assets)
		}
	}
}

// IntegrateAll runs tick phase 3 (symplectic integration) over every local
// entity, recursively.
func (m *MatterTree) IntegrateAll() {
	for i := range m.Entities {
		m.Entities[i].Integrate()
	}
	for _, c := range m.Children {
		if c != nil {
			c.IntegrateAll()
		}
	}
}

// OutsideTouch pairs a local entity with the FineDirections its bounding
// sphere protrudes through a matter tree's outer cube.
type OutsideTouch struct {
	Entity     *Entity
	Directions []FineDirection
}

// GetEntitiesTouchingOutside reports every local entity whose bounding
// sphere crosses this node's outer cube. Only meaningful at a matter tree's
// root — a space-tree leaf — since that is the only boundary a neighboring
// matter tree sits across.
func (m *MatterTree) GetEntitiesTouchingOutside() []OutsideTouch {
	var out []OutsideTouch
	for i := range m.Entities {
		if dirs := TouchedNeighborCells(m.Entities[i], m.Area); len(dirs) > 0 {
			out = append(out, OutsideTouch{Entity: &m.Entities[i], Directions: dirs})
		}
	}
	return out
}

// NodeCount returns the number of matter nodes in this subtree, including m.
func (m *MatterTree) NodeCount() int {
	count := 1
	for _, c := range m.Children {
		if c != nil {
			count += c.NodeCount()
		}
	}
	return count
}

// EntityCount returns the number of entities in this subtree.
func (m *MatterTree) EntityCount() int {
	count := len(m.Entities)
	for _, c := range m.Children {
		if c != nil {
			count += c.EntityCount()
		}
	}
	return count
}

// CellSnapshot is one (area, entities) pair surfaced through the
// introspection API.
type CellSnapshot struct {
	Area     Cube
	Entities []Entity
}

// Cells enumerates every node in this subtree as a CellSnapshot.
func (m *MatterTree) Cells() []CellSnapshot {
	out := []CellSnapshot{{Area: m.Area, Entities: m.Entities}}
	for _, c := range m.Children {
		if c != nil {
			out = append(out, c.Cells()...)
		}
	}
	return out
}
