package voxelverse

import "math/bits"

// VoxelType is the content of one voxel cell. Opaque to the core beyond
// Empty vs non-empty; front-ends interpret richer palettes.
type VoxelType uint8

const (
	VoxelEmpty VoxelType = iota
	VoxelRock
	VoxelMetal
	VoxelGlass
)

// ChunkSize is the edge length, in voxels, of a VoxelTree leaf chunk,
// grounded on voxel_grid.rs's CHUNK_SIZE.
const ChunkSize = 32

const voxelsPerChunk = ChunkSize * ChunkSize * ChunkSize

// VoxelTreeKind discriminates the two VoxelTree shapes, the same
// Parent|Chunk sum as voxel_grid.rs's VoxelTree enum — pattern-matched by
// Kind rather than a shared interface, for the same reason as SpaceTree.
type VoxelTreeKind uint8

const (
	VoxelParent VoxelTreeKind = iota
	VoxelChunk
)

// VoxelTree is a sparse octree of fixed-size voxel chunks. Unlike MatterTree
// and SpaceTree, it never relocates anything — it is pure static (or
// slowly-edited) voxel geometry referenced by a VoxelBodyPayload's asset, so
// its only job is compact storage plus point queries.
type VoxelTree struct {
	Kind VoxelTreeKind

	// Parent fields.
	Scale    uint32
	Children [NumQuadrants]*VoxelTree

	// Chunk field: one packed brick of voxels, grounded on xbrickmap.go's
	// Brick — a dense payload array plus a 64-bit occupancy mask over 4x4x4
	// macrocells, so whole-chunk and macrocell emptiness checks are O(1)
	// instead of scanning ChunkSize^3 cells.
	Voxels          *[voxelsPerChunk]VoxelType
	OccupancyMask64 uint64
}

// NewVoxelChunk returns a single empty leaf chunk.
func NewVoxelChunk() *VoxelTree {
	return &VoxelTree{Kind: VoxelChunk, Voxels: &[voxelsPerChunk]VoxelType{}}
}

// NewVoxelTree returns an empty model of the given scale: scale 0 is a
// single chunk, scale N wraps 2^N chunks per axis.
func NewVoxelTree(scale uint32) *VoxelTree {
	if scale == 0 {
		return NewVoxelChunk()
	}
	return &VoxelTree{Kind: VoxelParent, Scale: scale}
}

func chunkIndex(x, y, z int) int {
	return x + y*ChunkSize + z*ChunkSize*ChunkSize
}

func macrocellIndex(x, y, z int) int {
	// 4x4x4 macrocells of 8 voxels per axis, matching xbrickmap's
	// BrickSize/MicroSize split scaled to a 32-voxel chunk.
	const cell = ChunkSize / 4
	return (x / cell) + (y/cell)*4 + (z/cell)*16
}

// SetVoxel writes one voxel within this chunk and updates the occupancy
// mask's macrocell bit accordingly. Panics if called on a Parent node or
// with out-of-range local coordinates — both are caller bugs.
func (v *VoxelTree) SetVoxel(x, y, z int, val VoxelType) {
	if v.Kind != VoxelChunk {
		panic("voxelverse: SetVoxel on a non-leaf VoxelTree node")
	}
	if x < 0 || x >= ChunkSize || y < 0 || y >= ChunkSize || z < 0 || z >= ChunkSize {
		panic("voxelverse: SetVoxel coordinates outside the chunk")
	}
	v.Voxels[chunkIndex(x, y, z)] = val
	mIdx := macrocellIndex(x, y, z)
	if val != VoxelEmpty {
		v.OccupancyMask64 |= 1 << uint(mIdx)
		return
	}
	if v.macrocellEmpty(x, y, z) {
		v.OccupancyMask64 &^= 1 << uint(mIdx)
	}
}

func (v *VoxelTree) macrocellEmpty(x, y, z int) bool {
	const cell = ChunkSize / 4
	bx, by, bz := (x/cell)*cell, (y/cell)*cell, (z/cell)*cell
	for dx := 0; dx < cell; dx++ {
		for dy := 0; dy < cell; dy++ {
			for dz := 0; dz < cell; dz++ {
				if v.Voxels[chunkIndex(bx+dx, by+dy, bz+dz)] != VoxelEmpty {
					return false
				}
			}
		}
	}
	return true
}

// GetVoxel reads one voxel within this chunk.
func (v *VoxelTree) GetVoxel(x, y, z int) VoxelType {
	if v.Kind != VoxelChunk {
		panic("voxelverse: GetVoxel on a non-leaf VoxelTree node")
	}
	return v.Voxels[chunkIndex(x, y, z)]
}

// IsEmpty reports whether this node (recursively) contains no voxels.
func (v *VoxelTree) IsEmpty() bool {
	switch v.Kind {
	case VoxelChunk:
		return v.OccupancyMask64 == 0
	default:
		for _, c := range v.Children {
			if c != nil && !c.IsEmpty() {
				return false
			}
		}
		return true
	}
}

// chunkSideVoxels is the edge length, in voxels, of a scale-N model.
func chunkSideVoxels(scale uint32) int64 {
	return int64(ChunkSize) << scale
}

// SetVoxelGlobal writes a voxel addressed by global (possibly multi-chunk)
// coordinates relative to this node's own origin corner, descending through
// Parent levels and creating chunks lazily as needed.
func (v *VoxelTree) SetVoxelGlobal(x, y, z int64, val VoxelType) {
	node := v
	for node.Kind == VoxelParent {
		half := chunkSideVoxels(node.Scale - 1)
		q := octantOf(x, y, z, half)
		x, y, z = localize(x, y, z, half, q)
		if node.Children[q] == nil {
			node.Children[q] = NewVoxelTree(node.Scale - 1)
		}
		node = node.Children[q]
	}
	node.SetVoxel(int(x), int(y), int(z), val)
}

// GetVoxelGlobal mirrors SetVoxelGlobal for reads; an unallocated region
// reads as VoxelEmpty.
func (v *VoxelTree) GetVoxelGlobal(x, y, z int64) VoxelType {
	node := v
	for node.Kind == VoxelParent {
		half := chunkSideVoxels(node.Scale - 1)
		q := octantOf(x, y, z, half)
		x, y, z = localize(x, y, z, half, q)
		if node.Children[q] == nil {
			return VoxelEmpty
		}
		node = node.Children[q]
	}
	return node.GetVoxel(int(x), int(y), int(z))
}

func octantOf(x, y, z, half int64) Quadrant {
	var q Quadrant
	if x >= half {
		q |= 1 << 2
	}
	if y >= half {
		q |= 1 << 1
	}
	if z >= half {
		q |= 1
	}
	return q
}

func localize(x, y, z, half int64, q Quadrant) (int64, int64, int64) {
	if q&(1<<2) != 0 {
		x -= half
	}
	if q&(1<<1) != 0 {
		y -= half
	}
	if q&1 != 0 {
		z -= half
	}
	return x, y, z
}

// PopCount reports the number of occupied macrocells in this chunk's
// occupancy mask — a cheap proxy for "how full" a chunk is, useful for LOD
// decisions in a front-end.
func (v *VoxelTree) PopCount() int {
	if v.Kind != VoxelChunk {
		return 0
	}
	return bits.OnesCount64(v.OccupancyMask64)
}
