package voxelverse

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// AssetID identifies a shared VoxelModel template, the same way the
// teacher's mod_assets.go keys VoxModel assets by a uuid.NewString()
// handle. Many voxel-body entities can reference the same AssetID rather
// than each carrying a private copy of the model.
type AssetID string

// VoxelModel is a template a voxel-body entity's payload references: the
// shared VoxelTree geometry plus physical metadata used to size the body's
// nested matter tree when it is spawned.
type VoxelModel struct {
	Name   string
	Voxels *VoxelTree
	Mass   float64
	Radius int64
}

// AssetServer is the registry of loaded VoxelModels, grounded on the
// teacher's AssetServer (mod_assets.go): register once, hand out the same
// AssetID to every entity that spawns with that model.
type AssetServer struct {
	mu           sync.RWMutex
	models       map[AssetID]*VoxelModel
	defaultBlock AssetID
	haveDefault  bool
}

// NewAssetServer returns an empty registry.
func NewAssetServer() *AssetServer {
	return &AssetServer{models: make(map[AssetID]*VoxelModel)}
}

// Register stores model under a freshly minted AssetID and returns it.
func (s *AssetServer) Register(model *VoxelModel) AssetID {
	id := AssetID(uuid.NewString())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[id] = model
	return id
}

// Get looks up a previously registered model.
func (s *AssetServer) Get(id AssetID) (*VoxelModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[id]
	return m, ok
}

// MustGet panics if id was never registered — used where a caller has
// already validated the reference (e.g. spawning from a known template).
func (s *AssetServer) MustGet(id AssetID) *VoxelModel {
	m, ok := s.Get(id)
	if !ok {
		panic(fmt.Sprintf("voxelverse: unknown asset id %q", id))
	}
	return m
}

// RegisterDefaultBlock registers model and remembers its AssetID as the
// template a controlled agent's drop_block action spawns (Entity.RunActions).
func (s *AssetServer) RegisterDefaultBlock(model *VoxelModel) AssetID {
	id := s.Register(model)
	s.mu.Lock()
	s.defaultBlock = id
	s.haveDefault = true
	s.mu.Unlock()
	return id
}

// DefaultBlock returns the AssetID registered via RegisterDefaultBlock, if
// any.
func (s *AssetServer) DefaultBlock() (AssetID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultBlock, s.haveDefault
}

// newSolidBlockModel builds the voxel content for the one concrete drop
// action the core implements: a single fully-solid chunk, grounded on
// voxel_grid.rs's chunk-granular content. ChunkSize/2 equals
// voxelDropRadius, so the bounding sphere the entity spawns with is exactly
// the chunk's inscribed sphere.
func newSolidBlockModel() *VoxelModel {
	chunk := NewVoxelChunk()
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				chunk.SetVoxel(x, y, z, VoxelRock)
			}
		}
	}
	return &VoxelModel{
		Name:   "block",
		Voxels: chunk,
		Mass:   voxelDropMass,
		Radius: voxelDropRadius,
	}
}
