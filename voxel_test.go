package voxelverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoxelChunkSetGetRoundTrip(t *testing.T) {
	c := NewVoxelChunk()
	assert.True(t, c.IsEmpty())

	c.SetVoxel(1, 2, 3, VoxelRock)
	assert.Equal(t, VoxelRock, c.GetVoxel(1, 2, 3))
	assert.Equal(t, VoxelEmpty, c.GetVoxel(0, 0, 0))
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 1, c.PopCount())
}

func TestVoxelChunkOccupancyClearsWhenMacrocellEmpties(t *testing.T) {
	c := NewVoxelChunk()
	c.SetVoxel(0, 0, 0, VoxelRock)
	assert.Equal(t, 1, c.PopCount())

	c.SetVoxel(0, 0, 0, VoxelEmpty)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.PopCount())
}

func TestVoxelTreeGlobalRoutingAcrossChunks(t *testing.T) {
	v := NewVoxelTree(1) // 2x2x2 chunks along each axis = 64x64x64 voxels
	v.SetVoxelGlobal(0, 0, 0, VoxelRock)
	v.SetVoxelGlobal(ChunkSize, 0, 0, VoxelMetal)

	assert.Equal(t, VoxelRock, v.GetVoxelGlobal(0, 0, 0))
	assert.Equal(t, VoxelMetal, v.GetVoxelGlobal(ChunkSize, 0, 0))
	assert.Equal(t, VoxelEmpty, v.GetVoxelGlobal(1, 1, 1))
	assert.False(t, v.IsEmpty())
}

func TestVoxelTreeGlobalReadOfUnallocatedRegionIsEmpty(t *testing.T) {
	v := NewVoxelTree(2)
	assert.Equal(t, VoxelEmpty, v.GetVoxelGlobal(100, 5, 9))
	assert.True(t, v.IsEmpty())
}
