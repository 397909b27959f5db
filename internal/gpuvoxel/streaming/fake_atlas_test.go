package streaming

import (
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/atlas"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
)

// fakeAtlas is a host-only stand-in for *atlas.Atlas: it tracks slot
// occupancy without touching any GPU resource, so the streaming scheduler
// can be exercised without a real wgpu device.
type fakeAtlas struct {
	dims    atlas.Dims
	uploads []chunk.Coord
	clears  []uint32
}

func newFakeAtlas(dims atlas.Dims) *fakeAtlas { return &fakeAtlas{dims: dims} }

func (f *fakeAtlas) Dims() atlas.Dims { return f.dims }

func (f *fakeAtlas) UploadChunk(slot uint32, c *chunk.Chunk, worldCoord chunk.Coord) {
	f.uploads = append(f.uploads, worldCoord)
}

func (f *fakeAtlas) ClearSlot(slot uint32) {
	f.clears = append(f.clears, slot)
}

func (f *fakeAtlas) BorrowView() atlas.View { return atlas.View{Dims: f.dims} }
