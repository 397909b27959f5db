// Package atlas manages the GPU-resident 3D chunk atlas: a single texture
// holding many chunks side by side, addressed by a flat slot index derived
// from world chunk coordinates via Euclidean modulus.
package atlas

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/layout"
)

// Dims is the atlas capacity in slots along each axis.
type Dims struct {
	X, Y, Z uint32
}

// Product returns the total slot count Sx*Sy*Sz.
func (d Dims) Product() uint32 { return d.X * d.Y * d.Z }

// fits reports whether visible-cube coordinates of view_distance vd can be
// placed in this atlas without two visible chunks colliding on one slot.
func (d Dims) fits(viewDistance int) bool {
	need := uint32(2*viewDistance + 1)
	return d.X >= need && d.Y >= need && d.Z >= need
}

// ErrAtlasTooSmall is returned at construction when atlas_slots is too small
// for the requested view distance on some axis.
var ErrAtlasTooSmall = fmt.Errorf("gpuvoxel/atlas: atlas_slots too small for view distance")

// View is the borrowed, read-only handle to the atlas's GPU resources a
// bind-group builder needs. The chunk manager is the only owner of the
// underlying Atlas; everyone else gets one of these.
type View struct {
	TextureView *wgpu.TextureView
	IndexBuffer *wgpu.Buffer
	Dims        Dims
}

// Atlas owns the 3D voxel texture and the slot-record buffer, plus a
// host-side shadow of the slot-record array mirroring the GPU buffer.
type Atlas struct {
	device *wgpu.Device

	texture     *wgpu.Texture
	textureView *wgpu.TextureView
	indexBuffer *wgpu.Buffer

	dims  Dims
	slots []layout.SlotRecord
}

// New creates an atlas sized dims.{X,Y,Z} * chunk.Size texels per axis, with
// a backing slot-record buffer of prod(dims) entries all initially cleared.
// Fails the construction precondition (returns ErrAtlasTooSmall) when dims
// cannot hold a 2*viewDistance+1 visible cube on every axis.
func New(device *wgpu.Device, dims Dims, viewDistance int) (*Atlas, error) {
	if !dims.fits(viewDistance) {
		return nil, fmt.Errorf("%w: dims=%+v view_distance=%d", ErrAtlasTooSmall, dims, viewDistance)
	}

	chunkSize := uint32(chunk.Size)
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "ChunkAtlas",
		Size: wgpu.Extent3D{
			Width:              dims.X * chunkSize,
			Height:             dims.Y * chunkSize,
			DepthOrArrayLayers: dims.Z * chunkSize,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension3D,
		Format:        wgpu.TextureFormatRGBA8Uint,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuvoxel/atlas: create texture: %w", err)
	}
	textureView, err := texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("gpuvoxel/atlas: create texture view: %w", err)
	}

	total := int(dims.Product())
	slots := make([]layout.SlotRecord, total)
	indexBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "ChunkAtlasIndex",
		Size:             uint64(total * layout.SlotRecordSize),
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuvoxel/atlas: create index buffer: %w", err)
	}

	return &Atlas{
		device:      device,
		texture:     texture,
		textureView: textureView,
		indexBuffer: indexBuffer,
		dims:        dims,
		slots:       slots,
	}, nil
}

// Dims returns the atlas's slot capacity per axis.
func (a *Atlas) Dims() Dims { return a.dims }

// BorrowView returns a read-only handle to the atlas's GPU resources, for
// bind-group construction. The Atlas remains the sole owner.
func (a *Atlas) BorrowView() View {
	return View{TextureView: a.textureView, IndexBuffer: a.indexBuffer, Dims: a.dims}
}

// WorldToSlot maps a world chunk coordinate to its flat atlas slot index via
// Euclidean modulus, so the mapping is invariant under observer motion: a
// chunk's slot never changes while it remains loaded.
func WorldToSlot(coord chunk.Coord, dims Dims) uint32 {
	wx := euclidMod(coord.X, int32(dims.X))
	wy := euclidMod(coord.Y, int32(dims.Y))
	wz := euclidMod(coord.Z, int32(dims.Z))
	return uint32(wz)*dims.X*dims.Y + uint32(wy)*dims.X + uint32(wx)
}

func euclidMod(a, m int32) int32 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// SlotToOrigin computes the atlas texel origin of a flat slot index.
func SlotToOrigin(slot uint32, dims Dims) (x, y, z uint32) {
	chunkSize := uint32(chunk.Size)
	sx := slot % dims.X
	sy := (slot / dims.X) % dims.Y
	sz := slot / (dims.X * dims.Y)
	return sx * chunkSize, sy * chunkSize, sz * chunkSize
}

// UploadChunk writes the full chunk volume into the atlas texture at slot's
// origin, then records {worldCoord, occupied} in both the host shadow and
// the GPU index buffer at offset slot*sizeof(SlotRecord). Texel writes are
// submitted before the slot record write, matching the ordering the shader
// depends on.
func (a *Atlas) UploadChunk(slot uint32, c *chunk.Chunk, worldCoord chunk.Coord) {
	ox, oy, oz := SlotToOrigin(slot, a.dims)
	chunkSize := uint32(chunk.Size)

	payload := make([]byte, chunk.Volume*4)
	for i, cell := range c.Voxels {
		texel := layout.PackVoxelTexel(cell).Bytes()
		copy(payload[i*4:], texel[:])
	}

	a.device.GetQueue().WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  a.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: ox, Y: oy, Z: oz},
			Aspect:   wgpu.TextureAspectAll,
		},
		payload,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  chunkSize * 4,
			RowsPerImage: chunkSize,
		},
		&wgpu.Extent3D{Width: chunkSize, Height: chunkSize, DepthOrArrayLayers: chunkSize},
	)

	record := layout.SlotRecord{
		WorldPos: [3]int32{worldCoord.X, worldCoord.Y, worldCoord.Z},
		Flags:    layout.SlotOccupiedFlag,
	}
	a.writeSlotRecord(slot, record)
}

// ClearSlot marks a slot unoccupied in both the host shadow and the GPU
// index buffer.
func (a *Atlas) ClearSlot(slot uint32) {
	record := layout.SlotRecord{WorldPos: a.slots[slot].WorldPos, Flags: 0}
	a.writeSlotRecord(slot, record)
}

func (a *Atlas) writeSlotRecord(slot uint32, record layout.SlotRecord) {
	a.slots[slot] = record
	bytes := record.Bytes()
	a.device.GetQueue().WriteBuffer(a.indexBuffer, uint64(slot)*uint64(layout.SlotRecordSize), bytes[:])
}

// SlotRecordAt returns the host-side shadow of a slot record, equal to the
// GPU buffer contents.
func (a *Atlas) SlotRecordAt(slot uint32) layout.SlotRecord { return a.slots[slot] }
