package atlas

import (
	"testing"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
)

func TestSlotToOriginMapping(t *testing.T) {
	dims := Dims{X: 8, Y: 2, Z: 8}
	cases := []struct {
		slot    uint32
		x, y, z uint32
	}{
		{0, 0, 0, 0},
		{1, chunk.Size, 0, 0},
		{8, 0, chunk.Size, 0},
		{16, 0, 0, chunk.Size},
		{9, chunk.Size, chunk.Size, 0},
	}
	for _, c := range cases {
		x, y, z := SlotToOrigin(c.slot, dims)
		if x != c.x || y != c.y || z != c.z {
			t.Errorf("SlotToOrigin(%d) = (%d,%d,%d), want (%d,%d,%d)", c.slot, x, y, z, c.x, c.y, c.z)
		}
	}
}

func TestWorldToSlotOrigin(t *testing.T) {
	dims := Dims{X: 8, Y: 2, Z: 8}
	if got := WorldToSlot(chunk.Coord{X: 0, Y: 0, Z: 0}, dims); got != 0 {
		t.Errorf("WorldToSlot(origin) = %d, want 0", got)
	}
}

func TestWorldToSlotPositiveCoords(t *testing.T) {
	dims := Dims{X: 8, Y: 2, Z: 8}
	cases := []struct {
		coord chunk.Coord
		want  uint32
	}{
		{chunk.Coord{X: 1, Y: 0, Z: 0}, 1},
		{chunk.Coord{X: 0, Y: 1, Z: 0}, 8},
		{chunk.Coord{X: 0, Y: 0, Z: 1}, 16},
		{chunk.Coord{X: 3, Y: 1, Z: 3}, 3*16 + 1*8 + 3},
	}
	for _, c := range cases {
		if got := WorldToSlot(c.coord, dims); got != c.want {
			t.Errorf("WorldToSlot(%+v) = %d, want %d", c.coord, got, c.want)
		}
	}
}

func TestWorldToSlotWrapsAtAtlasBoundary(t *testing.T) {
	dims := Dims{X: 8, Y: 2, Z: 8}
	if got := WorldToSlot(chunk.Coord{X: 8, Y: 0, Z: 0}, dims); got != 0 {
		t.Errorf("WorldToSlot(8,0,0) = %d, want 0", got)
	}
	if got := WorldToSlot(chunk.Coord{X: 9, Y: 0, Z: 0}, dims); got != 1 {
		t.Errorf("WorldToSlot(9,0,0) = %d, want 1", got)
	}
}

func TestWorldToSlotNegativeCoords(t *testing.T) {
	dims := Dims{X: 8, Y: 2, Z: 8}
	cases := []struct {
		coord chunk.Coord
		want  uint32
	}{
		{chunk.Coord{X: -1, Y: 0, Z: 0}, 7},
		{chunk.Coord{X: -8, Y: 0, Z: 0}, 0},
		{chunk.Coord{X: -1, Y: -1, Z: -1}, 127},
	}
	for _, c := range cases {
		if got := WorldToSlot(c.coord, dims); got != c.want {
			t.Errorf("WorldToSlot(%+v) = %d, want %d", c.coord, got, c.want)
		}
	}
}

func TestWorldToSlotInvariantUnderAtlasPeriod(t *testing.T) {
	dims := Dims{X: 8, Y: 4, Z: 8}
	coord := chunk.Coord{X: 3, Y: -2, Z: 5}
	shifted := chunk.Coord{X: coord.X + int32(dims.X), Y: coord.Y - int32(dims.Y), Z: coord.Z + 2*int32(dims.Z)}
	if WorldToSlot(coord, dims) != WorldToSlot(shifted, dims) {
		t.Errorf("world_to_slot not invariant under atlas-dimension shift")
	}
}

func TestSlotToOriginDividedByChunkSizeRecoversSlotCoords(t *testing.T) {
	dims := Dims{X: 8, Y: 4, Z: 8}
	for slot := uint32(0); slot < dims.Product(); slot++ {
		x, y, z := SlotToOrigin(slot, dims)
		sx, sy, sz := x/chunk.Size, y/chunk.Size, z/chunk.Size
		wantSX := slot % dims.X
		wantSY := (slot / dims.X) % dims.Y
		wantSZ := slot / (dims.X * dims.Y)
		if sx != wantSX || sy != wantSY || sz != wantSZ {
			t.Fatalf("slot %d: got (%d,%d,%d), want (%d,%d,%d)", slot, sx, sy, sz, wantSX, wantSY, wantSZ)
		}
	}
}

func TestDimsFitsViewDistance(t *testing.T) {
	dims := Dims{X: 8, Y: 8, Z: 8}
	if !dims.fits(3) {
		t.Errorf("8 slots should fit view distance 3 (needs 7)")
	}
	if dims.fits(4) {
		t.Errorf("8 slots should not fit view distance 4 (needs 9)")
	}
}
