package chunk

import (
	"testing"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/voxel"
)

func TestIndexIsXMajorWithinRow(t *testing.T) {
	if Index(0, 0, 0) != 0 {
		t.Errorf("Index(0,0,0) = %d, want 0", Index(0, 0, 0))
	}
	if Index(1, 0, 0) != 1 {
		t.Errorf("Index(1,0,0) = %d, want 1", Index(1, 0, 0))
	}
	if Index(0, 1, 0) != Size {
		t.Errorf("Index(0,1,0) = %d, want %d", Index(0, 1, 0), Size)
	}
	if Index(0, 0, 1) != Size*Size {
		t.Errorf("Index(0,0,1) = %d, want %d", Index(0, 0, 1), Size*Size)
	}
}

func TestEmptyChunkIsEmpty(t *testing.T) {
	c := &Chunk{}
	if !c.IsEmpty() {
		t.Errorf("zero-value chunk should be empty")
	}
}

func TestChunkWithOneSolidVoxelIsNotEmpty(t *testing.T) {
	c := &Chunk{}
	c.Set(5, 5, 5, voxel.Pack(1, 0, 0, 0))
	if c.IsEmpty() {
		t.Errorf("chunk with a solid voxel should not be empty")
	}
	if c.At(5, 5, 5).Material() != 1 {
		t.Errorf("At(5,5,5) material = %d, want 1", c.At(5, 5, 5).Material())
	}
}

func TestCoordMinMax(t *testing.T) {
	a := Coord{1, -2, 3}
	b := Coord{-4, 5, 0}
	if got := a.Min(b); got != (Coord{-4, -2, 0}) {
		t.Errorf("Min = %+v", got)
	}
	if got := a.Max(b); got != (Coord{1, 5, 3}) {
		t.Errorf("Max = %+v", got)
	}
}
