package layout

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32At(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func i32At(b []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(b[offset:]))
}

func u32At(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset:])
}

func TestCameraUniformByteLayout(t *testing.T) {
	u := CameraUniform{
		Position:       [3]float32{1, 2, 3},
		Forward:        [3]float32{4, 5, 6},
		Right:          [3]float32{7, 8, 9},
		Up:             [3]float32{10, 11, 12},
		Fov:            1.2,
		Width:          1920,
		Height:         1080,
		GridOrigin:     [3]int32{-4, 0, 4},
		MaxRayDistance: 512.5,
		GridSize:       [3]uint32{9, 9, 9},
		AtlasSlots:     [3]uint32{16, 16, 16},
	}
	buf := u.Bytes()
	if len(buf) != 128 {
		t.Fatalf("size = %d, want 128", len(buf))
	}
	b := buf[:]

	if got := [3]float32{f32At(b, 0), f32At(b, 4), f32At(b, 8)}; got != u.Position {
		t.Errorf("position = %v, want %v", got, u.Position)
	}
	if got := [3]float32{f32At(b, 16), f32At(b, 20), f32At(b, 24)}; got != u.Forward {
		t.Errorf("forward = %v, want %v", got, u.Forward)
	}
	if got := [3]float32{f32At(b, 32), f32At(b, 36), f32At(b, 40)}; got != u.Right {
		t.Errorf("right = %v, want %v", got, u.Right)
	}
	if got := [3]float32{f32At(b, 48), f32At(b, 52), f32At(b, 56)}; got != u.Up {
		t.Errorf("up = %v, want %v", got, u.Up)
	}
	if got := f32At(b, 60); got != u.Fov {
		t.Errorf("fov = %v, want %v", got, u.Fov)
	}
	if got := u32At(b, 64); got != u.Width {
		t.Errorf("width = %v, want %v", got, u.Width)
	}
	if got := u32At(b, 68); got != u.Height {
		t.Errorf("height = %v, want %v", got, u.Height)
	}
	if got := [3]int32{i32At(b, 80), i32At(b, 84), i32At(b, 88)}; got != u.GridOrigin {
		t.Errorf("grid_origin = %v, want %v", got, u.GridOrigin)
	}
	if got := f32At(b, 92); got != u.MaxRayDistance {
		t.Errorf("max_ray_distance = %v, want %v", got, u.MaxRayDistance)
	}
	if got := [3]uint32{u32At(b, 96), u32At(b, 100), u32At(b, 104)}; got != u.GridSize {
		t.Errorf("grid_size = %v, want %v", got, u.GridSize)
	}
	if got := [3]uint32{u32At(b, 112), u32At(b, 116), u32At(b, 120)}; got != u.AtlasSlots {
		t.Errorf("atlas_slots = %v, want %v", got, u.AtlasSlots)
	}
}

func TestSlotRecordByteLayout(t *testing.T) {
	s := SlotRecord{WorldPos: [3]int32{-1, 2, -3}, Flags: SlotOccupiedFlag}
	buf := s.Bytes()
	if len(buf) != 16 {
		t.Fatalf("size = %d, want 16", len(buf))
	}
	b := buf[:]
	if got := [3]int32{i32At(b, 0), i32At(b, 4), i32At(b, 8)}; got != s.WorldPos {
		t.Errorf("world_pos = %v, want %v", got, s.WorldPos)
	}
	if got := u32At(b, 12); got != s.Flags {
		t.Errorf("flags = %v, want %v", got, s.Flags)
	}
}

func TestVoxelTexelRoundTrip(t *testing.T) {
	texel := VoxelTexel(0x01020304)
	buf := texel.Bytes()
	got := binary.LittleEndian.Uint32(buf[:])
	if got != uint32(texel) {
		t.Errorf("round trip = %x, want %x", got, uint32(texel))
	}
}
