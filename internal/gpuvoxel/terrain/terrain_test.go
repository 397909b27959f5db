package terrain

import (
	"testing"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/voxel"
)

func setVoxel(c *chunk.Chunk, x, y, z int, material byte) {
	c.Set(x, y, z, voxel.Pack(material, 0, 0, 0))
}

func TestFlatTerrainHasOneSurfacePerColumn(t *testing.T) {
	c := &chunk.Chunk{}
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			setVoxel(c, x, 0, z, 3)
		}
	}
	g := Build(c)
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			surfaces := g.SurfacesAt(x, z)
			if len(surfaces) != 1 {
				t.Fatalf("expected 1 surface at (%d,%d), got %d", x, z, len(surfaces))
			}
			if surfaces[0].Y != 0 || surfaces[0].TerrainID != 3 || surfaces[0].Headroom != 31 {
				t.Errorf("unexpected surface %+v", surfaces[0])
			}
		}
	}
}

func TestBridgeCreatesTwoSurfaces(t *testing.T) {
	c := &chunk.Chunk{}
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			setVoxel(c, x, 0, z, 1)
			setVoxel(c, x, 10, z, 3)
		}
	}
	g := Build(c)
	surfaces := g.SurfacesAt(0, 0)
	if len(surfaces) != 2 {
		t.Fatalf("expected 2 surfaces, got %d", len(surfaces))
	}
	if surfaces[0].Y != 0 || surfaces[0].TerrainID != 1 || surfaces[0].Headroom != 9 {
		t.Errorf("bottom surface = %+v", surfaces[0])
	}
	if surfaces[1].Y != 10 || surfaces[1].TerrainID != 3 || surfaces[1].Headroom != 21 {
		t.Errorf("bridge surface = %+v", surfaces[1])
	}
}

func TestSolidColumnHasSurfaceOnlyAtTop(t *testing.T) {
	c := &chunk.Chunk{}
	for y := 0; y < chunk.Size; y++ {
		setVoxel(c, 0, y, 0, 3)
	}
	g := Build(c)
	surfaces := g.SurfacesAt(0, 0)
	if len(surfaces) != 1 {
		t.Fatalf("expected 1 surface, got %d", len(surfaces))
	}
	if surfaces[0].Y != chunk.Size-1 || surfaces[0].Headroom != 255 {
		t.Errorf("top surface = %+v", surfaces[0])
	}
}

func TestEmptyColumnHasNoSurfaces(t *testing.T) {
	c := &chunk.Chunk{}
	g := Build(c)
	if g.SurfaceCount() != 0 {
		t.Errorf("expected 0 surfaces, got %d", g.SurfaceCount())
	}
}

func TestSurfacesAreStrictlyIncreasing(t *testing.T) {
	gen := chunk.NewPerlinGenerator(42)
	c := gen(chunk.Coord{0, 0, 0})
	g := Build(c)
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			surfaces := g.SurfacesAt(x, z)
			for i := 1; i < len(surfaces); i++ {
				if surfaces[i-1].Y >= surfaces[i].Y {
					t.Fatalf("surfaces at (%d,%d) not strictly increasing: %+v", x, z, surfaces)
				}
			}
		}
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c := &chunk.Chunk{}
	setVoxel(c, 0, 0, 0, 1)
	setVoxel(c, 0, 5, 0, 3)
	g := Build(c)

	data, err := g.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != Columns+3*g.SurfaceCount() {
		t.Fatalf("serialised length = %d, want %d", len(data), Columns+3*g.SurfaceCount())
	}

	round, err := UnmarshalTerrainGrid(data)
	if err != nil {
		t.Fatalf("UnmarshalTerrainGrid: %v", err)
	}
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			want := g.SurfacesAt(x, z)
			got := round.SurfacesAt(x, z)
			if len(want) != len(got) {
				t.Fatalf("column (%d,%d) length mismatch: %v vs %v", x, z, want, got)
			}
			for i := range want {
				if want[i] != got[i] {
					t.Fatalf("column (%d,%d)[%d] mismatch: %+v vs %+v", x, z, i, want[i], got[i])
				}
			}
		}
	}
}

func TestMarshalBytesMatchExpectedLayout(t *testing.T) {
	c := &chunk.Chunk{}
	setVoxel(c, 0, 0, 0, 1)
	setVoxel(c, 0, 5, 0, 3)
	g := Build(c)
	data, _ := g.MarshalBinary()

	if data[0] != 2 {
		t.Fatalf("count = %d, want 2", data[0])
	}
	if data[1] != 0 || data[2] != 1 || data[3] != 4 {
		t.Errorf("first surface = %v, want [0 1 4]", data[1:4])
	}
	if data[4] != 5 || data[5] != 3 || data[6] != 26 {
		t.Errorf("second surface = %v, want [5 3 26]", data[4:7])
	}
	for i := 7; i < len(data); i++ {
		if data[i] != 0 {
			t.Fatalf("expected remaining columns to be empty, byte %d = %d", i, data[i])
		}
	}
}
