// Package terrain extracts and (de)serialises the per-column walkable
// surface lists derived from a chunk.
package terrain

import (
	"fmt"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
)

// Surface is a single walkable surface within a column.
type Surface struct {
	Y         uint8
	TerrainID uint8
	Headroom  uint8
}

// Columns is the number of (x, z) columns in a chunk.
const Columns = chunk.Size * chunk.Size

// Grid holds, for each of a chunk's 32x32 columns, a bottom-to-top list of
// surfaces. Columns are indexed z*chunk.Size+x, matching the voxel array's
// z-major order.
type Grid struct {
	columns [Columns][]Surface
}

// materialToTerrain maps a voxel material id to a game-level terrain type.
// Currently a 1:1 passthrough.
func materialToTerrain(material byte) uint8 { return material }

// Build scans a chunk and extracts every walkable surface: a solid voxel
// at y with either y == chunk.Size-1 or an air voxel at y+1.
func Build(c *chunk.Chunk) *Grid {
	g := &Grid{}
	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			var surfaces []Surface
			for y := 0; y < chunk.Size; y++ {
				v := c.At(x, y, z)
				if v.IsAir() {
					continue
				}
				if y == chunk.Size-1 {
					surfaces = append(surfaces, Surface{
						Y:         uint8(y),
						TerrainID: materialToTerrain(v.Material()),
						Headroom:  255,
					})
					continue
				}
				if c.At(x, y+1, z).IsAir() {
					headroom := countHeadroom(c, x, y+1, z)
					surfaces = append(surfaces, Surface{
						Y:         uint8(y),
						TerrainID: materialToTerrain(v.Material()),
						Headroom:  uint8(headroom),
					})
				}
			}
			g.columns[z*chunk.Size+x] = surfaces
		}
	}
	return g
}

func countHeadroom(c *chunk.Chunk, x, startY, z int) int {
	n := 0
	for y := startY; y < chunk.Size; y++ {
		if !c.At(x, y, z).IsAir() {
			break
		}
		n++
	}
	if n > 255 {
		n = 255
	}
	return n
}

// SurfacesAt returns the surfaces in column (x, z), sorted bottom-to-top.
func (g *Grid) SurfacesAt(x, z int) []Surface {
	return g.columns[z*chunk.Size+x]
}

// SurfaceCount returns the total number of surfaces across all columns.
func (g *Grid) SurfaceCount() int {
	n := 0
	for _, col := range g.columns {
		n += len(col)
	}
	return n
}

// MarshalBinary serialises the grid: for each of the 1024 columns in
// z-major order, a u8 count followed by count (y, terrain_id, headroom)
// triples.
func (g *Grid) MarshalBinary() ([]byte, error) {
	total := g.SurfaceCount()
	buf := make([]byte, 0, Columns+3*total)
	for _, col := range g.columns {
		buf = append(buf, byte(len(col)))
		for _, s := range col {
			buf = append(buf, s.Y, s.TerrainID, s.Headroom)
		}
	}
	return buf, nil
}

// UnmarshalTerrainGrid deserialises a byte slice produced by
// (*Grid).MarshalBinary into a fresh Grid.
func UnmarshalTerrainGrid(data []byte) (*Grid, error) {
	g := &Grid{}
	offset := 0
	for col := 0; col < Columns; col++ {
		if offset >= len(data) {
			return nil, fmt.Errorf("terrain: truncated grid at column %d", col)
		}
		count := int(data[offset])
		offset++
		if count == 0 {
			continue
		}
		if offset+3*count > len(data) {
			return nil, fmt.Errorf("terrain: truncated surfaces at column %d", col)
		}
		surfaces := make([]Surface, count)
		for i := 0; i < count; i++ {
			surfaces[i] = Surface{
				Y:         data[offset],
				TerrainID: data[offset+1],
				Headroom:  data[offset+2],
			}
			offset += 3
		}
		g.columns[col] = surfaces
	}
	if offset != len(data) {
		return nil, fmt.Errorf("terrain: %d trailing bytes after grid", len(data)-offset)
	}
	return g, nil
}
