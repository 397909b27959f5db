package chunk

import (
	"github.com/aquilax/go-perlin"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/voxel"
)

// Material ids used by the built-in generator. Air is voxel.MatAir (0).
const (
	MatGrass byte = 1
	MatDirt  byte = 2
	MatStone byte = 3
)

const dirtDepth = 3

// noiseFrequency scales world-space column coordinates into the Perlin
// lattice. Matches the frequency the reference terrain generator samples
// at (4 cycles per chunk edge) so height variation is visible within a
// single chunk's footprint.
const noiseFrequency = 4.0

// zoneFrequency is the much lower frequency macro-noise octave that
// modulates the detail octave's amplitude, following mk48's landHi/landLo
// split (server/terrain/noise/noise.go): one octave for local detail, one
// much lower-frequency octave to vary the overall shape of the terrain
// across large distances.
const zoneFrequency = 0.15

// perlinGenerator produces deterministic height-field terrain from
// world-space 2-D Perlin noise, keyed on a 32-bit seed.
type perlinGenerator struct {
	detail *perlin.Perlin
	zone   *perlin.Perlin
}

// NewPerlinGenerator returns the built-in terrain Generator: a column per
// (world_x, world_z) filled with stone, three layers of dirt below the
// surface, grass at the surface, and air above. World-space sampling keeps
// heights continuous across chunk boundaries: the height at
// (chunk_x*32+31, chunk_z*32+z) and (chunk_x*32+32, chunk_z*32+z) sample the
// same continuous noise field at unit-spaced inputs.
func NewPerlinGenerator(seed uint32) Generator {
	g := &perlinGenerator{
		detail: perlin.NewPerlin(2, 2, 3, int64(seed)),
		zone:   perlin.NewPerlin(2, 2, 3, int64(seed)+1),
	}
	return g.generate
}

func (g *perlinGenerator) heightAt(worldX, worldZ int32) int32 {
	wx := float64(worldX) / Size
	wz := float64(worldZ) / Size

	detail := g.detail.Noise2D(wx*noiseFrequency, wz*noiseFrequency)
	zone := g.zone.Noise2D(wx*zoneFrequency, wz*zoneFrequency)

	// Detail octave contributes the bulk of the height; zone widens or
	// narrows that contribution so large-scale regions read differently
	// from one another, the same shape mk48's zone mask plays for its
	// coastline heightmap.
	amplitude := 0.5 + 0.5*clamp01((zone+1)*0.5)
	h := (detail + 1) * 0.5 * amplitude * float64(Size)
	return int32(h) + Size/4
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (g *perlinGenerator) generate(coord Coord) *Chunk {
	c := &Chunk{}
	yOffset := coord.Y * Size

	for z := 0; z < Size; z++ {
		worldZ := coord.Z*Size + int32(z)
		for x := 0; x < Size; x++ {
			worldX := coord.X*Size + int32(x)
			worldHeight := g.heightAt(worldX, worldZ)

			for y := 0; y < Size; y++ {
				worldY := yOffset + int32(y)
				if worldY > worldHeight {
					break
				}
				var mat byte
				switch {
				case worldY == worldHeight:
					mat = MatGrass
				case worldY+dirtDepth >= worldHeight:
					mat = MatDirt
				default:
					mat = MatStone
				}
				c.Set(x, y, z, voxel.Pack(mat, 0, 0, 0))
			}
		}
	}
	return c
}

// NewFlatGenerator returns a test generator that fills every voxel with the
// given material id uniformly (spec.md's "all-stone test" variant).
func NewFlatGenerator(material byte) Generator {
	return func(coord Coord) *Chunk {
		c := &Chunk{}
		if material == voxel.MatAir {
			return c
		}
		filled := voxel.Pack(material, 0, 0, 0)
		for i := range c.Voxels {
			c.Voxels[i] = filled
		}
		return c
	}
}
