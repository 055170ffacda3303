package world

import (
	"math/rand"

	"github.com/annel0/chunklight/internal/util"
	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world/block"
)

// Константы высот для генерации
const (
	SeaLevel      = 64    // Уровень воды
	BaseHeight    = 56    // Минимальная высота суши
	HeightRange   = 48    // Размах рельефа над BaseHeight
	GlowChance    = 0.004 // Шанс светящегося гриба на поверхностный блок
	LanternChance = 0.001 // Шанс фонаря на поверхностный блок
)

// WorldGenerator генерирует ландшафт мира
type WorldGenerator struct {
	Seed       int64   // Сид для генерации шума
	NoiseScale float64 // Масштаб основного шума (высота)
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	// Инициализируем генератор шума
	util.InitPerlinNoise(seed)

	return &WorldGenerator{
		Seed:       seed,
		NoiseScale: 0.02, // Настройка сглаженности ландшафта
	}
}

// GenerateChunk генерирует чанк-колонку по её координатам.
// Рельеф детерминирован сидом; поверхность засевается редкими
// излучателями, впадины ниже уровня моря заполняются водой.
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)

	// Локальный генератор для детерминированности на чанк
	chunkSeed := wg.Seed + int64(coords.X*31) + int64(coords.Z*17)
	rng := rand.New(rand.NewSource(chunkSeed))

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			worldX := coords.X*16 + x
			worldZ := coords.Z*16 + z

			noise := util.PerlinNoise2D(float64(worldX)*wg.NoiseScale, float64(worldZ)*wg.NoiseScale, wg.Seed)
			surface := BaseHeight + int(noise*HeightRange)

			for y := 0; y <= surface; y++ {
				sec := chunk.Sections[y>>4]
				switch {
				case y < surface-3:
					sec.SetBlock(x, y&0xF, z, block.StoneBlockID)
				case y < surface:
					sec.SetBlock(x, y&0xF, z, block.DirtBlockID)
				case surface <= SeaLevel+1:
					sec.SetBlock(x, y&0xF, z, block.SandBlockID)
				default:
					sec.SetBlock(x, y&0xF, z, block.GrassBlockID)
				}
			}

			// Вода во впадинах
			for y := surface + 1; y <= SeaLevel; y++ {
				chunk.Sections[y>>4].SetFluid(x, y&0xF, z, block.WaterFluidID)
			}

			// Редкие излучатели на поверхности суши
			if surface > SeaLevel {
				roll := rng.Float64()
				above := surface + 1
				if above < WorldHeight {
					if roll < LanternChance {
						chunk.Sections[above>>4].SetBlock(x, above&0xF, z, block.LanternBlockID)
					} else if roll < LanternChance+GlowChance {
						chunk.Sections[above>>4].SetBlock(x, above&0xF, z, block.GlowshroomBlockID)
					}
				}
			}
		}
	}

	chunk.RecomputeAllHeights()
	return chunk
}
