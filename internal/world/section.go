package world

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// Section представляет куб 16x16x16 вокселей — единицу расчёта освещения.
// Блоки и жидкости хранятся плоскими массивами с упаковкой индекса
// y<<8 | z<<4 | x.
type Section struct {
	Blocks [light.SectionVolume]block.BlockID
	Fluids [light.SectionVolume]block.FluidID
}

// Block возвращает ID блока по локальным координатам 0..15
func (s *Section) Block(x, y, z int) block.BlockID {
	return s.Blocks[light.VoxelIndex(x, y, z)]
}

// SetBlock устанавливает блок по локальным координатам 0..15
func (s *Section) SetBlock(x, y, z int, id block.BlockID) {
	s.Blocks[light.VoxelIndex(x, y, z)] = id
}

// Fluid возвращает ID жидкости по локальным координатам 0..15
func (s *Section) Fluid(x, y, z int) block.FluidID {
	return s.Fluids[light.VoxelIndex(x, y, z)]
}

// SetFluid устанавливает жидкость по локальным координатам 0..15
func (s *Section) SetFluid(x, y, z int, id block.FluidID) {
	s.Fluids[light.VoxelIndex(x, y, z)] = id
}
