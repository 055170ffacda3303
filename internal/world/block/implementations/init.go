package implementations

import "github.com/annel0/chunklight/internal/world/block"

// Регистрируем все типы блоков и жидкостей при импорте пакета
func init() {
	// Базовые блоки
	block.Register(block.AirBlockID, &AirBehavior{})
	block.Register(block.StoneBlockID, &StoneBehavior{})
	block.Register(block.GrassBlockID, &GrassBehavior{})
	block.Register(block.DirtBlockID, &DirtBehavior{})
	block.Register(block.SandBlockID, &SandBehavior{})

	// Светопроницаемые блоки
	block.Register(block.GlassBlockID, &GlassBehavior{})
	block.Register(block.LeavesBlockID, &LeavesBehavior{})

	// Излучатели
	block.Register(block.LanternBlockID, &LanternBehavior{})
	block.Register(block.GlowshroomBlockID, &GlowshroomBehavior{})

	// Жидкости
	block.RegisterFluid(block.WaterFluidID, &WaterBehavior{})
	block.RegisterFluid(block.LavaFluidID, &LavaBehavior{})
}
