package block

var registry = make(map[BlockID]BlockBehavior)
var fluidRegistry = make(map[FluidID]FluidBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// RegisterFluid добавляет поведение жидкости в регистр
func RegisterFluid(id FluidID, behavior FluidBehavior) {
	fluidRegistry[id] = behavior
}

// GetFluid возвращает поведение жидкости для указанного ID
func GetFluid(id FluidID) (FluidBehavior, bool) {
	behavior, exists := fluidRegistry[id]
	return behavior, exists
}

// BlockID представляет идентификатор блока
type BlockID uint16

// FluidID представляет идентификатор жидкости (0 — жидкости нет)
type FluidID uint8

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
	GrassBlockID                // 2
	DirtBlockID                 // 3
	SandBlockID                 // 4

	// Для возможности расширения оставляем промежутки между категориями

	// Светопроницаемые блоки (начиная с 100)
	GlassBlockID  BlockID = 100 // Стекло, полупрозрачное
	LeavesBlockID BlockID = 101 // Листва, cutout

	// Излучатели (начиная с 200)
	LanternBlockID    BlockID = 200 // Фонарь, тёплый свет
	GlowshroomBlockID BlockID = 201 // Светящийся гриб, голубоватый свет
)

// Константы ID жидкостей
const (
	NoFluidID    FluidID = iota // 0 — воксель без жидкости
	WaterFluidID                // 1
	LavaFluidID                 // 2
)
