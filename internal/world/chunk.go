package world

import (
	"sync"

	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world/block"
)

// ChunkSections количество секций в чанк-колонке (высота мира 256 вокселей)
const ChunkSections = light.WorldHeightSections

// WorldHeight высота мира в вокселях
const WorldHeight = ChunkSections * light.SectionSize

// Chunk представляет чанк-колонку 16x256x16: стопку из 16 секций плюс
// карту высот. Координаты блоков внутри чанка локальные: x,z ∈ 0..15,
// y ∈ 0..255.
type Chunk struct {
	Coords   vec.Vec2                // Координаты колонки в мире
	Sections [ChunkSections]*Section // Секции снизу вверх
	Heights  [16][16]int16           // Верхняя непрозрачная высота каждой колонки вокселей
	Mu       sync.RWMutex            // Мьютекс для безопасного доступа
	Changes  map[vec.Vec3]struct{}   // Правленные воксели (для дельты сохранения)

	ChangeCounter int // Счетчик изменений
}

// NewChunk создаёт пустой чанк: все секции аллоцированы, высоты нулевые
func NewChunk(coords vec.Vec2) *Chunk {
	c := &Chunk{
		Coords:  coords,
		Changes: make(map[vec.Vec3]struct{}),
	}
	for i := range c.Sections {
		c.Sections[i] = &Section{}
	}
	return c
}

// Block возвращает ID блока по локальным координатам.
// Координаты за вертикальным пределом дают воздух.
func (c *Chunk) Block(x, y, z int) block.BlockID {
	if y < 0 || y >= WorldHeight {
		return block.AirBlockID
	}
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Sections[y>>4].Block(x, y&0xF, z)
}

// Fluid возвращает ID жидкости по локальным координатам
func (c *Chunk) Fluid(x, y, z int) block.FluidID {
	if y < 0 || y >= WorldHeight {
		return block.NoFluidID
	}
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Sections[y>>4].Fluid(x, y&0xF, z)
}

// Height возвращает верхнюю непрозрачную высоту колонки (x, z)
func (c *Chunk) Height(x, z int) int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return int(c.Heights[x][z])
}

// SetBlock устанавливает блок и обновляет карту высот.
// Возвращает прежний ID блока и высоты колонки до и после правки.
func (c *Chunk) SetBlock(x, y, z int, id block.BlockID) (old block.BlockID, oldHeight, newHeight int) {
	if y < 0 || y >= WorldHeight {
		return block.AirBlockID, 0, 0
	}
	c.Mu.Lock()
	defer c.Mu.Unlock()

	sec := c.Sections[y>>4]
	old = sec.Block(x, y&0xF, z)
	oldHeight = int(c.Heights[x][z])
	sec.SetBlock(x, y&0xF, z, id)
	c.recomputeHeight(x, z)
	newHeight = int(c.Heights[x][z])

	c.Changes[vec.Vec3{X: x, Y: y, Z: z}] = struct{}{}
	c.ChangeCounter++
	return old, oldHeight, newHeight
}

// SetFluid устанавливает жидкость. Высоты не трогаем: карта высот
// отражает только непрозрачные блоки.
func (c *Chunk) SetFluid(x, y, z int, id block.FluidID) (old block.FluidID) {
	if y < 0 || y >= WorldHeight {
		return block.NoFluidID
	}
	c.Mu.Lock()
	defer c.Mu.Unlock()

	sec := c.Sections[y>>4]
	old = sec.Fluid(x, y&0xF, z)
	sec.SetFluid(x, y&0xF, z, id)

	c.Changes[vec.Vec3{X: x, Y: y, Z: z}] = struct{}{}
	c.ChangeCounter++
	return old
}

// recomputeHeight пересчитывает верхнюю непрозрачную высоту колонки.
// Вызывается под write-lock.
func (c *Chunk) recomputeHeight(x, z int) {
	for y := WorldHeight - 1; y >= 0; y-- {
		id := c.Sections[y>>4].Block(x, y&0xF, z)
		if behavior, ok := block.Get(id); ok && behavior.Opacity() == light.OpacitySolid {
			c.Heights[x][z] = int16(y)
			return
		}
	}
	c.Heights[x][z] = 0
}

// RecomputeAllHeights пересчитывает карту высот целиком — после генерации
// или загрузки чанка из хранилища.
func (c *Chunk) RecomputeAllHeights() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			c.recomputeHeight(x, z)
		}
	}
}

// HasChanges возвращает true, если в чанке есть несохранённые правки
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.ChangeCounter > 0
}

// ClearChanges очищает список правок после сохранения
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Changes = make(map[vec.Vec3]struct{})
	c.ChangeCounter = 0
}
