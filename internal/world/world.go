package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/logging"
	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world/block"
)

// ChunkStore персистентность чанков. Реализуется пакетом storage;
// мир знает только интерфейс.
type ChunkStore interface {
	// LoadInto применяет сохранённые данные к чанку; found=false — чанк не сохранялся
	LoadInto(chunk *Chunk) (found bool, err error)
	// Save сохраняет текущее состояние чанка
	Save(chunk *Chunk) error
}

// WorldManager управляет чанками мира и связывает правки блоков с
// подсистемой освещения: загрузка секции регистрирует её в LightStore и
// ставит на расчёт, правка вокселя каскадно инвалидирует окрестность.
type WorldManager struct {
	mu     sync.RWMutex
	chunks map[vec.Vec2]*Chunk

	seed       int64
	generator  *WorldGenerator
	chunkStore ChunkStore

	lightStore  *light.LightStore
	coordinator *light.LightingCoordinator
	tracker     *light.InvalidationTracker

	log *logging.Logger
}

// NewWorldManager создаёт мир с указанным сидом. Алгоритм освещения
// выбирается здесь один раз — волновая релаксация по секциям.
func NewWorldManager(seed int64, lightBackoff time.Duration) *WorldManager {
	wm := &WorldManager{
		chunks:    make(map[vec.Vec2]*Chunk),
		seed:      seed,
		generator: NewWorldGenerator(seed),
		log:       logging.GetWorldLogger(),
	}

	wm.lightStore = light.NewLightStore()
	algo := light.NewFloodFillCalculator(wm.lightStore, wm)
	wm.coordinator = light.NewLightingCoordinator(wm.lightStore, algo, lightBackoff)
	wm.tracker = light.NewInvalidationTracker(wm.lightStore, wm.coordinator)
	return wm
}

// SetChunkStore подключает персистентность чанков (опционально)
func (wm *WorldManager) SetChunkStore(cs ChunkStore) {
	wm.chunkStore = cs
}

// Run запускает фоновый воркер освещения; жизненный цикл привязан к ctx
func (wm *WorldManager) Run(ctx context.Context) {
	wm.coordinator.Run(ctx)
}

// Stop детерминированно останавливает воркер и сохраняет правленные чанки
func (wm *WorldManager) Stop() {
	wm.coordinator.Stop()
	if err := wm.SaveAll(); err != nil {
		wm.log.Error("Сохранение мира при остановке: %v", err)
	}
}

// LoadChunk загружает чанк: из хранилища, если сохранён, иначе генерирует.
// Каждая из 16 секций регистрируется в движке освещения и ставится на
// первичный расчёт.
func (wm *WorldManager) LoadChunk(coords vec.Vec2) error {
	wm.mu.Lock()
	if _, ok := wm.chunks[coords]; ok {
		wm.mu.Unlock()
		return nil
	}

	chunk := wm.generator.GenerateChunk(coords)
	if wm.chunkStore != nil {
		found, err := wm.chunkStore.LoadInto(chunk)
		if err != nil {
			wm.mu.Unlock()
			return fmt.Errorf("загрузка чанка %v: %w", coords, err)
		}
		if found {
			chunk.RecomputeAllHeights()
		}
	}
	wm.chunks[coords] = chunk
	wm.mu.Unlock()

	for sy := 0; sy < ChunkSections; sy++ {
		wm.coordinator.SectionLoaded(vec.Vec3{X: coords.X, Y: sy, Z: coords.Z})
	}
	return nil
}

// UnloadChunk сохраняет и выгружает чанк; записи освещения и ожидающие
// заявки его секций удаляются.
func (wm *WorldManager) UnloadChunk(coords vec.Vec2) error {
	wm.mu.Lock()
	chunk, ok := wm.chunks[coords]
	if !ok {
		wm.mu.Unlock()
		return nil
	}
	delete(wm.chunks, coords)
	wm.mu.Unlock()

	for sy := 0; sy < ChunkSections; sy++ {
		wm.coordinator.SectionUnloaded(vec.Vec3{X: coords.X, Y: sy, Z: coords.Z})
	}

	if wm.chunkStore != nil && chunk.HasChanges() {
		if err := wm.chunkStore.Save(chunk); err != nil {
			return fmt.Errorf("сохранение чанка %v: %w", coords, err)
		}
		chunk.ClearChanges()
	}
	return nil
}

// SaveAll сохраняет все правленные чанки
func (wm *WorldManager) SaveAll() error {
	if wm.chunkStore == nil {
		return nil
	}

	wm.mu.RLock()
	chunks := make([]*Chunk, 0, len(wm.chunks))
	for _, c := range wm.chunks {
		chunks = append(chunks, c)
	}
	wm.mu.RUnlock()

	var lastErr error
	for _, c := range chunks {
		if !c.HasChanges() {
			continue
		}
		if err := wm.chunkStore.Save(c); err != nil {
			lastErr = err
			continue
		}
		c.ClearChanges()
	}
	return lastErr
}

// chunkAt возвращает загруженный чанк колонки
func (wm *WorldManager) chunkAt(coords vec.Vec2) (*Chunk, bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	c, ok := wm.chunks[coords]
	return c, ok
}

// LoadedChunks возвращает количество загруженных чанков
func (wm *WorldManager) LoadedChunks() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.chunks)
}

// GetBlock возвращает блок по мировым координатам вокселя.
// Для незагруженного чанка — воздух.
func (wm *WorldManager) GetBlock(pos vec.Vec3) block.BlockID {
	chunk, ok := wm.chunkAt(pos.ToColumn())
	if !ok {
		return block.AirBlockID
	}
	return chunk.Block(pos.X&0xF, pos.Y, pos.Z&0xF)
}

// GetFluid возвращает жидкость по мировым координатам вокселя
func (wm *WorldManager) GetFluid(pos vec.Vec3) block.FluidID {
	chunk, ok := wm.chunkAt(pos.ToColumn())
	if !ok {
		return block.NoFluidID
	}
	return chunk.Fluid(pos.X&0xF, pos.Y, pos.Z&0xF)
}

// SetBlock устанавливает блок по мировым координатам и каскадно
// инвалидирует освещение. Чанк загружается при необходимости.
func (wm *WorldManager) SetBlock(pos vec.Vec3, id block.BlockID) error {
	if err := wm.LoadChunk(pos.ToColumn()); err != nil {
		return err
	}
	chunk, _ := wm.chunkAt(pos.ToColumn())

	old, oldHeight, newHeight := chunk.SetBlock(pos.X&0xF, pos.Y, pos.Z&0xF, id)
	if old == id {
		return nil // геометрия не изменилась, свет трогать не нужно
	}

	kind := light.ChangeBlock
	if oldHeight != newHeight {
		kind = light.ChangeHeightmap
	}
	wm.tracker.OnVoxelEdit(pos, kind, oldHeight, newHeight)
	return nil
}

// SetFluid устанавливает жидкость по мировым координатам.
// Жидкости обрабатываются как блоки: они заслоняют и излучают свет.
func (wm *WorldManager) SetFluid(pos vec.Vec3, id block.FluidID) error {
	if err := wm.LoadChunk(pos.ToColumn()); err != nil {
		return err
	}
	chunk, _ := wm.chunkAt(pos.ToColumn())

	old := chunk.SetFluid(pos.X&0xF, pos.Y, pos.Z&0xF, id)
	if old == id {
		return nil
	}

	h := chunk.Height(pos.X&0xF, pos.Z&0xF)
	wm.tracker.OnVoxelEdit(pos, light.ChangeFluid, h, h)
	return nil
}

// Height возвращает верхнюю непрозрачную высоту колонки (worldX, worldZ)
func (wm *WorldManager) Height(worldX, worldZ int) (int, bool) {
	chunk, ok := wm.chunkAt(vec.Vec3{X: worldX, Z: worldZ}.ToColumn())
	if !ok {
		return 0, false
	}
	return chunk.Height(worldX&0xF, worldZ&0xF), true
}

// InvalidateSection публичная точка входа: полная инвалидация секции
func (wm *WorldManager) InvalidateSection(coord vec.Vec3) {
	wm.tracker.InvalidateSection(coord)
}

// LocalLight возвращает опубликованный Local-свет секции
func (wm *WorldManager) LocalLight(coord vec.Vec3) (*light.LightBuffer, bool) {
	return wm.lightStore.LocalLight(coord)
}

// GlobalLight возвращает опубликованный Global-свет секции
func (wm *WorldManager) GlobalLight(coord vec.Vec3) (*light.LightBuffer, bool) {
	return wm.lightStore.GlobalLight(coord)
}

// Lighting открывает координатор для диагностики (длина очереди, застрявшие)
func (wm *WorldManager) Lighting() *light.LightingCoordinator {
	return wm.coordinator
}

// LightStore открывает хранилище освещения для потребителей запросов
func (wm *WorldManager) LightStore() *light.LightStore {
	return wm.lightStore
}

// --- Адаптеры light.GeometryProvider ---

// QueryBlock отдаёт непрозрачность и излучение блока в вокселе.
// Неизвестный ID блока считается непрозрачным и тёмным.
func (wm *WorldManager) QueryBlock(pos vec.Vec3) (light.BlockQuery, bool) {
	chunk, ok := wm.chunkAt(pos.ToColumn())
	if !ok {
		return light.BlockQuery{}, false
	}
	id := chunk.Block(pos.X&0xF, pos.Y, pos.Z&0xF)
	behavior, ok := block.Get(id)
	if !ok {
		return light.BlockQuery{Opacity: light.OpacitySolid}, true
	}
	return light.BlockQuery{Opacity: behavior.Opacity(), Emission: behavior.Emission()}, true
}

// QueryFluid отдаёт наличие и излучение жидкости в вокселе
func (wm *WorldManager) QueryFluid(pos vec.Vec3) (light.FluidQuery, bool) {
	chunk, ok := wm.chunkAt(pos.ToColumn())
	if !ok {
		return light.FluidQuery{}, false
	}
	id := chunk.Fluid(pos.X&0xF, pos.Y, pos.Z&0xF)
	if id == block.NoFluidID {
		return light.FluidQuery{}, true
	}
	behavior, ok := block.GetFluid(id)
	if !ok {
		return light.FluidQuery{Present: true}, true
	}
	return light.FluidQuery{Present: true, Emission: behavior.Emission()}, true
}

// QueryHeight отдаёт верхнюю непрозрачную высоту колонки
func (wm *WorldManager) QueryHeight(worldX, worldZ int) (int, bool) {
	return wm.Height(worldX, worldZ)
}
