package storage

import (
	"testing"

	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world"
	"github.com/annel0/chunklight/internal/world/block"
	_ "github.com/annel0/chunklight/internal/world/block/implementations"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ws, err := NewWorldStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Не удалось открыть хранилище: %v", err)
	}
	defer ws.Close()

	coords := vec.Vec2{X: 3, Z: -2}
	chunk := world.NewChunk(coords)
	chunk.SetBlock(5, 70, 9, block.StoneBlockID)
	chunk.SetBlock(5, 71, 9, block.LanternBlockID)
	chunk.SetFluid(5, 72, 9, block.WaterFluidID)

	if err := ws.SaveChunk(chunk); err != nil {
		t.Fatalf("Ошибка сохранения чанка: %v", err)
	}

	fresh := world.NewChunk(coords)
	found, err := ws.LoadInto(fresh)
	if err != nil {
		t.Fatalf("Ошибка загрузки чанка: %v", err)
	}
	if !found {
		t.Fatal("Сохранённый чанк не найден при загрузке")
	}

	if got := fresh.Block(5, 70, 9); got != block.StoneBlockID {
		t.Errorf("Блок (5,70,9): ожидался камень, получен %d", got)
	}
	if got := fresh.Block(5, 71, 9); got != block.LanternBlockID {
		t.Errorf("Блок (5,71,9): ожидался фонарь, получен %d", got)
	}
	if got := fresh.Fluid(5, 72, 9); got != block.WaterFluidID {
		t.Errorf("Жидкость (5,72,9): ожидалась вода, получено %d", got)
	}
}

func TestLoadMissingChunk(t *testing.T) {
	ws, err := NewWorldStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Не удалось открыть хранилище: %v", err)
	}
	defer ws.Close()

	delta, err := ws.LoadChunk(vec.Vec2{X: 100, Z: 100})
	if err != nil {
		t.Fatalf("Ошибка загрузки несуществующего чанка: %v", err)
	}
	if len(delta.VoxelDeltas) != 0 {
		t.Errorf("Несохранённый чанк должен давать пустую дельту, получено %d правок", len(delta.VoxelDeltas))
	}

	fresh := world.NewChunk(vec.Vec2{X: 100, Z: 100})
	found, err := ws.LoadInto(fresh)
	if err != nil {
		t.Fatalf("Ошибка LoadInto: %v", err)
	}
	if found {
		t.Error("LoadInto для несохранённого чанка должен вернуть found=false")
	}
}

func TestSaveMergesWithExistingDelta(t *testing.T) {
	ws, err := NewWorldStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Не удалось открыть хранилище: %v", err)
	}
	defer ws.Close()

	coords := vec.Vec2{X: 0, Z: 0}

	first := world.NewChunk(coords)
	first.SetBlock(1, 10, 1, block.StoneBlockID)
	if err := ws.SaveChunk(first); err != nil {
		t.Fatalf("Первое сохранение: %v", err)
	}

	// Вторая сессия правит другой воксель — первая правка должна выжить
	second := world.NewChunk(coords)
	second.SetBlock(2, 20, 2, block.GlassBlockID)
	if err := ws.SaveChunk(second); err != nil {
		t.Fatalf("Второе сохранение: %v", err)
	}

	delta, err := ws.LoadChunk(coords)
	if err != nil {
		t.Fatalf("Загрузка дельты: %v", err)
	}
	if len(delta.VoxelDeltas) != 2 {
		t.Fatalf("Ожидалось 2 правки после слияния, получено %d", len(delta.VoxelDeltas))
	}
	if vd, ok := delta.VoxelDeltas["1:10:1"]; !ok || vd.Block != block.StoneBlockID {
		t.Errorf("Правка первой сессии потеряна при слиянии: %+v", delta.VoxelDeltas)
	}
}

func TestSaveEmptyChunkIsNoop(t *testing.T) {
	ws, err := NewWorldStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Не удалось открыть хранилище: %v", err)
	}
	defer ws.Close()

	coords := vec.Vec2{X: 7, Z: 7}
	if err := ws.SaveChunk(world.NewChunk(coords)); err != nil {
		t.Fatalf("Сохранение чанка без правок: %v", err)
	}

	delta, err := ws.LoadChunk(coords)
	if err != nil {
		t.Fatalf("Загрузка: %v", err)
	}
	if len(delta.VoxelDeltas) != 0 {
		t.Errorf("Чанк без правок не должен писаться в хранилище")
	}
}
