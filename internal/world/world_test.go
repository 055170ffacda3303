package world

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world/block"
	_ "github.com/annel0/chunklight/internal/world/block/implementations"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSetBlockUpdatesHeightmap(t *testing.T) {
	wm := NewWorldManager(42, 0)
	if err := wm.LoadChunk(vec.Vec2{X: 0, Z: 0}); err != nil {
		t.Fatalf("Загрузка чанка: %v", err)
	}

	surface, ok := wm.Height(8, 8)
	if !ok {
		t.Fatal("Высота загруженной колонки должна быть известна")
	}
	if surface <= 0 || surface >= 200 {
		t.Fatalf("Неправдоподобная высота поверхности: %d", surface)
	}

	// Столб на высоте 200 поднимает карту высот
	if err := wm.SetBlock(vec.Vec3{X: 8, Y: 200, Z: 8}, block.StoneBlockID); err != nil {
		t.Fatalf("Установка блока: %v", err)
	}
	if h, _ := wm.Height(8, 8); h != 200 {
		t.Errorf("Высота после установки блока: ожидалось 200, получено %d", h)
	}

	// Снос возвращает высоту к поверхности
	if err := wm.SetBlock(vec.Vec3{X: 8, Y: 200, Z: 8}, block.AirBlockID); err != nil {
		t.Fatalf("Снос блока: %v", err)
	}
	if h, _ := wm.Height(8, 8); h != surface {
		t.Errorf("Высота после сноса: ожидалось %d, получено %d", surface, h)
	}
}

func TestSetBlockInvalidatesLighting(t *testing.T) {
	wm := NewWorldManager(42, 0)
	if err := wm.LoadChunk(vec.Vec2{X: 0, Z: 0}); err != nil {
		t.Fatalf("Загрузка чанка: %v", err)
	}

	pos := vec.Vec3{X: 8, Y: 136, Z: 8}
	section := pos.ToSection()
	rec, ok := wm.LightStore().Get(section)
	if !ok {
		t.Fatal("Секция загруженного чанка должна быть зарегистрирована")
	}
	genBefore := rec.Local.Generation()

	if err := wm.SetBlock(pos, block.GlassBlockID); err != nil {
		t.Fatalf("Установка блока: %v", err)
	}
	if got := rec.Local.Generation(); got != genBefore+1 {
		t.Errorf("Local-поколение после правки: ожидалось %d, получено %d", genBefore+1, got)
	}

	// Повторная установка того же блока — no-op
	if err := wm.SetBlock(pos, block.GlassBlockID); err != nil {
		t.Fatalf("Повторная установка: %v", err)
	}
	if got := rec.Local.Generation(); got != genBefore+1 {
		t.Errorf("Правка без смены блока не должна инвалидировать, поколение %d", got)
	}
}

func TestSetBlockSameColumnNeighboursGlobalInvalidated(t *testing.T) {
	wm := NewWorldManager(42, 0)
	for cx := -1; cx <= 1; cx++ {
		for cz := -1; cz <= 1; cz++ {
			if err := wm.LoadChunk(vec.Vec2{X: cx, Z: cz}); err != nil {
				t.Fatalf("Загрузка чанка (%d,%d): %v", cx, cz, err)
			}
		}
	}

	pos := vec.Vec3{X: 8, Y: 136, Z: 8}
	neighbour := vec.Vec3{X: 1, Y: 8, Z: 0}
	rec, _ := wm.LightStore().Get(neighbour)
	before := rec.Global.Generation()

	if err := wm.SetBlock(pos, block.StoneBlockID); err != nil {
		t.Fatalf("Установка блока: %v", err)
	}
	if got := rec.Global.Generation(); got <= before {
		t.Errorf("Global соседнего чанка должен инвалидироваться, поколение %d", got)
	}
}

// Полный путь: генерация мира, фоновый расчёт и свет от поставленного
// фонаря в опубликованном буфере.
func TestLanternLightsUpEndToEnd(t *testing.T) {
	wm := NewWorldManager(42, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wm.Run(ctx)
	defer wm.Stop()

	for cx := -1; cx <= 1; cx++ {
		for cz := -1; cz <= 1; cz++ {
			if err := wm.LoadChunk(vec.Vec2{X: cx, Z: cz}); err != nil {
				t.Fatalf("Загрузка чанка (%d,%d): %v", cx, cz, err)
			}
		}
	}

	surface, _ := wm.Height(8, 8)
	lanternPos := vec.Vec3{X: 8, Y: surface + 2, Z: 8}
	if err := wm.SetBlock(lanternPos, block.LanternBlockID); err != nil {
		t.Fatalf("Установка фонаря: %v", err)
	}

	section := lanternPos.ToSection()
	waitFor(t, 10*time.Second, func() bool {
		rec, ok := wm.LightStore().Get(section)
		return ok && rec.Local.HasLight()
	}, "Local секции с фонарём не рассчитан")

	local, ok := wm.LocalLight(section)
	if !ok {
		t.Fatal("Local-буфер не опубликован")
	}
	lp := lanternPos.LocalInSection()
	if got := local.At(light.ChannelRed, lp.X, lp.Y, lp.Z); got != 15 {
		t.Errorf("Красный канал фонаря: ожидалось 15, получено %d", got)
	}
	if got := local.At(light.ChannelSky, lp.X, lp.Y, lp.Z); got != 15 {
		t.Errorf("Фонарь над поверхностью открыт небу: ожидалось 15, получено %d", got)
	}

	// Все соседи секции — в загруженных чанках, Done достижим
	waitFor(t, 10*time.Second, func() bool {
		rec, ok := wm.LightStore().Get(section)
		return ok && rec.Global.HasLight()
	}, "Секция с фонарём не достигла Done")
}

func TestUnloadChunkDropsLightRecords(t *testing.T) {
	wm := NewWorldManager(42, 0)
	coords := vec.Vec2{X: 3, Z: 3}
	if err := wm.LoadChunk(coords); err != nil {
		t.Fatalf("Загрузка чанка: %v", err)
	}
	section := vec.Vec3{X: 3, Y: 8, Z: 3}
	if !wm.LightStore().Loaded(section) {
		t.Fatal("Секция должна быть зарегистрирована после загрузки")
	}

	if err := wm.UnloadChunk(coords); err != nil {
		t.Fatalf("Выгрузка чанка: %v", err)
	}
	if wm.LightStore().Loaded(section) {
		t.Error("Запись освещения должна удаляться при выгрузке чанка")
	}
	if wm.LoadedChunks() != 0 {
		t.Errorf("Чанк остался загруженным: %d", wm.LoadedChunks())
	}
}

func TestGeneratedTerrainIsDeterministic(t *testing.T) {
	gen := NewWorldGenerator(7)
	a := gen.GenerateChunk(vec.Vec2{X: 0, Z: 0})
	b := gen.GenerateChunk(vec.Vec2{X: 0, Z: 0})

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if a.Height(x, z) != b.Height(x, z) {
				t.Fatalf("Недетерминированная генерация: высоты (%d,%d) различаются", x, z)
			}
		}
	}
	if a.Height(0, 0) <= 0 {
		t.Error("Сгенерированный рельеф не должен быть пустым")
	}
}
