package light

import (
	"testing"

	"github.com/annel0/chunklight/internal/vec"
)

// recordingQueue копит поставленные координаты вместо настоящей очереди
type recordingQueue struct {
	coords []vec.Vec3
}

func (q *recordingQueue) Enqueue(coord vec.Vec3) {
	q.coords = append(q.coords, coord)
}

func (q *recordingQueue) contains(coord vec.Vec3) bool {
	for _, c := range q.coords {
		if c.Equals(coord) {
			return true
		}
	}
	return false
}

func generations(t *testing.T, store *LightStore, coord vec.Vec3) (local, global int64) {
	t.Helper()
	rec, ok := store.Get(coord)
	if !ok {
		t.Fatalf("Секция %v не зарегистрирована", coord)
	}
	return rec.Local.Generation(), rec.Global.Generation()
}

func TestVoxelEditInvalidatesPrecisely(t *testing.T) {
	store := NewLightStore()
	queue := &recordingQueue{}
	tracker := NewInvalidationTracker(store, queue)

	// Мир 5×5 колонок, все 16 секций каждой
	registerRegion(store, -2, 2, 0, WorldHeightSections-1, -2, 2)

	// Правка вокселя (8,136,8) в секции (0,8,0), высота колонки не меняется
	tracker.OnVoxelEdit(vec.Vec3{X: 8, Y: 136, Z: 8}, ChangeBlock, 136, 136)

	// Local поднят только у собственной секции
	own := vec.Vec3{X: 0, Y: 8, Z: 0}
	if l, _ := generations(t, store, own); l != 1 {
		t.Errorf("Local собственной секции: ожидалось поколение 1, получено %d", l)
	}
	if l, _ := generations(t, store, vec.Vec3{X: 1, Y: 8, Z: 0}); l != 0 {
		t.Errorf("Local соседа не должен подниматься, получено %d", l)
	}

	// Global поднят у окрестности 3×3 колонок в вертикальном диапазоне:
	// 136±15 → воксели 121..151 → секции 7..9
	for _, col := range []vec.Vec2{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: -1, Z: 1}} {
		for sy := 7; sy <= 9; sy++ {
			c := vec.Vec3{X: col.X, Y: sy, Z: col.Z}
			if _, g := generations(t, store, c); g != 1 {
				t.Errorf("Global %v: ожидалось поколение 1, получено %d", c, g)
			}
			if !queue.contains(c) {
				t.Errorf("Секция %v не поставлена в очередь", c)
			}
		}
		// За вертикальным диапазоном — нетронуто
		for _, sy := range []int{6, 10} {
			c := vec.Vec3{X: col.X, Y: sy, Z: col.Z}
			if _, g := generations(t, store, c); g != 0 {
				t.Errorf("Global %v вне диапазона: ожидалось 0, получено %d", c, g)
			}
		}
	}

	// Колонка в двух чанках от правки — нетронута
	far := vec.Vec3{X: 2, Y: 8, Z: 0}
	if _, g := generations(t, store, far); g != 0 {
		t.Errorf("Global дальней колонки: ожидалось 0, получено %d", g)
	}
	if queue.contains(far) {
		t.Errorf("Дальняя колонка %v не должна попадать в очередь", far)
	}
}

func TestHeightChangeWidensVerticalSpan(t *testing.T) {
	store := NewLightStore()
	queue := &recordingQueue{}
	tracker := NewInvalidationTracker(store, queue)

	registerRegion(store, -1, 1, 0, WorldHeightSections-1, -1, 1)

	// Снос верхушки башни: высота колонки падает с 200 до 100.
	// Диапазон: min(100,100)-15=85 → секция 5, max(100,200)+15=215 → секция 13
	tracker.OnVoxelEdit(vec.Vec3{X: 0, Y: 100, Z: 0}, ChangeHeightmap, 200, 100)

	col := vec.Vec2{X: 0, Z: 0}
	for sy := 5; sy <= 13; sy++ {
		if _, g := generations(t, store, vec.Vec3{X: col.X, Y: sy, Z: col.Z}); g != 1 {
			t.Errorf("Global секции y=%d в диапазоне высот: ожидалось 1, получено %d", sy, g)
		}
	}
	for _, sy := range []int{4, 14} {
		if _, g := generations(t, store, vec.Vec3{X: col.X, Y: sy, Z: col.Z}); g != 0 {
			t.Errorf("Global секции y=%d вне диапазона: ожидалось 0, получено %d", sy, g)
		}
	}
}

func TestEditNearWorldBottomClampsSpan(t *testing.T) {
	store := NewLightStore()
	queue := &recordingQueue{}
	tracker := NewInvalidationTracker(store, queue)

	registerRegion(store, 0, 0, 0, 2, 0, 0)

	// Правка у дна мира: 5-15 = -10 → диапазон прижимается к секции 0
	tracker.OnVoxelEdit(vec.Vec3{X: 1, Y: 5, Z: 1}, ChangeBlock, 5, 5)

	if _, g := generations(t, store, vec.Vec3{X: 0, Y: 0, Z: 0}); g != 1 {
		t.Errorf("Нижняя секция должна инвалидироваться, получено %d", g)
	}
	if _, g := generations(t, store, vec.Vec3{X: 0, Y: 2, Z: 0}); g != 0 {
		t.Errorf("Секция y=2 вне диапазона 5±15: ожидалось 0, получено %d", g)
	}
}

func TestUnloadedNeighboursAreSkipped(t *testing.T) {
	store := NewLightStore()
	queue := &recordingQueue{}
	tracker := NewInvalidationTracker(store, queue)

	// Загружена только собственная секция
	own := vec.Vec3{X: 0, Y: 8, Z: 0}
	store.Register(own)

	tracker.OnVoxelEdit(vec.Vec3{X: 8, Y: 136, Z: 8}, ChangeBlock, 136, 136)

	// Очередь содержит только загруженное: own дважды (Local и Global)
	for _, c := range queue.coords {
		if !c.Equals(own) {
			t.Errorf("В очереди незагруженная секция %v", c)
		}
	}
	if l, g := generations(t, store, own); l != 1 || g != 1 {
		t.Errorf("Собственная секция: ожидалось поколения (1,1), получено (%d,%d)", l, g)
	}
}

func TestInvalidateSectionBumpsSelfAndNeighbours(t *testing.T) {
	store := NewLightStore()
	queue := &recordingQueue{}
	tracker := NewInvalidationTracker(store, queue)

	registerRegion(store, -1, 1, 7, 9, -1, 1)
	own := vec.Vec3{X: 0, Y: 8, Z: 0}

	tracker.InvalidateSection(own)

	if l, g := generations(t, store, own); l != 1 || g != 1 {
		t.Errorf("Собственная секция: ожидались поколения (1,1), получено (%d,%d)", l, g)
	}
	for _, n := range own.Neighbors26() {
		l, g := generations(t, store, n)
		if l != 0 {
			t.Errorf("Local соседа %v не должен подниматься, получено %d", n, l)
		}
		if g != 1 {
			t.Errorf("Global соседа %v: ожидалось 1, получено %d", n, g)
		}
		if !queue.contains(n) {
			t.Errorf("Сосед %v не поставлен в очередь", n)
		}
	}
}
