package light

import "github.com/annel0/chunklight/internal/vec"

// ChangeKind вид правки мира, влияющей на освещение
type ChangeKind uint8

const (
	ChangeBlock     ChangeKind = iota // Смена блока
	ChangeFluid                       // Смена жидкости (заслоняет и излучает, как блок)
	ChangeHeightmap                   // Смена высоты колонки
	ChangeEmitter                     // Смена излучателя без смены геометрии
)

// Enqueuer принимает координаты секций на пересчёт. Реализуется
// координатором; постановка неблокирующая и дедуплицированная.
type Enqueuer interface {
	Enqueue(coord vec.Vec3)
}

// InvalidationTracker переводит правку мира в точный набор секций,
// чьи Local/Global слои должны быть пересчитаны, поднимает их поколения
// и ставит координаты в очередь.
type InvalidationTracker struct {
	store *LightStore
	queue Enqueuer
}

// NewInvalidationTracker создаёт трекер поверх хранилища и очереди
func NewInvalidationTracker(store *LightStore, queue Enqueuer) *InvalidationTracker {
	return &InvalidationTracker{store: store, queue: queue}
}

// OnVoxelEdit обрабатывает правку вокселя: Local-поколение собственной
// секции плюс Global-поколения всех загруженных секций окрестности
// 3×3 чанк-колонок, ограниченной по вертикали диапазоном, достижимым
// распространением от старой/новой высоты. Радиус распространения —
// не более 15 вокселей, поэтому диапазон расширяется на одну секцию.
func (t *InvalidationTracker) OnVoxelEdit(pos vec.Vec3, kind ChangeKind, oldHeight, newHeight int) {
	section := pos.ToSection()

	if t.store.InvalidateLocal(section) {
		t.queue.Enqueue(section)
	}

	loY := minInt(pos.Y, minInt(oldHeight, newHeight)) - MaxLight
	hiY := maxInt(pos.Y, maxInt(oldHeight, newHeight)) + MaxLight
	loSec := clampInt(loY>>4, 0, WorldHeightSections-1)
	hiSec := clampInt(hiY>>4, 0, WorldHeightSections-1)

	for _, col := range pos.ToColumn().ColumnNeighborhood() {
		for sy := loSec; sy <= hiSec; sy++ {
			c := vec.Vec3{X: col.X, Y: sy, Z: col.Z}
			if t.store.InvalidateGlobal(c) {
				t.queue.Enqueue(c)
			}
		}
	}
}

// InvalidateSection инвалидирует секцию целиком: её Local и Global плюс
// Global всех загруженных соседей — обобщение повоксельного правила на
// «правка где угодно внутри секции».
func (t *InvalidationTracker) InvalidateSection(coord vec.Vec3) {
	touched := false
	if t.store.InvalidateLocal(coord) {
		touched = true
	}
	if t.store.InvalidateGlobal(coord) {
		touched = true
	}
	if touched {
		t.queue.Enqueue(coord)
	}

	for _, n := range coord.Neighbors26() {
		if t.store.InvalidateGlobal(n) {
			t.queue.Enqueue(n)
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
