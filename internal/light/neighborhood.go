package light

import "github.com/annel0/chunklight/internal/vec"

// NeighborhoodView даёт доступ только на чтение к опубликованному
// Local-свету соседних секций. Используется фазой Global как шлюз
// готовности и источник граничных значений.
type NeighborhoodView struct {
	store *LightStore
}

// NewNeighborhoodView создаёт представление поверх хранилища
func NewNeighborhoodView(store *LightStore) *NeighborhoodView {
	return &NeighborhoodView{store: store}
}

// ForSection возвращает координаты до 26 существующих секций, имеющих с
// данной общую грань, ребро или угол. Секции за вертикальным пределом
// мира не существуют и в окрестность не входят.
func (nv *NeighborhoodView) ForSection(coord vec.Vec3) []vec.Vec3 {
	out := make([]vec.Vec3, 0, 26)
	for _, n := range coord.Neighbors26() {
		if n.Y < 0 || n.Y >= WorldHeightSections {
			continue
		}
		out = append(out, n)
	}
	return out
}

// AllNeighborsHaveLocalLight истинно, только если каждый *загруженный*
// сосед имеет свежий Local-свет. Незагруженный сосед считается
// блокирующей зависимостью, а не прозрачной границей: фаза Global
// вернёт WaitingForNeighbour, пока сосед не загрузится и не рассчитается.
func (nv *NeighborhoodView) AllNeighborsHaveLocalLight(coord vec.Vec3) bool {
	for _, n := range nv.ForSection(coord) {
		rec, ok := nv.store.Get(n)
		if !ok {
			return false
		}
		if !rec.Local.HasLight() {
			return false
		}
	}
	return true
}

// LocalBuffer возвращает опубликованный Local-буфер соседа
func (nv *NeighborhoodView) LocalBuffer(coord vec.Vec3) (*LightBuffer, bool) {
	return nv.store.LocalLight(coord)
}
