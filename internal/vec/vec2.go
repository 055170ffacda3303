package vec

import "math"

// Vec2 представляет координаты чанк-колонки в горизонтальной плоскости (X, Z)
type Vec2 struct {
	X, Z int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Z: v.Z + other.Z}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// ColumnNeighborhood возвращает окрестность 3x3 чанк-колонок вокруг v,
// включая саму колонку. Это документированный радиус инвалидации:
// свет из правки в одной колонке не распространяется дальше соседней.
func (v Vec2) ColumnNeighborhood() []Vec2 {
	out := make([]Vec2, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			out = append(out, Vec2{X: v.X + dx, Z: v.Z + dz})
		}
	}
	return out
}
