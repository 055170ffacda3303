package vec

// Vec3 представляет трехмерные целочисленные координаты (воксель либо секция).
// Ось Y направлена вверх; X и Z лежат в горизонтальной плоскости.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// ToColumn возвращает координаты чанк-колонки, содержащей воксель
func (v Vec3) ToColumn() Vec2 {
	return Vec2{X: v.X >> 4, Z: v.Z >> 4}
}

// ToSection преобразует мировые координаты вокселя в координаты секции 16³
func (v Vec3) ToSection() Vec3 {
	return Vec3{X: v.X >> 4, Y: v.Y >> 4, Z: v.Z >> 4}
}

// LocalInSection возвращает локальные координаты вокселя внутри его секции
func (v Vec3) LocalInSection() Vec3 {
	return Vec3{X: v.X & 0xF, Y: v.Y & 0xF, Z: v.Z & 0xF}
}

// SectionColumn возвращает координаты колонки для координат секции.
// В отличие от ToColumn деление не требуется: X и Z секции уже чанковые.
func (v Vec3) SectionColumn() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// ChebyshevTo возвращает расстояние Чебышёва до другой точки.
// Именно эта метрика соответствует 26-направленному распространению света.
func (v Vec3) ChebyshevTo(other Vec3) int {
	d := func(a, b int) int {
		if a > b {
			return a - b
		}
		return b - a
	}
	dx, dy, dz := d(v.X, other.X), d(v.Y, other.Y), d(v.Z, other.Z)
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return m
}

// Neighbors26 возвращает все 26 секций/вокселей, имеющих с v общую
// грань, ребро или угол.
func (v Vec3) Neighbors26() []Vec3 {
	out := make([]Vec3, 0, 26)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out = append(out, Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz})
			}
		}
	}
	return out
}
