package light

import "github.com/annel0/chunklight/internal/vec"

// Внешние провайдеры геометрии. Движок освещения их только потребляет;
// реализации живут в пакете world (или в тестовых заглушках).

// BlockQuery результат запроса блока в вокселе
type BlockQuery struct {
	Opacity  Opacity
	Emission EmissionRGB
}

// FluidQuery результат запроса жидкости в вокселе
type FluidQuery struct {
	Present  bool
	Emission EmissionRGB
}

// BlockGeometry отдаёт непрозрачность и излучение блока по мировым
// координатам вокселя. ok=false означает, что геометрия недоступна
// (чанк не загружен) — расчёт секции вернёт NotLoaded.
type BlockGeometry interface {
	QueryBlock(pos vec.Vec3) (BlockQuery, bool)
}

// FluidGeometry отдаёт наличие и излучение жидкости в вокселе.
// Жидкости и заслоняют свет, и излучают его.
type FluidGeometry interface {
	QueryFluid(pos vec.Vec3) (FluidQuery, bool)
}

// HeightMap отдаёт верхнюю непрозрачную высоту колонки (worldX, worldZ).
// Воксели на этой высоте и выше считаются открытыми небу.
type HeightMap interface {
	QueryHeight(worldX, worldZ int) (int, bool)
}

// GeometryProvider объединяет все три источника; именно он передаётся
// алгоритму расчёта при конструировании.
type GeometryProvider interface {
	BlockGeometry
	FluidGeometry
	HeightMap
}
