package light

import (
	"fmt"

	"github.com/annel0/chunklight/internal/vec"
)

// Status терминальный/повторный сигнал одного расчёта секции
type Status int

const (
	StatusNotLoaded           Status = iota // Секция или геометрия недоступны
	StatusDone                              // Обе фазы завершены
	StatusInvalidated                       // Поколение ушло вперёд во время расчёта
	StatusWaitingForNeighbour               // Сосед ещё не имеет Local-света
)

// String возвращает строковое представление статуса
func (s Status) String() string {
	switch s {
	case StatusNotLoaded:
		return "NotLoaded"
	case StatusDone:
		return "Done"
	case StatusInvalidated:
		return "Invalidated"
	case StatusWaitingForNeighbour:
		return "WaitingForNeighbour"
	default:
		return "Unknown"
	}
}

// Result итог одной попытки расчёта. Буферы присутствуют только если
// соответствующая фаза была пересчитана в этой попытке; публикация
// выполняется вызывающим с штампом наблюдавшегося поколения.
type Result struct {
	Status    Status
	Local     *LightBuffer
	LocalGen  int64
	Global    *LightBuffer
	GlobalGen int64
}

// Algorithm — подключаемый алгоритм расчёта освещения. Выбирается один
// раз при конструировании мира, а не на каждый вызов.
type Algorithm interface {
	Compute(coord vec.Vec3) (Result, error)
}

// neighborOffsets 26 направлений распространения (грани, рёбра, углы).
// Затухание на шаг одинаково для всех направлений, поэтому равный свет
// образует кубы — расстояние Чебышёва от источника.
var neighborOffsets = func() [26][3]int {
	var out [26][3]int
	i := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out[i] = [3]int{dx, dy, dz}
				i++
			}
		}
	}
	return out
}()

// sectionCells снимок геометрии одной секции на время расчёта.
// Снимается один раз и разделяется обеими фазами, чтобы фазы A и B
// видели одну и ту же геометрию даже при конкурентных правках мира.
type sectionCells struct {
	opacity  [SectionVolume]Opacity
	emission [SectionVolume]EmissionRGB
	heights  [SectionSize][SectionSize]int // верхняя непрозрачная высота колонок (мировая)
}

// FloodFillCalculator реализует двухфазный расчёт освещения секции
// волновой релаксацией: значение вокселя обновляется, только если новое
// строго больше сохранённого, что гарантирует завершение и максимум по
// всем путям.
type FloodFillCalculator struct {
	store     *LightStore
	neighbors *NeighborhoodView
	geom      GeometryProvider
}

// NewFloodFillCalculator создаёт алгоритм поверх хранилища и провайдеров геометрии
func NewFloodFillCalculator(store *LightStore, geom GeometryProvider) *FloodFillCalculator {
	return &FloodFillCalculator{
		store:     store,
		neighbors: NewNeighborhoodView(store),
		geom:      geom,
	}
}

// Compute выполняет попытку расчёта Local и Global света секции.
// Хранилище не мутируется: публикацию по полученным поколениям
// выполняет координатор.
func (c *FloodFillCalculator) Compute(coord vec.Vec3) (Result, error) {
	rec, ok := c.store.Get(coord)
	if !ok {
		return Result{Status: StatusNotLoaded}, nil
	}

	localGen := rec.Local.Generation()
	globalGen := rec.Global.Generation()

	cells, err := c.scanSection(coord)
	if err != nil {
		return Result{Status: StatusNotLoaded}, err
	}
	if cells == nil {
		return Result{Status: StatusNotLoaded}, nil
	}

	res := Result{}

	// Фаза A: пропускается, если Local свеж — пересчёт неизменного
	// поколения по свойству идемпотентности дал бы тот же буфер.
	var localBuf *LightBuffer
	if rec.Local.HasLight() {
		localBuf = rec.Local.Buffer()
	} else {
		localBuf = c.computeLocal(coord, cells)
		res.Local = localBuf
		res.LocalGen = localGen
	}

	if rec.Local.Generation() != localGen {
		res.Status = StatusInvalidated
		return res, nil
	}

	// Фаза B: прекондиция — свежий Local у всех 26 соседей.
	if !c.neighbors.AllNeighborsHaveLocalLight(coord) {
		res.Status = StatusWaitingForNeighbour
		return res, nil
	}

	globalBuf, ok := c.computeGlobal(coord, cells)
	if !ok {
		// Сосед выгрузился между проверкой и чтением буфера
		res.Status = StatusWaitingForNeighbour
		return res, nil
	}

	if rec.Local.Generation() != localGen || rec.Global.Generation() != globalGen {
		res.Status = StatusInvalidated
		return res, nil
	}

	res.Status = StatusDone
	res.Global = globalBuf
	res.GlobalGen = globalGen
	return res, nil
}

// scanSection снимает непрозрачность, излучение и высоты колонок секции.
// Возвращает nil, nil если геометрия недоступна (чанк не загружен).
func (c *FloodFillCalculator) scanSection(coord vec.Vec3) (*sectionCells, error) {
	cells := &sectionCells{}
	baseX := coord.X << 4
	baseY := coord.Y << 4
	baseZ := coord.Z << 4

	for x := 0; x < SectionSize; x++ {
		for z := 0; z < SectionSize; z++ {
			top, ok := c.geom.QueryHeight(baseX+x, baseZ+z)
			if !ok {
				return nil, nil
			}
			cells.heights[x][z] = top

			for y := 0; y < SectionSize; y++ {
				pos := vec.Vec3{X: baseX + x, Y: baseY + y, Z: baseZ + z}
				idx := VoxelIndex(x, y, z)

				bq, ok := c.geom.QueryBlock(pos)
				if !ok {
					return nil, nil
				}
				fq, ok := c.geom.QueryFluid(pos)
				if !ok {
					return nil, nil
				}

				op := bq.Opacity
				if fq.Present && op == OpacityNone {
					// Жидкость заслоняет: прозрачный воксель с жидкостью
					// получает один дополнительный шаг затухания
					op = OpacitySemitransparent
				}
				cells.opacity[idx] = op

				em := bq.Emission
				if fq.Present {
					for i := 0; i < 3; i++ {
						if fq.Emission[i] > em[i] {
							em[i] = fq.Emission[i]
						}
					}
				}
				if em[0] > MaxLight || em[1] > MaxLight || em[2] > MaxLight {
					return nil, fmt.Errorf("излучение вне диапазона 0–15 в %v: %v", pos, em)
				}
				cells.emission[idx] = em
			}
		}
	}
	return cells, nil
}

// computeLocal выполняет фазу A: посев неба по карте высот, посев
// излучателей и волновая релаксация внутри секции.
func (c *FloodFillCalculator) computeLocal(coord vec.Vec3, cells *sectionCells) *LightBuffer {
	buf := NewLightBuffer()
	seeds := make([]int, 0, 256)
	baseY := coord.Y << 4

	for x := 0; x < SectionSize; x++ {
		for z := 0; z < SectionSize; z++ {
			top := cells.heights[x][z]
			for y := 0; y < SectionSize; y++ {
				idx := VoxelIndex(x, y, z)
				seeded := false

				if baseY+y >= top {
					buf.Set(ChannelSky, idx, MaxLight)
					seeded = true
				}

				em := cells.emission[idx]
				if !em.IsZero() {
					buf.Set(ChannelRed, idx, em[0])
					buf.Set(ChannelGreen, idx, em[1])
					buf.Set(ChannelBlue, idx, em[2])
					seeded = true
				}

				if seeded {
					seeds = append(seeds, idx)
				}
			}
		}
	}

	relax(buf, cells, seeds)
	return buf
}

// computeGlobal выполняет фазу B: посев граничных вокселей из Local-света
// соседей с одним шагом затухания через границу и релаксация внутри
// секции. Внутренние излучатели уже полностью представлены в Local и
// здесь заново не сеются.
func (c *FloodFillCalculator) computeGlobal(coord vec.Vec3, cells *sectionCells) (*LightBuffer, bool) {
	// Снимаем буферы соседей один раз: они неизменяемы, а правка,
	// опубликовавшая у соседа новый буфер, подняла бы и наш Global.generation.
	neighborBufs := make(map[vec.Vec3]*LightBuffer, 26)
	for _, n := range c.neighbors.ForSection(coord) {
		nbuf, ok := c.neighbors.LocalBuffer(n)
		if !ok {
			return nil, false
		}
		neighborBufs[n] = nbuf
	}

	buf := NewLightBuffer()
	seeds := make([]int, 0, 256)

	for x := 0; x < SectionSize; x++ {
		for z := 0; z < SectionSize; z++ {
			for y := 0; y < SectionSize; y++ {
				if x != 0 && x != SectionSize-1 &&
					y != 0 && y != SectionSize-1 &&
					z != 0 && z != SectionSize-1 {
					continue // не граничный воксель
				}
				idx := VoxelIndex(x, y, z)
				op := cells.opacity[idx]
				if op == OpacitySolid {
					continue
				}
				att := op.Attenuation()

				seeded := false
				for _, off := range neighborOffsets {
					nx, ny, nz := x+off[0], y+off[1], z+off[2]
					if nx >= 0 && nx < SectionSize &&
						ny >= 0 && ny < SectionSize &&
						nz >= 0 && nz < SectionSize {
						continue // внутренний сосед, не пересекает границу
					}
					nsec := vec.Vec3{
						X: coord.X + floorShift(nx),
						Y: coord.Y + floorShift(ny),
						Z: coord.Z + floorShift(nz),
					}
					nbuf := neighborBufs[nsec]
					if nbuf == nil {
						continue // за вертикальным пределом мира — темнота
					}
					nidx := VoxelIndex(nx&0xF, ny&0xF, nz&0xF)

					for ch := Channel(0); ch < NumChannels; ch++ {
						val := nbuf.Get(ch, nidx)
						if val <= att {
							continue
						}
						cand := val - att
						if cand > buf.Get(ch, idx) {
							buf.Set(ch, idx, cand)
							seeded = true
						}
					}
				}
				if seeded {
					seeds = append(seeds, idx)
				}
			}
		}
	}

	relax(buf, cells, seeds)
	return buf, true
}

// floorShift переводит вышедшую за секцию локальную координату в сдвиг
// координаты секции: -1, 0 или +1
func floorShift(v int) int {
	if v < 0 {
		return -1
	}
	if v >= SectionSize {
		return 1
	}
	return 0
}

// relax выполняет волновую релаксацию по 26 направлениям внутри секции.
// Обновление строго возрастающее, каждый канал ограничен 15, поэтому
// фронт исчерпывается за конечное число шагов.
func relax(buf *LightBuffer, cells *sectionCells, seeds []int) {
	queue := seeds
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		if cells.opacity[idx] == OpacitySolid {
			continue // сток: засеянное значение не пересылается дальше
		}
		x := idx & 0xF
		z := (idx >> 4) & 0xF
		y := idx >> 8

		for _, off := range neighborOffsets {
			nx, ny, nz := x+off[0], y+off[1], z+off[2]
			if nx < 0 || nx >= SectionSize ||
				ny < 0 || ny >= SectionSize ||
				nz < 0 || nz >= SectionSize {
				continue
			}
			nidx := VoxelIndex(nx, ny, nz)
			nop := cells.opacity[nidx]
			if nop == OpacitySolid {
				continue // непрозрачный воксель не принимает свет
			}
			att := nop.Attenuation()

			improved := false
			for ch := Channel(0); ch < NumChannels; ch++ {
				cur := buf.Get(ch, idx)
				if cur <= att {
					continue
				}
				cand := cur - att
				if cand > buf.Get(ch, nidx) {
					buf.Set(ch, nidx, cand)
					improved = true
				}
			}
			if improved {
				queue = append(queue, nidx)
			}
		}
	}
}
