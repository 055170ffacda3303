package light

// Пакет light реализует движок распространения освещения по секциям 16³.
// Свет хранится в двух слоях: Local (собственные источники секции и небо)
// и Global (свет, пришедший из соседних секций через границу).

// SectionSize размер ребра секции в вокселях
const SectionSize = 16

// SectionVolume количество вокселей в секции
const SectionVolume = SectionSize * SectionSize * SectionSize

// MaxLight максимальное значение канала (4 бита)
const MaxLight = 15

// WorldHeightSections вертикальный предел мира в секциях (высота 256 вокселей).
// Секции с Y вне [0, WorldHeightSections) не существуют: для проверки
// готовности соседей они не являются блокирующей зависимостью, в отличие
// от незагруженных чанков по горизонтали.
const WorldHeightSections = 16

// Channel идентифицирует канал освещения
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelSky

	NumChannels // всегда последний: количество каналов
)

// String возвращает имя канала
func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelGreen:
		return "green"
	case ChannelBlue:
		return "blue"
	case ChannelSky:
		return "sky"
	default:
		return "unknown"
	}
}

// Opacity класс материала, управляющий затуханием света за один шаг
type Opacity uint8

const (
	OpacityNone Opacity = iota // Прозрачный: затухание 1
	OpacitySemitransparent     // Полупрозрачный: затухание 2
	OpacityCutout              // Вырезной (листва, решётки): затухание 2
	OpacitySolid               // Непрозрачный: свет не проходит
)

// Attenuation возвращает затухание канала за один шаг распространения
// в воксель данного класса. Для OpacitySolid значение не имеет смысла:
// такой воксель не принимает распространённый свет вовсе.
func (o Opacity) Attenuation() uint8 {
	switch o {
	case OpacitySemitransparent, OpacityCutout:
		return 2
	default:
		return 1
	}
}

// EmissionRGB излучение материала по трём цветовым каналам (0–15)
type EmissionRGB [3]uint8

// IsZero сообщает, что материал ничего не излучает
func (e EmissionRGB) IsZero() bool {
	return e[0] == 0 && e[1] == 0 && e[2] == 0
}

// VoxelIndex упаковывает локальные координаты вокселя в индекс 0..4095
func VoxelIndex(x, y, z int) int {
	return (y&0xF)<<8 | (z&0xF)<<4 | (x & 0xF)
}

// LightBuffer хранит 4 канала по 4 бита на воксель для одной секции.
// Каждый канал упакован по два вокселя на байт. После публикации в
// LightStore буфер считается неизменяемым: читатели получают указатель
// на него атомарно и никогда не видят частичной записи.
type LightBuffer struct {
	data [NumChannels][SectionVolume / 2]uint8
}

// NewLightBuffer создаёт пустой (тёмный) буфер
func NewLightBuffer() *LightBuffer {
	return &LightBuffer{}
}

// Get возвращает значение канала по индексу вокселя
func (b *LightBuffer) Get(ch Channel, idx int) uint8 {
	v := b.data[ch][idx>>1]
	if idx&1 == 0 {
		return v & 0xF
	}
	return v >> 4
}

// Set записывает значение канала по индексу вокселя (значение ограничено 0–15)
func (b *LightBuffer) Set(ch Channel, idx int, val uint8) {
	if val > MaxLight {
		val = MaxLight
	}
	cur := b.data[ch][idx>>1]
	if idx&1 == 0 {
		b.data[ch][idx>>1] = cur&0xF0 | val
	} else {
		b.data[ch][idx>>1] = cur&0x0F | val<<4
	}
}

// At возвращает значение канала по локальным координатам
func (b *LightBuffer) At(ch Channel, x, y, z int) uint8 {
	return b.Get(ch, VoxelIndex(x, y, z))
}

// SetAt записывает значение канала по локальным координатам
func (b *LightBuffer) SetAt(ch Channel, x, y, z int, val uint8) {
	b.Set(ch, VoxelIndex(x, y, z), val)
}

// Equal сравнивает два буфера повоксельно
func (b *LightBuffer) Equal(other *LightBuffer) bool {
	if other == nil {
		return false
	}
	return b.data == other.data
}

// Copy возвращает независимую копию буфера
func (b *LightBuffer) Copy() *LightBuffer {
	c := &LightBuffer{}
	c.data = b.data
	return c
}
