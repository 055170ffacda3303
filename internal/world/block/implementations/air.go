package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// AirBehavior реализует пустой блок (воздух)
type AirBehavior struct{}

// ID возвращает идентификатор блока
func (b *AirBehavior) ID() block.BlockID {
	return block.AirBlockID
}

// Name возвращает имя блока
func (b *AirBehavior) Name() string {
	return "Air"
}

// Opacity возвращает класс непрозрачности: воздух прозрачен
func (b *AirBehavior) Opacity() light.Opacity {
	return light.OpacityNone
}

// Emission возвращает излучение: воздух не светится
func (b *AirBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
