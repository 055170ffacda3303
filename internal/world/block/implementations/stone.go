package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// StoneBehavior реализует каменный блок
type StoneBehavior struct{}

// ID возвращает идентификатор блока
func (b *StoneBehavior) ID() block.BlockID {
	return block.StoneBlockID
}

// Name возвращает имя блока
func (b *StoneBehavior) Name() string {
	return "Stone"
}

// Opacity возвращает класс непрозрачности: камень не пропускает свет
func (b *StoneBehavior) Opacity() light.Opacity {
	return light.OpacitySolid
}

// Emission возвращает излучение
func (b *StoneBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
