package block

import (
	"github.com/annel0/chunklight/internal/light"
)

// BlockBehavior определяет оптические свойства блока, потребляемые
// движком освещения: класс непрозрачности и собственное излучение.
type BlockBehavior interface {
	ID() BlockID
	Name() string
	Opacity() light.Opacity
	Emission() light.EmissionRGB
}

// FluidBehavior определяет свойства жидкости. Жидкости и заслоняют
// свет (дополнительный шаг затухания), и могут излучать его.
type FluidBehavior interface {
	ID() FluidID
	Name() string
	Emission() light.EmissionRGB
}
