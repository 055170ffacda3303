package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// GlassBehavior реализует стеклянный блок: свет проходит с удвоенным затуханием
type GlassBehavior struct{}

func (b *GlassBehavior) ID() block.BlockID {
	return block.GlassBlockID
}

func (b *GlassBehavior) Name() string {
	return "Glass"
}

func (b *GlassBehavior) Opacity() light.Opacity {
	return light.OpacitySemitransparent
}

func (b *GlassBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
