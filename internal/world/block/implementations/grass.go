package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// GrassBehavior реализует блок травы
type GrassBehavior struct{}

func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

func (b *GrassBehavior) Name() string {
	return "Grass"
}

func (b *GrassBehavior) Opacity() light.Opacity {
	return light.OpacitySolid
}

func (b *GrassBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
