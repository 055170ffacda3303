package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// SandBehavior реализует блок песка
type SandBehavior struct{}

func (b *SandBehavior) ID() block.BlockID {
	return block.SandBlockID
}

func (b *SandBehavior) Name() string {
	return "Sand"
}

func (b *SandBehavior) Opacity() light.Opacity {
	return light.OpacitySolid
}

func (b *SandBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
