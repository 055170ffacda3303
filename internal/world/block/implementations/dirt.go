package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// DirtBehavior реализует блок земли
type DirtBehavior struct{}

func (b *DirtBehavior) ID() block.BlockID {
	return block.DirtBlockID
}

func (b *DirtBehavior) Name() string {
	return "Dirt"
}

func (b *DirtBehavior) Opacity() light.Opacity {
	return light.OpacitySolid
}

func (b *DirtBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
