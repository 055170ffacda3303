package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// GlowshroomBehavior реализует светящийся гриб — слабый холодный излучатель
type GlowshroomBehavior struct{}

func (b *GlowshroomBehavior) ID() block.BlockID {
	return block.GlowshroomBlockID
}

func (b *GlowshroomBehavior) Name() string {
	return "Glowshroom"
}

func (b *GlowshroomBehavior) Opacity() light.Opacity {
	return light.OpacityCutout
}

func (b *GlowshroomBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{4, 9, 12}
}
