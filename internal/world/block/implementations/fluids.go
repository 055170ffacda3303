package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// WaterBehavior реализует воду: заслоняет свет, не излучает
type WaterBehavior struct{}

func (b *WaterBehavior) ID() block.FluidID {
	return block.WaterFluidID
}

func (b *WaterBehavior) Name() string {
	return "Water"
}

func (b *WaterBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}

// LavaBehavior реализует лаву: заслоняет свет и излучает его
type LavaBehavior struct{}

func (b *LavaBehavior) ID() block.FluidID {
	return block.LavaFluidID
}

func (b *LavaBehavior) Name() string {
	return "Lava"
}

func (b *LavaBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{15, 10, 3}
}
