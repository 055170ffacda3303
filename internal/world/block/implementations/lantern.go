package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// LanternBehavior реализует фонарь — излучатель тёплого света
type LanternBehavior struct{}

func (b *LanternBehavior) ID() block.BlockID {
	return block.LanternBlockID
}

func (b *LanternBehavior) Name() string {
	return "Lantern"
}

// Opacity: корпус фонаря прозрачен для проходящего света
func (b *LanternBehavior) Opacity() light.Opacity {
	return light.OpacityNone
}

func (b *LanternBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{15, 13, 9}
}
