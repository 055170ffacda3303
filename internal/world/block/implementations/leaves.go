package implementations

import (
	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
)

// LeavesBehavior реализует листву: cutout-геометрия, затухание как у стекла
type LeavesBehavior struct{}

func (b *LeavesBehavior) ID() block.BlockID {
	return block.LeavesBlockID
}

func (b *LeavesBehavior) Name() string {
	return "Leaves"
}

func (b *LeavesBehavior) Opacity() light.Opacity {
	return light.OpacityCutout
}

func (b *LeavesBehavior) Emission() light.EmissionRGB {
	return light.EmissionRGB{}
}
