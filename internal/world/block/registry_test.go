package block_test

import (
	"testing"

	"github.com/annel0/chunklight/internal/light"
	"github.com/annel0/chunklight/internal/world/block"
	_ "github.com/annel0/chunklight/internal/world/block/implementations"
)

func TestRegisteredBlockClasses(t *testing.T) {
	cases := []struct {
		id      block.BlockID
		opacity light.Opacity
	}{
		{block.AirBlockID, light.OpacityNone},
		{block.StoneBlockID, light.OpacitySolid},
		{block.GrassBlockID, light.OpacitySolid},
		{block.GlassBlockID, light.OpacitySemitransparent},
		{block.LeavesBlockID, light.OpacityCutout},
		{block.LanternBlockID, light.OpacityNone},
	}
	for _, tc := range cases {
		b, ok := block.Get(tc.id)
		if !ok {
			t.Errorf("Блок %d не зарегистрирован", tc.id)
			continue
		}
		if b.Opacity() != tc.opacity {
			t.Errorf("Блок %s: ожидался класс %d, получен %d", b.Name(), tc.opacity, b.Opacity())
		}
	}
}

func TestEmitterBlocks(t *testing.T) {
	lantern, ok := block.Get(block.LanternBlockID)
	if !ok {
		t.Fatal("Фонарь не зарегистрирован")
	}
	if lantern.Emission().IsZero() {
		t.Error("Фонарь должен излучать свет")
	}
	if lantern.Emission()[0] != light.MaxLight {
		t.Errorf("Красный канал фонаря: ожидалось 15, получено %d", lantern.Emission()[0])
	}

	stone, _ := block.Get(block.StoneBlockID)
	if !stone.Emission().IsZero() {
		t.Error("Камень не должен излучать свет")
	}
}

func TestFluidRegistry(t *testing.T) {
	water, ok := block.GetFluid(block.WaterFluidID)
	if !ok {
		t.Fatal("Вода не зарегистрирована")
	}
	if !water.Emission().IsZero() {
		t.Error("Вода не излучает свет")
	}

	lava, ok := block.GetFluid(block.LavaFluidID)
	if !ok {
		t.Fatal("Лава не зарегистрирована")
	}
	if lava.Emission().IsZero() {
		t.Error("Лава должна излучать свет")
	}

	if _, ok := block.GetFluid(block.FluidID(200)); ok {
		t.Error("Незарегистрированная жидкость не должна находиться")
	}
}
