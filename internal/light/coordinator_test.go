package light

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/annel0/chunklight/internal/eventbus"
	"github.com/annel0/chunklight/internal/vec"
)

// waitFor опрашивает условие до выполнения либо таймаута
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestEnqueueDeduplicates(t *testing.T) {
	store := NewLightStore()
	lc := NewLightingCoordinator(store, NewFloodFillCalculator(store, newFakeGeom()), 0)

	coord := vec.Vec3{X: 0, Y: 8, Z: 0}
	lc.Enqueue(coord)
	lc.Enqueue(coord)
	lc.Enqueue(coord)

	if got := lc.QueueLen(); got != 1 {
		t.Errorf("Повторная постановка должна быть no-op: ожидалась длина 1, получено %d", got)
	}

	lc.Enqueue(vec.Vec3{X: 1, Y: 8, Z: 0})
	if got := lc.QueueLen(); got != 2 {
		t.Errorf("Ожидалась длина 2, получено %d", got)
	}
}

func TestPurgeRemovesPendingWork(t *testing.T) {
	store := NewLightStore()
	lc := NewLightingCoordinator(store, NewFloodFillCalculator(store, newFakeGeom()), 0)

	coord := vec.Vec3{X: 0, Y: 8, Z: 0}
	lc.SectionLoaded(coord)
	if got := lc.QueueLen(); got != 1 {
		t.Fatalf("Загрузка секции должна ставить её в очередь, длина %d", got)
	}

	lc.SectionUnloaded(coord)
	if got := lc.QueueLen(); got != 0 {
		t.Errorf("Выгрузка должна снимать заявку, длина %d", got)
	}
	if store.Loaded(coord) {
		t.Error("Запись выгруженной секции должна удаляться из хранилища")
	}
}

// Загружена вся окрестность, кроме одного горизонтального соседа:
// секция обязана опубликовать Local, но Global не публикуется, пока
// сосед не появится.
func TestWorkerWaitsForUnloadedNeighbour(t *testing.T) {
	store := NewLightStore()
	geom := newFakeGeom()
	lc := NewLightingCoordinator(store, NewFloodFillCalculator(store, geom), 10*time.Millisecond)

	target := vec.Vec3{X: 0, Y: 8, Z: 0}
	missing := vec.Vec3{X: 1, Y: 8, Z: 0}

	lc.Run(context.Background())
	defer lc.Stop()

	for x := -1; x <= 1; x++ {
		for y := 7; y <= 9; y++ {
			for z := -1; z <= 1; z++ {
				c := vec.Vec3{X: x, Y: y, Z: z}
				if c.Equals(missing) {
					continue
				}
				lc.SectionLoaded(c)
			}
		}
	}

	waitFor(t, 5*time.Second, func() bool {
		_, ok := store.LocalLight(target)
		return ok
	}, "Local секции не опубликован при незагруженном соседе")

	// Даём воркеру время убедиться, что Global не публикуется преждевременно
	time.Sleep(50 * time.Millisecond)
	if _, ok := store.GlobalLight(target); ok {
		t.Fatal("Global опубликован до загрузки соседа")
	}
	if lc.Stuck() == 0 {
		t.Error("Секции в WaitingForNeighbour должны учитываться в диагностике")
	}

	// Сосед загрузился — секция должна дойти до Done
	lc.SectionLoaded(missing)
	waitFor(t, 5*time.Second, func() bool {
		rec, ok := store.Get(target)
		return ok && rec.Global.HasLight()
	}, "Секция не достигла Done после загрузки соседа")
}

// Полный жизненный цикл: загрузка окрестности, расчёт до Done и
// событие LightEvent в шине.
func TestWorkerComputesAndPublishesEvent(t *testing.T) {
	bus := eventbus.NewMemoryBus(64)
	eventbus.Init(bus)

	var events atomic.Int64
	_, err := bus.Subscribe(context.Background(),
		eventbus.Filter{Types: []string{LightEventType}},
		func(ctx context.Context, ev *eventbus.Envelope) {
			events.Add(1)
		})
	if err != nil {
		t.Fatalf("Подписка на шину: %v", err)
	}

	store := NewLightStore()
	geom := newFakeGeom()
	geom.blocks[vec.Vec3{X: 8, Y: 136, Z: 8}] = BlockQuery{Emission: EmissionRGB{12, 0, 0}}
	lc := NewLightingCoordinator(store, NewFloodFillCalculator(store, geom), 10*time.Millisecond)

	lc.Run(context.Background())
	defer lc.Stop()

	target := vec.Vec3{X: 0, Y: 8, Z: 0}
	for x := -1; x <= 1; x++ {
		for y := 7; y <= 9; y++ {
			for z := -1; z <= 1; z++ {
				lc.SectionLoaded(vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	waitFor(t, 5*time.Second, func() bool {
		rec, ok := store.Get(target)
		return ok && rec.Global.HasLight()
	}, "Центральная секция не достигла Done")

	global, ok := store.GlobalLight(target)
	if !ok {
		t.Fatal("Global-буфер не опубликован")
	}
	// Излучатель живёт в самой секции: Global содержит только свет,
	// пришедший извне, а полный свет секции — максимум слоёв
	local, _ := store.LocalLight(target)
	if local.At(ChannelRed, 8, 8, 8) != 12 {
		t.Errorf("Local излучателя: ожидалось 12, получено %d", local.At(ChannelRed, 8, 8, 8))
	}
	if global.At(ChannelSky, 0, 0, 0) == 0 {
		t.Error("Global граничного вокселя должен получить небесный свет соседей")
	}

	waitFor(t, 5*time.Second, func() bool {
		return events.Load() > 0
	}, "Событие LightEvent не опубликовано в шину")
}

// Правка после первичного расчёта инвалидирует секцию и приводит к
// пересчёту с новым поколением.
func TestWorkerRecomputesAfterInvalidation(t *testing.T) {
	store := NewLightStore()
	geom := newFakeGeom()
	lc := NewLightingCoordinator(store, NewFloodFillCalculator(store, geom), 10*time.Millisecond)
	tracker := NewInvalidationTracker(store, lc)

	lc.Run(context.Background())
	defer lc.Stop()

	target := vec.Vec3{X: 0, Y: 8, Z: 0}
	for x := -1; x <= 1; x++ {
		for y := 7; y <= 9; y++ {
			for z := -1; z <= 1; z++ {
				lc.SectionLoaded(vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	waitFor(t, 5*time.Second, func() bool {
		rec, ok := store.Get(target)
		return ok && rec.Global.HasLight()
	}, "Первичный расчёт не завершился")

	// Правка в центре секции (геометрия fakeGeom не меняется, важен
	// только контракт поколений)
	tracker.OnVoxelEdit(vec.Vec3{X: 8, Y: 136, Z: 8}, ChangeBlock, 136, 136)

	waitFor(t, 5*time.Second, func() bool {
		rec, ok := store.Get(target)
		return ok && rec.Local.HasLight() && rec.Local.Computed() >= 1 && rec.Global.HasLight()
	}, "Секция не пересчитана после инвалидации")
}
