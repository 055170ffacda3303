package light

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/annel0/chunklight/internal/eventbus"
	"github.com/annel0/chunklight/internal/logging"
	"github.com/annel0/chunklight/internal/vec"
)

// LightEventType тип события «освещение секции изменилось» в шине
const LightEventType = "LightEvent"

// LightChangedPayload полезная нагрузка события LightEvent.
// Слой репликации по поколениям решает, слать полный снимок или дельту.
type LightChangedPayload struct {
	Section   vec.Vec3 `json:"section"`
	LocalGen  int64    `json:"local_gen"`
	GlobalGen int64    `json:"global_gen"`
}

// LightingCoordinator владеет очередью пересчёта и единственным фоновым
// воркером мира. Очередь FIFO с дедупликацией: на координату — не более
// одной ожидающей заявки, постановка уже стоящей координаты — no-op.
// Воркер обрабатывает строго по одной секции, поэтому внутри расчёта
// блокировки не нужны, а проверка готовности соседей свободна от гонок
// с другими расчётами.
type LightingCoordinator struct {
	store *LightStore
	algo  Algorithm
	log   *logging.Logger

	mu      sync.Mutex
	queue   []vec.Vec3
	queued  map[vec.Vec3]struct{}
	waiting map[vec.Vec3]int // подряд идущие WaitingForNeighbour на координату

	wake    chan struct{}
	backoff time.Duration

	cancel  context.CancelFunc
	done    chan struct{}
	metrics *lightMetrics
}

// NewLightingCoordinator создаёт координатор. Алгоритм выбирается здесь,
// один раз на мир; воркер запускается отдельно через Run.
func NewLightingCoordinator(store *LightStore, algo Algorithm, backoff time.Duration) *LightingCoordinator {
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	return &LightingCoordinator{
		store:   store,
		algo:    algo,
		log:     logging.GetLightLogger(),
		queued:  make(map[vec.Vec3]struct{}),
		waiting: make(map[vec.Vec3]int),
		wake:    make(chan struct{}, 1),
		backoff: backoff,
		metrics: getMetrics(),
	}
}

// Enqueue неблокирующе ставит координату в хвост очереди.
// Продюсеры (правки мира) никогда не ждут подсистему освещения;
// постановка будит припаркованный воркер.
func (lc *LightingCoordinator) Enqueue(coord vec.Vec3) {
	lc.mu.Lock()
	if _, ok := lc.queued[coord]; ok {
		lc.mu.Unlock()
		return
	}
	lc.queued[coord] = struct{}{}
	lc.queue = append(lc.queue, coord)
	lc.metrics.queueLen.Set(float64(len(lc.queued)))
	lc.mu.Unlock()

	select {
	case lc.wake <- struct{}{}:
	default:
	}
}

// Purge снимает координату выгруженной секции с очереди
func (lc *LightingCoordinator) Purge(coord vec.Vec3) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	// Сам слайс не фильтруем: устаревшая позиция без записи в queued
	// будет молча пропущена при извлечении.
	delete(lc.queued, coord)
	delete(lc.waiting, coord)
	lc.metrics.queueLen.Set(float64(len(lc.queued)))
	lc.metrics.waiting.Set(float64(len(lc.waiting)))
}

// SectionLoaded реализует контракт жизненного цикла: нулевая запись
// освещения и постановка секции на первичный расчёт.
func (lc *LightingCoordinator) SectionLoaded(coord vec.Vec3) {
	lc.store.Register(coord)
	lc.metrics.tracked.Set(float64(lc.store.Count()))
	lc.Enqueue(coord)
}

// SectionUnloaded сбрасывает запись и ожидающую заявку выгруженной секции
func (lc *LightingCoordinator) SectionUnloaded(coord vec.Vec3) {
	lc.store.Drop(coord)
	lc.metrics.tracked.Set(float64(lc.store.Count()))
	lc.Purge(coord)
}

// QueueLen возвращает число ожидающих координат
func (lc *LightingCoordinator) QueueLen() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.queued)
}

// Stuck возвращает число секций, застрявших в WaitingForNeighbour —
// диагностика вечного ожидания незагруженного соседа.
func (lc *LightingCoordinator) Stuck() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.waiting)
}

// Run запускает воркер. Жизненный цикл привязан к контексту мира:
// отмена контекста либо Stop останавливают воркер детерминированно.
func (lc *LightingCoordinator) Run(ctx context.Context) {
	ctx, lc.cancel = context.WithCancel(ctx)
	lc.done = make(chan struct{})
	go lc.worker(ctx)
}

// Stop останавливает воркер и дожидается его завершения
func (lc *LightingCoordinator) Stop() {
	if lc.cancel == nil {
		return
	}
	lc.cancel()
	<-lc.done
}

// worker обрабатывает очередь по одной координате. При пустой очереди
// воркер паркуется на канале wake без busy-waiting.
func (lc *LightingCoordinator) worker(ctx context.Context) {
	defer close(lc.done)

	for {
		coord, ok := lc.dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-lc.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		lc.process(ctx, coord)
	}
}

// dequeue извлекает голову очереди, пропуская снятые Purge координаты
func (lc *LightingCoordinator) dequeue() (vec.Vec3, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	for len(lc.queue) > 0 {
		coord := lc.queue[0]
		lc.queue = lc.queue[1:]
		if _, ok := lc.queued[coord]; !ok {
			continue // снята Purge
		}
		delete(lc.queued, coord)
		lc.metrics.queueLen.Set(float64(len(lc.queued)))
		return coord, true
	}
	return vec.Vec3{}, false
}

// process выполняет одну попытку расчёта. Машина состояний заявки:
// Queued → Running → {Done | Requeued(Invalidated) | Requeued(WaitingForNeighbour)}.
// Паника или ошибка провайдера геометрии прерывает только эту попытку:
// одна плохая секция не останавливает освещение остального мира.
func (lc *LightingCoordinator) process(ctx context.Context, coord vec.Vec3) {
	defer func() {
		if r := recover(); r != nil {
			lc.log.Error("Паника при расчёте секции %v: %v", coord, r)
			lc.metrics.errors.Inc()
			lc.requeueAfter(coord, lc.backoff)
		}
	}()

	res, err := lc.algo.Compute(coord)
	if err != nil {
		lc.log.Warn("Ошибка провайдера геометрии для секции %v: %v", coord, err)
		lc.metrics.errors.Inc()
		lc.requeueAfter(coord, lc.backoff)
		return
	}

	// Local публикуется всегда, когда фаза A пересчитана: без этого ни
	// одна секция не смогла бы удовлетворить прекондицию фазы B соседей.
	if res.Local != nil {
		lc.store.PublishLocal(coord, res.Local, res.LocalGen)
	}

	switch res.Status {
	case StatusDone:
		lc.store.PublishGlobal(coord, res.Global, res.GlobalGen)
		lc.clearWaiting(coord)
		lc.metrics.computed.Inc()
		lc.publishChanged(ctx, coord)

	case StatusInvalidated:
		// Поколение ушло вперёд: результат отброшен, заявка в хвост,
		// чтобы не блокировать головой готовую чужую работу.
		lc.metrics.requeued.WithLabelValues("invalidated").Inc()
		lc.Enqueue(coord)

	case StatusWaitingForNeighbour:
		lc.markWaiting(coord)
		lc.metrics.requeued.WithLabelValues("waiting_for_neighbour").Inc()
		lc.Enqueue(coord)

	case StatusNotLoaded:
		// Секция могла выгрузиться между постановкой и обработкой —
		// тогда заявка просто умирает. Иначе геометрия ещё грузится.
		if lc.store.Loaded(coord) {
			lc.metrics.requeued.WithLabelValues("not_loaded").Inc()
			lc.requeueAfter(coord, lc.backoff)
		}
	}
}

// requeueAfter возвращает координату в очередь после задержки
func (lc *LightingCoordinator) requeueAfter(coord vec.Vec3, d time.Duration) {
	time.AfterFunc(d, func() {
		if lc.store.Loaded(coord) {
			lc.Enqueue(coord)
		}
	})
}

func (lc *LightingCoordinator) markWaiting(coord vec.Vec3) {
	lc.mu.Lock()
	lc.waiting[coord]++
	lc.metrics.waiting.Set(float64(len(lc.waiting)))
	lc.mu.Unlock()
}

func (lc *LightingCoordinator) clearWaiting(coord vec.Vec3) {
	lc.mu.Lock()
	delete(lc.waiting, coord)
	lc.metrics.waiting.Set(float64(len(lc.waiting)))
	lc.mu.Unlock()
}

// publishChanged извещает потребителей репликации об изменении света секции
func (lc *LightingCoordinator) publishChanged(ctx context.Context, coord vec.Vec3) {
	rec, ok := lc.store.Get(coord)
	if !ok {
		return
	}
	payload, err := json.Marshal(LightChangedPayload{
		Section:   coord,
		LocalGen:  rec.Local.Computed(),
		GlobalGen: rec.Global.Computed(),
	})
	if err != nil {
		lc.log.Error("Сериализация LightEvent: %v", err)
		return
	}

	ev := eventbus.NewEnvelope(LightEventType, "light", payload)
	if err := eventbus.Publish(ctx, ev); err != nil {
		lc.log.Warn("Публикация LightEvent для %v: %v", coord, err)
	}
}
