package light

import (
	"sync"
	"sync/atomic"

	"github.com/annel0/chunklight/internal/vec"
)

// LayerState хранит одну прослойку записи освещения: буфер каналов и
// пару счётчиков устаревания. generation атомарно увеличивается при
// инвалидации; computed штампуется значением generation, действовавшим
// на момент начала успешного расчёта. Слой свеж, когда computed == generation.
type LayerState struct {
	buffer     atomic.Pointer[LightBuffer]
	generation atomic.Int64
	computed   atomic.Int64
}

// Generation возвращает текущее поколение слоя
func (ls *LayerState) Generation() int64 { return ls.generation.Load() }

// Computed возвращает поколение, для которого рассчитан буфер
func (ls *LayerState) Computed() int64 { return ls.computed.Load() }

// HasLight сообщает, что слой рассчитан для текущего поколения
func (ls *LayerState) HasLight() bool {
	// Порядок чтения важен: сначала computed, затем generation.
	// Если generation успеет вырасти между чтениями, получим false-negative,
	// что безопасно (секция лишь будет пересчитана ещё раз).
	c := ls.computed.Load()
	return c >= 0 && c == ls.generation.Load()
}

// Buffer возвращает последний опубликованный буфер (может быть nil)
func (ls *LayerState) Buffer() *LightBuffer { return ls.buffer.Load() }

// LightRecord запись освещения одной секции: слои Local и Global
type LightRecord struct {
	Local  LayerState
	Global LayerState
}

// newLightRecord создаёт нулевую запись: generation=0, computed=-1
func newLightRecord() *LightRecord {
	r := &LightRecord{}
	r.Local.computed.Store(-1)
	r.Global.computed.Store(-1)
	return r
}

// LightStore хранит записи освещения для всех загруженных секций.
// Дисциплина записи: данные каналов пишет только воркер координатора
// (single-writer-per-section); остальные вызывающие читают либо
// увеличивают generation. Повоксельных блокировок нет — буфер целиком
// подменяется атомарно.
type LightStore struct {
	mu      sync.RWMutex
	records map[vec.Vec3]*LightRecord
}

// NewLightStore создаёт пустое хранилище
func NewLightStore() *LightStore {
	return &LightStore{
		records: make(map[vec.Vec3]*LightRecord),
	}
}

// Register создаёт нулевую запись для загруженной секции.
// Повторная регистрация существующей секции — no-op.
func (s *LightStore) Register(coord vec.Vec3) *LightRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[coord]; ok {
		return rec
	}
	rec := newLightRecord()
	s.records[coord] = rec
	return rec
}

// Drop удаляет запись выгруженной секции
func (s *LightStore) Drop(coord vec.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, coord)
}

// Get возвращает запись секции; ok=false означает NotLoaded
func (s *LightStore) Get(coord vec.Vec3) (*LightRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[coord]
	return rec, ok
}

// Loaded сообщает, загружена ли секция
func (s *LightStore) Loaded(coord vec.Vec3) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[coord]
	return ok
}

// Count возвращает количество отслеживаемых секций
func (s *LightStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// InvalidateLocal атомарно увеличивает Local.generation секции.
// Безопасно вызывать конкурентно с чтениями и расчётом.
func (s *LightStore) InvalidateLocal(coord vec.Vec3) bool {
	rec, ok := s.Get(coord)
	if !ok {
		return false
	}
	rec.Local.generation.Add(1)
	return true
}

// InvalidateGlobal атомарно увеличивает Global.generation секции
func (s *LightStore) InvalidateGlobal(coord vec.Vec3) bool {
	rec, ok := s.Get(coord)
	if !ok {
		return false
	}
	rec.Global.generation.Add(1)
	return true
}

// PublishLocal публикует буфер Local, если поколение не ушло вперёд
// с момента начала расчёта. Устаревшая публикация отбрасывается.
func (s *LightStore) PublishLocal(coord vec.Vec3, buf *LightBuffer, atGeneration int64) bool {
	rec, ok := s.Get(coord)
	if !ok {
		return false
	}
	return publishLayer(&rec.Local, buf, atGeneration)
}

// PublishGlobal публикует буфер Global по тем же правилам
func (s *LightStore) PublishGlobal(coord vec.Vec3, buf *LightBuffer, atGeneration int64) bool {
	rec, ok := s.Get(coord)
	if !ok {
		return false
	}
	return publishLayer(&rec.Global, buf, atGeneration)
}

func publishLayer(ls *LayerState, buf *LightBuffer, atGeneration int64) bool {
	if ls.generation.Load() != atGeneration {
		return false
	}
	// Буфер подменяется до штампа computed: читатель, увидевший
	// computed == generation, гарантированно увидит и новый буфер.
	ls.buffer.Store(buf)
	ls.computed.Store(atGeneration)
	// Если generation вырос между проверкой и штампом, computed < generation
	// и запись остаётся устаревшей — координатор всё равно пересчитает её.
	return ls.generation.Load() == atGeneration
}

// LocalLight возвращает опубликованный буфер Local секции
func (s *LightStore) LocalLight(coord vec.Vec3) (*LightBuffer, bool) {
	rec, ok := s.Get(coord)
	if !ok {
		return nil, false
	}
	buf := rec.Local.Buffer()
	return buf, buf != nil
}

// GlobalLight возвращает опубликованный буфер Global секции
func (s *LightStore) GlobalLight(coord vec.Vec3) (*LightBuffer, bool) {
	rec, ok := s.Get(coord)
	if !ok {
		return nil, false
	}
	buf := rec.Global.Buffer()
	return buf, buf != nil
}
