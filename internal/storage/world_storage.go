package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world"
	"github.com/annel0/chunklight/internal/world/block"
	"github.com/dgraph-io/badger/v3"
)

// WorldStorage хранит правки чанков в BadgerDB. Сохраняются только
// дельты относительно детерминированной генерации; данные освещения не
// персистятся — свет пересчитывается при загрузке секций.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// ChunkDelta содержит правки в чанке
type ChunkDelta struct {
	Coords      vec.Vec2              `json:"coords"`
	VoxelDeltas map[string]VoxelDelta `json:"voxels"` // Ключ — упакованные координаты "x:y:z"
}

// VoxelDelta содержит правку одного вокселя
type VoxelDelta struct {
	Block block.BlockID `json:"block"`
	Fluid block.FluidID `json:"fluid,omitempty"`
}

// NewWorldStorage создает новое хранилище мира
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", coords.X, coords.Z))
}

func voxelKey(pos vec.Vec3) string {
	return fmt.Sprintf("%d:%d:%d", pos.X, pos.Y, pos.Z)
}

// SaveChunk сохраняет правки чанка, сливая их с уже сохранённой дельтой
func (ws *WorldStorage) SaveChunk(chunk *world.Chunk) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	// Снимаем правки под блокировкой чанка
	chunk.Mu.RLock()
	changes := make(map[vec.Vec3]VoxelDelta, len(chunk.Changes))
	for pos := range chunk.Changes {
		sec := chunk.Sections[pos.Y>>4]
		changes[pos] = VoxelDelta{
			Block: sec.Block(pos.X, pos.Y&0xF, pos.Z),
			Fluid: sec.Fluid(pos.X, pos.Y&0xF, pos.Z),
		}
	}
	coords := chunk.Coords
	chunk.Mu.RUnlock()

	if len(changes) == 0 {
		return nil
	}

	return ws.db.Update(func(txn *badger.Txn) error {
		delta := ChunkDelta{Coords: coords, VoxelDeltas: make(map[string]VoxelDelta)}

		item, err := txn.Get(chunkKey(coords))
		if err == nil {
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &delta)
			})
			if err != nil {
				return fmt.Errorf("чтение старой дельты: %w", err)
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		for pos, vd := range changes {
			delta.VoxelDeltas[voxelKey(pos)] = vd
		}

		data, err := json.Marshal(delta)
		if err != nil {
			return fmt.Errorf("сериализация дельты: %w", err)
		}
		return txn.Set(chunkKey(coords), data)
	})
}

// LoadChunk загружает дельту чанка; для несохранённого чанка — пустая дельта
func (ws *WorldStorage) LoadChunk(coords vec.Vec2) (*ChunkDelta, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	delta := &ChunkDelta{Coords: coords, VoxelDeltas: make(map[string]VoxelDelta)}

	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, delta)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("загрузка дельты чанка %v: %w", coords, err)
	}
	return delta, nil
}

// ApplyDeltaToChunk применяет сохранённые правки к сгенерированному чанку
func (ws *WorldStorage) ApplyDeltaToChunk(chunk *world.Chunk, delta *ChunkDelta) error {
	for key, vd := range delta.VoxelDeltas {
		var pos vec.Vec3
		if _, err := fmt.Sscanf(key, "%d:%d:%d", &pos.X, &pos.Y, &pos.Z); err != nil {
			return fmt.Errorf("неверный ключ вокселя %q: %w", key, err)
		}
		if pos.Y < 0 || pos.Y >= world.WorldHeight {
			continue
		}

		chunk.Mu.Lock()
		sec := chunk.Sections[pos.Y>>4]
		sec.SetBlock(pos.X, pos.Y&0xF, pos.Z, vd.Block)
		sec.SetFluid(pos.X, pos.Y&0xF, pos.Z, vd.Fluid)
		chunk.Mu.Unlock()
	}
	return nil
}

// --- Адаптер world.ChunkStore ---

// Save реализует world.ChunkStore
func (ws *WorldStorage) Save(chunk *world.Chunk) error {
	return ws.SaveChunk(chunk)
}

// LoadInto реализует world.ChunkStore: применяет дельту к чанку,
// found=false если чанк никогда не сохранялся
func (ws *WorldStorage) LoadInto(chunk *world.Chunk) (bool, error) {
	delta, err := ws.LoadChunk(chunk.Coords)
	if err != nil {
		return false, err
	}
	if len(delta.VoxelDeltas) == 0 {
		return false, nil
	}
	if err := ws.ApplyDeltaToChunk(chunk, delta); err != nil {
		return false, err
	}
	return true, nil
}
