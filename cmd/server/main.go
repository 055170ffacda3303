package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/chunklight/internal/config"
	"github.com/annel0/chunklight/internal/eventbus"
	"github.com/annel0/chunklight/internal/logging"
	"github.com/annel0/chunklight/internal/storage"
	"github.com/annel0/chunklight/internal/vec"
	"github.com/annel0/chunklight/internal/world"
	_ "github.com/annel0/chunklight/internal/world/block/implementations"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или ENV LIGHT_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("💡 Запуск сервера освещения чанков...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{} // конфиг не задан — работаем на дефолтах
	}

	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	dataPath := cfg.World.DataPath
	if dataPath == "" {
		dataPath = "data"
	}
	spawnRadius := cfg.World.SpawnRadius
	if spawnRadius <= 0 {
		spawnRadius = 2
	}
	backoff := time.Duration(cfg.Lighting.GetBackoffMS()) * time.Millisecond
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())

	logging.Info("📡 Конфигурация: seed=%d, data=%s, spawn_radius=%d, metrics=%s",
		seed, dataPath, spawnRadius, metricsAddr)

	// === EVENT BUS ===
	// При заданном URL поднимаем JetStream, иначе — шину в памяти
	var bus eventbus.EventBus
	var jsBus *eventbus.JetStreamBus
	if cfg.EventBus.URL != "" {
		retention := time.Duration(cfg.EventBus.Retention) * time.Hour
		js, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, retention)
		if err != nil {
			logging.Error("❌ Ошибка подключения к NATS: %v", err)
			log.Fatalf("❌ Ошибка подключения к NATS: %v", err)
		}
		bus = js
		jsBus = js
		logging.Info("✅ EventBus: NATS JetStream %s", cfg.EventBus.URL)
	} else {
		bus = eventbus.NewMemoryBus(cfg.Lighting.GetQueueCapacity())
		logging.Info("✅ EventBus: in-memory")
	}
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Не удалось подписать логирующий слушатель: %v", err)
	}

	exporter := eventbus.NewMetricsExporter(bus)
	exporter.StartHTTP(metricsAddr)

	// === МИР И ОСВЕЩЕНИЕ ===
	wm := world.NewWorldManager(seed, backoff)

	var store *storage.WorldStorage
	if cfg.World.UsePersisted {
		store, err = storage.NewWorldStorage(dataPath)
		if err != nil {
			logging.Error("❌ Ошибка открытия хранилища мира: %v", err)
			log.Fatalf("❌ Ошибка открытия хранилища мира: %v", err)
		}
		wm.SetChunkStore(store)
		logging.Info("✅ Персистентность чанков: BadgerDB (%s)", dataPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wm.Run(ctx)

	// Предзагружаем чанки вокруг точки спавна, каждая секция сразу
	// встаёт в очередь расчёта освещения
	logging.Debug("Предзагрузка %dx%d чанков вокруг спавна...", 2*spawnRadius+1, 2*spawnRadius+1)
	for cx := -spawnRadius; cx <= spawnRadius; cx++ {
		for cz := -spawnRadius; cz <= spawnRadius; cz++ {
			if err := wm.LoadChunk(vec.Vec2{X: cx, Z: cz}); err != nil {
				logging.Error("Ошибка загрузки чанка (%d,%d): %v", cx, cz, err)
			}
		}
	}

	logging.Info("✅ Сервер запущен: %d чанков, очередь освещения %d секций",
		wm.LoadedChunks(), wm.Lighting().QueueLen())

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	cancel()
	wm.Stop()
	exporter.Stop()

	if store != nil {
		if err := store.Close(); err != nil {
			logging.Error("❌ Ошибка закрытия хранилища: %v", err)
		}
	}
	if jsBus != nil {
		if err := jsBus.Close(); err != nil {
			logging.Error("❌ Ошибка закрытия EventBus: %v", err)
		}
	}

	logging.Info("👋 Сервер успешно остановлен")
}
