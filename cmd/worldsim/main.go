package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/blockverse/internal/api"
	"github.com/annel0/blockverse/internal/auth"
	"github.com/annel0/blockverse/internal/config"
	"github.com/annel0/blockverse/internal/eventbus"
	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/metrics"
	"github.com/annel0/blockverse/internal/observability"
	"github.com/annel0/blockverse/internal/scene"
	"github.com/annel0/blockverse/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $BLOCKVERSE_CONFIG)")
	tokenFor := flag.String("token", "", "выпустить JWT токен редактора с этим именем и выйти")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		logging.Error("❌ Ошибка инициализации логирования: %v", err)
		os.Exit(1)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	issuer, err := auth.NewIssuer(cfg.API.JWTSecret, cfg.API.TokenTTL)
	if err != nil {
		logging.Error("❌ Ошибка инициализации JWT: %v", err)
		os.Exit(1)
	}
	if *tokenFor != "" {
		if cfg.API.JWTSecret == "" {
			logging.Warn("⚠️ api.jwt_secret не задан: токен будет действителен только для этого процесса")
		}
		token, err := issuer.Issue(*tokenFor, true)
		if err != nil {
			logging.Error("❌ Ошибка выпуска токена: %v", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logging.Info("🌍 Запуск blockverse worldsim (seed=%d, радиус=%d)", cfg.World.Seed, cfg.World.RenderDistance)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logging.Warn("⚠️ OpenTelemetry недоступен: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	worldMetrics, err := metrics.NewWorldMetrics(reg)
	if err != nil {
		logging.Error("❌ Ошибка регистрации метрик: %v", err)
		os.Exit(1)
	}

	bus, err := setupEventBus(cfg.Events)
	if err != nil {
		logging.Error("❌ Ошибка подключения шины событий: %v", err)
		os.Exit(1)
	}
	defer bus.Close()
	if err := eventbus.RegisterMetrics(reg, bus); err != nil {
		logging.Warn("Метрики шины событий не зарегистрированы: %v", err)
	}

	gen, err := cfg.Generator()
	if err != nil {
		logging.Error("❌ Ошибка создания генератора: %v", err)
		os.Exit(1)
	}

	sc := scene.New()
	wm, err := world.NewWorldManager(gen, sc,
		world.WithRenderDistance(cfg.World.RenderDistance),
		world.WithMeshOptions(cfg.MeshOptions()),
		world.WithLogger(logging.GetWorldLogger()),
		world.WithMetrics(worldMetrics),
		world.WithTracer(observability.Tracer()),
	)
	if err != nil {
		logging.Error("❌ Ошибка создания менеджера мира: %v", err)
		os.Exit(1)
	}

	if err := wm.Startup(ctx); err != nil {
		logging.Warn("⚠️ Часть чанков не загружена при старте: %v", err)
	}

	sim := newSimulation(cfg.Sim, wm, sc, logging.GetSimLogger())
	sim.bus = bus
	if sampler, err := metrics.NewProcessSampler(); err == nil {
		sim.sampler = sampler
	} else {
		logging.Warn("Статистика процесса недоступна: %v", err)
	}

	var server *api.Server
	if cfg.Metrics.Addr != "" {
		sim.board = api.NewStatusBoard(cfg.API.EditBuffer)
		server, err = api.NewServer(api.Config{
			Addr:     cfg.Metrics.Addr,
			Board:    sim.board,
			Issuer:   issuer,
			Registry: reg,
			Sampler:  sim.sampler,
			Logger:   logging.GetComponentLogger("api"),
		})
		if err != nil {
			logging.Error("❌ Ошибка создания API сервера: %v", err)
			os.Exit(1)
		}
		server.Start()
	}

	logging.Info("✅ Симуляция запущена: %d тиков/с", cfg.Sim.TickRate)
	sim.run(ctx)
	sim.logStats()

	wm.Shutdown()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error("❌ Ошибка остановки API сервера: %v", err)
		}
	}

	logging.Info("👋 worldsim остановлен")
}

func setupLogging(cfg config.LoggingConfig) error {
	consoleLevel, err := logging.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel, err := logging.ParseLevel(cfg.FileLevel)
	if err != nil {
		return err
	}

	if cfg.ToFile {
		logging.SetLogDir(cfg.Dir)
		if err := logging.InitDefaultLogger("worldsim"); err != nil {
			return err
		}
		logging.GetLoggerManager().EnableFiles(true)
	}
	logging.Default().SetLevels(consoleLevel, fileLevel)

	for _, component := range []string{"world", "sim", "api", "events"} {
		logging.GetComponentLogger(component).SetLevels(consoleLevel, fileLevel)
	}
	return nil
}

// setupEventBus подключается к NATS, если задан адрес, иначе поднимает
// in-memory шину, события которой пишутся в лог на уровне DEBUG
func setupEventBus(cfg config.EventsConfig) (eventbus.EventBus, error) {
	if cfg.NATSURL != "" {
		bus, err := eventbus.NewNATSBus(cfg.NATSURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		logging.Info("📡 События тиков публикуются в NATS %s (%s.>)", cfg.NATSURL, cfg.Prefix)
		return bus, nil
	}

	bus := eventbus.NewMemoryBus(cfg.Buffer)
	if _, err := eventbus.StartLoggingListener(bus, logging.GetComponentLogger("events")); err != nil {
		bus.Close()
		return nil, err
	}
	return bus, nil
}
