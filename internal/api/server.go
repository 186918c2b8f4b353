package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/blockverse/internal/auth"
	"github.com/annel0/blockverse/internal/logging"
	"github.com/annel0/blockverse/internal/metrics"
	"github.com/annel0/blockverse/internal/middleware"
	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
	"github.com/annel0/blockverse/internal/world/block"
)

// GenericResponse общий формат ответа API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// EditBody - тело POST /api/world/edits
type EditBody struct {
	Action string `json:"action" binding:"required,oneof=break place"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Z      int    `json:"z"`
	Block  string `json:"block"`
}

// Request переводит тело запроса в правку мира
func (b EditBody) Request() (world.EditRequest, error) {
	pos := vec.Vec3{X: b.X, Y: b.Y, Z: b.Z}
	switch b.Action {
	case "break":
		return world.BreakRequest{Position: pos}, nil
	case "place":
		bt, err := block.ParseBlockType(b.Block)
		if err != nil {
			return nil, err
		}
		return world.PlaceRequest{Position: pos, Species: block.Full(bt)}, nil
	default:
		return nil, fmt.Errorf("неизвестное действие %q", b.Action)
	}
}

// Config содержит конфигурацию для API сервера
type Config struct {
	Addr     string
	Board    *StatusBoard
	Issuer   *auth.Issuer // nil - правки через API запрещены
	Registry *prometheus.Registry
	Sampler  *metrics.ProcessSampler
	Logger   *logging.Logger
}

// Server - HTTP API состояния мира: здоровье, снимок, чанки, метрики и приём правок
type Server struct {
	router  *gin.Engine
	board   *StatusBoard
	issuer  *auth.Issuer
	sampler *metrics.ProcessSampler
	logger  *logging.Logger
	http    *http.Server
	started time.Time
}

// NewServer создает новый API сервер
func NewServer(cfg Config) (*Server, error) {
	if cfg.Board == nil {
		return nil, errors.New("StatusBoard не задан")
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetComponentLogger("api")
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	router.Use(otelgin.Middleware("blockverse_api"))
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw, err := middleware.NewPrometheusMiddleware("blockverse_api", cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("метрики API: %w", err)
	}
	router.Use(promMw.Handler())

	s := &Server{
		router:  router,
		board:   cfg.Board,
		issuer:  cfg.Issuer,
		sampler: cfg.Sampler,
		logger:  cfg.Logger,
		started: time.Now(),
	}

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.GET("/world", s.handleWorld)
		api.GET("/world/chunks", s.handleChunks)
		api.GET("/process", s.handleProcess)
		api.POST("/world/edits", s.jwtMiddleware(), s.handleEdit)
	}

	s.http = &http.Server{Addr: cfg.Addr, Handler: router}
	return s, nil
}

// Handler возвращает http.Handler сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start запускает сервер в отдельной горутине
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("❌ API сервер: %v", err)
		}
	}()
	s.logger.Info("🌐 API: http://localhost%s/api/world, метрики: /metrics", s.http.Addr)
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// jwtMiddleware пропускает только токены с правом правки
func (s *Server) jwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.issuer == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, GenericResponse{Message: "Правки через API отключены"})
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, GenericResponse{Message: "Требуется Bearer токен"})
			return
		}

		claims, err := s.issuer.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, GenericResponse{Message: "Недействительный токен"})
			return
		}
		if !claims.CanEdit {
			c.AbortWithStatusJSON(http.StatusForbidden, GenericResponse{Message: "Нет права на правки"})
			return
		}

		c.Set("editor", claims.Editor)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"time":   time.Now().Unix(),
	})
}

func (s *Server) handleWorld(c *gin.Context) {
	status := s.board.Status()
	if status == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Message: "Мир ещё не запущен"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Состояние мира", Data: status})
}

func (s *Server) handleChunks(c *gin.Context) {
	status := s.board.Status()
	if status == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Message: "Мир ещё не запущен"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Загруженные чанки", Data: status.Chunks})
}

func (s *Server) handleProcess(c *gin.Context) {
	if s.sampler == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Message: "Статистика процесса недоступна"})
		return
	}

	stats, err := s.sampler.Sample()
	if err != nil {
		c.JSON(http.StatusInternalServerError, GenericResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика процесса",
		Data: gin.H{
			"cpu_percent": fmt.Sprintf("%.2f", stats.CPUPercent),
			"rss_mb":      fmt.Sprintf("%.2f", float64(stats.RSSBytes)/(1024*1024)),
		},
	})
}

func (s *Server) handleEdit(c *gin.Context) {
	var body EditBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Message: "Неверный запрос: " + err.Error()})
		return
	}

	req, err := body.Request()
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Message: err.Error()})
		return
	}

	if !s.board.Submit(req) {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Message: "Очередь правок переполнена"})
		return
	}

	s.logger.Debug("Правка от %s: %s", c.GetString("editor"), req)
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Правка поставлена в очередь", Data: gin.H{"request": req.String()}})
}
