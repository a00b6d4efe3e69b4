package spycatagency

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oKhodus/spy-cat/internal/logger"
	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
	"github.com/oKhodus/spy-cat/internal/services"
	"github.com/oKhodus/spy-cat/pkg/catapi"
)

var Endpoints = struct {
	CatCreate string
	CatGet    string
	CatGetAll string
	CatUpdate string
	CatDelete string

	MissionCreate string
	MissionGet    string
	MissionGetAll string
	MissionDelete string
	MissionAssign string

	TargetUpdate string

	BreedGetAll string
}{
	CatCreate: "/cats",
	CatGet:    "/cats/:id",
	CatUpdate: "/cats/:id",
	CatDelete: "/cats/:id",
	CatGetAll: "/cats",

	MissionCreate: "/missions",
	MissionGet:    "/missions/:id",
	MissionGetAll: "/missions",
	MissionAssign: "/missions/:id/assign/:catId",
	MissionDelete: "/missions/:id",

	TargetUpdate: "/targets/:id",

	BreedGetAll: "/breeds",
}

type Server struct {
	router         *gin.Engine
	httpServer     *http.Server
	catService     services.CatService
	catAPI         catapi.CatAPI
	missionService services.MissionService
	logger         *slog.Logger
}

type options struct {
	addr        string
	corsOrigins []string
	logger      *slog.Logger
}

type Option func(*options)

func WithAddr(addr string) Option {
	return func(o *options) { o.addr = addr }
}

func WithCORSOrigins(origins ...string) Option {
	return func(o *options) { o.corsOrigins = origins }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

func NewServer(catService services.CatService, catAPI catapi.CatAPI, missionService services.MissionService, opts ...Option) *Server {
	o := options{
		addr:        ":8080",
		corsOrigins: []string{"http://localhost:3000"},
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(o.logger))
	if len(o.corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     o.corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader},
			ExposeHeaders:    []string{logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	server := &Server{
		router:         router,
		catService:     catService,
		catAPI:         catAPI,
		missionService: missionService,
		logger:         o.logger,
		httpServer: &http.Server{
			Addr:         o.addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
	router.POST(Endpoints.CatCreate, server.handleAddCat)
	router.GET(Endpoints.CatGet, server.handleGetCat)
	router.GET(Endpoints.CatGetAll, server.handleGetAllCats)
	router.PATCH(Endpoints.CatUpdate, server.handleUpdateCat)
	router.DELETE(Endpoints.CatDelete, server.handleDeleteCat)

	router.POST(Endpoints.MissionCreate, server.handleAddMission)
	router.GET(Endpoints.MissionGet, server.handleGetMission)
	router.GET(Endpoints.MissionGetAll, server.handleGetAllMissions)
	router.POST(Endpoints.MissionAssign, server.handleAssignMission)
	router.DELETE(Endpoints.MissionDelete, server.handleDeleteMission)

	router.PATCH(Endpoints.TargetUpdate, server.handleUpdateTarget)

	router.GET(Endpoints.BreedGetAll, server.handleGetAllBreeds)
	return server
}

var okResponse = gin.H{"ok": true}

// writeError maps domain errors to status codes. Unknown errors are logged
// and reported as 500.
func (s *Server) writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, myerrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, myerrors.ErrInvalidBreed),
		errors.Is(err, myerrors.ErrInvalidTargetCount),
		errors.Is(err, myerrors.ErrTargetLocked),
		errors.Is(err, myerrors.ErrMissionAssigned):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		s.logger.ErrorContext(ctx.Request.Context(), "http.internal_error",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
	}
	ctx.JSON(status, gin.H{
		"message": err.Error(),
	})
}

// idParam parses a numeric path parameter. Anything else is answered with
// 404 since no entity can have that id.
func idParam(ctx *gin.Context, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"message": entity + " not found. Use number as id!",
		})
		return 0, false
	}
	return id, true
}

func (s *Server) handleAddCat(ctx *gin.Context) {
	var cat models.CatCreate
	if err := ctx.ShouldBindJSON(&cat); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	newCat, err := s.catService.Add(ctx, cat)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newCat)
}

func (s *Server) handleGetCat(ctx *gin.Context) {
	id, ok := idParam(ctx, "id", "cat")
	if !ok {
		return
	}
	cat, err := s.catService.GetById(ctx, id)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cat)
}

func (s *Server) handleUpdateCat(ctx *gin.Context) {
	id, ok := idParam(ctx, "id", "cat")
	if !ok {
		return
	}
	var update models.CatUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}
	updatedCat, err := s.catService.UpdateSalary(ctx, id, update)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updatedCat)
}

func (s *Server) handleDeleteCat(ctx *gin.Context) {
	id, ok := idParam(ctx, "id", "cat")
	if !ok {
		return
	}
	if err := s.catService.DeleteById(ctx, id); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, okResponse)
}

func (s *Server) handleGetAllCats(ctx *gin.Context) {
	cats, err := s.catService.GetAll(ctx)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cats)
}

func (s *Server) handleAddMission(ctx *gin.Context) {
	var mission models.MissionCreate
	if err := ctx.ShouldBindJSON(&mission); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid mission: " + err.Error(),
		})
		return
	}
	savedMission, err := s.missionService.Add(ctx, mission)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, savedMission)
}

func (s *Server) handleGetMission(ctx *gin.Context) {
	id, ok := idParam(ctx, "id", "mission")
	if !ok {
		return
	}
	mission, err := s.missionService.GetById(ctx, id)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mission)
}

func (s *Server) handleGetAllMissions(ctx *gin.Context) {
	missions, err := s.missionService.GetAll(ctx)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, missions)
}

func (s *Server) handleAssignMission(ctx *gin.Context) {
	missionId, ok := idParam(ctx, "id", "mission")
	if !ok {
		return
	}
	catId, ok := idParam(ctx, "catId", "cat")
	if !ok {
		return
	}
	if err := s.missionService.Assign(ctx, missionId, catId); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, okResponse)
}

func (s *Server) handleUpdateTarget(ctx *gin.Context) {
	targetId, ok := idParam(ctx, "id", "target")
	if !ok {
		return
	}
	var update models.TargetUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}
	if err := s.missionService.UpdateTarget(ctx, targetId, update); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, okResponse)
}

func (s *Server) handleDeleteMission(ctx *gin.Context) {
	missionId, ok := idParam(ctx, "id", "mission")
	if !ok {
		return
	}
	if err := s.missionService.Delete(ctx, missionId); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, okResponse)
}

func (s *Server) handleGetAllBreeds(ctx *gin.Context) {
	breeds, err := s.catAPI.ListBreeds(ctx)
	if err != nil {
		s.logger.WarnContext(ctx.Request.Context(), "breeds.unavailable", "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{
			"message": "breed registry is unavailable",
		})
		return
	}
	ctx.JSON(http.StatusOK, breeds)
}

func (s *Server) Run() error {
	s.logger.Info("server.listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("server.listening", "addr", l.Addr().String())
	return s.httpServer.Serve(l)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
