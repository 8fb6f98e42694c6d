package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/infrastructure/database"
	daystore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/day"
	fooditemstore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/fooditem"
	recipestore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/recipe"
	"github.com/kjanat/nutricore/internal/infrastructure/service"
	"github.com/kjanat/nutricore/internal/nutrition/cascade"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
	"github.com/kjanat/nutricore/internal/rpc"
)

// Container holds every wired dependency of the process: the Graph Store,
// its three repositories, the Cascade Engine, the three domain services, and
// the RPC Dispatcher built on top of them.
type Container struct {
	Config *Config
	Logger *zap.Logger
	Store  *database.Store

	FoodItemRepository fooditem.Repository
	RecipeRepository    recipe.Repository
	DayRepository       day.Repository

	Cascade *cascade.Engine

	FoodItemService fooditem.Service
	RecipeService   recipe.Service
	DayService      day.Service

	Dispatcher *rpc.Dispatcher
}

// NewContainer loads configuration, opens and migrates the Graph Store, and
// wires repositories, the Cascade Engine, services, and the RPC Dispatcher.
func NewContainer() (*Container, error) {
	config := LoadConfig()

	log, err := newLogger(config)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	logLevel := logger.Warn
	if config.IsDevelopment() {
		logLevel = logger.Info
	}
	store, err := database.Open(database.Config{Path: config.DataPath, LogLevel: logLevel})
	if err != nil {
		return nil, fmt.Errorf("open graph store: %w", err)
	}

	ctx := context.Background()
	if sqlDB, err := store.DB().DB(); err != nil {
		return nil, fmt.Errorf("get underlying connection: %w", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("graph store connection validation failed: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate graph store: %w", err)
	}

	container := &Container{
		Config: config,
		Logger: log,
		Store:  store,
	}

	container.FoodItemRepository = fooditemstore.NewRepository(store.DB())
	container.RecipeRepository = recipestore.NewRepository(store.DB())
	container.DayRepository = daystore.NewRepository(store.DB())

	container.Cascade = cascade.New(
		container.FoodItemRepository,
		container.RecipeRepository,
		container.DayRepository,
		unitengine.New(),
		log,
	)

	container.FoodItemService = service.NewFoodItemService(container.FoodItemRepository, container.Cascade, log)
	container.RecipeService = service.NewRecipeService(container.RecipeRepository, container.Cascade, log)
	container.DayService = service.NewDayService(container.DayRepository, container.FoodItemRepository, container.RecipeRepository, container.Cascade, log)

	container.Dispatcher = rpc.NewDispatcher()
	rpc.RegisterVerbs(container.Dispatcher, container.FoodItemService, container.RecipeService, container.DayService, container.Cascade, unitengine.New())

	return container, nil
}

// Cleanup releases the Graph Store's connection and flushes the logger.
func (c *Container) Cleanup() error {
	_ = c.Logger.Sync()
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
