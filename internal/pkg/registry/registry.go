package registry

import (
	"sort"

	"syafa-store/internal/domain/order/store"
	"syafa-store/internal/pkg/config"
	"syafa-store/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ModuleContext carries the shared dependencies modules wire themselves
// against.
type ModuleContext struct {
	Router  *gin.Engine
	Config  *config.Config
	Store   store.OrderStore
	Redis   *redis.Client // nil unless redis.addr is configured
	Metrics *metrics.Collector
}

// Module is a self-registering application module.
type Module interface {
	// Name returns the module name.
	Name() string

	// Init wires dependencies and registers routes.
	Init(ctx *ModuleContext) error

	// Priority orders initialization; lower runs first.
	Priority() int
}

var moduleRegistry = make(map[string]Module)

// Register adds a module to the registry. Called from module init().
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// InitModules initializes all registered modules in priority order.
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Priority() < modules[j].Priority()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}
