// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	EthClient() *ethclient.Client
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// App is the container the entry point drives: register every module,
// then start them in order.
type App interface {
	Monolith
	RegisterModules(modules ...Module) error
	StartModules(ctx context.Context, modules ...Module) error
	Close() error
}

// dialTimeout bounds the initial RPC handshake.
const dialTimeout = 15 * time.Second

var _ App = (*app)(nil)

type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	ethClient *ethclient.Client
	container di.Container
}

// New dials the Optimism RPC and seeds the container with the shared
// services every module resolves by name. Dialing an HTTP endpoint does
// not touch the network; the first call does.
func New(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (App, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(dialCtx, cfg.Chain.HTTPURL)
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext(cfg.Chain.HTTPURL),
			apperror.WithCause(err))
	}

	container := di.NewContainer()
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("ethClient", ethClient)

	return &app{
		config:    cfg,
		logger:    log,
		ethClient: ethClient,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) EthClient() *ethclient.Client {
	return a.ethClient
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules. Registration only
// stores factories; services are built on first use.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return fmt.Errorf("register %s: %w", moduleName(m), err)
		}
	}
	return nil
}

// StartModules starts the modules in order and stops at the first failure.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		name := moduleName(m)
		start := time.Now()
		if err := m.Startup(ctx, a); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
		a.logger.Debug(ctx, "module started", "module", name, "took", time.Since(start).String())
	}
	return nil
}

// moduleName is the package of the module type, e.g. "position".
func moduleName(m Module) string {
	t := reflect.TypeOf(m)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if p := t.PkgPath(); p != "" {
		for i := len(p) - 1; i >= 0; i-- {
			if p[i] == '/' {
				return p[i+1:]
			}
		}
		return p
	}
	return t.String()
}

// Close releases the RPC connection.
func (a *app) Close() error {
	if a.ethClient != nil {
		a.ethClient.Close()
	}
	return nil
}
