package jsonresult

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zolia/go-ci/exithandler"

	"github.com/toaweme/log"
)

type Config struct {
	Host string
	Port int
}

// HandlerFunc produces the untagged body for one endpoint.
type HandlerFunc[T, E any] func(c *gin.Context) Result[T, E]

// Route mounts a handler whose result is written untagged: okStatus with
// the ok variant, errStatus with the err variant.
func Route[T, E any](routes gin.IRoutes, method, path string, okStatus, errStatus int, h HandlerFunc[T, E]) {
	routes.Handle(method, path, func(c *gin.Context) {
		Respond(c, okStatus, errStatus, h(c))
	})
}

// Respond writes whichever variant the result holds, with no wrapper tag,
// so the body is exactly what serializing the held value directly would
// produce.
func Respond[T, E any](c *gin.Context, okStatus, errStatus int, r Result[T, E]) {
	if e, isErr := r.Err(); isErr {
		c.JSON(errStatus, e)
		return
	}

	v, _ := r.Ok()
	c.JSON(okStatus, v)
}

type Handler interface {
	RegisterRoutes(router *gin.Engine)
}

var _ exithandler.Service = (*GinServer)(nil)

// GinServer hosts endpoints that answer with untagged ok-or-err bodies.
type GinServer struct {
	config *Config
	router *gin.Engine
	http   *http.Server
}

func NewGinServer(config *Config, router *gin.Engine) *GinServer {
	return &GinServer{
		config: config,
		router: router,
	}
}

func (g *GinServer) Name() string {
	return "http"
}

func (g *GinServer) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)
	g.http = &http.Server{
		Addr:    addr,
		Handler: g.router.Handler(),
	}

	log.Info("starting http server", "addr", fmt.Sprintf("http://%s", addr))
	if err := g.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to start http server", "error", err)

		return fmt.Errorf("failed to start http server: %w", err)
	}

	return nil
}

func (g *GinServer) Stop(ctx context.Context) error {
	if g.http == nil {
		return nil
	}

	err := g.http.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	return nil
}

func (g *GinServer) Routes(routes ...Handler) {
	for _, route := range routes {
		route.RegisterRoutes(g.router)
	}
}
