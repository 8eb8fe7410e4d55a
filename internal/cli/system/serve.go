package system

import (
	"context"
	"fmt"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/julianstephens/worklog/internal/cli"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/server"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:"127.0.0.1:7420"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	srv := server.New(j)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.Listen(c.Addr)
	}()

	fmt.Fprintf(ctx.W(), "Serving work log API at http://%s (Ctrl+C to stop)\n", c.Addr)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"api": func(context.Context) error {
				logger.Info("Shutting down API")
				return srv.Shutdown()
			},
		},
	)

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("failed to serve on %s: %w", c.Addr, err)
		}
		return nil
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}
