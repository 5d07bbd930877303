package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/logger"
	"github.com/samcharles93/pngfuse/internal/server"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxUploadMB int64
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve fuse, list, extract and clean over HTTP",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-upload-mb",
				Usage:       "largest accepted request body in MiB",
				Value:       64,
				Destination: &maxUploadMB,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, cfg, &addr, &maxUploadMB)
			log := logger.FromContext(ctx)

			srv := server.New(server.Config{
				MaxBodyBytes: maxUploadMB << 20,
				Workers:      workers,
			}, log)
			e := echo.New()
			e.Use(server.RequestID())
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			srv.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(s *http.Server) error {
					s.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
