package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/questx-lab/classroom/internal/domain"
	"github.com/questx-lab/classroom/internal/domain/cron"
	"github.com/questx-lab/classroom/internal/domain/notification/proxy"
	"github.com/questx-lab/classroom/internal/middleware"
	"github.com/questx-lab/classroom/pkg/router"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startNotification(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()
	s.loadRegistry()
	s.loadWorker()
	s.loadQueue()
	defer s.closeRegistry()

	cfg := xcontext.Configs(s.ctx)
	notificationProxy := proxy.NewNotificationProxy(s.registry, s.userRepo, s.enrollmentRepo)
	lobbyProxy := proxy.NewLobbyProxy(s.registry, s.userRepo, s.lobbyMessageRepo, s.queue)
	notificationDomain := domain.NewNotificationDomain(s.notificationRepo)
	lobbyDomain := domain.NewLobbyDomain(s.lobbyMessageRepo)

	defaultRouter := router.New(s.ctx)
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())
	defaultRouter.Before(middleware.MustExistUser(s.userRepo))
	{
		router.Websocket(defaultRouter, "/notifications", notificationProxy.ServeNotification)
		router.Websocket(defaultRouter, "/lobby", lobbyProxy.ServeLobby)

		router.GET(defaultRouter, "/getNotifications", notificationDomain.GetNotifications)
		router.POST(defaultRouter, "/toggleNotificationRead", notificationDomain.ToggleNotificationRead)
		router.GET(defaultRouter, "/getLobbyMessages", lobbyDomain.GetLobbyMessages)
	}

	httpSrv := &http.Server{
		Addr:    cfg.Notification.Server.Address(),
		Handler: defaultRouter.Handler(cfg.Notification.Server),
	}

	g, ctx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		xcontext.Logger(ctx).Infof("Server start in port: %s", cfg.Notification.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return httpSrv.Shutdown(shutdownCtx)
	})

	if s.runQueue != nil {
		g.Go(func() error {
			s.runQueue(ctx)
			return nil
		})
	}

	// Other instances treat the members of this instance as stale once the
	// heartbeat expires.
	if heartbeater, ok := s.registry.(cron.Heartbeater); ok {
		cronJobManager := cron.NewCronJobManager()
		cronJobManager.Register(cron.NewHeartbeatCronJob(
			heartbeater,
			cfg.Notification.HeartbeatInterval,
			cfg.Notification.HeartbeatTTL,
		))

		g.Go(func() error {
			cronJobManager.Start(ctx)
			return nil
		})
	}

	err := g.Wait()
	xcontext.Logger(s.ctx).Infof("Server stop")
	return err
}

func (s *srv) closeRegistry() {
	closer, ok := s.registry.(interface{ Close(context.Context) error })
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := closer.Close(xcontext.WithLogger(ctx, xcontext.Logger(s.ctx))); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot close registry: %v", err)
	}
}
