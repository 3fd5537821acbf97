package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/automation-hub/project-requests/internal/api"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
	"github.com/automation-hub/project-requests/internal/core/service"
	redisstore "github.com/automation-hub/project-requests/internal/infrastructure/db/redis"
	httpserver "github.com/automation-hub/project-requests/internal/infrastructure/http"
	"github.com/automation-hub/project-requests/internal/infrastructure/http/handlers"
	"github.com/automation-hub/project-requests/internal/infrastructure/messaging"
	"github.com/automation-hub/project-requests/internal/infrastructure/queue"
	"github.com/automation-hub/project-requests/pkg/logger"
)

const closeTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the event dispatcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	table, err := permission.Load(cfg.PermissionsFile)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, a.log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			a.log.Error().Err(err).Msg("closing store")
		}
	}()

	checks := make(map[string]handlers.Check, len(st.checks)+2)
	for name, check := range st.checks {
		checks[name] = check
	}

	var publisher ports.EventPublisher = messaging.NewLogPublisher(logger.Component("events"))
	if cfg.AMQP.URL != "" {
		rabbit, err := messaging.NewRabbitPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		checks["rabbitmq"] = rabbit.Ping
	} else {
		a.log.Warn().Msg("AMQP_URL not set, project events are only logged")
	}

	var opts []service.ProjectOption
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		opts = append(opts, service.WithIdempotency(redisstore.NewIdempotencyStore(client)))
		checks["redis"] = handlers.RedisCheck(client)
	} else {
		a.log.Warn().Msg("REDIS_ADDR not set, Idempotency-Key headers are ignored")
	}

	// Workers outlive ctx so events queued during shutdown are still delivered.
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	dispatcher := queue.NewDispatcher(
		cfg.AMQP.Workers,
		service.NewEventRelay(publisher, logger.Component("events")),
		logger.Component("dispatcher"),
	)
	dispatcher.Start(workCtx)
	opts = append(opts, service.WithEvents(dispatcher))

	identities := service.NewIdentityService(st.actors, st.team, logger.Component("identity"))
	approverPolicy := service.NewApproverPolicy(st.approvers, identities, table, logger.Component("approver-policy"))
	teamAdmin := service.NewTeamAdminPolicy(identities, table, logger.Component("team-admin"))
	gate := service.NewPermissionGate(identities, table, logger.Component("permissions"))

	projects := service.NewProjectService(
		st.projects, identities, st.team, approverPolicy, gate,
		logger.Component("lifecycle"), opts...,
	)

	e := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		Log:            logger.Component("http"),
		Projects:       projects,
		Approvers:      service.NewApproverService(st.approvers, logger.Component("approvers")),
		Team:           service.NewTeamService(st.team, logger.Component("team")),
		Identities:     identities,
		ApproverPolicy: approverPolicy,
		TeamAdmin:      teamAdmin,
		Permissions:    gate,
		HealthChecks:   checks,
	})

	err = httpserver.Serve(ctx, e, ":"+cfg.Port, cfg.ShutdownTimeout, logger.Component("http"))
	dispatcher.Stop()
	a.log.Info().Msg("shutdown complete")
	return err
}
