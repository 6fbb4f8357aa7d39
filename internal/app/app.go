package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/riskibarqy/match-tracker/internal/config"
	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
	"github.com/riskibarqy/match-tracker/internal/domain/user"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/account/arbiter"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/broadcast"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-tracker/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
	"github.com/riskibarqy/match-tracker/internal/platform/resilience"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

// App bundles the HTTP server with the background components it owns so the
// entrypoint can shut everything down in order.
type App struct {
	Server *http.Server

	db         *sqlx.DB
	dispatcher *broadcast.Dispatcher
	hubCancel  context.CancelFunc
	logger     *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db         *sqlx.DB
		tx         usecase.TxRunner
		matchRepo  match.Repository
		rosterRepo roster.Repository
		subRepo    substitution.Repository
		shotRepo   shot.Repository
		eventRepo  gameevent.Repository
	)

	if cfg.DBURL != "" {
		conn, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(cfg.ServiceName),
		)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db = conn

		store := postgres.NewStore(db)
		tx = store
		matchRepo = postgres.NewMatchRepository(store)
		rosterRepo = postgres.NewRosterRepository(store)
		subRepo = postgres.NewSubstitutionRepository(store)
		shotRepo = postgres.NewShotRepository(store)
		eventRepo = postgres.NewGameEventRepository(store)

		logger.Info("storage configured", "backend", "postgres")
	} else {
		matches := memory.NewMatchRepository(memory.SeedMatches())
		rosters := memory.NewRosterRepository(memory.SeedRosterEntries())
		subs := memory.NewSubstitutionRepository(nil)
		shots := memory.NewShotRepository(nil)
		events := memory.NewGameEventRepository(nil)

		matches.OnDelete(rosters.DeleteByMatch)
		matches.OnDelete(subs.DeleteByMatch)
		matches.OnDelete(shots.DeleteByMatch)
		matches.OnDelete(events.DeleteByMatch)

		tx = usecase.NewPassthroughTxRunner()
		matchRepo = matches
		rosterRepo = rosters
		subRepo = subs
		shotRepo = shots
		eventRepo = events

		logger.Info("storage configured", "backend", "memory", "reason", "DB_URL empty")
	}

	var (
		verifier   httpapi.TokenVerifier
		authorizer usecase.Authorizer
	)
	if cfg.ArbiterEnabled {
		client := arbiter.NewClient(
			&http.Client{Timeout: cfg.ArbiterTimeout},
			arbiter.Config{
				BaseURL:        cfg.ArbiterBaseURL,
				IntrospectPath: cfg.ArbiterIntrospectPath,
				ManagePath:     cfg.ArbiterManagePath,
				AnswerTTL:      cfg.ArbiterAnswerTTL,
				Breaker: resilience.CircuitBreakerConfig{
					Enabled:          cfg.ArbiterCircuitEnabled,
					FailureThreshold: cfg.ArbiterCircuitFailureCount,
					OpenTimeout:      cfg.ArbiterCircuitOpenTimeout,
					HalfOpenMaxReq:   cfg.ArbiterCircuitHalfOpenMax,
				},
			},
			logger,
		)
		verifier = client
		authorizer = client
	} else {
		verifier = devTokenVerifier{}
		authorizer = usecase.AllowAllAuthorizer{}
		logger.Warn("arbiter disabled; every bearer token is accepted as a dev principal")
	}

	hubCtx, hubCancel := context.WithCancel(context.Background())
	hub := broadcast.NewHub(logger)
	go hub.Run(hubCtx)

	dispatcher, err := broadcast.NewDispatcher(hub, cfg.BroadcastWorkers, logger)
	if err != nil {
		hubCancel()
		return nil, fmt.Errorf("build broadcast dispatcher: %w", err)
	}

	locks := matchlock.New()
	ids := idgen.NewRandomGenerator()

	handler := httpapi.NewHandler(
		usecase.NewMatchService(matchRepo, tx, locks, authorizer, dispatcher, ids, logger),
		usecase.NewRosterService(matchRepo, rosterRepo, subRepo, tx, locks, authorizer, dispatcher, ids, logger),
		usecase.NewSubstitutionService(matchRepo, rosterRepo, subRepo, eventRepo, tx, locks, authorizer, dispatcher, ids, logger),
		usecase.NewEventService(matchRepo, rosterRepo, shotRepo, eventRepo, tx, locks, authorizer, dispatcher, ids, logger),
		usecase.NewLineupService(matchRepo, rosterRepo, subRepo, logger),
		hub,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		hubCancel()
		dispatcher.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:     server,
		db:         db,
		dispatcher: dispatcher,
		hubCancel:  hubCancel,
		logger:     logger,
	}, nil
}

// Shutdown stops the HTTP listener, then the broadcast machinery, then the
// database pool.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}

	a.hubCancel()
	a.dispatcher.Close()

	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}

	return firstErr
}

// devTokenVerifier trusts the bearer token as the user id. Wired only when
// the arbiter collaborator is disabled (demo mode); Load rejects that
// combination in prod.
type devTokenVerifier struct{}

func (devTokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: empty token", usecase.ErrUnauthorized)
	}

	return user.Principal{UserID: token, Role: user.RoleAdmin}, nil
}
