package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/roster-api/internal/config"
	"github.com/riskibarqy/roster-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/roster-api/internal/interfaces/httpapi"
	"github.com/riskibarqy/roster-api/internal/platform/cache"
	"github.com/riskibarqy/roster-api/internal/platform/logging"
	"github.com/riskibarqy/roster-api/internal/usecase"
)

// NewHTTPServer wires the full service: database, repositories, services,
// HTTP handler and middleware chain. The returned cleanup closes the
// database pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	playerRepo := postgres.NewPlayerRepository(db, cfg.DBQueryTimeout, cfg.DBSerializableWrites)
	teamRepo := postgres.NewTeamRepository(db, cfg.DBQueryTimeout)

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	rosterSvc := usecase.NewRosterService(playerRepo, store, logger)
	teamSvc := usecase.NewTeamService(teamRepo, store)

	handler := httpapi.NewHandler(rosterSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
