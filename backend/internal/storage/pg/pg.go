package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/itchan-dev/boardsync/backend/internal/service"
	"github.com/itchan-dev/boardsync/shared/config"
	"github.com/itchan-dev/boardsync/shared/logger"
	"github.com/itchan-dev/boardsync/shared/storage/pg"
)

type Storage struct {
	db *sql.DB
}

var _ service.Store = (*Storage)(nil)

func New(cfg *config.Config) (*Storage, error) {
	return NewWithConnConfig(cfg, pg.DefaultConnectionConfig())
}

func NewWithConnConfig(cfg *config.Config, connCfg pg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := pg.Connect(cfg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to database")
	return &Storage{db: db}, nil
}

// Transactionally runs fn in one transaction. Driver errors coming out of fn or the commit
// are translated into domain sentinels.
func (s *Storage) Transactionally(ctx context.Context, fn func(tx service.Tx) error) error {
	err := pg.WithTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return fn(&tx{q: sqlTx})
	})
	return pg.TranslateError(err)
}

// Ping reports whether the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// tx implements service.Tx on top of any Querier.
type tx struct {
	q pg.Querier
}

var _ service.Tx = (*tx)(nil)

// mustAffect turns "nothing matched" into ErrNotFound.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return pg.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pg.TranslateError(sql.ErrNoRows)
	}
	return nil
}
