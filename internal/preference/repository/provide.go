package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	"github.com/smallbiznis/lightmeasure/internal/config"
	"github.com/smallbiznis/lightmeasure/internal/observability/logger"
	preferencedomain "github.com/smallbiznis/lightmeasure/internal/preference/domain"
	"github.com/smallbiznis/lightmeasure/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
}

// Provide picks the state backend named by STATE_BACKEND.
func Provide(p Params) (preferencedomain.Repository, error) {
	log := p.Log.Named("preference.repository")

	switch p.Config.StateBackend {
	case config.BackendJSON:
		return NewFileStore(p.Config.StatePath, JSON), nil
	case config.BackendMsgpack:
		return NewFileStore(p.Config.StatePath, Msgpack), nil
	case config.BackendSQLite:
		conn, err := db.Open(db.DefaultConfig(p.Config.StatePath), logger.NewGormLogger(log, logger.DefaultGormLoggerConfig()))
		if err != nil {
			return nil, fmt.Errorf("open state database: %w", err)
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return NewSQLiteStore(conn, p.GenID, p.Clock)
	default:
		return nil, fmt.Errorf("unsupported state backend %q", p.Config.StateBackend)
	}
}

func NewSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
