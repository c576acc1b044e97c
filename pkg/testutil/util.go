package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/canonlab/backend/config"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/migration"
	"github.com/canonlab/backend/pkg/authenticator"
	"github.com/canonlab/backend/pkg/logger"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/gorilla/sessions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every pooled connection to :memory: opens its own empty database, so
	// pin the pool to a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
		},
		Canon: config.CanonConfigs{
			VoteWindow:           10 * time.Minute,
			SurgeScoreThreshold:  10,
			SurgeUpvoteThreshold: 8,
			SurgeTopic:           "canon.surged",
			TrustHalfLife:        90 * 24 * time.Hour,
			TrustGraphCacheTTL:   time.Minute,
		},
		Stamp: config.StampConfigs{
			MaxEquippedStamps: 3,
			SeasonTierPoints:  10,
		},
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowflakeNode(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
