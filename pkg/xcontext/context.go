package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/canonlab/backend/config"
	"github.com/canonlab/backend/pkg/logger"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

type (
	dbKey           struct{}
	originalDBKey   struct{}
	configsKey      struct{}
	loggerKey       struct{}
	httpRequestKey  struct{}
	httpWriterKey   struct{}
	requestUserID   struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
	snowflakeKey    struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no db in context")
	}

	return db
}

// WithDBTransaction replaces the db in context by a began transaction. The
// original db is kept aside and restored by WithCommitDBTransaction or
// WithRollbackDBTransaction.
func WithDBTransaction(ctx context.Context) context.Context {
	db := DB(ctx)
	ctx = context.WithValue(ctx, originalDBKey{}, db)
	return WithDB(ctx, db.Begin())
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	DB(ctx).Commit()
	return restoreOriginalDB(ctx)
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	DB(ctx).Rollback()
	return restoreOriginalDB(ctx)
}

func restoreOriginalDB(ctx context.Context) context.Context {
	original, ok := ctx.Value(originalDBKey{}).(*gorm.DB)
	if !ok {
		panic("no transaction began before")
	}

	return WithDB(ctx, original)
}

func WithConfigs(ctx context.Context, configs config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, configs)
}

func Configs(ctx context.Context) config.Configs {
	configs, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return configs
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("no logger in context")
	}

	return l
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		panic("no http request in context")
	}

	return r
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	if !ok {
		panic("no http writer in context")
	}

	return w
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserID{}, userID)
}

// RequestUserID returns an empty string if the request is unauthenticated.
func RequestUserID(ctx context.Context) string {
	userID, ok := ctx.Value(requestUserID{}).(string)
	if !ok {
		return ""
	}

	return userID
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	store, ok := ctx.Value(sessionStoreKey{}).(sessions.Store)
	if !ok {
		panic("no session store in context")
	}

	return store
}

func WithSnowflakeNode(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

// SnowflakeID generates a new int64 id from the node in context.
func SnowflakeID(ctx context.Context) int64 {
	node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	if !ok {
		panic("no snowflake node in context")
	}

	return node.Generate().Int64()
}
