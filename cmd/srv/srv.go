package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/canonlab/backend/internal/domain"
	"github.com/canonlab/backend/internal/domain/stamp"
	"github.com/canonlab/backend/internal/domain/surge"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/migration"
	"github.com/canonlab/backend/pkg/authenticator"
	"github.com/canonlab/backend/pkg/kafka"
	"github.com/canonlab/backend/pkg/logger"
	"github.com/canonlab/backend/pkg/pubsub"
	"github.com/canonlab/backend/pkg/router"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/canonlab/backend/pkg/xredis"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo         repository.UserRepository
	canonEventRepo   repository.CanonEventRepository
	canonVoteRepo    repository.CanonVoteRepository
	trustGraphRepo   repository.TrustGraphRepository
	stampRepo        repository.StampRepository
	userStampRepo    repository.UserStampRepository
	fusionStampRepo  repository.FusionStampRepository
	subscriptionRepo repository.SubscriptionRepository
	seasonRepo       repository.SeasonRepository

	userDomain   domain.UserDomain
	canonDomain  domain.CanonDomain
	trustDomain  domain.TrustDomain
	stampDomain  domain.StampDomain
	feedDomain   domain.FeedDomain
	seasonDomain domain.SeasonDomain

	stampEngine   *stamp.Engine
	surgeDetector *surge.Detector

	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber
	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth))
	s.ctx = xcontext.WithSessionStore(s.ctx,
		sessions.NewCookieStore([]byte(cfg.Session.Secret)))
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowflakeNode(s.ctx, node)
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("canonlab",
		[]string{xcontext.Configs(s.ctx).Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.canonEventRepo = repository.NewCanonEventRepository()
	s.canonVoteRepo = repository.NewCanonVoteRepository()
	s.trustGraphRepo = repository.NewTrustGraphRepository()
	s.stampRepo = repository.NewStampRepository()
	s.userStampRepo = repository.NewUserStampRepository()
	s.fusionStampRepo = repository.NewFusionStampRepository()
	s.subscriptionRepo = repository.NewSubscriptionRepository()
	s.seasonRepo = repository.NewSeasonRepository()
}

func (s *srv) loadDomains() {
	s.surgeDetector = surge.NewDetector(s.canonEventRepo, s.canonVoteRepo, s.publisher)
	s.stampEngine = stamp.NewEngine(s.stampRepo, s.userStampRepo, s.seasonRepo)

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.canonDomain = domain.NewCanonDomain(s.canonEventRepo, s.canonVoteRepo,
		s.userRepo, s.surgeDetector)
	s.trustDomain = domain.NewTrustDomain(s.trustGraphRepo, s.canonEventRepo,
		s.canonVoteRepo, s.userRepo, s.redisClient)
	s.stampDomain = domain.NewStampDomain(s.stampRepo, s.userStampRepo,
		s.fusionStampRepo, s.stampEngine)
	s.feedDomain = domain.NewFeedDomain(s.subscriptionRepo, s.canonEventRepo, s.userRepo)
	s.seasonDomain = domain.NewSeasonDomain(s.seasonRepo)
}
