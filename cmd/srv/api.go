package main

import (
	"fmt"
	"net/http"

	"github.com/canonlab/backend/internal/middleware"
	"github.com/canonlab/backend/pkg/router"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadAuth()
	s.loadSnowflake()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port %s", cfg.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	// Public API.
	router.POST(s.router, "/register", s.userDomain.Register)
	router.GET(s.router, "/getCanonEvent", s.canonDomain.GetEvent)
	router.GET(s.router, "/getListCanonEvent", s.canonDomain.GetListEvents)
	router.GET(s.router, "/getTrustGraph", s.trustDomain.Get)
	router.GET(s.router, "/getAllStamps", s.stampDomain.GetAllStamps)
	router.GET(s.router, "/getActiveSeason", s.seasonDomain.GetActive)

	// These following APIs need authentication.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)

		// Canon API
		router.POST(authRouter, "/createCanonEvent", s.canonDomain.CreateEvent)
		router.POST(authRouter, "/voteCanonEvent", s.canonDomain.Vote)

		// Trust API
		router.POST(authRouter, "/rebuildTrustGraph", s.trustDomain.Rebuild)

		// Stamp API
		router.POST(authRouter, "/triggerStamp", s.stampDomain.Trigger)
		router.GET(authRouter, "/getFusionEligibility", s.stampDomain.GetFusionEligibility)
		router.POST(authRouter, "/craftFusionStamp", s.stampDomain.Craft)
		router.POST(authRouter, "/equipStamp", s.stampDomain.Equip)
		router.POST(authRouter, "/unequipStamp", s.stampDomain.Unequip)
		router.GET(authRouter, "/getMyStamps", s.stampDomain.GetMyStamps)

		// Feed API
		router.POST(authRouter, "/follow", s.feedDomain.Follow)
		router.POST(authRouter, "/unfollow", s.feedDomain.Unfollow)
		router.GET(authRouter, "/getSubscriptions", s.feedDomain.GetSubscriptions)
		router.GET(authRouter, "/getFeed", s.feedDomain.GetFeed)

		// Catalog admin API
		router.POST(authRouter, "/createStamp", s.stampDomain.CreateStamp)
		router.POST(authRouter, "/createStampTier", s.stampDomain.CreateStampTier)
		router.POST(authRouter, "/createFusionStamp", s.stampDomain.CreateFusionStamp)
		router.POST(authRouter, "/createSeason", s.seasonDomain.Create)
		router.POST(authRouter, "/activateSeason", s.seasonDomain.Activate)
	}
}
