package main

import (
	"github.com/canonlab/backend/internal/domain/cron"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewTrustGraphRefreshCronJob(s.userRepo, s.trustDomain))
	cronJobManager.Start(s.ctx)

	return nil
}
