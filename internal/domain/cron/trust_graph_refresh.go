package cron

import (
	"context"
	"time"

	"github.com/canonlab/backend/internal/domain"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/dateutil"
	"github.com/canonlab/backend/pkg/xcontext"
)

// TrustGraphRefreshCronJob rebuilds every user's trust graph once a day so
// decay stays current even for users who never request a rebuild themselves.
type TrustGraphRefreshCronJob struct {
	userRepo    repository.UserRepository
	trustDomain domain.TrustDomain
}

func NewTrustGraphRefreshCronJob(
	userRepo repository.UserRepository,
	trustDomain domain.TrustDomain,
) *TrustGraphRefreshCronJob {
	return &TrustGraphRefreshCronJob{
		userRepo:    userRepo,
		trustDomain: trustDomain,
	}
}

func (job *TrustGraphRefreshCronJob) Do(ctx context.Context) {
	users, err := job.userRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all users: %v", err)
		return
	}

	for _, u := range users {
		_, err := job.trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{UserID: u.ID})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot rebuild trust graph of user %s: %v", u.ID, err)
			continue
		}
	}
}

func (job *TrustGraphRefreshCronJob) RunNow() bool {
	return false
}

func (job *TrustGraphRefreshCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
