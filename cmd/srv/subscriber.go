package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/canonlab/backend/internal/domain/surge"
	"github.com/canonlab/backend/pkg/kafka"
	"github.com/canonlab/backend/pkg/pubsub"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()

	cfg := xcontext.Configs(s.ctx)
	s.subscriber = kafka.NewSubscriber(
		"canonlab_surge",
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Canon.SurgeTopic},
		s.handleSurgeEvent,
	)

	s.subscriber.Subscribe(s.ctx)
	<-s.ctx.Done()

	return s.subscriber.Stop(s.ctx)
}

func (s *srv) handleSurgeEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event surge.Event
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot unmarshal surge event: %v", err)
		return
	}

	xcontext.Logger(s.ctx).Infof("Canon event %s of user %s escalated from %s to %s",
		event.EventID, event.OwnerUserID, event.FromRank, event.ToRank)
}
