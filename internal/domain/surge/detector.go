package surge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/pubsub"
	"github.com/canonlab/backend/pkg/xcontext"
)

// Event is published on the surge topic whenever a canon event escalates.
type Event struct {
	EventID     string    `json:"event_id"`
	OwnerUserID string    `json:"owner_user_id"`
	FromRank    string    `json:"from_rank"`
	ToRank      string    `json:"to_rank"`
	WindowScore int64     `json:"window_score"`
	Upvotes     int       `json:"upvotes"`
	DetectedAt  time.Time `json:"detected_at"`
}

// Detector evaluates the trailing vote window of a canon event against the
// surge thresholds and escalates the rank by one step when both are met. An
// escalation is performed with a compare-and-swap on the observed rank, so
// any number of concurrent evaluations advance an event at most once per
// surge.
type Detector struct {
	canonEventRepo repository.CanonEventRepository
	canonVoteRepo  repository.CanonVoteRepository
	publisher      pubsub.Publisher
}

func NewDetector(
	canonEventRepo repository.CanonEventRepository,
	canonVoteRepo repository.CanonVoteRepository,
	publisher pubsub.Publisher,
) *Detector {
	return &Detector{
		canonEventRepo: canonEventRepo,
		canonVoteRepo:  canonVoteRepo,
		publisher:      publisher,
	}
}

// Evaluate runs surge detection for the event as of now. It returns the rank
// after evaluation and whether this call escalated it.
func (d *Detector) Evaluate(
	ctx context.Context, event *entity.CanonEvent, now time.Time,
) (entity.CanonRank, bool, error) {
	next, ok := event.Rank.Next()
	if !ok {
		// Terminal rank, nothing left to escalate to.
		return event.Rank, false, nil
	}

	cfg := xcontext.Configs(ctx).Canon
	votes, err := d.canonVoteRepo.GetWindow(ctx, event.ID, now.Add(-cfg.VoteWindow))
	if err != nil {
		return event.Rank, false, err
	}

	var score int64
	var upvotes int
	for _, v := range votes {
		score += int64(v.Weight)
		if v.Weight > 0 {
			upvotes++
		}
	}

	if score < int64(cfg.SurgeScoreThreshold) || upvotes < cfg.SurgeUpvoteThreshold {
		return event.Rank, false, nil
	}

	escalated, err := d.canonEventRepo.Escalate(ctx, event.ID, event.Rank, next)
	if err != nil {
		return event.Rank, false, err
	}

	if !escalated {
		// Lost the race against another evaluation. The other one publishes.
		return event.Rank, false, nil
	}

	d.publish(ctx, &Event{
		EventID:     event.ID,
		OwnerUserID: event.OwnerUserID,
		FromRank:    string(event.Rank),
		ToRank:      string(next),
		WindowScore: score,
		Upvotes:     upvotes,
		DetectedAt:  now,
	})

	return next, true, nil
}

func (d *Detector) publish(ctx context.Context, ev *Event) {
	if d.publisher == nil {
		return
	}

	b, err := json.Marshal(ev)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal surge event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Canon.SurgeTopic
	if err := d.publisher.Publish(ctx, topic, &pubsub.Pack{
		Key: []byte(ev.EventID),
		Msg: b,
	}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish surge event: %v", err)
	}
}
