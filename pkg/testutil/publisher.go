package testutil

import (
	"context"
	"sync"

	"github.com/canonlab/backend/pkg/pubsub"
)

// MockPublisher records every published pack per topic.
type MockPublisher struct {
	mutex  sync.Mutex
	Packs  map[string][]*pubsub.Pack
	Failed error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Packs: make(map[string][]*pubsub.Pack)}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.Failed != nil {
		return m.Failed
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Packs[topic] = append(m.Packs[topic], pack)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

func (m *MockPublisher) Published(topic string) []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.Packs[topic]
}
