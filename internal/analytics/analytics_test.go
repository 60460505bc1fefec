package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/kafka"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func TestCollectorPublishesBufferedEventsOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 10)
	c.Start(context.Background())

	c.Track(SearchEvent{Query: "jane", Matched: 1, Total: 2})
	c.Track(SearchEvent{Query: "xyz", Matched: 0, Total: 2})
	c.Close()

	require.Len(t, pub.events, 2)
	assert.Equal(t, "jane", pub.events[0].Key)
	assert.Equal(t, "xyz", pub.events[1].Value.(SearchEvent).Query)
}

func TestCollectorSurvivesPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	c := NewCollector(pub, 4)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	c.Track(SearchEvent{Query: "a"})
	cancel()
	c.Track(SearchEvent{Query: "b"})
	c.Close()
	assert.Len(t, pub.events, 2)
}

func TestCollectorDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 1)
	c.Track(SearchEvent{Query: "kept"})
	c.Track(SearchEvent{Query: "dropped"})
	c.Start(context.Background())
	c.Close()
	require.Len(t, pub.events, 1)
	assert.Equal(t, "kept", pub.events[0].Key)
}

func TestCollectorTrackAfterClose(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 4)
	c.Start(context.Background())
	c.Track(SearchEvent{Query: "early"})
	c.Close()

	assert.NotPanics(t, func() {
		c.Track(SearchEvent{Query: "late"})
		c.Close()
	})
	require.Len(t, pub.events, 1)
	assert.Equal(t, "early", pub.events[0].Key)
}

func TestCollectorConcurrentTrackAndClose(t *testing.T) {
	c := NewCollector(&recordingPublisher{}, 8)
	c.Start(context.Background())

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				c.Track(SearchEvent{Query: "q"})
			}
		})
	}
	c.Close()
	wg.Wait()
}

func TestCollectorCloseWithoutStart(t *testing.T) {
	c := NewCollector(&recordingPublisher{}, 1)
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked without Start")
	}
}

func TestAggregatorStats(t *testing.T) {
	a := NewAggregator()
	a.Record(SearchEvent{Query: "jane", Matched: 1, Total: 2, LatencyMs: 2})
	a.Record(SearchEvent{Query: "jane", Matched: 1, Total: 2, LatencyMs: 4})
	a.Record(SearchEvent{Query: "xyz", Matched: 0, Total: 2, LatencyMs: 1})
	a.Record(SearchEvent{Query: "", Matched: 2, Total: 2, LatencyMs: 1})

	stats := a.Stats()
	assert.Equal(t, int64(4), stats.TotalSearches)
	assert.Equal(t, int64(1), stats.ZeroResultCount)
	assert.Equal(t, int64(1), stats.ClearedCount)
	assert.InDelta(t, 1.0, stats.AvgMatched, 0.001)
	assert.InDelta(t, 2.0, stats.AvgLatencyMs, 0.001)
	assert.Equal(t, []QueryCount{{Query: "jane", Count: 2}, {Query: "xyz", Count: 1}}, stats.TopQueries)
	assert.Equal(t, []QueryCount{{Query: "xyz", Count: 1}}, stats.ZeroResultQueries)
	assert.Equal(t, int64(1), stats.P50LatencyMs)
	assert.Equal(t, int64(4), stats.P99LatencyMs)
}

func TestPercentileNearestRank(t *testing.T) {
	assert.Zero(t, Percentile([]int64(nil), 50))

	two := []int64{10, 20}
	assert.Equal(t, int64(10), Percentile(two, 50))
	assert.Equal(t, int64(20), Percentile(two, 51))
	assert.Equal(t, int64(10), Percentile(two, 0))
	assert.Equal(t, int64(20), Percentile(two, 100))

	hundred := make([]time.Duration, 100)
	for i := range hundred {
		hundred[i] = time.Duration(i+1) * time.Millisecond
	}
	assert.Equal(t, 50*time.Millisecond, Percentile(hundred, 50))
	assert.Equal(t, 95*time.Millisecond, Percentile(hundred, 95))
	assert.Equal(t, 100*time.Millisecond, Percentile(hundred, 100))
}

func TestAggregatorHandleMessage(t *testing.T) {
	a := NewAggregator()
	handle := a.HandleMessage()

	body, err := json.Marshal(SearchEvent{Query: "cardiology", Matched: 3, Timestamp: time.Now()})
	require.NoError(t, err)
	require.NoError(t, handle(context.Background(), []byte("cardiology"), body))
	require.NoError(t, handle(context.Background(), nil, []byte("not json")))

	assert.Equal(t, int64(1), a.Stats().TotalSearches)
}

func TestTopNLimitsAndOrders(t *testing.T) {
	counts := map[string]int64{"b": 2, "a": 2, "c": 5, "d": 1}
	got := topN(counts, 3)
	assert.Equal(t, []QueryCount{{"c", 5}, {"a", 2}, {"b", 2}}, got)
}

func TestHandlerStats(t *testing.T) {
	a := NewAggregator()
	a.Record(SearchEvent{Query: "jane", Matched: 1})

	rec := httptest.NewRecorder()
	NewHandler(a).Stats(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats AggregatedStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, int64(1), stats.TotalSearches)

	rec = httptest.NewRecorder()
	NewHandler(nil).Stats(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	assert.JSONEq(t, `{"status":"disabled"}`, rec.Body.String())
}
