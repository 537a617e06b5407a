package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIngester struct {
	mu      sync.Mutex
	seen    map[string][]string
	active  map[string]int
	overlap bool
	block   chan struct{}
	panicOn string
}

func newRecordingIngester() *recordingIngester {
	return &recordingIngester{seen: map[string][]string{}, active: map[string]int{}}
}

func (r *recordingIngester) Ingest(ctx context.Context, businessID uuid.UUID, ev InboundEvent) error {
	key := businessID.String() + "|" + ev.SenderAddress

	r.mu.Lock()
	r.active[key]++
	if r.active[key] > 1 {
		r.overlap = true
	}
	block := r.block
	r.mu.Unlock()

	if ev.Text == r.panicOn {
		r.mu.Lock()
		r.active[key]--
		r.mu.Unlock()
		panic("boom")
	}

	if block != nil && ev.SenderAddress == "slow" {
		<-block
	}
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	r.seen[key] = append(r.seen[key], ev.Text)
	r.active[key]--
	r.mu.Unlock()
	return nil
}

func (r *recordingIngester) texts(businessID uuid.UUID, sender string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen[businessID.String()+"|"+sender]...)
}

func TestDispatcher_PreservesOrderPerConversation(t *testing.T) {
	ing := newRecordingIngester()
	d := NewDispatcher(ing, time.Second)
	business := uuid.New()

	want := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	for _, text := range want {
		require.True(t, d.Dispatch(business, InboundEvent{SenderAddress: "a", Text: text}))
		require.True(t, d.Dispatch(business, InboundEvent{SenderAddress: "b", Text: text}))
	}
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, want, ing.texts(business, "a"))
	assert.Equal(t, want, ing.texts(business, "b"))
	assert.False(t, ing.overlap, "one conversation never runs two events at once")
}

func TestDispatcher_SlowConversationDoesNotBlockOthers(t *testing.T) {
	ing := newRecordingIngester()
	ing.block = make(chan struct{})
	d := NewDispatcher(ing, 5*time.Second)
	business := uuid.New()

	d.Dispatch(business, InboundEvent{SenderAddress: "slow", Text: "stuck"})
	d.Dispatch(business, InboundEvent{SenderAddress: "fast", Text: "hi"})

	assert.Eventually(t, func() bool {
		return len(ing.texts(business, "fast")) == 1
	}, time.Second, 5*time.Millisecond)

	close(ing.block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, []string{"stuck"}, ing.texts(business, "slow"))
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	ing := newRecordingIngester()
	ing.panicOn = "explode"
	d := NewDispatcher(ing, time.Second)
	business := uuid.New()

	d.Dispatch(business, InboundEvent{SenderAddress: "a", Text: "explode"})
	d.Dispatch(business, InboundEvent{SenderAddress: "a", Text: "after"})
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, []string{"after"}, ing.texts(business, "a"))
}

func TestDispatcher_RejectsAfterStop(t *testing.T) {
	d := NewDispatcher(newRecordingIngester(), time.Second)
	require.NoError(t, d.Stop(context.Background()))
	assert.False(t, d.Dispatch(uuid.New(), InboundEvent{SenderAddress: "a", Text: "late"}))
}

func TestDispatcher_HandleChannelMessage(t *testing.T) {
	ing := newRecordingIngester()
	d := NewDispatcher(ing, time.Second)
	business := uuid.New()

	d.HandleChannelMessage("not-a-uuid", whatsapp.MessageReceived{SenderAddress: "a", Text: "dropped"})
	d.HandleChannelMessage(business.String(), whatsapp.MessageReceived{SenderAddress: "a", Text: "hello"})
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, []string{"hello"}, ing.texts(business, "a"))
}

func TestDispatcher_EndToEndPersistsEveryEvent(t *testing.T) {
	env := newTestEnv(t)
	env.enableAI(t, "en")
	d := NewDispatcher(env.ingest, 5*time.Second)

	for i := 0; i < 3; i++ {
		d.Dispatch(env.business.ID, InboundEvent{SenderAddress: "15550001111", Text: "hi"})
		d.Dispatch(env.business.ID, InboundEvent{SenderAddress: "15550002222", Text: "hey"})
	}
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, int64(6), env.countMessages(t, "incoming"))
	assert.Equal(t, int64(6), env.countMessages(t, "outgoing"))
}
