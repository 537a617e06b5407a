package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ingester memproses satu pesan masuk
type Ingester interface {
	Ingest(ctx context.Context, businessID uuid.UUID, ev InboundEvent) error
}

type inboundJob struct {
	businessID uuid.UUID
	event      InboundEvent
}

// Dispatcher menjalankan pipeline per percakapan (business + pengirim) secara berurutan,
// percakapan yang berbeda jalan paralel
type Dispatcher struct {
	ingester Ingester
	timeout  time.Duration
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	queues map[string][]inboundJob
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher membuat dispatcher. timeout membatasi satu pesan.
func NewDispatcher(ingester Ingester, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		ingester: ingester,
		timeout:  timeout,
		logger:   utils.Component("dispatcher"),
		ctx:      ctx,
		cancel:   cancel,
		queues:   make(map[string][]inboundJob),
	}
}

// HandleChannelMessage adalah whatsapp.InboundHandler untuk registry
func (d *Dispatcher) HandleChannelMessage(businessID string, msg whatsapp.MessageReceived) {
	id, err := uuid.Parse(businessID)
	if err != nil {
		d.logger.Error().Err(err).Str("business_id", businessID).Msg("❌ Invalid business id on inbound message")
		return
	}
	d.Dispatch(id, InboundEvent{
		SenderAddress: msg.SenderAddress,
		PushName:      msg.PushName,
		Text:          msg.Text,
		ExternalID:    msg.ExternalID,
		IsSelf:        msg.IsSelf,
	})
}

// Dispatch mengantrikan event. Return false kalau dispatcher sudah berhenti.
func (d *Dispatcher) Dispatch(businessID uuid.UUID, ev InboundEvent) bool {
	key := businessID.String() + "|" + ev.SenderAddress
	job := inboundJob{businessID: businessID, event: ev}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}

	if queue, running := d.queues[key]; running {
		d.queues[key] = append(queue, job)
		return true
	}

	// Belum ada worker untuk percakapan ini: entry kosong menandai worker aktif
	d.queues[key] = []inboundJob{}
	d.wg.Add(1)
	go d.run(key, job)
	return true
}

func (d *Dispatcher) run(key string, job inboundJob) {
	defer d.wg.Done()
	for {
		d.process(job)

		d.mu.Lock()
		queue := d.queues[key]
		if len(queue) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		job = queue[0]
		d.queues[key] = queue[1:]
		d.mu.Unlock()
	}
}

func (d *Dispatcher) process(job inboundJob) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("business_id", job.businessID.String()).Str("panic", fmt.Sprint(r)).Msg("💥 Recovered from panic in message pipeline")
		}
	}()

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	if err := d.ingester.Ingest(ctx, job.businessID, job.event); err != nil {
		d.logger.Error().
			Err(err).
			Str("business_id", job.businessID.String()).
			Str("sender", job.event.SenderAddress).
			Msg("❌ Failed to process inbound message")
	}
}

// Stop menolak event baru dan menunggu antrian selesai. Kalau ctx habis duluan,
// pipeline yang masih jalan dibatalkan.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
