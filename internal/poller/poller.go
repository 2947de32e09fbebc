// Package poller drives the fetch -> validate -> parse -> notify loop.
package poller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"hwbot/internal/practicum"
	"hwbot/pkg/logx"
)

// Client fetches status changes since the given unix timestamp.
type Client interface {
	Fetch(ctx context.Context, fromDate int64) (*practicum.StatusResponse, error)
}

// Notifier delivers one rendered message to the chat.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Poller owns the poll cursor and the dedup state. Both are touched only
// between cycles by Run's goroutine, so they need no locking; the schedule
// is the exception because config reloads swap it from another goroutine.
type Poller struct {
	client Client
	notify Notifier
	log    logx.Logger

	mu       sync.Mutex
	schedule Schedule

	cursor int64
	dedup  dedup
	now    func() time.Time
}

func New(client Client, notify Notifier, schedule Schedule, log logx.Logger) *Poller {
	return &Poller{
		client:   client,
		notify:   notify,
		schedule: schedule,
		log:      log,
		now:      time.Now,
	}
}

// SetSchedule swaps the cadence. It takes effect after the current cycle.
func (p *Poller) SetSchedule(s Schedule) {
	p.mu.Lock()
	p.schedule = s
	p.mu.Unlock()
	p.log.Info("poll schedule updated", logx.String("schedule", s.String()))
}

// Cursor returns the poll cursor (unix seconds). Only safe between cycles.
func (p *Poller) Cursor() int64 { return p.cursor }

// Run loops until ctx is cancelled. It never returns on a cycle failure:
// every error is classified, reported through the notifier, and retried on
// the next tick.
func (p *Poller) Run(ctx context.Context) error {
	if p.cursor == 0 {
		p.cursor = p.now().Unix()
	}
	p.log.Info("poller started", logx.Int64("cursor", p.cursor))

	for {
		p.runCycle(ctx)

		p.mu.Lock()
		sched := p.schedule
		p.mu.Unlock()

		wait := time.Until(sched.Next(p.now()))
		if wait < 0 {
			wait = 0
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return ctx.Err()
		case <-t.C:
		}
	}
}

// runCycle performs one fetch-and-report pass. At most one message goes out.
func (p *Poller) runCycle(ctx context.Context) {
	resp, err := p.client.Fetch(ctx, p.cursor)
	if err != nil {
		p.reportFailure(ctx, err)
		return
	}

	if len(resp.Homeworks) == 0 {
		p.cursor = resp.CurrentDate
		p.dedup.Clear()
		p.log.Debug("review status unchanged", logx.Int64("cursor", p.cursor))
		return
	}

	msg, err := practicum.ParseStatus(resp.Homeworks[0])
	if err != nil {
		p.reportFailure(ctx, err)
		return
	}
	p.cursor = resp.CurrentDate

	if !p.dedup.ShouldSend(msg) {
		p.log.Debug("duplicate status suppressed")
		return
	}
	if err := p.notify.Send(ctx, msg); err == nil {
		p.dedup.MarkSent(msg)
	}
}

// reportFailure routes a classified error through the same dedup channel as
// status messages, so an identical consecutive failure is sent once.
func (p *Poller) reportFailure(ctx context.Context, err error) {
	perr := practicum.Classify(err)

	if perr.ContractViolation() {
		p.log.Error("poll cycle failed", logx.String("kind", perr.Kind.String()), logx.Err(perr))
	} else {
		p.log.Warn("poll cycle failed", logx.String("kind", perr.Kind.String()), logx.Err(perr))
	}
	if perr.Kind == practicum.KindServerStatus && perr.Code == http.StatusUnauthorized {
		p.log.Error("endpoint rejected the token; check PRACTICUM_TOKEN")
	}

	msg := "Bot malfunction: " + perr.Error()
	if !p.dedup.ShouldSend(msg) {
		return
	}
	if serr := p.notify.Send(ctx, msg); serr == nil {
		p.dedup.MarkSent(msg)
	}
}
