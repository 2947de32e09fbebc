package poller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hwbot/internal/practicum"
	"hwbot/pkg/logx"
)

type fetchResult struct {
	resp *practicum.StatusResponse
	err  error
}

type fakeClient struct {
	results []fetchResult
	calls   int
}

func (f *fakeClient) Fetch(ctx context.Context, fromDate int64) (*practicum.StatusResponse, error) {
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	r := f.results[i]
	return r.resp, r.err
}

type fakeNotifier struct {
	sent []string
	fail bool
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	if f.fail {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, text)
	return nil
}

func strptr(s string) *string { return &s }

func respWith(name, status string, date int64) *practicum.StatusResponse {
	return &practicum.StatusResponse{
		Homeworks:   []practicum.Homework{{Name: strptr(name), Status: strptr(status)}},
		CurrentDate: date,
	}
}

func emptyResp(date int64) *practicum.StatusResponse {
	return &practicum.StatusResponse{CurrentDate: date}
}

func newTestPoller(t *testing.T, c Client, n Notifier) *Poller {
	t.Helper()
	sched, err := ParseSchedule("1s")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	p := New(c, n, sched, logx.Nop())
	p.cursor = 50
	return p
}

func TestStatusChangeSentOnce(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{resp: respWith("X", "approved", 100)}}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	if len(sink.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sink.sent))
	}
	want := `Changed review status for "X". The reviewer liked everything. Hooray!`
	if sink.sent[0] != want {
		t.Fatalf("message = %q, want %q", sink.sent[0], want)
	}
	if p.Cursor() != 100 {
		t.Fatalf("cursor = %d, want 100", p.Cursor())
	}

	// Identical response on the next cycle must be suppressed.
	p.runCycle(context.Background())
	if len(sink.sent) != 1 {
		t.Fatalf("duplicate was not suppressed: %d messages", len(sink.sent))
	}
}

func TestEmptyListSendsNothing(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{resp: emptyResp(120)}}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	if len(sink.sent) != 0 {
		t.Fatalf("expected no messages, got %v", sink.sent)
	}
	if p.Cursor() != 120 {
		t.Fatalf("cursor = %d, want 120", p.Cursor())
	}
}

func TestQuietCycleClearsDedup(t *testing.T) {
	client := &fakeClient{results: []fetchResult{
		{resp: respWith("X", "approved", 100)},
		{resp: emptyResp(110)},
		{resp: respWith("X", "approved", 120)},
	}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background()) // sends
	p.runCycle(context.Background()) // quiet, clears dedup
	p.runCycle(context.Background()) // same message, must send again

	if len(sink.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d: %v", len(sink.sent), sink.sent)
	}
	if sink.sent[0] != sink.sent[1] {
		t.Fatalf("expected identical messages, got %q and %q", sink.sent[0], sink.sent[1])
	}
}

func TestCursorAdvancesMonotonically(t *testing.T) {
	client := &fakeClient{results: []fetchResult{
		{resp: emptyResp(100)},
		{resp: respWith("X", "reviewing", 150)},
		{err: &practicum.Error{Kind: practicum.KindTransport, Msg: "endpoint unreachable"}},
		{resp: emptyResp(200)},
	}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	want := []int64{100, 150, 150, 200}
	for i, w := range want {
		p.runCycle(context.Background())
		if p.Cursor() != w {
			t.Fatalf("cycle %d: cursor = %d, want %d", i, p.Cursor(), w)
		}
	}
}

func TestValidationFailureReportedOnceAndSurvives(t *testing.T) {
	verr := &practicum.Error{Kind: practicum.KindValidation, Msg: "response has no homeworks field"}
	client := &fakeClient{results: []fetchResult{{err: verr}}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	p.runCycle(context.Background())

	if len(sink.sent) != 1 {
		t.Fatalf("expected 1 error report, got %d: %v", len(sink.sent), sink.sent)
	}
	if !strings.HasPrefix(sink.sent[0], "Bot malfunction: ") {
		t.Fatalf("unexpected report: %q", sink.sent[0])
	}
	if p.Cursor() != 50 {
		t.Fatalf("cursor moved on failure: %d", p.Cursor())
	}
	if client.calls != 2 {
		t.Fatalf("loop did not keep polling: %d calls", client.calls)
	}
}

func TestUnknownStatusReportedOnce(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{resp: respWith("X", "celebrated", 100)}}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	p.runCycle(context.Background())

	if len(sink.sent) != 1 {
		t.Fatalf("expected 1 report, got %d: %v", len(sink.sent), sink.sent)
	}
	if !strings.Contains(sink.sent[0], "celebrated") {
		t.Fatalf("report does not name the status: %q", sink.sent[0])
	}
}

func TestDistinctFailuresEachReported(t *testing.T) {
	client := &fakeClient{results: []fetchResult{
		{err: errors.New("dial tcp: connection refused")},
		{err: errors.New("dial tcp: connection refused")},
		{err: &practicum.Error{Kind: practicum.KindServerStatus, Code: 503, Msg: "endpoint returned status 503"}},
	}}
	sink := &fakeNotifier{}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	p.runCycle(context.Background())
	p.runCycle(context.Background())

	if len(sink.sent) != 2 {
		t.Fatalf("expected 2 reports, got %d: %v", len(sink.sent), sink.sent)
	}
	if sink.sent[0] == sink.sent[1] {
		t.Fatalf("distinct failures produced identical reports: %q", sink.sent[0])
	}
}

func TestFailedSendIsRetriedNextCycle(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{resp: respWith("X", "rejected", 100)}}}
	sink := &fakeNotifier{fail: true}
	p := newTestPoller(t, client, sink)

	p.runCycle(context.Background())
	if len(sink.sent) != 0 {
		t.Fatalf("send should have failed, got %v", sink.sent)
	}

	// Delivery recovers; the message was never marked sent, so it goes out.
	sink.fail = false
	p.runCycle(context.Background())
	if len(sink.sent) != 1 {
		t.Fatalf("expected resend after failed delivery, got %d", len(sink.sent))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{resp: emptyResp(100)}}}
	sink := &fakeNotifier{}
	sched, err := ParseSchedule("10ms")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	p := New(client, sink, sched, logx.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := p.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want deadline exceeded", err)
	}
	if client.calls < 2 {
		t.Fatalf("expected multiple cycles before cancel, got %d", client.calls)
	}
}
