package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tamattalab/sentinal/pkg/httputil"
)

// Dispatcher posts reports to the collection endpoint with bounded
// concurrency. When every slot is busy the report is dropped and counted;
// the engagement loop never waits on delivery.
type Dispatcher struct {
	url     string
	timeout time.Duration
	sem     *httputil.Semaphore
	client  *http.Client
	log     *zap.Logger
}

// NewDispatcher builds a dispatcher. An empty url disables delivery; the
// dispatcher still accepts reports and drops them silently so callers need
// no special casing.
func NewDispatcher(url string, timeout time.Duration, concurrency int, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		url:     url,
		timeout: timeout,
		sem:     httputil.NewSemaphore(concurrency),
		client:  httputil.Client(httputil.TierMedium),
		log:     log,
	}
}

// Enabled reports whether an endpoint is configured.
func (d *Dispatcher) Enabled() bool {
	return d.url != ""
}

// DispatchAsync delivers the report in the background. Saturation drops
// the report rather than queueing it.
func (d *Dispatcher) DispatchAsync(p Payload) {
	if !d.Enabled() {
		return
	}
	if !d.sem.TryAcquire() {
		d.log.Warn("report dropped, dispatch slots saturated",
			zap.String("sessionId", p.SessionID),
			zap.Int64("dropped", d.sem.DroppedCount()))
		return
	}
	go func() {
		defer d.sem.Release()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.Dispatch(ctx, p); err != nil {
			d.log.Warn("report delivery failed",
				zap.String("sessionId", p.SessionID),
				zap.String("reportId", p.ReportID),
				zap.Error(err))
			return
		}
		d.log.Info("report delivered",
			zap.String("sessionId", p.SessionID),
			zap.String("reportId", p.ReportID),
			zap.Int("intelCount", p.ExtractedIntelligence.Count()))
	}()
}

// Dispatch posts one report synchronously. Used by the force endpoint and
// by DispatchAsync's worker.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) error {
	if !d.Enabled() {
		return fmt.Errorf("no report endpoint configured")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("report endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Stats exposes dispatch backpressure counters.
func (d *Dispatcher) Stats() httputil.SemaphoreStats {
	return d.sem.Stats()
}
