// Package metrics records routine and infrastructure metrics with Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	tasksCompleted  *prometheus.CounterVec
	actionsLogged   *prometheus.CounterVec
	pointsTotal     prometheus.Counter
	happiness       prometheus.Gauge
	streakDays      prometheus.Gauge
	rollovers       *prometheus.CounterVec
	saveDuration    *prometheus.HistogramVec
	flavorDuration  *prometheus.HistogramVec
	remindersTotal  *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		tasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petd_tasks_completed_total",
				Help: "Total number of routine tasks completed by task id",
			},
			[]string{"task_id"},
		),
		actionsLogged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petd_actions_logged_total",
				Help: "Total number of ad-hoc care actions logged by label",
			},
			[]string{"action"},
		),
		pointsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "petd_points_awarded_total",
			Help: "Total points awarded for tasks and actions",
		}),
		happiness: factory.NewGauge(prometheus.GaugeOpts{
			Name: "petd_happiness",
			Help: "Current pet happiness (0-100)",
		}),
		streakDays: factory.NewGauge(prometheus.GaugeOpts{
			Name: "petd_streak_days",
			Help: "Current streak of fully completed days",
		}),
		rollovers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petd_rollovers_total",
				Help: "Day rollovers by outcome",
			},
			[]string{"outcome"},
		),
		saveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petd_store_write_duration_seconds",
				Help:    "Duration of background store writes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "status"},
		),
		flavorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petd_flavor_duration_seconds",
				Help:    "Duration of AI flavor generation",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"kind", "status"},
		),
		remindersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petd_reminders_total",
				Help: "Reminders emitted by kind",
			},
			[]string{"kind"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petd_events_published_total",
				Help: "Routine events published by type and status",
			},
			[]string{"type", "status"},
		),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) TaskCompleted(taskID string, points int) {
	if r == nil {
		return
	}
	r.tasksCompleted.WithLabelValues(taskID).Inc()
	r.pointsTotal.Add(float64(points))
}

func (r *Recorder) ActionLogged(label string, points int) {
	if r == nil {
		return
	}
	r.actionsLogged.WithLabelValues(label).Inc()
	r.pointsTotal.Add(float64(points))
}

func (r *Recorder) SetState(happiness, streak int) {
	if r == nil {
		return
	}
	r.happiness.Set(float64(happiness))
	r.streakDays.Set(float64(streak))
}

// Rollover counts a day change; outcome is first_day, extended or broken.
func (r *Recorder) Rollover(outcome string) {
	if r == nil {
		return
	}
	r.rollovers.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Reminder(kind string) {
	if r == nil {
		return
	}
	r.remindersTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) EventPublished(eventType string, err error) {
	if r == nil {
		return
	}
	r.eventsPublished.WithLabelValues(eventType, status(err != nil)).Inc()
}

func (r *Recorder) ObserveSave(op string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.saveDuration.WithLabelValues(op, status(err != nil)).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveFlavor(kind string, elapsed time.Duration, fallback bool) {
	if r == nil {
		return
	}
	s := "ok"
	if fallback {
		s = "fallback"
	}
	r.flavorDuration.WithLabelValues(kind, s).Observe(elapsed.Seconds())
}

func status(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
