package cron

import (
	"context"
	"errors"
	"time"

	"concierge/config"
	"concierge/models"
	"concierge/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OverdueSweeper is the work behind an overdue sweep task.
type OverdueSweeper interface {
	MarkOverdueInvoices(ctx context.Context, now time.Time) (int, error)
}

// Worker runs the asynq server and the periodic enqueuer for the overdue sweep.
type Worker struct {
	server *asynq.Server
	client *asynq.Client
	mux    *asynq.ServeMux
	every  time.Duration
	logger *zap.Logger
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewWorker wires the sweep handler onto a fresh asynq server.
func NewWorker(sweeper OverdueSweeper, logger *zap.Logger) *Worker {
	every := time.Duration(config.AppConfig.OverdueSweepMinutes) * time.Minute
	if every <= 0 {
		every = 15 * time.Minute
	}

	srv := asynq.NewServer(redisOpts(), asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOverdueSweep, HandleOverdueSweep(sweeper, time.Now, logger))

	return &Worker{
		server: srv,
		client: asynq.NewClient(redisOpts()),
		mux:    mux,
		every:  every,
		logger: logger,
	}
}

// HandleOverdueSweep marks overdue invoices as of now().
func HandleOverdueSweep(sweeper OverdueSweeper, now func() time.Time, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseOverdueSweepPayload(task)
		if err != nil {
			logger.Error("Invalid overdue sweep payload", zap.Error(err))
			return err
		}
		n, err := sweeper.MarkOverdueInvoices(ctx, now().UTC())
		if err != nil {
			logger.Error("Overdue sweep failed", zap.String("requestedBy", p.RequestedBy), zap.Error(err))
			return err
		}
		logger.Debug("Overdue sweep finished", zap.String("requestedBy", p.RequestedBy), zap.Int("marked", n))
		return nil
	}
}

// Start runs the server with retries and enqueues a sweep every interval until ctx ends.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("Starting overdue sweep worker", zap.Duration("every", w.every))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Run(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("Worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Worker gave up; overdue invoices will not be swept")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	go func() {
		ticker := time.NewTicker(w.every)
		defer ticker.Stop()
		w.enqueue()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.enqueue()
			}
		}
	}()
}

func (w *Worker) enqueue() {
	task, opts, err := tasks.NewOverdueSweepTask(models.OverdueSweepPayload{RequestedBy: "scheduler"}, w.every)
	if err != nil {
		w.logger.Error("Failed to build overdue sweep task", zap.Error(err))
		return
	}
	if _, err := w.client.Enqueue(task, opts...); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		w.logger.Warn("Failed to enqueue overdue sweep", zap.Error(err))
	}
}

// Shutdown stops the server and closes the enqueue client.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
	if err := w.client.Close(); err != nil {
		w.logger.Warn("Failed to close queue client", zap.Error(err))
	}
}
