// Package main runs the background email worker.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/internal/mailer"
	"github.com/semzi/sledge/pkg/queue"
	"github.com/semzi/sledge/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	sender := mailer.New(cfg.Email, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go run(workerCtx, jobQueue, sender, logger)
	logger.Info("email worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("email worker stopped")
}

// run consumes email jobs until ctx is cancelled. Failed sends are
// retried with a backoff; after the retry budget the job lands in the
// dead-letter queue.
func run(ctx context.Context, q *queue.Queue, sender *mailer.Mailer, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := q.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		var payload queue.EmailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			logger.Warn("discarding malformed job", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := sender.Send(payload); err != nil {
			logger.Error("send failed",
				zap.String("job_id", job.ID),
				zap.String("email_type", string(payload.EmailType)),
				zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			if err := q.Retry(ctx, job); err != nil {
				logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
			continue
		}

		logger.Info("email sent",
			zap.String("job_id", job.ID),
			zap.String("email_type", string(payload.EmailType)),
			zap.String("to", payload.RecipientEmail))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
