// File: internal/jobs/strategy_expiry.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"strategy_backend/internal/config"
	"strategy_backend/internal/strategy"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StrategyExpiryJob periodically transitions active strategies whose expiry
// date has passed to the expired status.
type StrategyExpiryJob struct {
	strategyService *strategy.Service
	logger          *zap.Logger
	cfg             *config.Config
	cronScheduler   *cron.Cron
}

// NewStrategyExpiryJob creates a new StrategyExpiryJob.
func NewStrategyExpiryJob(
	strategyService *strategy.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *StrategyExpiryJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &StrategyExpiryJob{
		strategyService: strategyService,
		logger:          logger.Named("StrategyExpiryJob"),
		cfg:             cfg,
		cronScheduler:   scheduler,
	}
}

// SetupAndStart schedules and starts the cron job. An empty schedule disables
// the job without failing startup.
func (j *StrategyExpiryJob) SetupAndStart() error {
	jobSpec := j.cfg.StrategyExpiryJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Strategy expiry job schedule not defined (STRATEGY_EXPIRY_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule strategy expiry job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Strategy expiry job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *StrategyExpiryJob) runJob() {
	j.logger.Info("Starting strategy expiry job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expiredCount, err := j.strategyService.ExpireOverdue(ctx, time.Now())
	if err != nil {
		j.logger.Error("Strategy expiry job run failed", zap.Error(err))
	} else {
		j.logger.Info("Strategy expiry job run completed", zap.Int64("strategies_expired", expiredCount))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *StrategyExpiryJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping strategy expiry job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Strategy expiry job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Strategy expiry job scheduler stop timed out.")
		}
	}
}

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
