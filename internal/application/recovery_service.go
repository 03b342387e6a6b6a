package application

import (
	"context"
	"errors"
	"fmt"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

type RestoreReport struct {
	Restored int
	Removed  int
	Skipped  int
}

type RecoveryServiceImpl struct {
	components repository.Component
	resolver   ComponentResolver
	registry   ComponentRegistry
	metrics    Metrics
	logger     Logger
}

func NewRecoveryServiceImpl(components repository.Component, resolver ComponentResolver, registry ComponentRegistry, metrics Metrics, logger Logger) *RecoveryServiceImpl {
	return &RecoveryServiceImpl{
		components: components,
		resolver:   resolver,
		registry:   registry,
		metrics:    metrics,
		logger:     logger,
	}
}

// Restore re-registers every persisted component whose message still exists.
// Records pointing at a deleted channel or message are removed. A decision
// panel record without an application id is skipped and kept.
func (s *RecoveryServiceImpl) Restore(ctx context.Context) (RestoreReport, error) {
	var report RestoreReport

	records, err := s.components.ListComponents(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list components: %w", err)
	}

	for _, rec := range records {
		outcome := s.restore(ctx, rec)
		switch outcome {
		case outcomeRestored:
			report.Restored++
		case outcomeRemoved:
			report.Removed++
		case outcomeSkipped:
			report.Skipped++
		}
		s.metrics.ComponentRestored(outcome)
	}

	s.logger.Info("components restored: %d, removed: %d, skipped: %d",
		report.Restored, report.Removed, report.Skipped)
	return report, nil
}

func (s *RecoveryServiceImpl) restore(ctx context.Context, rec models.PersistedComponent) string {
	if err := s.resolver.ResolveChannel(ctx, rec.ChannelID); err != nil {
		return s.drop(ctx, rec, "channel", err)
	}
	if err := s.resolver.ResolveMessage(ctx, rec.ChannelID, rec.MessageID); err != nil {
		return s.drop(ctx, rec, "message", err)
	}

	c, err := models.DecodeComponent(rec.Kind, rec.Payload)
	if errors.Is(err, models.ErrMissingApplicationID) {
		s.logger.Warn("component %s has no application id, skipping", rec.MessageID)
		return outcomeSkipped
	}
	if err != nil {
		return s.drop(ctx, rec, "payload", err)
	}

	s.registry.Register(rec.MessageID, c)
	return outcomeRestored
}

func (s *RecoveryServiceImpl) drop(ctx context.Context, rec models.PersistedComponent, what string, cause error) string {
	if errors.Is(cause, models.ErrNotFound) {
		s.logger.Info("%s of component %s is gone, removing record", what, rec.MessageID)
	} else {
		s.logger.Error("failed to restore component %s (%s): %v", rec.MessageID, what, cause)
	}

	if err := s.components.DeleteComponent(ctx, rec.MessageID); err != nil {
		s.logger.Error("failed to remove component %s: %v", rec.MessageID, err)
		return outcomeFailed
	}
	return outcomeRemoved
}
