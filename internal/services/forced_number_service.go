package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"github.com/mohagy/roulette-sub003/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ForcedNumberServiceImpl implements ForcedNumberService
var _ ForcedNumberService = (*ForcedNumberServiceImpl)(nil)

// ForcedNumberServiceImpl manages pre-committed outcome directives.
type ForcedNumberServiceImpl struct {
	forcedRepo repositories.ForcedNumberRepository
	cycleRepo  repositories.DrawCycleRepository
}

// NewForcedNumberService creates a new ForcedNumberServiceImpl
func NewForcedNumberService(forcedRepo repositories.ForcedNumberRepository, cycleRepo repositories.DrawCycleRepository) *ForcedNumberServiceImpl {
	return &ForcedNumberServiceImpl{
		forcedRepo: forcedRepo,
		cycleRepo:  cycleRepo,
	}
}

// Create validates and stores a directive for a current or future draw
func (s *ForcedNumberServiceImpl) Create(ctx context.Context, targetDrawNumber int64, number int, createdBy, reason string) (*models.ForcedNumberDirective, error) {
	if !utils.ValidNumber(number) {
		return nil, fmt.Errorf("%w: forced number must be between 0 and 36", models.ErrInvalidRange)
	}

	current, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check current cycle: %w", err)
	}
	if err == nil && targetDrawNumber < current.DrawNumber {
		return nil, fmt.Errorf("%w: draw %d has already resolved (current is %d)",
			models.ErrInvalidRange, targetDrawNumber, current.DrawNumber)
	}

	directive := &models.ForcedNumberDirective{
		TargetDrawNumber: targetDrawNumber,
		ForcedNumber:     number,
		Source:           "admin",
		Reason:           reason,
		CreatedBy:        createdBy,
	}
	if err := s.forcedRepo.Create(ctx, directive); err != nil {
		return nil, err
	}
	slog.Info("Forced number directive created",
		"targetDrawNumber", targetDrawNumber, "number", number, "createdBy", createdBy)
	return directive, nil
}

// Peek returns the pending directive without consuming it
func (s *ForcedNumberServiceImpl) Peek(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	return s.forcedRepo.FindPending(ctx, drawNumber)
}

// Consume atomically claims the pending directive for a draw
func (s *ForcedNumberServiceImpl) Consume(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	return s.forcedRepo.Consume(ctx, drawNumber)
}
