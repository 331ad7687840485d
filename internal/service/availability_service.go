package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/logger"
	"parkshare/internal/metrics"
)

type AvailabilityStore interface {
	GetBySpace(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, error)
	ListAvailableInRange(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error)
	Replace(ctx context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot) error
}

type AvailabilityCache interface {
	Get(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, bool)
	Set(ctx context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot)
	Invalidate(ctx context.Context, spaceID uuid.UUID)
}

type SpaceGetter interface {
	GetSpace(ctx context.Context, id uuid.UUID) (*db.Space, error)
}

type AvailabilityService struct {
	store  AvailabilityStore
	cache  AvailabilityCache
	spaces SpaceGetter
}

// NewAvailabilityService accepts a nil cache.
func NewAvailabilityService(store AvailabilityStore, cache AvailabilityCache, spaces SpaceGetter) *AvailabilityService {
	return &AvailabilityService{store: store, cache: cache, spaces: spaces}
}

// GetAvailability returns the space's slots ordered by date, empty when the
// space has none.
func (s *AvailabilityService) GetAvailability(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, error) {
	if s.cache != nil {
		if slots, ok := s.cache.Get(ctx, spaceID); ok {
			return slots, nil
		}
	}
	slots, err := s.store.GetBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, spaceID, slots)
	}
	return slots, nil
}

// ReplaceAvailability makes the available entries of m the space's complete
// availability. The map is fully parsed before anything is written.
func (s *AvailabilityService) ReplaceAvailability(ctx context.Context, spaceID uuid.UUID, m entities.AvailabilityMap) error {
	slots, err := SlotsFromMap(spaceID, m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	err = s.store.Replace(ctx, spaceID, slots)
	metrics.RecordAvailabilityReplace(len(slots), err)
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, spaceID)
	}
	logger.Info("availability replaced", "space_id", spaceID.String(), "slots", len(slots))
	return nil
}

// IsDateRangeAvailable returns the available slots with startDate <= date <= endDate.
// Callers decide whether the rows cover their request, see CoversRequest.
func (s *AvailabilityService) IsDateRangeAvailable(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidRequest)
	}
	return s.store.ListAvailableInRange(ctx, spaceID, startDate, endDate)
}

// AuthorizeOwner returns ErrForbidden unless userID owns the space.
func (s *AvailabilityService) AuthorizeOwner(ctx context.Context, spaceID, userID uuid.UUID) error {
	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return err
	}
	if space.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}
