// Package storage implements the engine's repository interfaces on GORM.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gatherpoint/checkin-go/engine"
	"github.com/gatherpoint/checkin-go/models"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

var _ engine.VenueRepository = (*Store)(nil)
var _ engine.ParticipantRepository = (*Store)(nil)
var _ engine.EventRepository = (*Store)(nil)
var _ engine.ParticipationRepository = (*Store)(nil)
var _ engine.EmissionRepository = (*Store)(nil)
var _ engine.CheckInRepository = (*Store)(nil)

func (s *Store) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	err := s.DB.WithContext(ctx).First(&venue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (s *Store) GetParticipant(ctx context.Context, id uint) (*models.Participant, error) {
	var participant models.Participant
	err := s.DB.WithContext(ctx).First(&participant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *Store) ListVenueEventsBetween(ctx context.Context, venueID uint, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := s.DB.WithContext(ctx).
		Where("venue_id = ? AND starts_at >= ? AND starts_at < ?", venueID, from, to).
		Order("starts_at, id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) GetParticipation(ctx context.Context, participantID, eventID uint) (*models.ParticipationRecord, error) {
	var record models.ParticipationRecord
	err := s.DB.WithContext(ctx).
		Where("participant_id = ? AND event_id = ?", participantID, eventID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) FindEmission(ctx context.Context, venueID uint, day string) (*models.DailyCodeEmission, error) {
	var emission models.DailyCodeEmission
	err := s.DB.WithContext(ctx).
		Where("venue_id = ? AND code_date = ?", venueID, day).
		First(&emission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emission, nil
}

func (s *Store) FindEmissionByCode(ctx context.Context, code, day string) (*models.DailyCodeEmission, error) {
	var emission models.DailyCodeEmission
	err := s.DB.WithContext(ctx).
		Where("code = ? AND code_date = ?", code, day).
		First(&emission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emission, nil
}

func (s *Store) CreateEmission(ctx context.Context, emission *models.DailyCodeEmission) error {
	err := s.DB.WithContext(ctx).Create(emission).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return engine.ErrConflict
	}
	return err
}

func (s *Store) RevokeEmission(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).
		Model(&models.DailyCodeEmission{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (s *Store) FindApproved(ctx context.Context, participantID, eventID uint) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	err := s.DB.WithContext(ctx).
		Where("participant_id = ? AND event_id = ? AND outcome = ?", participantID, eventID, models.CheckInApproved).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) SaveDenied(ctx context.Context, record *models.CheckInRecord) error {
	return s.DB.WithContext(ctx).Create(record).Error
}

// CommitApproved inserts the approved record and applies the ledger increment
// in one transaction. The partial unique index on approved
// (participant_id, event_id) makes the insert the serialization point: a
// second approval fails with a duplicate-key error before any points move.
func (s *Store) CommitApproved(ctx context.Context, record *models.CheckInRecord) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Model(&models.Participant{}).
			Where("id = ?", record.ParticipantID).
			Update("total_points", gorm.Expr("total_points + ?", record.AwardedPoints)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return engine.ErrConflict
	}
	return err
}
