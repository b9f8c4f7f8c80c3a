package repository

import (
	"context"
	"time"

	"labflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteSeries(ctx context.Context, seriesID uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := GetDB(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	if err := GetDB(ctx, r.db).
		Where("date >= ? AND date <= ?", from, to).
		Order("date asc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Event{}).Error
}

// DeleteSeries removes every materialized row of a recurring event.
func (r *eventRepository) DeleteSeries(ctx context.Context, seriesID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("series_id = ?", seriesID).Delete(&model.Event{}).Error
}
