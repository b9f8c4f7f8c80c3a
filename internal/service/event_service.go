package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labflow/internal/model"
	"labflow/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateEventRequest struct {
	Title        string `json:"title" binding:"required"`
	Date         string `json:"date" binding:"required"` // 2006-01-02
	IsImportant  bool   `json:"is_important"`
	IsRecurring  bool   `json:"is_recurring"`
	RecurringDay int    `json:"recurring_day"`
	Notes        string `json:"notes"`
}

type UpdateEventRequest struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	IsImportant *bool   `json:"is_important"`
	Notes       *string `json:"notes"`
}

// --- Interface ---

type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) ([]model.Event, error)
	ListEvents(ctx context.Context, from, to time.Time) ([]model.Event, error)
	UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string, wholeSeries bool) error
}

type eventService struct {
	eventRepo repository.EventRepository
	txManager repository.TransactionManager
}

func NewEventService(eventRepo repository.EventRepository, txManager repository.TransactionManager) EventService {
	return &eventService{eventRepo: eventRepo, txManager: txManager}
}

// CreateEvent inserts a single event, or for a recurring one materializes a
// row per month of the anchor year on RecurringDay. Months where that day
// does not exist (29–31) are skipped, not clamped. The whole series goes in
// one transaction.
func (s *eventService) CreateEvent(ctx context.Context, req CreateEventRequest) ([]model.Event, error) {
	anchor, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
	}

	if !req.IsRecurring {
		event := &model.Event{
			Title:       req.Title,
			Date:        anchor,
			IsImportant: req.IsImportant,
			Notes:       req.Notes,
		}
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return nil, err
		}
		return []model.Event{*event}, nil
	}

	if req.RecurringDay < 1 || req.RecurringDay > 31 {
		return nil, errors.New("recurring_day must be between 1 and 31")
	}

	seriesID := uuid.New()
	var created []model.Event
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for month := time.January; month <= time.December; month++ {
			date := time.Date(anchor.Year(), month, req.RecurringDay, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes an overflowing day into the next
			// month; that means the month is too short, so skip it.
			if date.Day() != req.RecurringDay || date.Month() != month {
				continue
			}
			event := &model.Event{
				SeriesID:     &seriesID,
				Title:        req.Title,
				Date:         date,
				IsImportant:  req.IsImportant,
				IsRecurring:  true,
				RecurringDay: req.RecurringDay,
				Notes:        req.Notes,
			}
			if err := s.eventRepo.Create(txCtx, event); err != nil {
				return err
			}
			created = append(created, *event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *eventService) ListEvents(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	if to.Before(from) {
		return nil, errors.New("end of range precedes its start")
	}
	return s.eventRepo.ListBetween(ctx, from, to)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*model.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid event id")
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.New("event not found")
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
		}
		event.Date = date
	}
	if req.IsImportant != nil {
		event.IsImportant = *req.IsImportant
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes one row, or every row of the series when wholeSeries
// is set and the event belongs to one.
func (s *eventService) DeleteEvent(ctx context.Context, id string, wholeSeries bool) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid event id")
	}
	if wholeSeries {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return errors.New("event not found")
		}
		if event.SeriesID != nil {
			return s.eventRepo.DeleteSeries(ctx, *event.SeriesID)
		}
	}
	return s.eventRepo.Delete(ctx, eventID)
}
