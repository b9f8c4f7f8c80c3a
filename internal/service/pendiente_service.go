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

type CreatePendienteRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date"`
	IsImportant bool   `json:"is_important"`
	Notes       string `json:"notes"`
}

type UpdatePendienteRequest struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	IsImportant *bool   `json:"is_important"`
	Done        *bool   `json:"done"`
	Notes       *string `json:"notes"`
}

type PendienteService interface {
	Create(ctx context.Context, req CreatePendienteRequest) (*model.Pendiente, error)
	List(ctx context.Context, includeDone bool) ([]model.Pendiente, error)
	Update(ctx context.Context, id string, req UpdatePendienteRequest) (*model.Pendiente, error)
	Delete(ctx context.Context, id string) error
}

type pendienteService struct {
	repo repository.PendienteRepository
}

func NewPendienteService(repo repository.PendienteRepository) PendienteService {
	return &pendienteService{repo: repo}
}

func (s *pendienteService) Create(ctx context.Context, req CreatePendienteRequest) (*model.Pendiente, error) {
	pendiente := &model.Pendiente{
		Title:       req.Title,
		IsImportant: req.IsImportant,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
		}
		pendiente.Date = date
	}
	if err := s.repo.Create(ctx, pendiente); err != nil {
		return nil, err
	}
	return pendiente, nil
}

func (s *pendienteService) List(ctx context.Context, includeDone bool) ([]model.Pendiente, error) {
	return s.repo.List(ctx, includeDone)
}

func (s *pendienteService) Update(ctx context.Context, id string, req UpdatePendienteRequest) (*model.Pendiente, error) {
	pendienteID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid pendiente id")
	}
	pendiente, err := s.repo.GetByID(ctx, pendienteID)
	if err != nil {
		return nil, errors.New("pendiente not found")
	}

	if req.Title != "" {
		pendiente.Title = req.Title
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
		}
		pendiente.Date = date
	}
	if req.IsImportant != nil {
		pendiente.IsImportant = *req.IsImportant
	}
	if req.Done != nil {
		pendiente.Done = *req.Done
	}
	if req.Notes != nil {
		pendiente.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, pendiente); err != nil {
		return nil, err
	}
	return pendiente, nil
}

func (s *pendienteService) Delete(ctx context.Context, id string) error {
	pendienteID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid pendiente id")
	}
	return s.repo.Delete(ctx, pendienteID)
}
