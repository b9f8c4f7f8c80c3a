package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"labflow/internal/model"
	"labflow/internal/repository"
	"labflow/internal/sheet"

	"github.com/google/uuid"
)

// ErrInvalidEvidence marks rejections that happen before any network call.
var ErrInvalidEvidence = errors.New("invalid evidence entry")

// Evidence types the dashboard accepts.
var evidenceTypes = map[string]bool{
	"entrega": true,
	"recibo":  true,
	"trabajo": true,
	"reclamo": true,
}

type CreateEvidenceRequest struct {
	Titulo string
	Tipo   string
	Fecha  string // 2006-01-02
	Nota   string
	Files  []sheet.EvidenceFile
}

type EvidenceService interface {
	Create(ctx context.Context, userID string, req CreateEvidenceRequest) (*sheet.EvidenceResult, error)
}

type evidenceService struct {
	client    *sheet.EvidenceClient
	auditRepo repository.AuditRepository
}

func NewEvidenceService(client *sheet.EvidenceClient, auditRepo repository.AuditRepository) EvidenceService {
	return &evidenceService{client: client, auditRepo: auditRepo}
}

// Create forwards an evidence entry (photos, signed delivery receipts) to the
// evidence sheet and returns the remote row id plus stored file URLs.
func (s *evidenceService) Create(ctx context.Context, userID string, req CreateEvidenceRequest) (*sheet.EvidenceResult, error) {
	if req.Titulo == "" {
		return nil, fmt.Errorf("%w: titulo is required", ErrInvalidEvidence)
	}
	if !evidenceTypes[req.Tipo] {
		return nil, fmt.Errorf("%w: unknown tipo %q", ErrInvalidEvidence, req.Tipo)
	}
	fecha := req.Fecha
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return nil, fmt.Errorf("%w: fecha %q is not YYYY-MM-DD", ErrInvalidEvidence, fecha)
	}

	result, err := s.client.Create(ctx, sheet.EvidenceRequest{
		Titulo: req.Titulo,
		Tipo:   req.Tipo,
		Fecha:  fecha,
		Nota:   req.Nota,
		Files:  req.Files,
	})
	if err != nil {
		return nil, err
	}

	if s.auditRepo != nil {
		details, _ := json.Marshal(map[string]any{"titulo": req.Titulo, "tipo": req.Tipo, "files": len(req.Files)})
		entry := &model.AuditLog{Action: model.ActionCreateEvidencia, EntityID: result.ID, EntityName: req.Titulo, Details: string(details)}
		if uid, err := uuid.Parse(userID); err == nil {
			entry.UserID = &uid
		}
		if err := s.auditRepo.Log(ctx, entry); err != nil {
			log.Println("Failed to write audit entry:", err)
		}
	}
	return result, nil
}
