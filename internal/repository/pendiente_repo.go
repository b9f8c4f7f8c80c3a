package repository

import (
	"context"

	"labflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PendienteRepository interface {
	Create(ctx context.Context, pendiente *model.Pendiente) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Pendiente, error)
	List(ctx context.Context, includeDone bool) ([]model.Pendiente, error)
	Update(ctx context.Context, pendiente *model.Pendiente) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pendienteRepository struct {
	db *gorm.DB
}

func NewPendienteRepository(db *gorm.DB) PendienteRepository {
	return &pendienteRepository{db: db}
}

func (r *pendienteRepository) Create(ctx context.Context, pendiente *model.Pendiente) error {
	return GetDB(ctx, r.db).Create(pendiente).Error
}

func (r *pendienteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Pendiente, error) {
	var pendiente model.Pendiente
	if err := GetDB(ctx, r.db).First(&pendiente, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pendiente, nil
}

func (r *pendienteRepository) List(ctx context.Context, includeDone bool) ([]model.Pendiente, error) {
	var pendientes []model.Pendiente
	db := GetDB(ctx, r.db)
	if !includeDone {
		db = db.Where("done = ?", false)
	}
	if err := db.Order("is_important desc, date asc").Find(&pendientes).Error; err != nil {
		return nil, err
	}
	return pendientes, nil
}

func (r *pendienteRepository) Update(ctx context.Context, pendiente *model.Pendiente) error {
	return GetDB(ctx, r.db).Save(pendiente).Error
}

func (r *pendienteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Pendiente{}).Error
}
