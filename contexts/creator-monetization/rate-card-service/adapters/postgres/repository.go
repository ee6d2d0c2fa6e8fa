package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/rate-card-service/domain/errors"
	"clipledger/contexts/creator-monetization/rate-card-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&programModel{})
}

func (r *Repository) CreateProgram(ctx context.Context, program entities.Program) error {
	model := programModelFromEntity(program)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *Repository) GetProgram(ctx context.Context, programID string) (entities.Program, error) {
	var model programModel
	err := r.db.WithContext(ctx).
		Where("program_id = ?", strings.TrimSpace(programID)).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Program{}, domainerrors.ErrProgramNotFound
	}
	if err != nil {
		return entities.Program{}, err
	}
	return model.toEntity(), nil
}

func (r *Repository) UpdateProgram(ctx context.Context, program entities.Program) error {
	result := r.db.WithContext(ctx).
		Model(&programModel{}).
		Where("program_id = ?", program.ProgramID).
		Updates(map[string]any{
			"name":                program.Name,
			"description":         program.Description,
			"rate_per_100k_views": program.RatePer100KViews,
			"status":              string(program.Status),
			"updated_at":          program.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProgramNotFound
	}
	return nil
}

func (r *Repository) ListPrograms(ctx context.Context, filter ports.ProgramFilter) ([]entities.Program, error) {
	query := r.db.WithContext(ctx).Model(&programModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var models []programModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Program, 0, len(models))
	for _, model := range models {
		items = append(items, model.toEntity())
	}
	return items, nil
}

type programModel struct {
	ProgramID        string    `gorm:"column:program_id;primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	Description      string    `gorm:"column:description"`
	RatePer100KViews float64   `gorm:"column:rate_per_100k_views;not null"`
	Status           string    `gorm:"column:status;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (programModel) TableName() string { return "revenue_programs" }

func programModelFromEntity(program entities.Program) programModel {
	return programModel{
		ProgramID:        program.ProgramID,
		Name:             program.Name,
		Description:      program.Description,
		RatePer100KViews: program.RatePer100KViews,
		Status:           string(program.Status),
		CreatedAt:        program.CreatedAt.UTC(),
		UpdatedAt:        program.UpdatedAt.UTC(),
	}
}

func (m programModel) toEntity() entities.Program {
	return entities.Program{
		ProgramID:        m.ProgramID,
		Name:             m.Name,
		Description:      m.Description,
		RatePer100KViews: m.RatePer100KViews,
		Status:           entities.ProgramStatus(m.Status),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}
