package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
)

// ErrDuplicateName is the message returned when a category name is taken.
const ErrDuplicateName = "category name already exists"

const uniqueNameConstraint = "categories_name_key"

// Service exposes category management.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, name string) (*CategoryDTO, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a category service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, len(rows))
	for i, row := range rows {
		out[i] = newCategoryDTO(row)
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, name string) (*CategoryDTO, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &models.Category{Name: clean})
	if err != nil {
		return nil, mapWriteError(err, "db: insert category")
	}
	dto := newCategoryDTO(*created)
	return &dto, nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error) {
	clean, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var updated *models.Category
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Rename(ctx, id, clean); err != nil {
			return mapWriteError(err, "db: rename category")
		}
		row, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload category")
		}
		updated = row
		return nil
	}); err != nil {
		return nil, err
	}

	dto := newCategoryDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return mapWriteError(err, "db: delete category")
		}
		return nil
	})
}

func normalizeName(name string) (string, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	return clean, nil
}

func mapWriteError(err error, op string) error {
	switch {
	case db.IsUniqueViolation(err, uniqueNameConstraint):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, ErrDuplicateName)
	case db.IsNotFound(err):
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
}
