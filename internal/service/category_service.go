package service

import (
	"context"
	"fmt"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
)

// CategoryService is plain CRUD over categories plus a by-name lookup.
type CategoryService interface {
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	GetAll(ctx context.Context) ([]model.Category, error)
	Add(ctx context.Context, cat *model.Category) (*model.Category, error)
	Modify(ctx context.Context, cat *model.Category) (*model.Category, error)
	Delete(ctx context.Context, id uint64) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService wires a CategoryService over the given repository.
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get category %d", id), Err: err}
	}
	return cat, nil
}

func (s *categoryService) GetByName(ctx context.Context, name string) (*model.Category, error) {
	cat, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get category %q", name), Err: err}
	}
	return cat, nil
}

func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	out, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list categories", Err: err}
	}
	return out, nil
}

func (s *categoryService) Add(ctx context.Context, cat *model.Category) (*model.Category, error) {
	created, err := s.categories.Create(ctx, cat)
	if err != nil {
		return nil, &AddFailure{Msg: "could not add category", Err: err}
	}
	return created, nil
}

func (s *categoryService) Modify(ctx context.Context, cat *model.Category) (*model.Category, error) {
	if cat.ID == 0 {
		return nil, &ModifyFailure{Msg: "category id is required for modification"}
	}
	updated, err := s.categories.Update(ctx, cat)
	if err != nil {
		return nil, &ModifyFailure{Msg: fmt.Sprintf("could not modify category %d", cat.ID), Err: err}
	}
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return &DeleteFailure{Msg: fmt.Sprintf("could not delete category %d", id), Err: err}
	}
	return nil
}
