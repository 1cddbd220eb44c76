package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/entity"
)

// DefaultCategories are offered to every user and can't be removed.
var DefaultCategories = []string{"Lifestyle", "Exercise", "Health", "Study", "Work", "Hobby", "Money"}

type CategoriesService struct {
	categoriesRepo repository.CategoriesRepositoryI
	habitsRepo     repository.HabitsRepositoryI
}

func NewCategoriesService(categoriesRepo repository.CategoriesRepositoryI, habitsRepo repository.HabitsRepositoryI) *CategoriesService {
	if categoriesRepo == nil || habitsRepo == nil {
		log.Fatal("on categories service provided nil repos")
	}
	return &CategoriesService{
		categoriesRepo: categoriesRepo,
		habitsRepo:     habitsRepo,
	}
}

func (cs *CategoriesService) List(ctx context.Context, uid uuid.UUID) ([]entity.Category, error) {
	custom, err := cs.categoriesRepo.ListByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("categories repository error: " + err.Error())
	}
	result := make([]entity.Category, 0, len(DefaultCategories)+len(custom))
	for _, name := range DefaultCategories {
		result = append(result, entity.Category{Name: name})
	}
	for _, name := range custom {
		result = append(result, entity.Category{Name: name, Custom: true})
	}
	return result, nil
}

func (cs *CategoriesService) Create(ctx context.Context, uid uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return errorvalues.ErrValidation
	}
	if isDefaultCategory(name) {
		return errorvalues.ErrCategoryExists
	}
	err := cs.categoriesRepo.Create(ctx, uid, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryExists) || errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("categories repository error: " + err.Error())
	}
	return nil
}

func (cs *CategoriesService) Delete(ctx context.Context, uid uuid.UUID, name string) error {
	if isDefaultCategory(name) {
		return errorvalues.ErrDefaultCategory
	}
	inUse, err := cs.habitsRepo.CountByCategory(ctx, uid, name)
	if err != nil {
		return errors.New("habits repository error: " + err.Error())
	}
	if inUse > 0 {
		return errorvalues.ErrCategoryInUse
	}
	err = cs.categoriesRepo.Delete(ctx, uid, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return err
		}
		return errors.New("categories repository error: " + err.Error())
	}
	return nil
}

func isDefaultCategory(name string) bool {
	return slices.ContainsFunc(DefaultCategories, func(d string) bool {
		return strings.EqualFold(d, name)
	})
}
