package services

import (
	"context"
	"restoran_server/repository"
	"restoran_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type MenuService struct {
	logger *gecho.Logger
	repo   repository.MenuRepository
}

func NewMenuService(logger *gecho.Logger, repo repository.MenuRepository) *MenuService {
	return &MenuService{logger: logger, repo: repo}
}

// GetMenu returns every category by display order with its available items.
func (ms *MenuService) GetMenu(ctx context.Context) ([]tables.MenuCategory, error) {
	return ms.repo.ListCategoriesWithItems(ctx)
}

func (ms *MenuService) GetCategoryItems(ctx context.Context, categoryId int64) ([]tables.MenuItem, error) {
	return ms.repo.ListItemsByCategory(ctx, categoryId)
}

// MenuItemView is a single item with a trimmed category.
type MenuItemView struct {
	tables.MenuItem
	Category *tables.CategoryRef `json:"menu_categories"`
}

func (ms *MenuService) GetItem(ctx context.Context, id int64) (*MenuItemView, error) {
	item, err := ms.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &MenuItemView{MenuItem: *item}
	if item.Category != nil {
		view.Category = &tables.CategoryRef{Id: item.Category.Id, Name: item.Category.Name}
	}
	view.MenuItem.Category = nil
	return view, nil
}
