package menu

import (
	"net/http"
	"restoran_server/handling"

	"github.com/MonkyMars/gecho"
)

func (mrm *MenuRoutesManager) GetMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := mrm.menuService.GetMenu(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch menu", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(categories),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) GetCategoryItems(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid category id", mrm.logger, w)
		return
	}

	items, err := mrm.menuService.GetCategoryItems(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch menu items", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(items),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid item id", mrm.logger, w)
		return
	}

	item, err := mrm.menuService.GetItem(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch menu item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.Send(),
	)
}
