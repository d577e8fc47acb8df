package orders

import (
	"net/http"
	"restoran_server/api/middleware"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListOrders returns the orders of the authenticated user
func (orm *OrderRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", orm.logger, w)
		return
	}

	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", orm.logger, w)
		return
	}

	orders, err := orm.orderService.ListOrders(r.Context(), claims.Sub, opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders": orders,
			"count":  len(orders),
		}),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", orm.logger, w)
		return
	}

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	order, err := orm.orderService.GetOrder(r.Context(), id, claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to fetch order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", orm.logger, w)
		return
	}

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid status", orm.logger, w)
		return
	}

	order, err := orm.orderService.UpdateStatus(r.Context(), id, claims.Sub, body.Status)
	if err != nil {
		handling.HandleError(err, "Failed to update order status", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order status updated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) CancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", orm.logger, w)
		return
	}

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	order, err := orm.orderService.Cancel(r.Context(), id, claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to cancel order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order cancelled successfully"),
		gecho.WithData(order),
		gecho.Send(),
	)
}
