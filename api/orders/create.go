package orders

import (
	"net/http"
	"restoran_server/api/middleware"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		orm.logger.Debug("Rejected order request", gecho.Field("error", err))
		handling.HandleError(err, "Invalid order request", orm.logger, w)
		return
	}

	var userId *uuid.UUID
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		userId = &claims.Sub
	}

	order, err := orm.orderService.CreateOrder(r.Context(), body, userId)
	if err != nil {
		handling.HandleError(err, "Failed to create order", orm.logger, w)
		return
	}

	gecho.Created(w,
		gecho.WithMessage("Order placed successfully"),
		gecho.WithData(structs.OrderSummary{
			Id:          order.Id,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
		}),
		gecho.Send(),
	)
}
