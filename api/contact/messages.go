package contact

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

func (crm *ContactRoutesManager) CreateMessage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ContactRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid contact message", crm.logger, w)
		return
	}

	message, err := crm.contactService.CreateMessage(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to send message", crm.logger, w)
		return
	}

	gecho.Created(w,
		gecho.WithMessage("Message sent successfully. We will get back to you soon!"),
		gecho.WithData(message),
		gecho.Send(),
	)
}

func (crm *ContactRoutesManager) ListMessages(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseContactListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", crm.logger, w)
		return
	}

	messages, pagination, err := crm.contactService.ListMessages(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch messages", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"messages":   messages,
			"pagination": pagination,
		}),
		gecho.Send(),
	)
}

func (crm *ContactRoutesManager) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid message id", crm.logger, w)
		return
	}

	message, err := crm.contactService.MarkRead(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to update message", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Message marked as read"),
		gecho.WithData(message),
		gecho.Send(),
	)
}

func (crm *ContactRoutesManager) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid message id", crm.logger, w)
		return
	}

	if err := crm.contactService.DeleteMessage(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete message", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Message deleted successfully"),
		gecho.Send(),
	)
}
