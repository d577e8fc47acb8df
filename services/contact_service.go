package services

import (
	"context"
	"restoran_server/database"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type ContactService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	repo     repository.ContactRepository
	notifier *NotificationService
}

func NewContactService(logger *gecho.Logger, cfg *structs.Config, repo repository.ContactRepository, notifier *NotificationService) *ContactService {
	return &ContactService{
		logger:   logger,
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
	}
}

func (cs *ContactService) CreateMessage(ctx context.Context, req *structs.ContactRequest) (*tables.ContactMessage, error) {
	msg, err := cs.repo.CreateMessage(ctx, &tables.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}

	emails, err := RenderContactNotices(cs.cfg.Email, msg)
	if err != nil {
		cs.logger.Error("Failed to render contact notices", gecho.Field("message_id", msg.Id), gecho.Field("error", err))
	}
	cs.notifier.Submit(Notification{
		Kind:   "contact",
		Emails: emails,
		Event:  NewEvent(EventContactCreated, msg),
	})

	return msg, nil
}

// ListMessages returns one page of messages, newest first, with pagination metadata.
func (cs *ContactService) ListMessages(ctx context.Context, opts structs.ContactListOptions) ([]tables.ContactMessage, *structs.Pagination, error) {
	messages, total, err := cs.repo.ListMessages(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	page, limit := database.NormalizePage(opts.Page, opts.Limit)
	return messages, &structs.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}, nil
}

func (cs *ContactService) MarkRead(ctx context.Context, id int64) (*tables.ContactMessage, error) {
	return cs.repo.MarkMessageRead(ctx, id)
}

func (cs *ContactService) DeleteMessage(ctx context.Context, id int64) error {
	return cs.repo.DeleteMessage(ctx, id)
}
