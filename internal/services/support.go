package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/devanshgoyal/shopkart/internal/config"
	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/devanshgoyal/shopkart/pkg/email"
)

// SupportService handles support ticket submission: a per-browser throttle
// recorded under "lastTicketAt" (unix milliseconds), then dispatch to the
// support inbox. With no mail client configured the ticket is only logged,
// which keeps the demo self-contained.
type SupportService struct {
	store  kv.Store
	mailer email.Service
	cfg    *config.Support
}

func NewSupportService(store kv.Store, mailer email.Service, cfg *config.Support) *SupportService {
	return &SupportService{store: store, mailer: mailer, cfg: cfg}
}

func (s *SupportService) Submit(ctx context.Context, user *models.User, req *models.TicketRequest) (*models.TicketResponse, error) {
	raw, ok, err := s.store.Get(ctx, lastTicketKey)
	if err != nil {
		return nil, errors.StorageError("Failed to read throttle record").WithError(err)
	}

	now := time.Now()

	if ok {
		lastMillis, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			slog.Warn("corrupted throttle record, ignoring", slog.String("value", raw))
			lastMillis = 0
		}

		elapsed := now.Sub(time.UnixMilli(lastMillis))

		if elapsed < s.cfg.ThrottleWindow {
			wait := (s.cfg.ThrottleWindow - elapsed).Round(time.Second)

			return nil, errors.TooManyRequestsError("Please wait before submitting another ticket").
				WithDetail(fmt.Sprintf("retry in %s", wait))
		}
	}

	if s.mailer != nil {
		mail := &models.EmailRequest{
			To:      s.cfg.InboxEmail,
			Subject: "[Support] " + req.Subject,
			Content: fmt.Sprintf("From: %s <%s>\n\n%s", user.Name, user.Email, req.Message),
		}

		if err := s.mailer.Send(ctx, mail); err != nil {
			return nil, errors.ThirdPartyError("Failed to submit ticket").WithError(err)
		}
	} else {
		slog.Info("support ticket received",
			slog.String("userId", user.ID),
			slog.String("subject", req.Subject),
		)
	}

	if err := s.store.Set(ctx, lastTicketKey, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return nil, errors.StorageError("Failed to update throttle record").WithError(err)
	}

	return &models.TicketResponse{Submitted: true}, nil
}
