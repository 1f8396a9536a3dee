package services

import (
	"context"
	"fmt"
	"html"

	"orbio/internal/events"
	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/util"

	"go.uber.org/zap"
)

// Notifier delivers an HTML mail.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// InquiryService handles contact form submissions.
type InquiryService struct {
	repo      repositories.InquiryRepository
	publisher events.Publisher
	notifier  Notifier
	adminTo   string
	log       *zap.Logger
}

// NewInquiryService creates an InquiryService. notifier may be nil; adminTo
// is the address notified of new inquiries.
func NewInquiryService(repo repositories.InquiryRepository, publisher events.Publisher, notifier Notifier, adminTo string, log *zap.Logger) *InquiryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &InquiryService{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		adminTo:   adminTo,
		log:       util.OrNop(log),
	}
}

func (s *InquiryService) List(ctx context.Context, status models.InquiryStatus) ([]models.Inquiry, error) {
	if status == "" {
		return s.repo.GetAll(ctx)
	}
	return s.repo.GetByStatus(ctx, status)
}

// Submit stores a new inquiry as pending and notifies the back office.
func (s *InquiryService) Submit(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	inquiry.Status = models.InquiryPending
	if inquiry.InquiryType == "" {
		inquiry.InquiryType = "general"
	}

	created, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, s.log, events.New(events.InquiryCreated, "inquiry", created.ID, map[string]any{
		"inquiry_type": created.InquiryType,
		"subject":      created.Subject,
	}))
	s.notify(ctx, created)
	return created, nil
}

func (s *InquiryService) notify(ctx context.Context, inq *models.Inquiry) {
	if s.notifier == nil || s.adminTo == "" {
		return
	}
	subject := fmt.Sprintf("[문의] %s", inq.Subject)
	if err := s.notifier.Send(ctx, s.adminTo, subject, inquiryHTML(inq)); err != nil {
		s.log.Warn("failed to send inquiry notification", zap.String("inquiry_id", inq.ID), zap.Error(err))
	}
}

func inquiryHTML(inq *models.Inquiry) string {
	return fmt.Sprintf(`<h2>새 문의가 접수되었습니다</h2>
<table>
<tr><td>이름</td><td>%s</td></tr>
<tr><td>이메일</td><td>%s</td></tr>
<tr><td>연락처</td><td>%s</td></tr>
<tr><td>회사</td><td>%s</td></tr>
<tr><td>유형</td><td>%s</td></tr>
</table>
<h3>%s</h3>
<p>%s</p>`,
		html.EscapeString(inq.Name),
		html.EscapeString(inq.Email),
		html.EscapeString(inq.Phone),
		html.EscapeString(inq.Company),
		html.EscapeString(inq.InquiryType),
		html.EscapeString(inq.Subject),
		html.EscapeString(inq.Message),
	)
}

// UpdateStatus moves an inquiry to any valid status.
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.publisher, s.log, events.New(events.InquiryStatusChanged, "inquiry", updated.ID, map[string]any{
		"status": updated.Status,
	}))
	return updated, nil
}
