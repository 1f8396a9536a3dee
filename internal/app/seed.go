package app

import (
	"context"
	"errors"
	"time"

	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/services"

	"go.uber.org/zap"
)

const (
	devAdminEmail    = "admin@orbio.com"
	devAdminPassword = "admin123"
)

// seedContent fills empty FAQ, notice and event tables with starter content.
func seedContent(ctx context.Context, repos *repositories.Set, log *zap.Logger) error {
	faqs, err := repos.FAQs.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(faqs) == 0 {
		for _, f := range []models.FAQ{
			{Category: "product", Question: "초친수 코팅은 무엇인가요?", Answer: "물만으로도 오염이 쉽게 씻겨 나가도록 표면을 물과 친하게 만든 코팅입니다."},
			{Category: "product", Question: "식기세척기 사용이 가능한가요?", Answer: "모든 제품은 식기세척기 사용이 가능합니다."},
			{Category: "order", Question: "배송은 얼마나 걸리나요?", Answer: "결제 후 영업일 기준 2~3일 이내 출고됩니다."},
			{Category: "order", Question: "교환 및 반품은 어떻게 하나요?", Answer: "수령 후 7일 이내 고객센터로 문의해주세요."},
		} {
			f := f
			if _, err := repos.FAQs.Create(ctx, &f); err != nil {
				return err
			}
		}
	}

	notices, err := repos.Notices.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(notices) == 0 {
		n := models.Notice{
			Title:       "오르비오 공식 온라인 스토어 오픈",
			Content:     "오르비오 공식 온라인 스토어가 오픈했습니다.",
			Author:      "오르비오",
			IsImportant: true,
			PublishedAt: time.Now().UTC(),
		}
		if _, err := repos.Notices.Create(ctx, &n); err != nil {
			return err
		}
	}

	events, err := repos.Events.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		now := time.Now().UTC()
		e := models.Event{
			Title:       "런칭 기념 10% 할인",
			Description: "전 제품 10% 할인 이벤트",
			StartDate:   now.Format("2006-01-02"),
			EndDate:     now.AddDate(0, 1, 0).Format("2006-01-02"),
			IsActive:    true,
		}
		if _, err := repos.Events.Create(ctx, &e); err != nil {
			return err
		}
	}

	log.Debug("content seed complete")
	return nil
}

// seedDevAdmin creates the local development admin once.
func seedDevAdmin(ctx context.Context, auth *services.AuthService, log *zap.Logger) {
	err := auth.CreateAdmin(ctx, devAdminEmail, devAdminPassword, "관리자")
	switch {
	case err == nil:
		log.Info("development admin created", zap.String("email", devAdminEmail))
	case errors.Is(err, services.ErrEmailRegistered):
	default:
		log.Warn("failed to create development admin", zap.Error(err))
	}
}
