// Package reviews отдаёт отзывы о вендоре и его среднюю оценку.
package reviews

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// VendorReviews — отзывы вендора вместе со средней оценкой.
type VendorReviews struct {
	VendorID      string
	Reviews       []domain.Review
	AverageRating decimal.Decimal
}

// Service читает отзывы через гейтвей бэкенда.
type Service struct {
	gateway domain.ReviewGateway
	logger  *log.Entry
}

// NewService конструирует сервис отзывов.
func NewService(gateway domain.ReviewGateway, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "vendor-reviews")
	}
	return &Service{gateway: gateway, logger: logger}
}

// Load последовательно выбирает отзывы вендора и его среднюю оценку.
func (s *Service) Load(ctx context.Context, vendorID string) (VendorReviews, error) {
	if vendorID == "" {
		return VendorReviews{}, domain.ErrVendorIDRequired
	}

	list, err := s.gateway.ReviewsByVendor(ctx, vendorID)
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Error("failed to fetch vendor reviews")
		return VendorReviews{}, err
	}

	rating, err := s.gateway.AverageRating(ctx, vendorID)
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Error("failed to fetch average rating")
		return VendorReviews{}, err
	}

	return VendorReviews{
		VendorID:      vendorID,
		Reviews:       list,
		AverageRating: rating,
	}, nil
}
