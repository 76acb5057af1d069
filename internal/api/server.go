// Package api отдаёт операции сервиса как JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/dashboard"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/orders"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/reviews"
	"github.com/vladislavdragonenkov/vendorhub/internal/session"
)

// Server связывает HTTP-маршруты с доменными сервисами.
type Server struct {
	gateway     domain.Gateway
	store       *session.Store
	transitions *orders.TransitionManager
	creator     *orders.Creator
	dashboard   *dashboard.Service
	reviews     *reviews.Service
	logger      *log.Entry
}

// NewServer собирает сервер поверх гейтвея бэкенда.
// publisher и m могут быть nil.
func NewServer(
	gateway domain.Gateway,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "api-server")
	}
	return &Server{
		gateway:     gateway,
		store:       session.NewStore(gateway, m, logger),
		transitions: orders.NewTransitionManager(gateway, publisher, m, logger),
		creator:     orders.NewCreator(gateway, publisher, m, logger),
		dashboard:   dashboard.NewService(gateway, gateway, gateway, m, logger),
		reviews:     reviews.NewService(gateway, logger),
		logger:      logger,
	}
}

// Handler возвращает маршрутизатор API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/orders", s.handleListOrders)
	mux.HandleFunc("POST /api/orders", s.handleCreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("PUT /api/orders/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("PUT /api/orders/{id}/partially-delivered/{vendorId}", s.handlePartialDelivery)
	mux.HandleFunc("GET /api/vendors/{vendorId}/orders", s.handleVendorOrders)
	mux.HandleFunc("GET /api/vendors/{vendorId}/dashboard", s.handleVendorDashboard)
	mux.HandleFunc("GET /api/vendors/{vendorId}/reviews", s.handleVendorReviews)

	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError переводит доменную ошибку в HTTP-статус:
// нарушение прекондиций — 400, отсутствие сущности — 404,
// сбой бэкенда — 502, всё прочее — 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case domain.IsRemote(err):
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
