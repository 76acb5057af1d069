package api

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/orders"
)

// handleListOrders отдаёт полную коллекцию заказов, суженную параметрами
// ?query= (подстрока по id и customerId) и ?filter= (all | partially-delivered).
// Коллекция перечитывается из бэкенда на каждый запрос.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	query := r.URL.Query().Get("query")
	filter := orders.ParseStatusFilter(r.URL.Query().Get("filter"))
	filtered := orders.Filter(s.store.Orders(), query, filter)

	s.writeJSON(w, http.StatusOK, ordersToResponse(filtered))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.gateway.OrderByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orderToResponse(order))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cart := orders.NewCart()
	for _, item := range req.Items {
		cart.Add(domain.Product{
			ID:         item.ProductID,
			Name:       item.ProductName,
			Price:      item.Price,
			VendorID:   item.VendorID,
			VendorName: item.VendorName,
		}, item.Quantity)
	}

	created, err := s.creator.Create(r.Context(), req.CustomerID, req.Address, cart)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, orderToResponse(created))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := r.PathValue("id")
	if err := s.transitions.ApplyTransition(r.Context(), id, domain.OrderStatus(req.Status), req.Note); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Order status updated"})
}

func (s *Server) handlePartialDelivery(w http.ResponseWriter, r *http.Request) {
	message, err := s.transitions.MarkPartiallyDelivered(r.Context(), r.PathValue("id"), r.PathValue("vendorId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// handleVendorOrders отдаёт заказы вендора; каждый заказ дополнен
// vendor-скоупом позиций (vendorItems).
func (s *Server) handleVendorOrders(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("vendorId")
	list, err := s.gateway.OrdersByVendor(r.Context(), vendorID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, vendorOrdersToResponse(list, vendorID))
}

func (s *Server) handleVendorDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.dashboard.Load(r.Context(), r.PathValue("vendorId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshotToResponse(snapshot))
}

func (s *Server) handleVendorReviews(w http.ResponseWriter, r *http.Request) {
	vendorReviews, err := s.reviews.Load(r.Context(), r.PathValue("vendorId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reviewsToResponse(vendorReviews))
}
