package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
)

type orderItemPayload struct {
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	PriceMinor int64  `json:"price_minor"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Status     string             `json:"status"`
	Notes      string             `json:"notes"`
	Items      []orderItemPayload `json:"items"`
}

type updateOrderRequest struct {
	Status *string            `json:"status"`
	Notes  *string            `json:"notes"`
	Items  []orderItemPayload `json:"items"`
}

func orderItemInputs(payloads []orderItemPayload) []recon.OrderItemInput {
	if payloads == nil {
		return nil
	}
	items := make([]recon.OrderItemInput, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, recon.OrderItemInput{
			ProductID:  p.ProductID,
			Qty:        p.Quantity,
			PriceMinor: p.PriceMinor,
		})
	}
	return items
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.engine.CreateOrder(recon.OrderInput{
		CustomerID: req.CustomerID,
		Status:     domain.OrderStatus(req.Status),
		Notes:      req.Notes,
		Items:      orderItemInputs(req.Items),
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusCreated, order)
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := s.engine.ListOrders(defaultListLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.engine.GetOrder(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := recon.OrderPatch{
		Notes: req.Notes,
		Items: orderItemInputs(req.Items),
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	order, err := s.engine.UpdateOrder(chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusOK, order)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteOrder(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
