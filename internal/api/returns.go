package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
)

type returnItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type createReturnRequest struct {
	OrderID           string              `json:"order_id"`
	CustomerID        string              `json:"customer_id"`
	Status            string              `json:"status"`
	Items             []returnItemPayload `json:"items"`
	RefundMethod      string              `json:"refund_method"`
	RefundAmountMinor int64               `json:"refund_amount_minor"`
	Reason            string              `json:"reason"`
}

type updateReturnRequest struct {
	Status            *string             `json:"status"`
	Items             []returnItemPayload `json:"items"`
	RefundMethod      *string             `json:"refund_method"`
	RefundAmountMinor *int64              `json:"refund_amount_minor"`
	CustomerID        *string             `json:"customer_id"`
	Reason            *string             `json:"reason"`
}

func returnItemInputs(payloads []returnItemPayload) []recon.ReturnItemInput {
	if payloads == nil {
		return nil
	}
	items := make([]recon.ReturnItemInput, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, recon.ReturnItemInput{
			ProductID: p.ProductID,
			Qty:       p.Quantity,
		})
	}
	return items
}

func (s *Server) createReturn(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ret, err := s.engine.CreateReturn(recon.ReturnInput{
		OrderID:           req.OrderID,
		CustomerID:        req.CustomerID,
		Status:            domain.ReturnStatus(req.Status),
		Items:             returnItemInputs(req.Items),
		RefundMethod:      domain.RefundMethod(req.RefundMethod),
		RefundAmountMinor: req.RefundAmountMinor,
		Reason:            req.Reason,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusCreated, ret)
}

func (s *Server) listReturns(w http.ResponseWriter, _ *http.Request) {
	returns, err := s.engine.ListReturns(defaultListLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, returns)
}

func (s *Server) getReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := s.engine.GetReturn(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, ret)
}

func (s *Server) updateReturn(w http.ResponseWriter, r *http.Request) {
	var req updateReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := recon.ReturnPatch{
		Items:             returnItemInputs(req.Items),
		RefundAmountMinor: req.RefundAmountMinor,
		CustomerID:        req.CustomerID,
		Reason:            req.Reason,
	}
	if req.Status != nil {
		status := domain.ReturnStatus(*req.Status)
		patch.Status = &status
	}
	if req.RefundMethod != nil {
		method := domain.RefundMethod(*req.RefundMethod)
		patch.RefundMethod = &method
	}

	ret, err := s.engine.UpdateReturn(chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusOK, ret)
}

func (s *Server) deleteReturn(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteReturn(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
