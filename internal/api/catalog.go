package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type createProductRequest struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type createCustomerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	StoreCreditMinor int64  `json:"store_credit_minor"`
}

func validationError(errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        uuid.New().String(),
		SKU:       req.SKU,
		Name:      req.Name,
		Stock:     req.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		s.respondError(w, validationError(errs))
		return
	}

	if err := s.products.Create(product); err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusCreated, product)
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := s.products.List(defaultListLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Email:            req.Email,
		StoreCreditMinor: req.StoreCreditMinor,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		s.respondError(w, validationError(errs))
		return
	}

	if err := s.customers.Create(customer); err != nil {
		s.respondError(w, err)
		return
	}

	writeData(w, http.StatusCreated, customer)
}

func (s *Server) listCustomers(w http.ResponseWriter, _ *http.Request) {
	customers, err := s.customers.List(defaultListLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customers.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, customer)
}
