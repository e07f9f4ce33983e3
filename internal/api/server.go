// Package api — HTTP/JSON-адаптер поверх reconciliation-движка.
// Адаптер сохраняет конверт ответа исходного приложения:
// {"success": bool, "data": ..., "error": "..."}.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
)

const defaultListLimit = 100

// Server — HTTP API сервис продаж.
type Server struct {
	engine    *recon.Engine
	products  domain.ProductRepository
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewServer конструирует сервер с зависимостями.
func NewServer(
	engine *recon.Engine,
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "api")
	}
	return &Server{
		engine:    engine,
		products:  products,
		customers: customers,
		logger:    logger,
	}
}

// Handler возвращает chi-роутер со всеми маршрутами.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", s.createOrder)
			r.Get("/", s.listOrders)
			r.Get("/{id}", s.getOrder)
			r.Put("/{id}", s.updateOrder)
			r.Delete("/{id}", s.deleteOrder)
		})
		r.Route("/returns", func(r chi.Router) {
			r.Post("/", s.createReturn)
			r.Get("/", s.listReturns)
			r.Get("/{id}", s.getReturn)
			r.Put("/{id}", s.updateReturn)
			r.Delete("/{id}", s.deleteReturn)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.createProduct)
			r.Get("/", s.listProducts)
			r.Get("/{id}", s.getProduct)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", s.createCustomer)
			r.Get("/", s.listCustomers)
			r.Get("/{id}", s.getCustomer)
		})
	})

	return r
}

// envelope — конверт ответа, совместимый с исходным IPC-контрактом.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// respondError переводит доменные ошибки в HTTP-статусы.
// Ошибкой операции считается только отказ по основной записи: сбои
// корректировок ledger'ов сюда не попадают (они логируются в движке).
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsVersionConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}
