// Package server exposes the approval service over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/chatapproval"
	"github.com/viant/chatapproval/internal/clock"
	"github.com/viant/chatapproval/internal/idgen"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/approval"
	"github.com/viant/chatapproval/service/intake"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/tracing"
	"github.com/xeipuuv/gojsonschema"
)

// APIKeyHeader carries the key for mutating routes
const APIKeyHeader = "X-API-Key"

const maxBodySize = 16 << 20

// Service is the functionality served over HTTP
type Service interface {
	CreateOrder(ctx context.Context, request *intake.Request) (*intake.Handle, error)
	HandleMessage(ctx context.Context, message *transport.Message) (*approval.Outcome, error)
	Send(ctx context.Context, to, text string) (*chatapproval.SendResult, error)
	Status(ctx context.Context) *chatapproval.Status
	Logout(ctx context.Context) error
	Orders(ctx context.Context, recipient string) ([]*model.Order, error)
}

// Server represents the HTTP front door
type Server struct {
	service Service
	apiKey  string
	logger  *slog.Logger
}

type sendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type sendOrderRequest struct {
	OrderID      string   `json:"orderId"`
	Recipients   []string `json:"recipients"`
	Message      string   `json:"message"`
	CallbackURL  string   `json:"callbackUrl"`
	Identity     string   `json:"identity"`
	FlightTicket string   `json:"flight_ticket"`
	HotelTicket  string   `json:"hotel_ticket"`
}

func (r *sendOrderRequest) intakeRequest() *intake.Request {
	ret := &intake.Request{
		OrderID:     r.OrderID,
		Recipients:  r.Recipients,
		Message:     r.Message,
		CallbackURL: r.CallbackURL,
	}
	if r.Identity != "" || r.FlightTicket != "" || r.HotelTicket != "" {
		ret.Attachments = &intake.Attachments{Identity: r.Identity, FlightTicket: r.FlightTicket, HotelTicket: r.HotelTicket}
	}
	return ret
}

type sendOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type inboundResponse struct {
	Ignored bool              `json:"ignored,omitempty"`
	Outcome *approval.Outcome `json:"outcome,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequest)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/status", s.handleStatus)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.verifyAPIKey)
		r.Post("/send", s.handleSend)
		r.Post("/send-order", s.handleSendOrder)
		r.Post("/logout", s.handleLogout)
		r.Post("/inbound", s.handleInbound)
		r.Get("/orders", s.handleOrders)
	})
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status(r.Context()))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	request := &sendRequest{}
	if !s.decode(w, r, sendLoader, request) {
		return
	}
	result, err := s.service.Send(r.Context(), request.To, request.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSendOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartSpan(r.Context(), "http.send-order", tracing.KindServer)
	request := &sendOrderRequest{}
	if !s.decode(w, r, sendOrderLoader, request) {
		span.SetStatusFromHTTPCode(http.StatusBadRequest)
		tracing.EndSpan(span, nil)
		return
	}
	span.WithAttributes(map[string]string{"order.id": request.OrderID})
	handle, err := s.service.CreateOrder(ctx, request.intakeRequest())
	tracing.EndSpan(span, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &sendOrderResponse{Success: true, OrderID: handle.OrderID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Logout(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &successResponse{Success: true})
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	message := &transport.Message{}
	if !s.decode(w, r, inboundLoader, message) {
		return
	}
	if message.ID == "" {
		message.ID = idgen.WithPrefix("inbound")
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = clock.Now()
	}
	outcome, err := s.service.HandleMessage(r.Context(), message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &inboundResponse{Ignored: outcome == nil, Outcome: outcome})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.service.Orders(r.Context(), r.URL.Query().Get("recipient"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// decode validates the body against schema and decodes it into target
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema gojsonschema.JSONLoader, target interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "cannot read body"})
		return false
	}
	if err = validateJSONSchema(schema, body); err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: err.Error()})
		return false
	}
	if err = json.Unmarshal(body, target); err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) verifyAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, &errorResponse{Error: "Unauthorized: Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request.id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, &errorResponse{Error: err.Error()})
}

// StatusCode maps service errors to HTTP status codes
func StatusCode(err error) int {
	switch {
	case errors.Is(err, intake.ErrOrderExists):
		return http.StatusConflict
	case errors.Is(err, intake.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, intake.ErrTransportUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, intake.ErrDelivery):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// New creates a server; an empty apiKey disables the key check.
func New(service Service, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{service: service, apiKey: apiKey, logger: logger}
}
