// Package http exposes the property-management REST API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/franalderete7/expenzo-sub000/internal/auth"
	"github.com/franalderete7/expenzo-sub000/internal/cache"
	"github.com/franalderete7/expenzo-sub000/internal/core"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/services"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

type Server struct {
	http.Server

	store          storage.Store
	verifier       *auth.Verifier
	expenses       *services.ExpenseService
	contracts      *services.ContractService
	liquidaciones  *services.LiquidacionService
	indexValues    *services.IndexService
	rateLimiter    *rateLimiter
	adminCache     *cache.LRUCache[core.Admin]
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, store storage.Store, verifier *auth.Verifier, publisher services.ReceiptPublisher) *Server {
	mux := http.NewServeMux()

	contracts := services.NewContractService(store)
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:         store,
		verifier:      verifier,
		expenses:      services.NewExpenseService(store),
		contracts:     contracts,
		liquidaciones: services.NewLiquidacionService(store, contracts, publisher),
		indexValues:   services.NewIndexService(store),
		rateLimiter:   newRateLimiter(),
		adminCache:    cache.NewLRUCache[core.Admin](1024, 10*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	api := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.withRequestLogging(s.withAuth(h)))
	}

	api("GET /properties", s.handleListProperties)
	api("POST /properties", s.handleCreateProperty)
	api("GET /properties/{id}", s.handleGetProperty)
	api("PUT /properties/{id}", s.handleUpdateProperty)
	api("DELETE /properties/{id}", s.handleDeleteProperty)

	api("GET /properties/{id}/units", s.handleListUnits)
	api("POST /properties/{id}/units", s.handleCreateUnit)
	api("GET /properties/{id}/units/{unitID}", s.handleGetUnit)
	api("PUT /properties/{id}/units/{unitID}", s.handleUpdateUnit)
	api("DELETE /properties/{id}/units/{unitID}", s.handleDeleteUnit)

	api("GET /residents", s.handleListResidents)
	api("POST /residents", s.handleCreateResident)
	api("GET /residents/{id}", s.handleGetResident)
	api("PUT /residents/{id}", s.handleUpdateResident)
	api("DELETE /residents/{id}", s.handleDeleteResident)

	api("GET /contracts", s.handleListContracts)
	api("POST /contracts", s.handleCreateContract)
	api("GET /contracts/{id}", s.handleGetContract)
	api("PUT /contracts/{id}", s.handleUpdateContract)
	api("DELETE /contracts/{id}", s.handleDeleteContract)
	api("POST /contracts/{id}/recalculate", s.handleRecalculateContract)

	api("GET /expense-categories", s.handleListCategories)
	api("POST /expense-categories", s.handleCreateCategory)
	api("PUT /expense-categories/{id}", s.handleUpdateCategory)
	api("DELETE /expense-categories/{id}", s.handleDeleteCategory)

	api("GET /expenses", s.handleListExpenses)
	api("POST /expenses", s.handleCreateExpense)
	api("GET /expenses/{id}", s.handleGetExpense)
	api("PUT /expenses/{id}", s.handleUpdateExpense)
	api("DELETE /expenses/{id}", s.handleDeleteExpense)

	api("GET /summaries", s.handleListSummaries)

	api("GET /icl-values", s.indexListHandler(core.IndexICL))
	api("POST /icl-values", s.indexCreateHandler(core.IndexICL))
	api("PUT /icl-values/{id}", s.indexUpdateHandler(core.IndexICL))
	api("DELETE /icl-values/{id}", s.indexDeleteHandler(core.IndexICL))
	api("GET /ipc-values", s.indexListHandler(core.IndexIPC))
	api("POST /ipc-values", s.indexCreateHandler(core.IndexIPC))
	api("PUT /ipc-values/{id}", s.indexUpdateHandler(core.IndexIPC))
	api("DELETE /ipc-values/{id}", s.indexDeleteHandler(core.IndexIPC))

	api("GET /liquidaciones", s.handleListAllocations)
	api("POST /liquidaciones/calculate", s.handleCalculateLiquidacion)
	api("DELETE /liquidaciones", s.handleDeleteLiquidacion)
	api("POST /liquidaciones/send-receipts", s.handleSendReceipts)
	api("GET /liquidaciones/receipts", s.handleListReceipts)

	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestLogging attaches a request ID, logs start and completion,
// and rate-limits mutating requests per client IP.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := withRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// withAuth verifies the bearer token and resolves the admin account.
// An authenticated user without an admin row gets one on first contact.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.FromAuthorizationHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		claims, err := s.verifier.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		admin, cached := s.adminCache.Get(claims.Subject)
		if !cached {
			var err error
			admin, err = s.store.GetAdminByAuthUserID(r.Context(), claims.Subject)
			if errors.Is(err, core.ErrNotFound) {
				admin, err = s.store.CreateAdmin(r.Context(), core.Admin{
					AuthUserID: claims.Subject,
					Name:       claims.Name,
					Email:      claims.Email,
				})
				if errors.Is(err, core.ErrConflict) {
					// Concurrent first request already provisioned it.
					admin, err = s.store.GetAdminByAuthUserID(r.Context(), claims.Subject)
				}
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
			s.adminCache.Set(claims.Subject, admin)
		}

		ctx := auth.WithIdentity(r.Context(), auth.Identity{
			AdminID:    admin.ID,
			AuthUserID: admin.AuthUserID,
		})
		next(w, r.WithContext(ctx))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
