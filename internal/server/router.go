// Package server maps the ledger services onto their JSON HTTP surface.
// Route paths mirror the public API: auth, expenses, groups.
package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharein/sharein/internal/auth"
	"github.com/sharein/sharein/internal/middleware"
	"github.com/sharein/sharein/internal/service"
)

// Server holds the services behind the HTTP handlers.
type Server struct {
	auth     *service.AuthService
	expenses *service.ExpenseService
	groups   *service.GroupService
}

// New creates a Server over the given services.
func New(authSvc *service.AuthService, expenseSvc *service.ExpenseService, groupSvc *service.GroupService) *Server {
	return &Server{
		auth:     authSvc,
		expenses: expenseSvc,
		groups:   groupSvc,
	}
}

// Handler wires all routes. Every route except registration, login,
// health, and metrics requires a valid Bearer token.
func (s *Server) Handler(jwtManager *auth.JWTManager, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/auth/create_user", s.createUser)
	mux.HandleFunc("POST /api/v1/auth/login", s.login)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(jwtManager, h)
	}

	mux.Handle("POST /api/v1/expenses/create_expense", protected(s.createExpense))
	mux.Handle("GET /api/v1/expenses/get_expense/{id}", protected(s.getExpense))
	mux.Handle("PUT /api/v1/expenses/update_expense/{id}", protected(s.updateExpense))
	mux.Handle("DELETE /api/v1/expenses/delete_expense/{id}", protected(s.deleteExpense))

	mux.Handle("POST /api/v1/groups/create_group", protected(s.createGroup))
	mux.Handle("GET /api/v1/groups/get_groups", protected(s.getGroups))
	mux.Handle("GET /api/v1/groups/get_group/{id}", protected(s.getGroup))
	mux.Handle("GET /api/v1/groups/get_group_balances/{id}", protected(s.getGroupBalances))
	mux.Handle("DELETE /api/v1/groups/delete_group/{id}", protected(s.deleteGroup))
	mux.Handle("POST /api/v1/groups/add_user_to_group", protected(s.addUserToGroup))
	mux.Handle("POST /api/v1/groups/remove_user_from_group", protected(s.removeUserFromGroup))

	handler := middleware.Logging(middleware.Metrics(mux))
	if len(allowedOrigins) > 0 {
		handler = corsMiddleware(allowedOrigins)(handler)
	}
	return handler
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	normalized := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		normalized[origin] = struct{}{}
	}
	_, wildcard := normalized["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := normalized[origin]; !ok && !wildcard {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
