// Package devserver is a self-contained stand-in for the production
// rewards backend. It exists so the client, its feeds and its tests can
// run against something local; it deliberately reproduces the real
// backend's quirks, including the mixed response envelope shapes.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

type ctxKey int

const userKey ctxKey = iota

// Server holds the dev backend's state: the sqlite store, the winners
// websocket hub and the in-memory session table.
type Server struct {
	store *Store
	hub   *Hub

	mu       sync.Mutex
	sessions map[string]string // token -> email
}

// NewServer wires a server around an opened store.
func NewServer(store *Store) *Server {
	return &Server{
		store:    store,
		hub:      NewHub(),
		sessions: make(map[string]string),
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post("/api/user/login", s.handleLogin)
	r.Post("/api/user/signup", s.handleSignup)

	r.Get("/api/product", s.handleProducts)
	r.Get("/api/product/category", s.handleProductsByCategory)
	r.Get("/api/bets-item", s.handleBetItems)
	r.Get("/api/bets/winners", s.handleWinners)

	r.Handle("/ws/winners", s.hub)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)

		r.Get("/api/user/profile", s.handleProfile)

		r.Post("/api/order/create", s.handleCreateOrder)
		r.Get("/api/order/view", s.handleMyOrders)

		r.Post("/api/bets/place", s.handlePlaceBet)
		r.Get("/api/bets/my-bets", s.handleMyBets)

		r.Post("/api/wallet/create", s.handleCreateTopUp)
		r.Get("/api/wallet/user", s.handleWalletHistory)

		r.Get("/api/task/available/{type}", s.handleAvailableTasks)
		r.Post("/api/task/complete", s.handleCompleteTask)

		r.Post("/api/redeem/gift", s.handleRedeemGift)
		r.Get("/api/ads/stats", s.handleAdStats)
		r.Post("/api/ads/watchAd", s.handleWatchAd)
		r.Post("/api/spin/spin", s.handleSpin)
		r.Get("/api/question/emoji-next", s.handleNextQuestions)
		r.Post("/api/question/emoji-answer", s.handleAnswerQuestion)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated, s.adminOnly)

		r.Get("/api/user", s.handleUsers)

		r.Post("/api/product/create", s.handleCreateProduct)
		r.Put("/api/product/update/{id}", s.handleUpdateProduct)
		r.Delete("/api/product/delete/{id}", s.handleDeleteProduct)

		r.Post("/api/bets-item", s.handleCreateBetItem)
		r.Delete("/api/bets-item/{id}", s.handleDeleteBetItem)
		r.Get("/api/bets/all", s.handleAllBets)
		r.Post("/api/bets/resolve/{id}", s.handleResolveBet)

		r.Get("/api/order/all", s.handleAllOrders)
		r.Put("/api/order/update/{id}", s.handleUpdateOrderStatus)

		r.Get("/api/wallet/pending/{username}", s.handlePendingRequests)
		r.Post("/api/wallet/accept/{id}", s.handleAcceptRequest)
		r.Get("/api/wallet/all", s.handleWalletAll)

		r.Get("/api/task/all", s.handleAllTasks)
		r.Post("/api/task", s.handleCreateTask)
		r.Delete("/api/task/{id}", s.handleDeleteTask)

		r.Post("/api/giftcode", s.handleCreateGiftCode)

		r.Get("/api/question/emoji-question/all", s.handleAllQuizQuestions)
		r.Post("/api/question/emoji-question/create", s.handleCreateQuizQuestion)
		r.Put("/api/question/emoji-question/{id}", s.handleUpdateQuizQuestion)
		r.Delete("/api/question/emoji-question/{id}", s.handleDeleteQuizQuestion)
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// HTTPServer wraps the handler in an h2c-capable server on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}
}

// Sessions

func (s *Server) issueToken(email string) string {
	token, err := gonanoid.New(32)
	if err != nil {
		// nanoid only fails when the system RNG does.
		panic(err)
	}
	s.mu.Lock()
	s.sessions[token] = email
	s.mu.Unlock()
	return token
}

func (s *Server) emailForToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[token]
	return email, ok
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		email, ok := s.emailForToken(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		user, err := s.store.UserByEmail(email)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r).Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *models.User {
	return r.Context().Value(userKey).(*models.User)
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeAck(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
