package devserver

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/winnersfeed"
)

const (
	maxAdsPerDay = 10
	adReward     = 5
	winnersLimit = 20
)

// spinWheel segments; the wheel the client animates has the same order.
var spinWheel = []int64{0, 5, 10, 20, 50, 100}

// codeAlphabet avoids ambiguous characters in user-facing codes.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newCode(length int) string {
	code, err := gonanoid.Generate(codeAlphabet, length)
	if err != nil {
		panic(err)
	}
	return code
}

// Auth

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, models.Session{
		Token:   s.issueToken(user.Email),
		User:    *user,
		Message: "Login successful",
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	id := uuid.NewString()
	if err := s.store.CreateUser(id, req.Username, req.Email, req.Password, models.RoleCustomer); err != nil {
		writeError(w, http.StatusConflict, "an account with that email already exists")
		return
	}
	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load new account")
		return
	}
	writeJSON(w, http.StatusOK, models.Session{
		Token:   s.issueToken(user.Email),
		User:    *user,
		Message: "Account created",
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"list": users})
}

// Products

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.Products("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.Products(r.URL.Query().Get("cat"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"list": products})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name required")
		return
	}
	req.ID = uuid.NewString()
	if err := s.store.InsertProduct(req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Product created")
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.UpdateProduct(chi.URLParam(r, "id"), req); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Product updated")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Product deleted")
}

// Orders

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string              `json:"product_id"`
		Quantity    int                 `json:"quantity"`
		UserAddress models.OrderAddress `json:"user_address"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	product, err := s.store.ProductByID(req.ProductID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	user := currentUser(r)
	order := models.Order{
		ID:          uuid.NewString(),
		OrderID:     "ORD-" + newCode(8),
		UserEmail:   user.Email,
		UserName:    user.Username,
		Quantity:    req.Quantity,
		OrderStatus: models.OrderPending,
		ProductDetails: models.OrderProduct{
			ProductID:   product.ID,
			ProductName: product.Name,
			CoinPrice:   product.CoinPrice,
			MainPrice:   product.MainPrice,
		},
		UserAddress: req.UserAddress,
	}
	if err := s.store.CreateOrder(r.Context(), order); err != nil {
		if errors.Is(err, ErrInsufficientCoins) {
			writeError(w, http.StatusBadRequest, "Not enough coins for this order")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Order placed")
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.Orders(currentUser(r).Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "total": len(orders)})
}

func (s *Server) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.Orders("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "total": len(orders)})
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderStatus string `json:"order_status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.OrderStatus {
	case models.OrderPending, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}
	if err := s.store.UpdateOrderStatus(chi.URLParam(r, "id"), req.OrderStatus); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Order updated")
}

// Bets

func (s *Server) handleBetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.BetItems()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Bare array, no wrapper. The real backend is inconsistent like this.
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateBetItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
		CoinPrice   int64   `json:"coin_price"`
		MainPrice   float64 `json:"main_price"`
		StartTime   string  `json:"start_time"`
		EndTime     string  `json:"end_time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name required")
		return
	}
	id := uuid.NewString()
	if err := s.store.InsertBetItem(id, req.Name, req.Description, req.Image, req.CoinPrice, req.MainPrice, req.StartTime, req.EndTime); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Bet item created")
}

func (s *Server) handleDeleteBetItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBetItem(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Bet item deleted")
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := s.store.BetItemByID(req.ItemID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !windowLive(item.StartTime, item.EndTime) {
		writeError(w, http.StatusBadRequest, "Betting is closed for this item")
		return
	}

	user := currentUser(r)
	bet := models.Bet{
		ID:        uuid.NewString(),
		BetCode:   "BET-" + newCode(8),
		ItemID:    item.ID,
		ItemName:  item.Name,
		UserEmail: user.Email,
		CoinPrice: item.CoinPrice,
	}
	if err := s.store.PlaceBet(r.Context(), bet); err != nil {
		if errors.Is(err, ErrInsufficientCoins) {
			writeError(w, http.StatusBadRequest, "Not enough coins to place this bet")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Bet placed: "+bet.BetCode)
}

// windowLive reports whether now falls inside a bidding window. Either
// bound failing to parse closes the window.
func windowLive(start, end string) bool {
	parse := func(v string) (time.Time, bool) {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	st, ok := parse(start)
	if !ok {
		return false
	}
	et, ok := parse(end)
	if !ok {
		return false
	}
	now := time.Now().UTC()
	return !now.Before(st) && now.Before(et)
}

func (s *Server) handleMyBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.store.Bets(currentUser(r).Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bets": bets})
}

func (s *Server) handleAllBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.store.Bets("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bets": bets})
}

func (s *Server) handleWinners(w http.ResponseWriter, r *http.Request) {
	winners, err := s.store.Winners(winnersLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": winners,
		"meta": map[string]int{"count": len(winners)},
	})
}

// handleResolveBet draws a winner among an item's bets, retires the item
// and broadcasts the refreshed winners list to stream clients.
func (s *Server) handleResolveBet(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	item, err := s.store.BetItemByID(itemID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	bets, err := s.store.BetsForItem(itemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(bets) == 0 {
		writeError(w, http.StatusBadRequest, "No bets placed on this item")
		return
	}

	winning := bets[rand.Intn(len(bets))]
	var userName string
	if u, err := s.store.UserByEmail(winning.UserEmail); err == nil {
		userName = u.Username
	}

	announcement := models.WinnerAnnouncement{
		ProductID:    item.ID,
		ProductName:  item.Name,
		ProductImage: item.Image,
		ProductPrice: item.MainPrice,
		UserName:     userName,
		UserEmail:    winning.UserEmail,
		BetCode:      winning.BetCode,
	}
	if err := s.store.InsertWinner(announcement); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.DeleteBetItem(itemID); err != nil {
		log.Warn().Err(err).Str("item_id", itemID).Msg("failed to retire resolved bet item")
	}

	winners, err := s.store.Winners(winnersLimit)
	if err == nil {
		s.hub.Broadcast(winnersfeed.Event{Type: winnersfeed.EventTypeWinners, Winners: winners})
	}
	writeAck(w, "Winner drawn: "+winning.BetCode)
}

// Wallet

func (s *Server) handleCreateTopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount    float64 `json:"amount"`
		Method    string  `json:"method"`
		Reference string  `json:"reference"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if !models.ValidPaymentMethod(req.Method) {
		writeError(w, http.StatusBadRequest, "unsupported payment method")
		return
	}

	request := models.WalletRequest{
		RequestID: "REQ-" + newCode(8),
		Username:  currentUser(r).Username,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	}
	if err := s.store.InsertWalletRequest(request); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Top-up submitted for approval")
}

func (s *Server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.WalletRequests(currentUser(r).Username, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": requests})
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.WalletRequests(chi.URLParam(r, "username"), models.WalletRequested)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": requests})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.store.AcceptWalletRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeAck(w, "Request accepted")
}

func (s *Server) handleWalletAll(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.WalletRequests("", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": requests})
}

// Tasks

func (s *Server) handleAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Tasks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleAvailableTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.AvailableTasks(chi.URLParam(r, "type"), currentUser(r).Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID string `json:"task_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	reward, err := s.store.CompleteTask(r.Context(), req.TaskID, currentUser(r).Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task completed",
		"reward":  reward,
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.Task
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "title and type are required")
		return
	}
	req.TaskID = uuid.NewString()
	if err := s.store.InsertTask(req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Task published")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Task deleted")
}

// Gift codes and earn flows

func (s *Server) handleRedeemGift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	coins, err := s.store.RedeemGiftCode(r.Context(), req.Code, currentUser(r).Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Gift redeemed",
		"coins":   coins,
	})
}

func (s *Server) handleCreateGiftCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coins int64 `json:"coins"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Coins <= 0 {
		writeError(w, http.StatusBadRequest, "coins must be positive")
		return
	}
	code := models.GiftCode{Code: newCode(10), Coins: req.Coins}
	if err := s.store.InsertGiftCode(code.Code, code.Coins); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, code)
}

func dayKey() string {
	return time.Now().UTC().Format("2006-01-02")
}

func (s *Server) handleAdStats(w http.ResponseWriter, r *http.Request) {
	watched, err := s.store.AdsWatchedToday(currentUser(r).Email, dayKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.AdStats{
		AdsWatchedToday: watched,
		MaxPerDay:       maxAdsPerDay,
		RewardPerAd:     adReward,
	})
}

func (s *Server) handleWatchAd(w http.ResponseWriter, r *http.Request) {
	email := currentUser(r).Email
	watched, err := s.store.AdsWatchedToday(email, dayKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if watched >= maxAdsPerDay {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Daily ad limit reached",
		})
		return
	}
	if err := s.store.RecordAdView(r.Context(), email, dayKey(), adReward); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Ad view recorded")
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	reward := spinWheel[rand.Intn(len(spinWheel))]
	if reward > 0 {
		if err := s.store.AdjustCoins(user.Email, reward); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	fresh, err := s.store.UserByEmail(user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	message := "Better luck next time"
	if reward > 0 {
		message = "You won coins!"
	}
	writeJSON(w, http.StatusOK, models.SpinResult{
		Success:     true,
		Reward:      reward,
		CoinBalance: fresh.CoinBalance,
		Message:     message,
	})
}

func (s *Server) handleNextQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.NextQuizQuestions(currentUser(r).Email, 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Bare array, same quirk as bet items.
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	email := currentUser(r).Email
	correct, reward, err := s.store.AnswerQuizQuestion(req.QuestionID, email, req.Answer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fresh, err := s.store.UserByEmail(email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	remaining, _ := s.store.NextQuizQuestions(email, 100)
	writeJSON(w, http.StatusOK, models.QuizAnswer{
		Correct:           correct,
		Reward:            reward,
		CoinBalance:       fresh.CoinBalance,
		AttemptsRemaining: len(remaining),
	})
}

func (s *Server) handleAllQuizQuestions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.QuizEntries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"list": entries})
}

func (s *Server) handleCreateQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuizEntry
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Emoji == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "emoji and answer are required")
		return
	}
	req.ID = uuid.NewString()
	if err := s.store.InsertQuizQuestion(req.ID, req.Emoji, req.Answer, req.Options, req.Reward); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAck(w, "Question published")
}

func (s *Server) handleUpdateQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuizEntry
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.store.UpdateQuizQuestion(id, req.Emoji, req.Answer, req.Options, req.Reward); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Question updated")
}

func (s *Server) handleDeleteQuizQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuizQuestion(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeAck(w, "Question deleted")
}
