package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/coinbazaar/coinbazaar/go/clients"
	"github.com/coinbazaar/coinbazaar/go/clients/rewards_api_client"
	"github.com/coinbazaar/coinbazaar/go/internal/devserver"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := devserver.OpenStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Seed(); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	ts := httptest.NewServer(devserver.NewServer(store).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, baseURL, email, password string) *rewards_api_client.RewardsApiClient {
	t.Helper()
	tokens := token.NewMemoryStore()
	client := rewards_api_client.NewRewardsApiClient(baseURL, tokens)
	session, err := client.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login as %s failed: %v", email, err)
	}
	if err := tokens.SetToken(session.Token); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}
	return client
}

func TestSeededCatalogRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	client := rewards_api_client.NewRewardsApiClient(ts.URL, nil)
	ctx := context.Background()

	products, err := client.Products(ctx)
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("seeded catalog has %d products, want 3", len(products))
	}

	merch, err := client.ProductsByCategory(ctx, "merch")
	if err != nil {
		t.Fatalf("ProductsByCategory failed: %v", err)
	}
	if len(merch) != 1 || merch[0].Name != "Coin Bazaar Mug" {
		t.Errorf("merch category = %+v, want the mug", merch)
	}

	items, err := client.BetItems(ctx)
	if err != nil {
		t.Fatalf("BetItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("seeded bet items = %d, want 3", len(items))
	}
	// The mystery box ships a window that cannot be parsed; it must still
	// arrive, just with an invalid window.
	var broken *models.BetItem
	for i := range items {
		if items[i].Name == "Mystery Box" {
			broken = &items[i]
		}
	}
	if broken == nil {
		t.Fatal("mystery box missing from bet items")
	}
	if broken.WindowValid() {
		t.Error("mystery box window parsed; seed should keep it broken")
	}
}

func TestAuthAndProfile(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	// A stale token is rejected by the server with a 401.
	stale := token.NewMemoryStore()
	stale.SetToken("not-a-real-token")
	anon := rewards_api_client.NewRewardsApiClient(ts.URL, stale)
	if _, err := anon.Profile(ctx); !clients.IsUnauthorized(err) {
		t.Errorf("expected 401 for stale token, got %v", err)
	}

	client := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")
	user, err := client.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Role != models.RoleCustomer || user.CoinBalance != 500 {
		t.Errorf("demo profile = %+v, want customer with 500 coins", user)
	}

	// Wrong password surfaces the backend message as a typed error.
	bad := rewards_api_client.NewRewardsApiClient(ts.URL, nil)
	if _, err := bad.Login(ctx, "demo@coinbazaar.dev", "nope"); err == nil {
		t.Error("expected login with wrong password to fail")
	}
}

func TestAdminProductLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	admin := login(t, ts.URL, "admin@coinbazaar.dev", "admin123")

	ack, err := admin.CreateProduct(ctx, rewards_api_client.ProductPayload{
		Name: "Desk Lamp", Category: "electronics", CoinPrice: 300, MainPrice: 19.99,
	})
	if err != nil || !ack.OK() {
		t.Fatalf("CreateProduct failed: err=%v ack=%+v", err, ack)
	}

	products, err := admin.Products(ctx)
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(products) != 4 {
		t.Fatalf("catalog after create = %d products, want 4", len(products))
	}
	var lampID string
	for _, p := range products {
		if p.Name == "Desk Lamp" {
			lampID = p.ID
		}
	}
	if lampID == "" {
		t.Fatal("created product not in list")
	}

	if ack, err := admin.DeleteProduct(ctx, lampID); err != nil || !ack.OK() {
		t.Fatalf("DeleteProduct failed: err=%v ack=%+v", err, ack)
	}
	products, _ = admin.Products(ctx)
	if len(products) != 3 {
		t.Errorf("catalog after delete = %d products, want 3", len(products))
	}

	// A customer must not reach admin routes.
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")
	if ack, err := demo.CreateProduct(ctx, rewards_api_client.ProductPayload{Name: "Nope"}); err == nil && ack.OK() {
		t.Error("customer create product should be forbidden")
	}
}

func TestBetPlacementAndResolution(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")
	admin := login(t, ts.URL, "admin@coinbazaar.dev", "admin123")

	// The console window is live; the phone window has not opened yet.
	if ack, err := demo.PlaceBet(ctx, "b-console"); err != nil || !ack.OK() {
		t.Fatalf("PlaceBet on live item failed: err=%v ack=%+v", err, ack)
	}
	if _, err := demo.PlaceBet(ctx, "b-phone"); err == nil {
		t.Error("bet on an unopened window should be rejected")
	}

	user, _ := demo.Profile(ctx)
	if user.CoinBalance != 450 {
		t.Errorf("balance after 50-coin bet = %d, want 450", user.CoinBalance)
	}

	bets, err := demo.MyBets(ctx)
	if err != nil || len(bets) != 1 {
		t.Fatalf("MyBets = %v (err %v), want one bet", bets, err)
	}

	if ack, err := admin.ResolveBet(ctx, "b-console"); err != nil || !ack.OK() {
		t.Fatalf("ResolveBet failed: err=%v ack=%+v", err, ack)
	}

	winners, err := demo.Winners(ctx)
	if err != nil {
		t.Fatalf("Winners failed: %v", err)
	}
	if len(winners) != 1 || winners[0].ProductName != "Game Console" {
		t.Fatalf("winners after resolution = %+v, want the console", winners)
	}
	if winners[0].DisplayName() != "demo" {
		t.Errorf("winner display name = %q, want demo", winners[0].DisplayName())
	}

	// The resolved item leaves the open list.
	items, _ := demo.BetItems(ctx)
	if len(items) != 2 {
		t.Errorf("bet items after resolution = %d, want 2", len(items))
	}
}

func TestWalletApprovalFlow(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")
	admin := login(t, ts.URL, "admin@coinbazaar.dev", "admin123")

	ack, err := demo.CreateTopUp(ctx, rewards_api_client.TopUpPayload{
		Amount: 25, Method: "bank", Reference: "TX-1",
	})
	if err != nil || !ack.OK() {
		t.Fatalf("CreateTopUp failed: err=%v ack=%+v", err, ack)
	}

	pending, err := admin.PendingRequests(ctx, "demo")
	if err != nil || len(pending) != 1 {
		t.Fatalf("PendingRequests = %v (err %v), want one", pending, err)
	}
	if pending[0].Status != models.WalletRequested {
		t.Errorf("pending status = %q, want requested", pending[0].Status)
	}

	if ack, err := admin.AcceptRequest(ctx, pending[0].RequestID); err != nil || !ack.OK() {
		t.Fatalf("AcceptRequest failed: err=%v ack=%+v", err, ack)
	}

	// Accepting twice must not double-credit.
	if _, err := admin.AcceptRequest(ctx, pending[0].RequestID); err == nil {
		t.Error("second accept of the same request should fail")
	}

	user, _ := demo.Profile(ctx)
	if user.WalletBalance != 25 {
		t.Errorf("wallet after accept = %v, want 25", user.WalletBalance)
	}

	if pending, _ := admin.PendingRequests(ctx, "demo"); len(pending) != 0 {
		t.Errorf("pending after accept = %d, want 0", len(pending))
	}

	history, err := demo.WalletHistory(ctx)
	if err != nil || len(history) != 1 {
		t.Fatalf("WalletHistory = %v (err %v), want one entry", history, err)
	}
	if history[0].Status != models.WalletAccepted {
		t.Errorf("history status = %q, want accepted", history[0].Status)
	}
}

func TestEarnFlows(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")

	stats, err := demo.AdStats(ctx)
	if err != nil {
		t.Fatalf("AdStats failed: %v", err)
	}
	if stats.AdsWatchedToday != 0 || stats.MaxPerDay != 10 {
		t.Errorf("fresh ad stats = %+v", stats)
	}

	if ack, err := demo.WatchAd(ctx); err != nil || !ack.OK() {
		t.Fatalf("WatchAd failed: err=%v ack=%+v", err, ack)
	}
	stats, _ = demo.AdStats(ctx)
	if stats.AdsWatchedToday != 1 {
		t.Errorf("ads watched after one view = %d, want 1", stats.AdsWatchedToday)
	}

	if ack, err := demo.RedeemGift(ctx, "WELCOME50"); err != nil || !ack.OK() {
		t.Fatalf("RedeemGift failed: err=%v ack=%+v", err, ack)
	}
	// Single use.
	if _, err := demo.RedeemGift(ctx, "WELCOME50"); err == nil {
		t.Error("second redemption of the same code should fail")
	}

	tasks, err := demo.AvailableTasks(ctx, "social")
	if err != nil || len(tasks) != 2 {
		t.Fatalf("AvailableTasks = %v (err %v), want two social tasks", tasks, err)
	}
	if ack, err := demo.CompleteTask(ctx, tasks[0].TaskID); err != nil || !ack.OK() {
		t.Fatalf("CompleteTask failed: err=%v ack=%+v", err, ack)
	}
	if remaining, _ := demo.AvailableTasks(ctx, "social"); len(remaining) != 1 {
		t.Errorf("available social tasks after completion = %d, want 1", len(remaining))
	}

	questions, err := demo.NextQuestions(ctx)
	if err != nil || len(questions) != 3 {
		t.Fatalf("NextQuestions = %v (err %v), want three", questions, err)
	}
	verdict, err := demo.AnswerQuestion(ctx, "q-1", "Pizza")
	if err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}
	if !verdict.Correct || verdict.Reward != 10 {
		t.Errorf("verdict = %+v, want correct with reward 10", verdict)
	}
	if remaining, _ := demo.NextQuestions(ctx); len(remaining) != 2 {
		t.Errorf("questions after answering = %d, want 2", len(remaining))
	}
}

func TestAdminQuizLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	admin := login(t, ts.URL, "admin@coinbazaar.dev", "admin123")

	entries, err := admin.QuizQuestions(ctx)
	if err != nil {
		t.Fatalf("QuizQuestions failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("seeded quiz entries = %d, want 3", len(entries))
	}
	// The admin list carries answers; the player feed never does.
	if entries[0].Answer == "" {
		t.Error("admin quiz entry is missing its answer")
	}

	ack, err := admin.CreateQuizQuestion(ctx, rewards_api_client.QuizPayload{
		Emoji:   "🧊🏠",
		Answer:  "Igloo",
		Options: []string{"Igloo", "Freezer", "Cabin"},
		Reward:  15,
	})
	if err != nil || !ack.OK() {
		t.Fatalf("CreateQuizQuestion failed: err=%v ack=%+v", err, ack)
	}

	entries, _ = admin.QuizQuestions(ctx)
	if len(entries) != 4 {
		t.Fatalf("quiz entries after create = %d, want 4", len(entries))
	}
	var igloo *models.QuizEntry
	for i := range entries {
		if entries[i].Answer == "Igloo" {
			igloo = &entries[i]
		}
	}
	if igloo == nil {
		t.Fatal("created question not in list")
	}

	if ack, err := admin.UpdateQuizQuestion(ctx, igloo.ID, rewards_api_client.QuizPayload{
		Emoji:   "🧊🏠",
		Answer:  "Ice House",
		Options: []string{"Ice House", "Freezer", "Cabin"},
		Reward:  20,
	}); err != nil || !ack.OK() {
		t.Fatalf("UpdateQuizQuestion failed: err=%v ack=%+v", err, ack)
	}
	entries, _ = admin.QuizQuestions(ctx)
	var updated *models.QuizEntry
	for i := range entries {
		if entries[i].ID == igloo.ID {
			updated = &entries[i]
		}
	}
	if updated == nil || updated.Answer != "Ice House" || updated.Reward != 20 {
		t.Errorf("updated entry = %+v, want new answer and reward", updated)
	}

	// Updating a missing question is a 404, not a silent no-op.
	if _, err := admin.UpdateQuizQuestion(ctx, "q-missing", rewards_api_client.QuizPayload{
		Emoji: "❓", Answer: "Nope",
	}); err == nil {
		t.Error("update of a missing question should fail")
	}

	if ack, err := admin.DeleteQuizQuestion(ctx, igloo.ID); err != nil || !ack.OK() {
		t.Fatalf("DeleteQuizQuestion failed: err=%v ack=%+v", err, ack)
	}
	if entries, _ := admin.QuizQuestions(ctx); len(entries) != 3 {
		t.Errorf("quiz entries after delete = %d, want 3", len(entries))
	}

	// Question management is admin-only.
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")
	if _, err := demo.QuizQuestions(ctx); err == nil {
		t.Error("customer quiz listing should be forbidden")
	}
}

func TestOrderCheckoutDeductsCoins(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	demo := login(t, ts.URL, "demo@coinbazaar.dev", "demo123")

	ack, err := demo.CreateOrder(ctx, rewards_api_client.OrderPayload{
		ProductID: "p-mug",
		Quantity:  2,
		UserAddress: models.OrderAddress{
			Name: "Demo User", PhoneNumber: "555-0100",
			AddressLine: "1 Demo St", District: "Central",
		},
	})
	if err != nil || !ack.OK() {
		t.Fatalf("CreateOrder failed: err=%v ack=%+v", err, ack)
	}

	user, _ := demo.Profile(ctx)
	if user.CoinBalance != 200 {
		t.Errorf("balance after 2x150 order = %d, want 200", user.CoinBalance)
	}

	orders, err := demo.MyOrders(ctx)
	if err != nil || len(orders) != 1 {
		t.Fatalf("MyOrders = %v (err %v), want one order", orders, err)
	}
	if orders[0].OrderStatus != models.OrderPending || orders[0].Quantity != 2 {
		t.Errorf("order = %+v, want pending qty 2", orders[0])
	}
	if got := orders[0].TotalPrice(); got != 19.98 {
		t.Errorf("order total = %v, want 19.98", got)
	}

	// The headphones cost more than the demo balance.
	if _, err := demo.CreateOrder(ctx, rewards_api_client.OrderPayload{
		ProductID: "p-headphones", Quantity: 1,
	}); err == nil {
		t.Error("order beyond coin balance should be rejected")
	}
}
