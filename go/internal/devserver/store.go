package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/sqlutil"
)

// Store is the dev server's sqlite backing. Single writer, WAL mode.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the sqlite database at path. Use
// ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			username TEXT NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			coin_balance INTEGER NOT NULL DEFAULT 0,
			wallet_balance REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			image TEXT,
			category TEXT,
			coin_price INTEGER NOT NULL DEFAULT 0,
			main_price REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bet_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			image TEXT,
			coin_price INTEGER NOT NULL DEFAULT 0,
			main_price REAL NOT NULL DEFAULT 0,
			start_time TEXT,
			end_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bets (
			id TEXT PRIMARY KEY,
			bet_code TEXT NOT NULL,
			item_id TEXT NOT NULL,
			item_name TEXT NOT NULL,
			user_email TEXT NOT NULL,
			coin_price INTEGER NOT NULL,
			placed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS winners (
			rowid_ord INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT,
			product_name TEXT,
			product_image TEXT,
			product_price REAL,
			user_name TEXT,
			user_email TEXT,
			bet_code TEXT,
			date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			user_email TEXT NOT NULL,
			user_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			order_status TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_coin_price INTEGER NOT NULL,
			product_main_price REAL NOT NULL,
			addr_name TEXT,
			addr_phone TEXT,
			addr_line TEXT,
			addr_district TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS wallet_requests (
			request_id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			amount REAL NOT NULL,
			method TEXT,
			reference TEXT,
			status TEXT NOT NULL DEFAULT 'requested',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			link TEXT,
			reward INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS task_completions (
			task_id TEXT NOT NULL,
			user_email TEXT NOT NULL,
			PRIMARY KEY (task_id, user_email)
		)`,
		`CREATE TABLE IF NOT EXISTS gift_codes (
			code TEXT PRIMARY KEY,
			coins INTEGER NOT NULL,
			redeemed BOOLEAN NOT NULL DEFAULT false,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ad_views (
			user_email TEXT NOT NULL,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_email, day)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_questions (
			id TEXT PRIMARY KEY,
			emoji TEXT NOT NULL,
			answer TEXT NOT NULL,
			options TEXT NOT NULL,
			reward INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_answers (
			question_id TEXT NOT NULL,
			user_email TEXT NOT NULL,
			PRIMARY KEY (question_id, user_email)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate dev db: %w", err)
		}
	}
	return nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Users

// CreateUser inserts an account. Passwords are stored in the clear; this
// store only ever backs local development.
func (s *Store) CreateUser(id, username, email, password, role string) error {
	_, err := s.db.Exec(
		`INSERT INTO users (email, id, username, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		email, id, username, password, role, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Authenticate checks credentials and returns the account on a match.
func (s *Store) Authenticate(email, password string) (*models.User, bool) {
	row := s.db.QueryRow(
		`SELECT password FROM users WHERE email = ?`, email,
	)
	var stored string
	if err := row.Scan(&stored); err != nil || stored != password {
		return nil, false
	}
	u, err := s.UserByEmail(email)
	if err != nil {
		return nil, false
	}
	return u, true
}

// UserByEmail loads one account.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(
		`SELECT id, username, email, role, coin_balance, wallet_balance, created_at
		 FROM users WHERE email = ?`, email,
	)
	var u models.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CoinBalance, &u.WalletBalance, &created); err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}
	u.CreatedAt = flexStamp(created)
	return &u, nil
}

// Users lists every account.
func (s *Store) Users() ([]models.User, error) {
	rows, err := s.db.Query(
		`SELECT id, username, email, role, coin_balance, wallet_balance, created_at
		 FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var created string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CoinBalance, &u.WalletBalance, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = flexStamp(created)
		out = append(out, u)
	}
	return out, rows.Err()
}

// ErrInsufficientCoins is returned when a deduction would take a
// balance below zero.
var ErrInsufficientCoins = errors.New("insufficient coin balance")

// execer is the overlap of *sql.DB and *sql.Tx, so balance moves can
// run standalone or inside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func adjustCoins(db execer, email string, delta int64) error {
	res, err := db.Exec(
		`UPDATE users SET coin_balance = coin_balance + ?
		 WHERE email = ? AND coin_balance + ? >= 0`,
		delta, email, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust coins: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrInsufficientCoins
	}
	return nil
}

// AdjustCoins moves a user's coin balance by delta, refusing to go
// negative.
func (s *Store) AdjustCoins(email string, delta int64) error {
	return adjustCoins(s.db, email, delta)
}

// AdjustWallet moves a user's cash balance by delta.
func (s *Store) AdjustWallet(username string, delta float64) error {
	_, err := s.db.Exec(
		`UPDATE users SET wallet_balance = wallet_balance + ? WHERE username = ?`,
		delta, username,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust wallet: %w", err)
	}
	return nil
}

// Products

// InsertProduct adds a catalog product.
func (s *Store) InsertProduct(p models.Product) error {
	_, err := s.db.Exec(
		`INSERT INTO products (id, name, description, image, category, coin_price, main_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Image, p.Category, p.CoinPrice, p.MainPrice, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// UpdateProduct replaces a product's editable fields.
func (s *Store) UpdateProduct(id string, p models.Product) error {
	res, err := s.db.Exec(
		`UPDATE products SET name = ?, description = ?, image = ?, category = ?, coin_price = ?, main_price = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Image, p.Category, p.CoinPrice, p.MainPrice, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(id string) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// Products lists the catalog, optionally filtered by category.
func (s *Store) Products(category string) ([]models.Product, error) {
	query := `SELECT id, name, description, image, category, coin_price, main_price, created_at FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	rows, err := s.db.Query(query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Category, &p.CoinPrice, &p.MainPrice, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = flexStamp(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProductByID loads one product.
func (s *Store) ProductByID(id string) (*models.Product, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, image, category, coin_price, main_price, created_at
		 FROM products WHERE id = ?`, id,
	)
	var p models.Product
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Category, &p.CoinPrice, &p.MainPrice, &created); err != nil {
		return nil, fmt.Errorf("product %s not found", id)
	}
	p.CreatedAt = flexStamp(created)
	return &p, nil
}

// Bet items and bets

// InsertBetItem adds a bet item. Window bounds are stored verbatim so a
// seeded malformed window survives the round trip.
func (s *Store) InsertBetItem(id, name, description, image string, coinPrice int64, mainPrice float64, startTime, endTime string) error {
	_, err := s.db.Exec(
		`INSERT INTO bet_items (id, name, description, image, coin_price, main_price, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, description, image, coinPrice, mainPrice, startTime, endTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bet item: %w", err)
	}
	return nil
}

// DeleteBetItem removes a bet item.
func (s *Store) DeleteBetItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM bet_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bet item %s not found", id)
	}
	return nil
}

// BetItemRecord carries the stored window strings so handlers can emit them
// untouched.
type BetItemRecord struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CoinPrice   int64   `json:"coin_price"`
	MainPrice   float64 `json:"main_price"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
}

// BetItems lists every bet item with raw window strings.
func (s *Store) BetItems() ([]BetItemRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, image, coin_price, main_price, start_time, end_time FROM bet_items`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bet items: %w", err)
	}
	defer rows.Close()

	var out []BetItemRecord
	for rows.Next() {
		var b BetItemRecord
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Image, &b.CoinPrice, &b.MainPrice, &b.StartTime, &b.EndTime); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BetItemByID loads one bet item.
func (s *Store) BetItemByID(id string) (*BetItemRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, image, coin_price, main_price, start_time, end_time
		 FROM bet_items WHERE id = ?`, id,
	)
	var b BetItemRecord
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Image, &b.CoinPrice, &b.MainPrice, &b.StartTime, &b.EndTime); err != nil {
		return nil, fmt.Errorf("bet item %s not found", id)
	}
	return &b, nil
}

// PlaceBet deducts the stake and records the bet as one unit; a failed
// insert never leaves coins missing.
func (s *Store) PlaceBet(ctx context.Context, b models.Bet) error {
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		if err := adjustCoins(tx, b.UserEmail, -b.CoinPrice); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO bets (id, bet_code, item_id, item_name, user_email, coin_price, placed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.BetCode, b.ItemID, b.ItemName, b.UserEmail, b.CoinPrice, nowStamp(),
		); err != nil {
			return fmt.Errorf("failed to insert bet: %w", err)
		}
		return nil
	})
}

// Bets lists stakes, all of them or one user's.
func (s *Store) Bets(userEmail string) ([]models.Bet, error) {
	query := `SELECT id, bet_code, item_id, item_name, user_email, coin_price, placed_at FROM bets`
	args := []any{}
	if userEmail != "" {
		query += ` WHERE user_email = ?`
		args = append(args, userEmail)
	}
	rows, err := s.db.Query(query+` ORDER BY placed_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var out []models.Bet
	for rows.Next() {
		var b models.Bet
		var placed string
		if err := rows.Scan(&b.ID, &b.BetCode, &b.ItemID, &b.ItemName, &b.UserEmail, &b.CoinPrice, &placed); err != nil {
			return nil, err
		}
		b.PlacedAt = flexStamp(placed)
		out = append(out, b)
	}
	return out, rows.Err()
}

// BetsForItem lists stakes on one item.
func (s *Store) BetsForItem(itemID string) ([]models.Bet, error) {
	rows, err := s.db.Query(
		`SELECT id, bet_code, item_id, item_name, user_email, coin_price, placed_at
		 FROM bets WHERE item_id = ?`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets for item: %w", err)
	}
	defer rows.Close()

	var out []models.Bet
	for rows.Next() {
		var b models.Bet
		var placed string
		if err := rows.Scan(&b.ID, &b.BetCode, &b.ItemID, &b.ItemName, &b.UserEmail, &b.CoinPrice, &placed); err != nil {
			return nil, err
		}
		b.PlacedAt = flexStamp(placed)
		out = append(out, b)
	}
	return out, rows.Err()
}

// InsertWinner records a resolved bet announcement.
func (s *Store) InsertWinner(w models.WinnerAnnouncement) error {
	_, err := s.db.Exec(
		`INSERT INTO winners (product_id, product_name, product_image, product_price, user_name, user_email, bet_code, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ProductID, w.ProductName, w.ProductImage, w.ProductPrice, w.UserName, w.UserEmail, w.BetCode, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert winner: %w", err)
	}
	return nil
}

// Winners lists recent announcements, newest first.
func (s *Store) Winners(limit int) ([]models.WinnerAnnouncement, error) {
	rows, err := s.db.Query(
		`SELECT product_id, product_name, product_image, product_price, user_name, user_email, bet_code, date
		 FROM winners ORDER BY rowid_ord DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	defer rows.Close()

	var out []models.WinnerAnnouncement
	for rows.Next() {
		var w models.WinnerAnnouncement
		var date string
		if err := rows.Scan(&w.ProductID, &w.ProductName, &w.ProductImage, &w.ProductPrice, &w.UserName, &w.UserEmail, &w.BetCode, &date); err != nil {
			return nil, err
		}
		w.Date = flexStamp(date)
		out = append(out, w)
	}
	return out, rows.Err()
}

// Orders

// CreateOrder deducts the coin cost and records the redemption as one
// unit; a failed insert never leaves coins missing.
func (s *Store) CreateOrder(ctx context.Context, o models.Order) error {
	cost := o.ProductDetails.CoinPrice * int64(o.Quantity)
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		if err := adjustCoins(tx, o.UserEmail, -cost); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO orders (id, order_id, user_email, user_name, quantity, order_status,
			    product_id, product_name, product_coin_price, product_main_price,
			    addr_name, addr_phone, addr_line, addr_district, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderID, o.UserEmail, o.UserName, o.Quantity, o.OrderStatus,
			o.ProductDetails.ProductID, o.ProductDetails.ProductName,
			o.ProductDetails.CoinPrice, o.ProductDetails.MainPrice,
			o.UserAddress.Name, o.UserAddress.PhoneNumber, o.UserAddress.AddressLine, o.UserAddress.District,
			nowStamp(),
		); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	})
}

// Orders lists redemptions, all of them or one user's.
func (s *Store) Orders(userEmail string) ([]models.Order, error) {
	query := `SELECT id, order_id, user_email, user_name, quantity, order_status,
		product_id, product_name, product_coin_price, product_main_price,
		addr_name, addr_phone, addr_line, addr_district, created_at FROM orders`
	args := []any{}
	if userEmail != "" {
		query += ` WHERE user_email = ?`
		args = append(args, userEmail)
	}
	rows, err := s.db.Query(query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		var created string
		if err := rows.Scan(&o.ID, &o.OrderID, &o.UserEmail, &o.UserName, &o.Quantity, &o.OrderStatus,
			&o.ProductDetails.ProductID, &o.ProductDetails.ProductName,
			&o.ProductDetails.CoinPrice, &o.ProductDetails.MainPrice,
			&o.UserAddress.Name, &o.UserAddress.PhoneNumber, &o.UserAddress.AddressLine, &o.UserAddress.District,
			&created); err != nil {
			return nil, err
		}
		o.CreatedAt = flexStamp(created)
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateOrderStatus transitions an order.
func (s *Store) UpdateOrderStatus(id, status string) error {
	res, err := s.db.Exec(`UPDATE orders SET order_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

// Wallet

// InsertWalletRequest records a top-up awaiting approval.
func (s *Store) InsertWalletRequest(w models.WalletRequest) error {
	_, err := s.db.Exec(
		`INSERT INTO wallet_requests (request_id, username, amount, method, reference, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.RequestID, w.Username, w.Amount, w.Method, w.Reference, models.WalletRequested, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet request: %w", err)
	}
	return nil
}

// WalletRequests lists top-ups filtered by username and/or status; empty
// filters match everything.
func (s *Store) WalletRequests(username, status string) ([]models.WalletRequest, error) {
	query := `SELECT request_id, username, amount, method, reference, status, created_at FROM wallet_requests WHERE 1=1`
	args := []any{}
	if username != "" {
		query += ` AND username = ?`
		args = append(args, username)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	rows, err := s.db.Query(query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet requests: %w", err)
	}
	defer rows.Close()

	var out []models.WalletRequest
	for rows.Next() {
		var w models.WalletRequest
		var created string
		if err := rows.Scan(&w.RequestID, &w.Username, &w.Amount, &w.Method, &w.Reference, &w.Status, &created); err != nil {
			return nil, err
		}
		w.CreatedAt = flexStamp(created)
		out = append(out, w)
	}
	return out, rows.Err()
}

// AcceptWalletRequest flips a pending request to accepted and credits the
// requester's wallet. A second accept of the same request is an error,
// not a double credit.
func (s *Store) AcceptWalletRequest(ctx context.Context, requestID string) error {
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRow(
			`SELECT username, amount, status FROM wallet_requests WHERE request_id = ?`, requestID,
		)
		var username, status string
		var amount float64
		if err := row.Scan(&username, &amount, &status); err != nil {
			return fmt.Errorf("wallet request %s not found", requestID)
		}
		if status != models.WalletRequested {
			return fmt.Errorf("wallet request %s already %s", requestID, status)
		}

		if _, err := tx.Exec(
			`UPDATE wallet_requests SET status = ? WHERE request_id = ?`,
			models.WalletAccepted, requestID,
		); err != nil {
			return fmt.Errorf("failed to accept wallet request: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE users SET wallet_balance = wallet_balance + ? WHERE username = ?`,
			amount, username,
		); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
		return nil
	})
}

// Tasks

// InsertTask publishes a task.
func (s *Store) InsertTask(t models.Task) error {
	_, err := s.db.Exec(
		`INSERT INTO tasks (task_id, title, description, type, link, reward, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TaskID, t.Title, t.Description, t.Type, t.Link, t.Reward, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(taskID string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}
	return nil
}

// Tasks lists every published task.
func (s *Store) Tasks() ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT task_id, title, description, type, link, reward, created_at FROM tasks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// AvailableTasks lists tasks of one type the user has not completed.
func (s *Store) AvailableTasks(taskType, userEmail string) ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT task_id, title, description, type, link, reward, created_at FROM tasks
		 WHERE type = ? AND task_id NOT IN (SELECT task_id FROM task_completions WHERE user_email = ?)
		 ORDER BY created_at DESC`,
		taskType, userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list available tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var out []models.Task
	for rows.Next() {
		var t models.Task
		var created string
		if err := rows.Scan(&t.TaskID, &t.Title, &t.Description, &t.Type, &t.Link, &t.Reward, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = flexStamp(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// CompleteTask claims a task reward once per user. The completion
// marker and the coin credit land together or not at all.
func (s *Store) CompleteTask(ctx context.Context, taskID, userEmail string) (int64, error) {
	var reward int64
	err := sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRow(`SELECT reward FROM tasks WHERE task_id = ?`, taskID)
		if err := row.Scan(&reward); err != nil {
			return fmt.Errorf("task %s not found", taskID)
		}
		if _, err := tx.Exec(
			`INSERT INTO task_completions (task_id, user_email) VALUES (?, ?)`,
			taskID, userEmail,
		); err != nil {
			return fmt.Errorf("task already completed")
		}
		return adjustCoins(tx, userEmail, reward)
	})
	if err != nil {
		return 0, err
	}
	return reward, nil
}

// Gift codes

// InsertGiftCode mints a code.
func (s *Store) InsertGiftCode(code string, coins int64) error {
	_, err := s.db.Exec(
		`INSERT INTO gift_codes (code, coins, redeemed, created_at) VALUES (?, ?, false, ?)`,
		code, coins, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert gift code: %w", err)
	}
	return nil
}

// RedeemGiftCode marks a code spent and credits the user, single-use.
// The burn and the credit commit together, so a failed credit does not
// waste the code.
func (s *Store) RedeemGiftCode(ctx context.Context, code, userEmail string) (int64, error) {
	var coins int64
	err := sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE gift_codes SET redeemed = true WHERE code = ? AND redeemed = false`, code,
		)
		if err != nil {
			return fmt.Errorf("failed to redeem gift code: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("invalid or already redeemed code")
		}

		row := tx.QueryRow(`SELECT coins FROM gift_codes WHERE code = ?`, code)
		if err := row.Scan(&coins); err != nil {
			return err
		}
		return adjustCoins(tx, userEmail, coins)
	})
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// Ads

// AdsWatchedToday counts the user's views on the given day key.
func (s *Store) AdsWatchedToday(userEmail, day string) (int, error) {
	row := s.db.QueryRow(
		`SELECT count FROM ad_views WHERE user_email = ? AND day = ?`, userEmail, day,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count ad views: %w", err)
	}
	return count, nil
}

// RecordAdView bumps today's counter and credits the reward in one
// transaction.
func (s *Store) RecordAdView(ctx context.Context, userEmail, day string, reward int64) error {
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO ad_views (user_email, day, count) VALUES (?, ?, 1)
			 ON CONFLICT(user_email, day) DO UPDATE SET count = count + 1`,
			userEmail, day,
		); err != nil {
			return fmt.Errorf("failed to record ad view: %w", err)
		}
		return adjustCoins(tx, userEmail, reward)
	})
}

// Quiz

// InsertQuizQuestion adds an emoji question.
func (s *Store) InsertQuizQuestion(id, emoji, answer string, options []string, reward int64) error {
	opts, err := json.Marshal(options)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO quiz_questions (id, emoji, answer, options, reward) VALUES (?, ?, ?, ?, ?)`,
		id, emoji, answer, string(opts), reward,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz question: %w", err)
	}
	return nil
}

// QuizEntries lists every question with its answer, for admin editing.
func (s *Store) QuizEntries() ([]models.QuizEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, emoji, answer, options, reward FROM quiz_questions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz entries: %w", err)
	}
	defer rows.Close()

	var out []models.QuizEntry
	for rows.Next() {
		var e models.QuizEntry
		var opts string
		if err := rows.Scan(&e.ID, &e.Emoji, &e.Answer, &opts, &e.Reward); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opts), &e.Options); err != nil {
			log.Warn().Err(err).Str("question_id", e.ID).Msg("skipping question with bad options")
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateQuizQuestion replaces an existing question's content.
func (s *Store) UpdateQuizQuestion(id, emoji, answer string, options []string, reward int64) error {
	opts, err := json.Marshal(options)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE quiz_questions SET emoji = ?, answer = ?, options = ?, reward = ? WHERE id = ?`,
		emoji, answer, string(opts), reward, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question %s not found", id)
	}
	return nil
}

// DeleteQuizQuestion removes a question.
func (s *Store) DeleteQuizQuestion(id string) error {
	res, err := s.db.Exec(`DELETE FROM quiz_questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question %s not found", id)
	}
	return nil
}

// NextQuizQuestions lists up to limit questions the user has not answered.
func (s *Store) NextQuizQuestions(userEmail string, limit int) ([]models.QuizQuestion, error) {
	rows, err := s.db.Query(
		`SELECT id, emoji, options, reward FROM quiz_questions
		 WHERE id NOT IN (SELECT question_id FROM quiz_answers WHERE user_email = ?)
		 LIMIT ?`,
		userEmail, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}
	defer rows.Close()

	var out []models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		var opts string
		if err := rows.Scan(&q.ID, &q.Emoji, &opts, &q.Reward); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			log.Warn().Err(err).Str("question_id", q.ID).Msg("skipping question with bad options")
			continue
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// AnswerQuizQuestion grades one answer. A correct answer credits the
// reward; either way the question is burned for this user.
func (s *Store) AnswerQuizQuestion(questionID, userEmail, answer string) (correct bool, reward int64, err error) {
	row := s.db.QueryRow(
		`SELECT answer, reward FROM quiz_questions WHERE id = ?`, questionID,
	)
	var expected string
	if err := row.Scan(&expected, &reward); err != nil {
		return false, 0, fmt.Errorf("question %s not found", questionID)
	}

	if _, err := s.db.Exec(
		`INSERT INTO quiz_answers (question_id, user_email) VALUES (?, ?)`,
		questionID, userEmail,
	); err != nil {
		return false, 0, fmt.Errorf("question already answered")
	}

	if answer != expected {
		return false, 0, nil
	}
	if err := s.AdjustCoins(userEmail, reward); err != nil {
		return false, 0, err
	}
	return true, reward, nil
}

// flexStamp wraps a stored RFC3339 string back into the tolerant time
// type without re-parsing by hand.
func flexStamp(v string) models.FlexTime {
	var ft models.FlexTime
	raw, _ := json.Marshal(v)
	if err := ft.UnmarshalJSON(raw); err != nil {
		return models.FlexTime{}
	}
	return ft
}

// Seed populates an empty store with demo accounts, catalog, tasks and
// quiz content so the client has something to render on first run.
func (s *Store) Seed() error {
	if users, err := s.Users(); err != nil {
		return err
	} else if len(users) > 0 {
		return nil
	}

	if err := s.CreateUser("u-admin", "admin", "admin@coinbazaar.dev", "admin123", models.RoleAdmin); err != nil {
		return err
	}
	if err := s.CreateUser("u-demo", "demo", "demo@coinbazaar.dev", "demo123", models.RoleCustomer); err != nil {
		return err
	}
	if err := s.AdjustCoins("demo@coinbazaar.dev", 500); err != nil {
		return err
	}

	products := []models.Product{
		{ID: "p-headphones", Name: "Wireless Headphones", Description: "Over-ear, 30h battery", Category: "electronics", CoinPrice: 1200, MainPrice: 59.99},
		{ID: "p-mug", Name: "Coin Bazaar Mug", Description: "350ml ceramic", Category: "merch", CoinPrice: 150, MainPrice: 9.99},
		{ID: "p-giftcard", Name: "Gift Card 10", Description: "Ten units of store credit", Category: "vouchers", CoinPrice: 900, MainPrice: 10},
	}
	for _, p := range products {
		if err := s.InsertProduct(p); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	live := []string{
		now.Add(-time.Hour).Format(time.RFC3339),
		now.Add(2 * time.Hour).Format(time.RFC3339),
	}
	upcoming := []string{
		// Space-separated stamp on purpose: the backend this mimics mixed
		// formats, and the client has to cope.
		now.Add(24 * time.Hour).Format("2006-01-02 15:04:05"),
		now.Add(48 * time.Hour).Format("2006-01-02 15:04:05"),
	}
	if err := s.InsertBetItem("b-console", "Game Console", "Current generation", "", 50, 399, live[0], live[1]); err != nil {
		return err
	}
	if err := s.InsertBetItem("b-phone", "Flagship Phone", "Next week's draw", "", 80, 899, upcoming[0], upcoming[1]); err != nil {
		return err
	}
	// A broken window; the client shows this one as waiting forever.
	if err := s.InsertBetItem("b-mystery", "Mystery Box", "", "", 10, 0, "soon", ""); err != nil {
		return err
	}

	tasks := []models.Task{
		{TaskID: "t-follow", Title: "Follow us", Description: "Follow the official page", Type: "social", Link: "https://example.com/follow", Reward: 25},
		{TaskID: "t-share", Title: "Share a product", Description: "Share any catalog item", Type: "social", Link: "https://example.com/share", Reward: 40},
		{TaskID: "t-install", Title: "Install partner app", Description: "", Type: "install", Link: "https://example.com/app", Reward: 100},
	}
	for _, t := range tasks {
		if err := s.InsertTask(t); err != nil {
			return err
		}
	}

	if err := s.InsertGiftCode("WELCOME50", 50); err != nil {
		return err
	}

	quiz := []struct {
		id, emoji, answer string
		options           []string
		reward            int64
	}{
		{"q-1", "🍕🇮🇹", "Pizza", []string{"Pasta", "Pizza", "Flag"}, 10},
		{"q-2", "🌕🚶", "Moonwalk", []string{"Moonwalk", "Night hike", "Astronaut"}, 10},
		{"q-3", "🐝🎬", "Bee Movie", []string{"Antz", "Bee Movie", "Honeyland"}, 10},
	}
	for _, q := range quiz {
		if err := s.InsertQuizQuestion(q.id, q.emoji, q.answer, q.options, q.reward); err != nil {
			return err
		}
	}

	log.Info().Msg("dev store seeded")
	return nil
}
