package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"

	"medinv/m/domain"
	"medinv/m/internal/config"
	"medinv/m/internal/invoice"
	"medinv/m/internal/report"
	"medinv/m/internal/store"
	"medinv/m/internal/validation"
)

type ctxKey string

const ctxUserID ctxKey = "userID"

const dateLayout = "2006-01-02"

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	users     *store.UserStore
	inventory *store.InventoryStore
	sales     *store.SalesStore
	secret    string
	expiry    int
	lowStock  int64
}

// New constructs a Handler.
func New(db *sqlx.DB, cfg config.Config) *Handler {
	return &Handler{
		users:     store.NewUserStore(db),
		inventory: store.NewInventoryStore(db),
		sales:     store.NewSalesStore(db),
		secret:    cfg.Secret,
		expiry:    cfg.ExpiryWindowDays,
		lowStock:  cfg.LowStockThreshold,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/products", func(r chi.Router) {
			r.Post("/", h.addProduct)
			r.Get("/", h.listProducts)
			r.Delete("/", h.removeProduct)
			r.Get("/search", h.searchProducts)
			r.Get("/expiry-alert", h.expiryAlerts)
			r.Get("/low-stock", h.lowStockAlerts)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Get("/", h.listSalesByDate)
			r.Get("/{id}", h.getSale)
			r.Get("/{id}/invoice", h.saleInvoice)
		})

		pr.Get("/reports/inventory-chart", h.inventoryChart)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID       int64  `json:"user_id"`
	PharmacyName string `json:"pharmacy_name"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64, pharmacyName string) (string, error) {
	claims := authClaims{
		UserID:       userID,
		PharmacyName: pharmacyName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok || claims.UserID <= 0 {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(r *http.Request) int64 {
	if val := r.Context().Value(ctxUserID); val != nil {
		if id, ok := val.(int64); ok {
			return id
		}
	}
	return 0
}

// Auth handlers

type registerRequest struct {
	PharmacyName string `json:"pharmacy_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PharmacyName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "pharmacy_name, username, email and password are required")
		return
	}
	if !validation.ValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if !validation.StrongPassword(req.Password) {
		respondError(w, http.StatusBadRequest, "password should be at least 8 characters long and contain at least one uppercase letter and one digit")
		return
	}

	email := strings.ToLower(req.Email)

	// Friendly pre-checks; the users table UNIQUE constraints remain the
	// authority if a concurrent registration slips between check and insert.
	if exists, err := h.users.UsernameExists(r.Context(), req.Username); err != nil {
		h.respondStoreError(w, err)
		return
	} else if exists {
		respondError(w, http.StatusConflict, "username already exists")
		return
	}
	if exists, err := h.users.EmailExists(r.Context(), email); err != nil {
		h.respondStoreError(w, err)
		return
	} else if exists {
		respondError(w, http.StatusConflict, "email address already registered")
		return
	}

	id, err := h.users.Create(r.Context(), req.PharmacyName, req.Username, email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			respondError(w, http.StatusConflict, "username or email already exists")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	token, err := h.generateToken(id, req.PharmacyName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User: domain.User{
			ID:           id,
			PharmacyName: req.PharmacyName,
			Username:     req.Username,
			Email:        email,
		},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	token, err := h.generateToken(user.ID, user.PharmacyName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

// Product handlers

type productRequest struct {
	Name       string  `json:"name"`
	ExpiryDate string  `json:"expiry_date"`
	Quantity   int64   `json:"quantity"`
	Amount     float64 `json:"amount"`
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := time.Parse(dateLayout, req.ExpiryDate); err != nil {
		respondError(w, http.StatusBadRequest, "expiry_date must be in YYYY-MM-DD format")
		return
	}
	if req.Quantity < 1 || req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "quantity and amount must be positive")
		return
	}

	id, err := h.inventory.Add(r.Context(), userID, req.Name, req.ExpiryDate, req.Quantity, req.Amount)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.List(r.Context(), userIDFromContext(r))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	products, err := h.inventory.Search(r.Context(), userIDFromContext(r), query)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// removeProduct deletes every product with the given name, across all
// pharmacies. The wide scope mirrors the original removal behavior.
func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	deleted, err := h.inventory.RemoveByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("product %q not found", name))
			return
		}
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "removed", "deleted": deleted})
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = h.expiry
	}
	alerts, err := h.inventory.Expiring(r.Context(), userIDFromContext(r), time.Now(), days)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) lowStockAlerts(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.ParseInt(r.URL.Query().Get("threshold"), 10, 64)
	if threshold <= 0 {
		threshold = h.lowStock
	}
	alerts, err := h.inventory.LowStock(r.Context(), userIDFromContext(r), threshold)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// Sales handlers

type saleRequest struct {
	CustomerName string  `json:"customer_name"`
	MobileNumber string  `json:"mobile_number"`
	ProductID    int64   `json:"product_id,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	Quantity     int64   `json:"quantity"`
	Amount       float64 `json:"amount"`
	SaleDate     string  `json:"sale_date"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CustomerName == "" {
		respondError(w, http.StatusBadRequest, "customer_name is required")
		return
	}
	if !validation.ValidMobile(req.MobileNumber) {
		respondError(w, http.StatusBadRequest, "mobile number should be exactly 10 digits")
		return
	}
	if req.Quantity < 1 || req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "quantity and amount must be positive")
		return
	}
	saleDate, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "sale_date must be in YYYY-MM-DD format")
		return
	}
	// Compare calendar days, not instants, so a sale dated today is always
	// accepted regardless of timezone.
	today, _ := time.Parse(dateLayout, time.Now().Format(dateLayout))
	if !validation.ValidSaleDate(saleDate, today) {
		respondError(w, http.StatusBadRequest, "sale date cannot be ahead of today's date")
		return
	}

	productID := req.ProductID
	if productID == 0 {
		if req.ProductName == "" {
			respondError(w, http.StatusBadRequest, "product_id or product_name is required")
			return
		}
		productID, err = h.inventory.IDByName(r.Context(), userID, req.ProductName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, fmt.Sprintf("product %q not found", req.ProductName))
				return
			}
			h.respondStoreError(w, err)
			return
		}
	}

	saleID, err := h.sales.Record(r.Context(), domain.Sale{
		CustomerName: req.CustomerName,
		MobileNumber: req.MobileNumber,
		ProductID:    productID,
		Quantity:     req.Quantity,
		Amount:       req.Amount,
		SaleDate:     req.SaleDate,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"sale_id": saleID})
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.sales.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) listSalesByDate(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}
	sales, err := h.sales.FindByDate(r.Context(), date)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) saleInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.sales.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}
	productName, err := h.sales.ProductName(r.Context(), sale.ProductID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.respondStoreError(w, err)
			return
		}
		// Product was removed after the sale; the sale record still stands.
		productName = "Unknown"
	}

	var buf bytes.Buffer
	if err := invoice.Render(&buf, invoice.Invoice{
		TransactionID: sale.ID,
		CustomerName:  sale.CustomerName,
		MobileNumber:  sale.MobileNumber,
		ProductName:   productName,
		Quantity:      sale.Quantity,
		Amount:        sale.Amount,
		SaleDate:      sale.SaleDate,
	}); err != nil {
		log.Printf("invoice rendering failed for sale %d: %v", sale.ID, err)
		respondError(w, http.StatusInternalServerError, "unable to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=Invoice_%d.pdf", sale.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Reports

func (h *Handler) inventoryChart(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.List(r.Context(), userIDFromContext(r))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	slices := make([]report.Slice, len(products))
	for i, p := range products {
		slices[i] = report.Slice{Name: p.Name, Quantity: p.Quantity}
	}

	var buf bytes.Buffer
	if err := report.RenderPie(&buf, "Total Stock by Medicine", slices); err != nil {
		if errors.Is(err, report.ErrNoData) {
			respondError(w, http.StatusNotFound, "no products to chart")
			return
		}
		log.Printf("chart rendering failed: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Helpers

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrConstraintViolation):
		respondError(w, http.StatusConflict, "constraint violation")
	case errors.Is(err, store.ErrInsufficientStock):
		respondError(w, http.StatusBadRequest, "insufficient stock")
	case errors.Is(err, store.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid username or password")
	default:
		log.Printf("storage failure: %v", err)
		respondError(w, http.StatusInternalServerError, "storage failure")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
