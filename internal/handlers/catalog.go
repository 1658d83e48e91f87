package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// CatalogService определяет методы работы с сезонами, бассейнами и курсами
type CatalogService interface {
	CreateSeason(ctx context.Context, in service.SeasonInput) (*domain.Season, error)
	ListSeasons(ctx context.Context) ([]*domain.Season, error)
	CreatePool(ctx context.Context, seasonID int64, name string) (*domain.Pool, error)
	ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, seasonID int64) ([]*domain.Product, error)
	ProductProgress(ctx context.Context, id int64, date string) (domain.Progress, error)
}

type CatalogHandler struct {
	catalogService CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

type seasonRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type poolRequest struct {
	SeasonID int64  `json:"season_id"`
	Name     string `json:"name"`
}

type productRequest struct {
	SeasonID        int64            `json:"season_id"`
	PoolID          *int64           `json:"pool_id"`
	Name            string           `json:"name"`
	StartDate       string           `json:"start_date"`
	DaysOfWeek      []string         `json:"days_of_week"`
	MeetingsCount   int              `json:"meetings_count"`
	Price           decimal.Decimal  `json:"price"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	MaxParticipants int              `json:"max_participants"`
}

func (h *CatalogHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	season, err := h.catalogService.CreateSeason(r.Context(), service.SeasonInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, season, h.logger)
}

func (h *CatalogHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.catalogService.ListSeasons(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if len(seasons) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, seasons, h.logger)
}

func (h *CatalogHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	pool, err := h.catalogService.CreatePool(r.Context(), req.SeasonID, req.Name)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, pool, h.logger)
}

func (h *CatalogHandler) ListPools(w http.ResponseWriter, r *http.Request) {
	seasonID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	pools, err := h.catalogService.ListPools(r.Context(), seasonID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, pools, h.logger)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.ProductInput{
		SeasonID:        req.SeasonID,
		PoolID:          req.PoolID,
		Name:            req.Name,
		StartDate:       req.StartDate,
		DaysOfWeek:      req.DaysOfWeek,
		MeetingsCount:   req.MeetingsCount,
		Price:           req.Price,
		DiscountAmount:  req.DiscountAmount,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product, h.logger)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	seasonID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	products, err := h.catalogService.ListProducts(r.Context(), seasonID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products, h.logger)
}

func (h *CatalogHandler) ProductProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	progress, err := h.catalogService.ProductProgress(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, progress, h.logger)
}
