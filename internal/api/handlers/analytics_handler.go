package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// AnalyticsReader is the read side the dashboard endpoints need.
type AnalyticsReader interface {
	Portfolio(ctx context.Context) (*domain.PortfolioSnapshot, error)
	Stores(ctx context.Context) ([]domain.StorePerformance, error)
	TransferSummary(ctx context.Context) (*domain.TransferSummary, error)
	InventoryStats(ctx context.Context) (*domain.InventoryStats, error)
	Inventory(ctx context.Context, filter domain.InventoryFilter) (*domain.InventoryPage, error)
	Transfers(ctx context.Context) ([]domain.TransferItem, error)
}

type AnalyticsHandler struct {
	service AnalyticsReader
}

func NewAnalyticsHandler(service AnalyticsReader) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) parseFilter(c *gin.Context) domain.InventoryFilter {
	filter := domain.InventoryFilter{
		Search:  strings.TrimSpace(c.Query("q")),
		StoreID: strings.TrimSpace(c.Query("store")),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	return filter
}

func (h *AnalyticsHandler) GetPortfolio(c *gin.Context) {
	snapshot, err := h.service.Portfolio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) GetStores(c *gin.Context) {
	stores, err := h.service.Stores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stores})
}

func (h *AnalyticsHandler) GetInventory(c *gin.Context) {
	page, err := h.service.Inventory(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) GetInventoryStats(c *gin.Context) {
	stats, err := h.service.InventoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetTransfers(c *gin.Context) {
	transfers, err := h.service.Transfers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": transfers})
}

func (h *AnalyticsHandler) GetTransferSummary(c *gin.Context) {
	summary, err := h.service.TransferSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
