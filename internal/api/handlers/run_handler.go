package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
	"github.com/andresuchdata/smartstockx/backend-go/internal/engine"
	"github.com/andresuchdata/smartstockx/backend-go/internal/service"
)

const maxUploadBytes = 32 << 20

type RunExecutor interface {
	Execute(ctx context.Context, req service.RunRequest) (*engine.RunResult, error)
}

type RunHandler struct {
	service RunExecutor
}

func NewRunHandler(service RunExecutor) *RunHandler {
	return &RunHandler{service: service}
}

// CreateRun accepts inventory_file and distance_file as multipart uploads.
func (h *RunHandler) CreateRun(c *gin.Context) {
	inventoryHeader, invErr := c.FormFile("inventory_file")
	distanceHeader, distErr := c.FormFile("distance_file")
	if invErr != nil || distErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both inventory and distance files are required."})
		return
	}

	inventory, err := readUpload(inventoryHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	distance, err := readUpload(distanceHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.Execute(c.Request.Context(), service.RunRequest{
		Source:    "upload",
		Inventory: inventory,
		Distance:  distance,
	})
	if errors.Is(err, domain.ErrEmptyCollection) {
		// empty uploads are client errors
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":    result.RunID,
		"inventory": result.Inventory,
		"transfers": result.Transfers,
	})
}

func readUpload(header *multipart.FileHeader) (service.InputFile, error) {
	if header.Size > maxUploadBytes {
		return service.InputFile{}, fmt.Errorf("%s exceeds %d bytes: %w", header.Filename, maxUploadBytes, domain.ErrInvalidInput)
	}

	f, err := header.Open()
	if err != nil {
		return service.InputFile{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.InputFile{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	return service.InputFile{Name: header.Filename, Data: data}, nil
}
