package amenity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resortbooking/internal/pkg/response"
)

type SubtotalRequest struct {
	Lines []RawLine `json:"lines"`
}

type SubtotalResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/amenities/subtotal", h.Subtotal)
}

// Subtotal prices the rows of a form being edited. Nothing is stored.
func (h *Handler) Subtotal(c *gin.Context) {
	var req SubtotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	response.Success(c, http.StatusOK, SubtotalResponse{Subtotal: Subtotal(req.Lines)})
}
