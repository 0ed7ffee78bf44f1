package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/monthly", h.Monthly)
		reports.GET("/forecast", h.Forecast)
		reports.GET("/sales", h.Sales)
		reports.GET("/expenses-total", h.ExpensesTotal)
		reports.GET("/summary", h.Summary)
	}
}

// Monthly defaults to the current month.
func (h *Handler) Monthly(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = h.service.now().UTC().Format(domain.MonthLayout)
	}
	from, to, err := domain.MonthRange(month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	stats, err := h.service.MonthlyStats(c.Request.Context(), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Forecast(c *gin.Context) {
	months := DefaultForecastMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 36 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "months must be between 1 and 36")
			return
		}
		months = n
	}

	out, err := h.service.RevenueForecast(c.Request.Context(), months)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"months": out})
}

func (h *Handler) Sales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.service.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rows": rows})
}

func (h *Handler) ExpensesTotal(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	total, err := h.service.ExpensesTotal(c.Request.Context(), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"total": total})
}

func (h *Handler) Summary(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	sum, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sum)
}

func dateRange(c *gin.Context) (*domain.Date, *domain.Date, bool) {
	from, ok := queryDate(c, "from")
	if !ok {
		return nil, nil, false
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return nil, nil, false
	}
	return from, to, true
}

func queryDate(c *gin.Context, key string) (*domain.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", key+" must be a YYYY-MM-DD date")
		return nil, false
	}
	d := domain.NewDate(t)
	return &d, true
}
