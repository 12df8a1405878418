package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"bulletin/internal/board"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Healthy(ctx context.Context) bool
}

// Handler serves the board's HTTP routes.
type Handler struct {
	svc    *board.Service
	logger zerolog.Logger
	db     Pinger
	redis  Pinger // nil if Redis not configured
}

// New creates a Handler. redis may be nil when Redis is not configured.
func New(svc *board.Service, logger zerolog.Logger, db, redis Pinger) *Handler {
	return &Handler{svc: svc, logger: logger, db: db, redis: redis}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	healthy := h.db != nil && h.db.Healthy(ctx)
	body := gin.H{"db": healthy}
	if h.redis != nil {
		redisOK := h.redis.Healthy(ctx)
		body["redis"] = redisOK
		healthy = healthy && redisOK
	}

	status := http.StatusOK
	body["status"] = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

// ---------- Kirtans ----------

type kirtanRequest struct {
	Name      string  `json:"name" binding:"required"`
	Location  string  `json:"location" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Image     *string `json:"image"`
	Pic       *string `json:"pic"` // older frontend builds send the image here
	Organizer *string `json:"organizer"`
	Phone     string  `json:"phone" binding:"required"`
}

func (h *Handler) ListKirtans(c *gin.Context) {
	kirtans, err := h.svc.ListKirtans(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if kirtans == nil {
		kirtans = []board.Kirtan{}
	}
	c.JSON(http.StatusOK, kirtans)
}

// CreateKirtan screens name and location before anything else, so an
// offensive posting is refused even when other fields are missing.
func (h *Handler) CreateKirtan(c *gin.Context) {
	var req kirtanRequest
	bindErr := c.ShouldBindJSON(&req)
	if err := h.svc.ScreenKirtan(req.Name, req.Location); err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	image := req.Image
	if image == nil {
		image = req.Pic
	}
	k, err := h.svc.CreateKirtan(c.Request.Context(), board.Kirtan{
		Name:      req.Name,
		Location:  req.Location,
		Date:      req.Date,
		Image:     image,
		Organizer: req.Organizer,
		Phone:     req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Kirtan added successfully", "id": k.ID})
}

// ---------- Bus Seva ----------

type busRequest struct {
	Name      string  `json:"name" binding:"required"`
	From      string  `json:"from" binding:"required"`
	To        string  `json:"to" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Seats     *int    `json:"seats"`
	Phone     string  `json:"phone" binding:"required"`
	Organizer *string `json:"organizer"`
}

func (h *Handler) ListBus(c *gin.Context) {
	buses, err := h.svc.ListBusSevas(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if buses == nil {
		buses = []board.BusSeva{}
	}
	c.JSON(http.StatusOK, buses)
}

func (h *Handler) CreateBus(c *gin.Context) {
	var req busRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.svc.CreateBusSeva(c.Request.Context(), board.BusSeva{
		Name:          req.Name,
		Origin:        req.From,
		Destination:   req.To,
		DepartureDate: req.Date,
		Seats:         req.Seats,
		Phone:         req.Phone,
		Organizer:     req.Organizer,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bus Seva added", "id": b.ID})
}

// ---------- Sathi Connect ----------

type sathiRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Purpose  string `json:"purpose" binding:"required"`
	WhatsApp string `json:"whatsapp" binding:"required"`
}

func (h *Handler) ListSathi(c *gin.Context) {
	requests, err := h.svc.ListSathiRequests(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if requests == nil {
		requests = []board.SathiRequest{}
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) CreateSathi(c *gin.Context) {
	var req sathiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.svc.CreateSathiRequest(c.Request.Context(), board.SathiRequest{
		Name:     req.Name,
		Location: req.Location,
		Purpose:  req.Purpose,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request posted", "id": s.ID})
}

// ---------- Contact ----------

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.svc.SendContactMessage(c.Request.Context(), board.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent"})
}

// ---------- Admin ----------

// AdminDelete removes one posting. The table is checked against the
// allow-list before the id is even parsed.
func (h *Handler) AdminDelete(c *gin.Context) {
	table := c.Param("table")
	if !h.svc.CanDelete(table) {
		h.fail(c, board.ErrInvalidTable)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.svc.AdminDelete(c.Request.Context(), table, id); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info().Str("table", table).Int64("id", id).Str("ip", c.ClientIP()).Msg("admin delete")
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// ---------- Visitors ----------

func (h *Handler) LogVisit(c *gin.Context) {
	if _, err := h.svc.LogVisit(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged"})
}

func (h *Handler) Stats(c *gin.Context) {
	n, err := h.svc.DailyVisitors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_visitors": n})
}

// fail maps domain errors to client errors; anything else is a 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrInappropriateLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Inappropriate language"})
	case errors.Is(err, board.ErrInvalidTable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table"})
	case errors.Is(err, board.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
	case errors.Is(err, board.ErrImageUpload):
		h.logger.Warn().Err(err).Msg("kirtan image upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
	default:
		_ = c.Error(err)
		h.logger.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
