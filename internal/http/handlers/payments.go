package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http/middleware"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http/validation"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/payments"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/reservations"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/shared/apperr"
)

type PaymentsHandler struct {
	Logger *slog.Logger
	Svc    *payments.Service
}

func NewPaymentsHandler(logger *slog.Logger, svc *payments.Service) *PaymentsHandler {
	return &PaymentsHandler{Logger: logger, Svc: svc}
}

type redirectInput struct {
	ReservationID string `json:"reservation_id" binding:"required,max=64"`
	Attempt       int    `json:"attempt" binding:"omitempty,min=0"`
	OKURL         string `json:"ok_url" binding:"required,url"`
	KOURL         string `json:"ko_url" binding:"required,url"`
	NotifyURL     string `json:"notify_url" binding:"required,url"`
}

// POST /api/payments/redirect
func (h *PaymentsHandler) CreateRedirect(c *gin.Context) {
	var in redirectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fields := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid payment request.", fields))
		return
	}

	out, err := h.Svc.CreateAuthorizationRedirect(c.Request.Context(), payments.CreateRedirectInput{
		ReservationID: in.ReservationID,
		Attempt:       in.Attempt,
		OKURL:         in.OKURL,
		KOURL:         in.KOURL,
		NotifyURL:     in.NotifyURL,
	})
	if err != nil {
		middleware.Fail(c, mapDomainErr(err))
		return
	}

	c.JSON(http.StatusCreated, out)
}

// POST /api/payments/:orderCode/capture
func (h *PaymentsHandler) Capture(c *gin.Context) {
	out, err := h.Svc.Capture(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		middleware.Fail(c, mapDomainErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/payments/:orderCode/cancel
func (h *PaymentsHandler) Cancel(c *gin.Context) {
	out, err := h.Svc.Cancel(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		middleware.Fail(c, mapDomainErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

type refundInput struct {
	AmountCents int64 `json:"amount_cents" binding:"omitempty,min=0"`
}

// POST /api/payments/:orderCode/refund
// amount_cents 0/yok => kalanın tamamı
func (h *PaymentsHandler) Refund(c *gin.Context) {
	var in refundInput
	if err := c.ShouldBindJSON(&in); err != nil && c.Request.ContentLength > 0 {
		fields := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid refund request.", fields))
		return
	}

	out, err := h.Svc.Refund(c.Request.Context(), c.Param("orderCode"), in.AmountCents)
	if err != nil {
		middleware.Fail(c, mapDomainErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/payments/:orderCode
func (h *PaymentsHandler) Get(c *gin.Context) {
	tx, err := h.Svc.Get(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		middleware.Fail(c, mapDomainErr(err))
		return
	}
	c.JSON(http.StatusOK, tx)
}

// mapDomainErr: domain hatası -> apperr kind. Secret/derived key asla response
// veya public mesaja sızmaz.
func mapDomainErr(err error) error {
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		return apperr.NotFoundErr("Reservation not found.")
	case errors.Is(err, payments.ErrTransactionNotFound):
		return apperr.NotFoundErr("Transaction not found.")
	case errors.Is(err, reservations.ErrNotPayable):
		return apperr.ConflictErr("Reservation is not payable.")
	case errors.Is(err, payments.ErrDuplicateOrderCode),
		errors.Is(err, redsys.ErrOrderCodeExhausted):
		return apperr.ConflictErr("Could not allocate an order code, retry with a new attempt.")
	case errors.Is(err, payments.ErrInvalidTransition):
		return apperr.ConflictErr("Operation not allowed in the current payment state.")
	case errors.Is(err, payments.ErrNotRefundable):
		return apperr.ConflictErr("Transaction is not refundable.")
	case errors.Is(err, redsys.ErrInvalidAmount):
		return apperr.InvalidErr("Invalid amount.", nil)
	case errors.Is(err, redsys.ErrUnsupportedCurrency):
		return apperr.InvalidErr("Unsupported currency.", nil)
	case errors.Is(err, redsys.ErrInvalidCallbackURL):
		return apperr.InvalidErr("Invalid callback URL.", nil)
	case errors.Is(err, redsys.ErrInvalidOrderCode):
		return apperr.InvalidErr("Invalid order code.", nil)
	default:
		return apperr.Wrap(err)
	}
}
