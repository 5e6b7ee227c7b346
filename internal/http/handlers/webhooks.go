package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/payments"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	WebhookSvc *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, WebhookSvc: svc}
}

// POST /webhooks/redsys
// Gateway form-urlencoded veya multipart gönderebilir. İyi biçimli her istek
// 200 alır, imza reddedilse bile; retry davranışına doğrulama mantığı
// sızdırılmaz. 500 sadece apply hatasında (gateway retry etsin).
func (h *WebhookHandler) Handle(c *gin.Context) {
	form, err := notificationForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, "KO")
		return
	}

	out, err := h.WebhookSvc.Handle(c.Request.Context(), form)
	if err != nil {
		if payments.IsMalformed(err) {
			c.String(http.StatusBadRequest, "KO")
			return
		}
		h.Logger.Error("webhook apply failed", "err", err)
		c.String(http.StatusInternalServerError, "KO")
		return
	}

	// minimal ack; işleme sonucu sadece internal
	_ = out
	c.String(http.StatusOK, "OK")
}

func notificationForm(c *gin.Context) (url.Values, error) {
	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/") {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		form := url.Values{}
		for k, vs := range mf.Value {
			form[k] = vs
		}
		return form, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}
