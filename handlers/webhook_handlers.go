package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/utils"
)

// MuxWebhook godoc
// @Summary Receive a Mux webhook
// @Description Applies upload and asset events to the matching video. Unknown event types and unknown ids are acknowledged and ignored. When a webhook secret is configured the Mux-Signature header must verify.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Mux-Signature header string false "t=<unix>,v1=<hex hmac>"
// @Success 200 {object} WebhookResponse "Acknowledged"
// @Failure 400 {object} ErrorResponse "Malformed payload"
// @Failure 401 {object} ErrorResponse "Signature rejected"
// @Failure 500 {object} ErrorResponse "Processing failed"
// @Router /api/webhooks/mux [post]
func (h *ApplicationHandler) MuxWebhook(c *fiber.Ctx) error {
	body := c.Body()
	if h.WebhookSecret != "" {
		if err := mux.VerifySignature(c.Get(mux.SignatureHeader), body, h.WebhookSecret, time.Now(), mux.DefaultSignatureTolerance); err != nil {
			h.Logger.WithError(err).Warn("Rejected webhook")
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid webhook signature")
		}
	}

	var ev mux.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		h.Logger.Errorf("Error parsing webhook payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}
	h.Logger.WithField("event_id", ev.ID).Infof("Received webhook: %s", ev.Type)

	if err := h.Videos.HandleWebhook(c.UserContext(), ev); err != nil {
		return h.respondError(c, err, "webhook")
	}
	return c.JSON(WebhookResponse{Success: true})
}
