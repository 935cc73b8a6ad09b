package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SravanthiSinha/SmartClip/utils"
)

// CreateClip godoc
// @Summary Create a clip from a moment
// @Description Cuts the moment's time range into a new hosted clip and generates a social caption for it. The clip starts in "processing".
// @Tags clips
// @Produce json
// @Param id path string true "Moment ID"
// @Success 201 {object} ClipResponse "Clip created"
// @Failure 400 {object} ErrorResponse "Video has no asset"
// @Failure 404 {object} ErrorResponse "Moment or video not found"
// @Failure 500 {object} ErrorResponse "Hosting platform failure"
// @Router /api/moments/{id}/create-clip [post]
func (h *ApplicationHandler) CreateClip(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "moment")
	if err != nil {
		return h.respondError(c, err, "create clip")
	}
	h.Logger.Infof("Received request to create clip for moment %s", id)

	clip, err := h.Clips.Create(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "create clip")
	}
	return c.Status(fiber.StatusCreated).JSON(ClipResponse{Success: true, Clip: newClipView(clip)})
}

// RefineMoment godoc
// @Summary Refine a moment
// @Description Asks the model to adjust a moment according to free-text feedback. When the suggestion fails validation the moment is returned unchanged with refined=false.
// @Tags moments
// @Accept json
// @Produce json
// @Param id path string true "Moment ID"
// @Param request body RefineRequest true "Feedback"
// @Success 200 {object} RefineResponse "Moment"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Moment not found"
// @Router /api/moments/{id}/refine [post]
func (h *ApplicationHandler) RefineMoment(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "moment")
	if err != nil {
		return h.respondError(c, err, "refine moment")
	}

	payload := new(RefineRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing refine payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	payload.Feedback = utils.SanitizeInput(payload.Feedback)
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			"Validation failed: "+strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	m, refined, err := h.Videos.RefineMoment(c.UserContext(), id, payload.Feedback)
	if err != nil {
		return h.respondError(c, err, "refine moment")
	}
	return c.JSON(RefineResponse{Success: true, Refined: refined, Moment: newMomentView(m)})
}

// GetClip godoc
// @Summary Get a clip
// @Description Returns a clip after reconciling its status with the hosting platform. downloadUrl is set once the clip is ready.
// @Tags clips
// @Produce json
// @Param id path string true "Clip ID"
// @Success 200 {object} ClipResponse "Clip"
// @Failure 400 {object} ErrorResponse "Invalid clip id"
// @Failure 404 {object} ErrorResponse "Clip not found"
// @Failure 500 {object} ErrorResponse "Hosting platform failure"
// @Router /api/clips/{id} [get]
func (h *ApplicationHandler) GetClip(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "clip")
	if err != nil {
		return h.respondError(c, err, "get clip")
	}
	clip, err := h.Clips.Refresh(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "get clip")
	}
	return c.JSON(ClipResponse{Success: true, Clip: newClipView(clip)})
}
