package handler

import (
	insightapp "github.com/bizsuite/backend/internal/application/insight"
	"github.com/gin-gonic/gin"
)

// VoiceHandler handles voice command matching endpoints
type VoiceHandler struct {
	BaseHandler
	voiceService *insightapp.VoiceService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(voiceService *insightapp.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// Match godoc
// @Summary      Match voice command
// @Description  Resolve a transcribed phrase to a command intent with slots
// @Tags         voice
// @Accept       json
// @Produce      json
// @Param        request body insightapp.VoiceMatchRequest true "Transcribed text"
// @Success      200 {object} dto.Response{data=insightapp.VoiceMatchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /voice/match [post]
func (h *VoiceHandler) Match(c *gin.Context) {
	var req insightapp.VoiceMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, h.voiceService.Match(req))
}
