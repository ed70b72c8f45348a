package insight

import (
	"github.com/bizsuite/backend/internal/domain/insight"
	"go.uber.org/zap"
)

// VoiceService resolves spoken or typed phrases to command intents
type VoiceService struct {
	matcher *insight.VoiceMatcher
	logger  *zap.Logger
}

// NewVoiceService creates a VoiceService over the default command list
func NewVoiceService(logger *zap.Logger) *VoiceService {
	return &VoiceService{
		matcher: insight.NewVoiceMatcher(nil),
		logger:  logger,
	}
}

// Match resolves the input phrase to an intent with captured slots.
// An unrecognized phrase yields Matched false rather than an error.
func (s *VoiceService) Match(req VoiceMatchRequest) *VoiceMatchResponse {
	match := s.matcher.Match(req.Text)
	if match == nil {
		s.logger.Debug("Voice input did not match any command", zap.String("text", req.Text))
		return &VoiceMatchResponse{Matched: false}
	}

	return &VoiceMatchResponse{
		Matched: true,
		Intent:  match.Intent,
		Slots:   match.Slots,
	}
}
