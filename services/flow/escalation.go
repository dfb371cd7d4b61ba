package flow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"villacarmen/models"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// largeGroupLimit is the biggest party the bot books on its own; anything
// bigger goes to the encargado.
const largeGroupLimit = 10

// partySizePatterns pull a head count out of free text.
// Trailing [^\d:/.] keeps date and time digits ("para el 21/09", "para las
// 14:30") from being read as head counts.
var partySizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:somos|seremos|vamos a ser)\s+(\d{1,3})(?:[^\d:/.]|$)`),
	regexp.MustCompile(`(?i)(?:mesa|reserva[r]?)\s+(?:para|de)\s+(\d{1,3})(?:[^\d:/.]|$)`),
	regexp.MustCompile(`(?i)(\d{1,3})\s*(?:personas|comensales|pax|adultos)`),
}

// specialRequestPatterns match celebration and custom-request wording that
// always goes to a human.
var specialRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tarta`),
	regexp.MustCompile(`(?i)cumplea`),
	regexp.MustCompile(`(?i)aniversario`),
	regexp.MustCompile(`(?i)pedida`),
	regexp.MustCompile(`(?i)despedida`),
	regexp.MustCompile(`(?i)evento\s+privado`),
	regexp.MustCompile(`(?i)comida\s+de\s+empresa`),
	regexp.MustCompile(`(?i)decorac`),
	regexp.MustCompile(`(?i)sorpresa`),
	regexp.MustCompile(`(?i)men[uú]\s+(?:especial|cerrado|personalizado)`),
}

// guardLargeGroup short-circuits parties above the limit straight to the
// encargado, clearing any pending draft.
func (f *DefaultFlow) guardLargeGroup(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	size := extractPartySize(t.text)
	if size <= largeGroupLimit && t.signal.Extracted.PartySize <= largeGroupLimit {
		return models.FlowResponse{}, false
	}

	if err := f.Stores.Drafts.Clear(ctx, t.phone); err != nil {
		utils.GetLogger().Warn("failed to clear draft on escalation", zap.String("phone", t.phone), zap.Error(err))
	}
	return f.escalate(ctx, t.phone, msgEscalationIntro), true
}

// guardSpecialRequest short-circuits celebration/custom requests to the
// encargado.
func (f *DefaultFlow) guardSpecialRequest(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	for _, pattern := range specialRequestPatterns {
		if pattern.MatchString(t.text) {
			return f.escalate(ctx, t.phone, msgEscalationIntro), true
		}
	}
	return models.FlowResponse{}, false
}

// escalate sends the intro message plus the restaurant contact card and
// reports the escalation. Send failures degrade to the text-only response.
func (f *DefaultFlow) escalate(ctx context.Context, phone, intro string) models.FlowResponse {
	logger := utils.GetLogger()

	if !f.Gateway.SendText(ctx, phone, intro) {
		logger.Warn("escalation intro send failed", zap.String("phone", phone))
	}
	if !f.Gateway.SendContactCard(ctx, phone, "Encargado", f.Restaurant.Phone, f.Restaurant.Name) {
		logger.Warn("escalation contact card send failed", zap.String("phone", phone))
	}

	return models.FlowResponse{Escalated: true}
}

// handleWelcome answers turns with no actionable intent.
func (f *DefaultFlow) handleWelcome(ctx context.Context, t *turn) models.FlowResponse {
	if !f.Gateway.SendMenu(ctx, t.phone,
		fmt.Sprintf(msgWelcome, f.Restaurant.Name),
		[]string{"Reservar mesa", "Modificar reserva", "Anular reserva"}) {
		utils.GetLogger().Warn("welcome menu send failed", zap.String("phone", t.phone))
	}
	return models.FlowResponse{}
}

// extractPartySize returns the head count mentioned in the text, 0 when none.
func extractPartySize(text string) int {
	for _, pattern := range partySizePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
