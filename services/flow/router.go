package flow

import (
	"context"

	"villacarmen/models"
	"villacarmen/services/session"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// turn is the per-delivery routing context.
type turn struct {
	signal models.ConversationSignal
	msg    models.WebhookMessage
	phone  string // normalized phone key
	text   string // effective message body (button/list replies resolved)
}

// guard is one step of the routing precedence chain. It either handles the
// turn or passes it through to the next guard.
type guard struct {
	name   string
	handle func(ctx context.Context, t *turn) (models.FlowResponse, bool)
}

// guards returns the precedence chain, most urgent first. Order is a
// correctness property: session capture must win over the classifier so
// multi-turn flows survive a mislabeled follow-up, and escalation
// short-circuits must win over everything.
func (f *DefaultFlow) guards() []guard {
	return []guard{
		{name: "large_group", handle: f.guardLargeGroup},
		{name: "special_request", handle: f.guardSpecialRequest},
		{name: "active_session", handle: f.guardActiveSession},
		{name: "rice_disambiguation", handle: f.guardRiceDisambiguation},
		{name: "draft_resumption", handle: f.guardDraftResumption},
		{name: "intent_dispatch", handle: f.guardIntentDispatch},
	}
}

// Route handles one inbound turn through the guard chain. Any panic is
// converted to a generic error response; routing never crashes the
// transport layer.
func (f *DefaultFlow) Route(ctx context.Context, signal models.ConversationSignal, msg models.WebhookMessage) (resp models.FlowResponse) {
	logger := utils.GetLogger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("flow panic recovered", zap.Any("panic", r))
			resp = models.FlowResponse{Text: msgGenericError}
		}
	}()

	t := &turn{
		signal: signal,
		msg:    msg,
		phone:  session.NormalizePhone(msg.ChatID),
		text:   msg.Body(),
	}

	for _, g := range f.guards() {
		response, handled := g.handle(ctx, t)
		if handled {
			logger.Debug("turn routed",
				zap.String("guard", g.name),
				zap.String("intent", signal.Intent),
				zap.Bool("escalated", response.Escalated))
			return response
		}
	}

	// Unreachable: intent_dispatch always handles.
	return models.FlowResponse{Text: msgGenericError}
}

// guardActiveSession captures the turn when a modification or cancellation
// session exists for the phone, or when the classifier labels the turn as
// one of those intents. Session presence wins regardless of the label.
func (f *DefaultFlow) guardActiveSession(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	if active, err := f.Stores.Modifications.HasActive(ctx, t.phone); err == nil && active || t.signal.Intent == models.IntentModification {
		return f.handleModification(ctx, t), true
	}
	if active, err := f.Stores.Cancellations.HasActive(ctx, t.phone); err == nil && active || t.signal.Intent == models.IntentCancellation {
		return f.handleCancellation(ctx, t), true
	}
	return models.FlowResponse{}, false
}

// guardDraftResumption synthesizes a booking turn when a draft exists but
// the classifier labeled the turn as something else.
func (f *DefaultFlow) guardDraftResumption(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	if t.signal.Intent == models.IntentBooking {
		return models.FlowResponse{}, false
	}
	active, err := f.Stores.Drafts.HasActive(ctx, t.phone)
	if err != nil || !active {
		return models.FlowResponse{}, false
	}
	t.signal.Intent = models.IntentBooking
	return f.handleBooking(ctx, t), true
}

// guardIntentDispatch is the terminal guard: plain dispatch on the
// classified intent.
func (f *DefaultFlow) guardIntentDispatch(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	switch t.signal.Intent {
	case models.IntentBooking, models.IntentInteractive:
		return f.handleBooking(ctx, t), true
	case models.IntentSameDay:
		return f.escalate(ctx, t.phone, msgSameDayIntro), true
	case models.IntentError:
		return models.FlowResponse{Text: msgGenericError}, true
	default:
		return f.handleWelcome(ctx, t), true
	}
}
