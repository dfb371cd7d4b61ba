package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villacarmen/models"
	"villacarmen/services/availability"
	"villacarmen/services/session"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// maxExtras caps high chairs and strollers per table.
const maxExtras = 3

// minRiceServings is the smallest rice order the kitchen prepares.
const minRiceServings = 2

// handleBooking advances the reservation draft with this turn's extraction
// and either asks for the next missing piece or commits.
func (f *DefaultFlow) handleBooking(ctx context.Context, t *turn) models.FlowResponse {
	draft, _, err := f.Stores.Drafts.Get(ctx, t.phone)
	if err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}

	draft.Merge(t.signal.Extracted)
	if draft.ContactPhone == "" {
		draft.ContactPhone = t.phone
	}
	if draft.CustomerName == "" && t.msg.PushName != "" {
		draft.CustomerName = t.msg.PushName
	}

	// Resolve a free-text rice wish against the catalog before gating.
	if draft.Rice.State == models.RiceUndecided && t.signal.RiceRequest != "" {
		if response, halted := f.resolveRiceRequest(ctx, t, &draft); halted {
			return response
		}
	}

	if prompt, halted := gate(&draft); halted || t.signal.InvalidTime || t.signal.InvalidDate {
		// Validity flags from a prior rejection outrank the field gates.
		if t.signal.InvalidTime {
			prompt = msgInvalidTime
		} else if t.signal.InvalidDate {
			prompt = msgInvalidDate
		}
		if err := f.Stores.Drafts.Set(ctx, t.phone, draft); err != nil {
			return failure(errSessionStore, err, zap.String("phone", t.phone))
		}
		return models.FlowResponse{Text: prompt}
	}

	return f.commit(ctx, t, draft)
}

// gate walks the commit gating sequence. The first unmet gate halts with
// its clarifying prompt; count clamps normalize in place without halting.
func gate(draft *models.BookingDraft) (string, bool) {
	switch {
	case draft.Date == "":
		return msgAskDate, true
	case draft.Time == "":
		return msgAskTime, true
	case draft.PartySize <= 0:
		return msgAskPartySize, true
	case draft.CustomerName == "":
		return msgAskName, true
	}

	switch draft.HighChairs.State {
	case models.CountUnasked:
		return msgAskHighChairs, true
	case models.CountPendingNumber:
		return msgAskHighChairQty, true
	}
	if draft.HighChairs.Value > maxExtras {
		draft.HighChairs.Value = maxExtras
	}

	switch draft.Strollers.State {
	case models.CountUnasked:
		return msgAskStrollers, true
	case models.CountPendingNumber:
		return msgAskStrollerQty, true
	}
	if draft.Strollers.Value > maxExtras {
		draft.Strollers.Value = maxExtras
	}

	if draft.Rice.State == models.RiceUndecided {
		return msgAskRice, true
	}
	if draft.Rice.State == models.RiceNamed {
		if draft.RiceServings == 0 {
			return fmt.Sprintf(msgAskRiceServings, draft.Rice.Name), true
		}
		if draft.RiceServings < minRiceServings {
			return msgRiceMinServings, true
		}
	}

	return "", false
}

// resolveRiceRequest matches the turn's free-text rice wish against the
// catalog: a unique hit lands in the draft, an ambiguous one opens a
// disambiguation context, a miss re-prompts with the carta.
func (f *DefaultFlow) resolveRiceRequest(ctx context.Context, t *turn, draft *models.BookingDraft) (models.FlowResponse, bool) {
	name, candidates := matchCatalog(t.signal.RiceRequest, f.catalog())

	if name != "" {
		draft.Rice = models.RiceChoice{State: models.RiceNamed, Name: name}
		return models.FlowResponse{}, false
	}

	if err := f.Stores.Drafts.Set(ctx, t.phone, *draft); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone)), true
	}

	if len(candidates) > 1 {
		pending := models.PendingRiceSelection{Requested: t.signal.RiceRequest, Options: candidates}
		if err := f.Stores.Rice.Set(ctx, t.phone, pending); err != nil {
			return failure(errSessionStore, err, zap.String("phone", t.phone)), true
		}
		return models.FlowResponse{
			Text: fmt.Sprintf("Tenemos varios arroces que encajan:\n%s\n\n¿Cuál os apetece? Responde con el número o el nombre.", numberedList(candidates)),
		}, true
	}

	return models.FlowResponse{
		Text: fmt.Sprintf(msgRiceNoMatch, strings.Join(f.catalog(), ", ")),
	}, true
}

// commit evaluates the finished draft against live capacity and creates the
// booking. Evaluation and creation run under the per-date lock so two
// concurrent commits cannot jointly overcommit a date.
func (f *DefaultFlow) commit(ctx context.Context, t *turn, draft models.BookingDraft) models.FlowResponse {
	logger := utils.GetLogger()

	dateISO, ok := toISODate(draft.Date)
	if !ok {
		f.Stores.Drafts.Set(ctx, t.phone, draft)
		return models.FlowResponse{Text: msgInvalidDate}
	}
	timeStr, ok := normalizeTime(draft.Time)
	if !ok {
		f.Stores.Drafts.Set(ctx, t.phone, draft)
		return models.FlowResponse{Text: msgInvalidTime}
	}

	lock := f.commitLocks.For(dateISO)
	lock.Lock()
	defer lock.Unlock()

	decision, err := f.Availability.Evaluate(ctx, dateISO, draft.PartySize, timeStr)
	if err != nil {
		f.Stores.Drafts.Set(ctx, t.phone, draft)
		return failure(errAvailability, err, zap.String("date", dateISO))
	}

	if !decision.Accepted {
		return f.handleRejection(ctx, t, draft, decision)
	}

	booking := models.Booking{
		CustomerName: draft.CustomerName,
		ContactPhone: session.NationalNumber(draft.ContactPhone),
		Date:         dateISO,
		Time:         timeStr,
		PartySize:    draft.PartySize,
		HighChairs:   draft.HighChairs.Value,
		Strollers:    draft.Strollers.Value,
		Notes:        draft.Notes,
		Status:       models.BookingStatusConfirmed,
	}
	if draft.Rice.State == models.RiceNamed {
		booking.RiceType = draft.Rice.Name
		booking.RiceServings = draft.RiceServings
	}

	id, err := f.Bookings.Create(ctx, booking)
	if err != nil {
		// Creation failures keep the draft so the customer can just retry.
		f.Stores.Drafts.Set(ctx, t.phone, draft)
		return failure(errRepository, err, zap.String("phone", t.phone))
	}
	booking.ID = id

	if err := f.Stores.Drafts.Clear(ctx, t.phone); err != nil {
		logger.Warn("draft clear failed after commit", zap.String("phone", t.phone), zap.Error(err))
	}

	if f.Reminders != nil {
		if err := f.Reminders.Schedule(ctx, booking); err != nil {
			logger.Warn("reminder scheduling failed", zap.String("bookingID", id), zap.Error(err))
		}
	}

	return models.FlowResponse{
		Text: fmt.Sprintf(msgBookingCreated,
			displayDate(dateISO), timeStr, booking.PartySize, booking.CustomerName,
			riceSummary(booking.RiceType, booking.RiceServings)),
		Committed: &booking,
	}
}

// handleRejection turns a non-accept decision into the customer reply.
// Hard capacity rejections clear the draft so stale inputs cannot loop.
func (f *DefaultFlow) handleRejection(ctx context.Context, t *turn, draft models.BookingDraft, decision models.AvailabilityDecision) models.FlowResponse {
	switch decision.Reason {
	case models.RejectSameDay:
		f.Stores.Drafts.Clear(ctx, t.phone)
		return f.escalate(ctx, t.phone, msgSameDayIntro)

	case models.RejectClosedDay:
		f.Stores.Drafts.Clear(ctx, t.phone)
		text := msgClosedDay
		if decision.SuggestedDate != "" {
			text += fmt.Sprintf(msgSuggestDate, displayDate(decision.SuggestedDate))
		}
		return models.FlowResponse{Text: text}

	case models.RejectDailyFull:
		f.Stores.Drafts.Clear(ctx, t.phone)
		text := msgDailyFull
		if decision.SuggestedDate != "" {
			text += fmt.Sprintf(msgSuggestDate, displayDate(decision.SuggestedDate))
		}
		return models.FlowResponse{Text: text}

	case models.RejectHourUnavailable:
		f.Stores.Drafts.Clear(ctx, t.phone)
		text := fmt.Sprintf(msgHourFull, draft.PartySize)
		if len(decision.SuggestedTimes) > 0 {
			text += fmt.Sprintf(msgSuggestTimes, joinTimes(decision.SuggestedTimes))
		} else if decision.SuggestedDate != "" {
			text += fmt.Sprintf(msgSuggestDate, displayDate(decision.SuggestedDate))
		}
		return models.FlowResponse{Text: text}

	default: // invalid
		f.Stores.Drafts.Set(ctx, t.phone, draft)
		return models.FlowResponse{Text: msgInvalidDate}
	}
}

// toISODate converts the customer's dd/MM/yyyy date to the capacity
// model's format, accepting a few common variants.
func toISODate(userDate string) (string, bool) {
	trimmed := strings.TrimSpace(userDate)
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02-01-2006", availability.DateLayout} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(availability.DateLayout), true
		}
	}
	return "", false
}

// displayDate renders an ISO date back in the customer's dd/MM/yyyy form.
func displayDate(isoDate string) string {
	parsed, err := time.Parse(availability.DateLayout, isoDate)
	if err != nil {
		return isoDate
	}
	return parsed.Format("02/01/2006")
}

// normalizeTime accepts "14:30", "14.30" and "14,30" as HH:mm.
func normalizeTime(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.ReplaceAll(trimmed, ".", ":")
	trimmed = strings.ReplaceAll(trimmed, ",", ":")
	if parsed, err := time.Parse("15:04", trimmed); err == nil {
		return parsed.Format("15:04"), true
	}
	return "", false
}
