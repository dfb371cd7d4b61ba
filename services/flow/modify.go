package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"villacarmen/models"
	"villacarmen/services/session"

	"go.uber.org/zap"
)

// abortWords end a modification or cancellation session on sight.
var abortWords = []string{"dejar", "dejalo", "déjalo", "olvida", "olvídalo", "nada", "salir"}

func wantsAbort(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, word := range abortWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func saysYes(text string) bool {
	lower := strings.ToLower(foldAccents(strings.TrimSpace(text)))
	for _, word := range []string{"si", "sí", "vale", "claro", "ok", "perfecto", "confirmo", "eso es"} {
		if lower == word || strings.HasPrefix(lower, word+" ") || strings.HasPrefix(lower, word+",") {
			return true
		}
	}
	return false
}

func saysNo(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == "no" || strings.HasPrefix(lower, "no ") || strings.HasPrefix(lower, "no,")
}

// handleModification drives the modification session for this phone.
func (f *DefaultFlow) handleModification(ctx context.Context, t *turn) models.FlowResponse {
	if wantsAbort(t.text) {
		f.Stores.Modifications.Clear(ctx, t.phone)
		return models.FlowResponse{Text: "Sin problema, dejamos la reserva como está. 👍"}
	}

	sess, ok, err := f.Stores.Modifications.Get(ctx, t.phone)
	if err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	if !ok {
		return f.startModification(ctx, t)
	}

	switch sess.Stage {
	case models.ModifyStageSelecting:
		return f.modifySelect(ctx, t, sess)
	case models.ModifyStageCollecting:
		return f.modifyCollect(ctx, t, sess)
	case models.ModifyStageConfirming:
		return f.modifyConfirm(ctx, t, sess)
	default:
		f.Stores.Modifications.Clear(ctx, t.phone)
		return models.FlowResponse{Text: msgGenericError}
	}
}

func (f *DefaultFlow) startModification(ctx context.Context, t *turn) models.FlowResponse {
	candidates, err := f.Bookings.FindByPhone(ctx, session.NationalNumber(t.phone))
	if err != nil {
		return failure(errRepository, err, zap.String("phone", t.phone))
	}
	if len(candidates) == 0 {
		return models.FlowResponse{Text: msgNoBookingsFound}
	}

	sess := models.ModificationSession{Candidates: candidates}
	if len(candidates) == 1 {
		sess.Stage = models.ModifyStageCollecting
		sess.Selected = &candidates[0]
		if err := f.Stores.Modifications.Set(ctx, t.phone, sess); err != nil {
			return failure(errSessionStore, err, zap.String("phone", t.phone))
		}
		return models.FlowResponse{Text: fmt.Sprintf(
			"Tu reserva: %s. ¿Qué quieres cambiar? (fecha, hora o número de personas)",
			describeBooking(candidates[0]))}
	}

	sess.Stage = models.ModifyStageSelecting
	if err := f.Stores.Modifications.Set(ctx, t.phone, sess); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	return models.FlowResponse{Text: fmt.Sprintf(
		"Tienes varias reservas activas:\n%s\n\n¿Cuál quieres modificar? Responde con el número.",
		numberedBookings(candidates))}
}

func (f *DefaultFlow) modifySelect(ctx context.Context, t *turn, sess models.ModificationSession) models.FlowResponse {
	idx, ok := pickCandidate(t.text, len(sess.Candidates))
	if !ok {
		return models.FlowResponse{Text: fmt.Sprintf(
			"No te he entendido. ¿Cuál de estas reservas quieres modificar?\n%s",
			numberedBookings(sess.Candidates))}
	}

	sess.Selected = &sess.Candidates[idx]
	sess.Stage = models.ModifyStageCollecting
	if err := f.Stores.Modifications.Set(ctx, t.phone, sess); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	return models.FlowResponse{Text: fmt.Sprintf(
		"Vale, la reserva %s. ¿Qué quieres cambiar? (fecha, hora o número de personas)",
		describeBooking(*sess.Selected))}
}

func (f *DefaultFlow) modifyCollect(ctx context.Context, t *turn, sess models.ModificationSession) models.FlowResponse {
	changes, summary := extractChanges(t.signal.Extracted)
	if changes == nil {
		return models.FlowResponse{Text: "Dime qué quieres cambiar: la fecha, la hora o cuántos seréis."}
	}

	sess.PendingChanges = changes
	sess.ChangeSummary = summary
	sess.Stage = models.ModifyStageConfirming
	if err := f.Stores.Modifications.Set(ctx, t.phone, sess); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	return models.FlowResponse{Text: fmt.Sprintf("Entonces %s, ¿lo confirmo?", summary)}
}

func (f *DefaultFlow) modifyConfirm(ctx context.Context, t *turn, sess models.ModificationSession) models.FlowResponse {
	if saysNo(t.text) {
		sess.Stage = models.ModifyStageCollecting
		sess.PendingChanges = nil
		sess.ChangeSummary = ""
		f.Stores.Modifications.Set(ctx, t.phone, sess)
		return models.FlowResponse{Text: "Vale, entonces ¿qué quieres cambiar?"}
	}
	if !saysYes(t.text) {
		return models.FlowResponse{Text: fmt.Sprintf("¿Confirmo el cambio? (%s) Responde sí o no.", sess.ChangeSummary)}
	}

	booking := sess.Selected
	changes := sess.PendingChanges
	if booking == nil || changes == nil {
		f.Stores.Modifications.Clear(ctx, t.phone)
		return models.FlowResponse{Text: msgGenericError}
	}

	// The changed reservation must still fit the capacity model.
	date := booking.Date
	if changes.Date != nil {
		iso, ok := toISODate(*changes.Date)
		if !ok {
			sess.Stage = models.ModifyStageCollecting
			f.Stores.Modifications.Set(ctx, t.phone, sess)
			return models.FlowResponse{Text: msgInvalidDate}
		}
		date = iso
		changes.Date = &iso
	}
	timeStr := booking.Time
	if changes.Time != nil {
		normalized, ok := normalizeTime(*changes.Time)
		if !ok {
			sess.Stage = models.ModifyStageCollecting
			f.Stores.Modifications.Set(ctx, t.phone, sess)
			return models.FlowResponse{Text: msgInvalidTime}
		}
		timeStr = normalized
		changes.Time = &normalized
	}
	partySize := booking.PartySize
	if changes.PartySize != nil {
		partySize = *changes.PartySize
	}

	decision, err := f.Availability.Evaluate(ctx, date, partySize, timeStr)
	if err != nil {
		return failure(errAvailability, err, zap.String("date", date))
	}
	if !decision.Accepted {
		sess.Stage = models.ModifyStageCollecting
		sess.PendingChanges = nil
		f.Stores.Modifications.Set(ctx, t.phone, sess)
		text := "Ese cambio no nos encaja: " + rejectionText(decision, partySize) + " ¿Quieres probar otra fecha u hora?"
		return models.FlowResponse{Text: text}
	}

	updated, err := f.Bookings.Update(ctx, booking.ID, *changes)
	if err != nil || !updated {
		return failure(errRepository, err, zap.String("bookingID", booking.ID))
	}

	f.Stores.Modifications.Clear(ctx, t.phone)
	return models.FlowResponse{Text: fmt.Sprintf("¡Hecho! %s. Quedáis %s a las %s, %d personas. ✅",
		strings.ToUpper(sess.ChangeSummary[:1])+sess.ChangeSummary[1:],
		displayDate(date), timeStr, partySize)}
}

// extractChanges builds the change payload from this turn's extraction.
func extractChanges(in models.BookingDraft) (*models.BookingChanges, string) {
	changes := &models.BookingChanges{}
	var parts []string

	if in.Date != "" {
		changes.Date = &in.Date
		parts = append(parts, "pasamos la reserva al "+in.Date)
	}
	if in.Time != "" {
		changes.Time = &in.Time
		parts = append(parts, "a las "+in.Time)
	}
	if in.PartySize > 0 {
		size := in.PartySize
		changes.PartySize = &size
		parts = append(parts, fmt.Sprintf("seréis %d", size))
	}
	if in.Notes != "" {
		changes.Notes = &in.Notes
		parts = append(parts, "apunto: "+in.Notes)
	}

	if len(parts) == 0 {
		return nil, ""
	}
	return changes, strings.Join(parts, ", ")
}

func rejectionText(decision models.AvailabilityDecision, partySize int) string {
	switch decision.Reason {
	case models.RejectClosedDay:
		return msgClosedDay
	case models.RejectDailyFull:
		return msgDailyFull
	case models.RejectHourUnavailable:
		return fmt.Sprintf(msgHourFull, partySize)
	case models.RejectSameDay:
		return "para cambios en el mismo día llámanos directamente."
	default:
		return "esa fecha u hora no me cuadra."
	}
}

func describeBooking(b models.Booking) string {
	return fmt.Sprintf("%s a las %s, %d personas", displayDate(b.Date), b.Time, b.PartySize)
}

func numberedBookings(bookings []models.Booking) string {
	var b strings.Builder
	for i, booking := range bookings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, describeBooking(booking))
	}
	return strings.TrimRight(b.String(), "\n")
}

// pickCandidate reads a 1-based selection out of the reply.
func pickCandidate(text string, count int) (int, bool) {
	for _, field := range strings.Fields(text) {
		if n, err := strconv.Atoi(strings.Trim(field, ".,º")); err == nil {
			if n >= 1 && n <= count {
				return n - 1, true
			}
		}
	}
	return 0, false
}
