package flow

import (
	"context"
	"fmt"

	"villacarmen/models"
	"villacarmen/services/session"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// handleCancellation drives the cancellation session for this phone.
func (f *DefaultFlow) handleCancellation(ctx context.Context, t *turn) models.FlowResponse {
	if wantsAbort(t.text) {
		f.Stores.Cancellations.Clear(ctx, t.phone)
		return models.FlowResponse{Text: "Perfecto, tu reserva se mantiene. 👍"}
	}

	sess, ok, err := f.Stores.Cancellations.Get(ctx, t.phone)
	if err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	if !ok {
		return f.startCancellation(ctx, t)
	}

	switch sess.Stage {
	case models.CancelStageSelecting:
		return f.cancelSelect(ctx, t, sess)
	case models.CancelStageConfirming:
		return f.cancelConfirm(ctx, t, sess)
	default:
		f.Stores.Cancellations.Clear(ctx, t.phone)
		return models.FlowResponse{Text: msgGenericError}
	}
}

func (f *DefaultFlow) startCancellation(ctx context.Context, t *turn) models.FlowResponse {
	candidates, err := f.Bookings.FindByPhone(ctx, session.NationalNumber(t.phone))
	if err != nil {
		return failure(errRepository, err, zap.String("phone", t.phone))
	}
	if len(candidates) == 0 {
		return models.FlowResponse{Text: msgNoBookingsFound}
	}

	sess := models.CancellationSession{Candidates: candidates}
	if len(candidates) == 1 {
		sess.Stage = models.CancelStageConfirming
		sess.Selected = &candidates[0]
		if err := f.Stores.Cancellations.Set(ctx, t.phone, sess); err != nil {
			return failure(errSessionStore, err, zap.String("phone", t.phone))
		}
		return models.FlowResponse{Text: fmt.Sprintf(
			"¿Seguro que quieres anular tu reserva del %s?", describeBooking(candidates[0]))}
	}

	sess.Stage = models.CancelStageSelecting
	if err := f.Stores.Cancellations.Set(ctx, t.phone, sess); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	return models.FlowResponse{Text: fmt.Sprintf(
		"Tienes varias reservas activas:\n%s\n\n¿Cuál quieres anular? Responde con el número.",
		numberedBookings(candidates))}
}

func (f *DefaultFlow) cancelSelect(ctx context.Context, t *turn, sess models.CancellationSession) models.FlowResponse {
	idx, ok := pickCandidate(t.text, len(sess.Candidates))
	if !ok {
		return models.FlowResponse{Text: fmt.Sprintf(
			"No te he entendido. ¿Cuál de estas reservas quieres anular?\n%s",
			numberedBookings(sess.Candidates))}
	}

	sess.Selected = &sess.Candidates[idx]
	sess.Stage = models.CancelStageConfirming
	if err := f.Stores.Cancellations.Set(ctx, t.phone, sess); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone))
	}
	return models.FlowResponse{Text: fmt.Sprintf(
		"¿Seguro que quieres anular la reserva del %s?", describeBooking(*sess.Selected))}
}

func (f *DefaultFlow) cancelConfirm(ctx context.Context, t *turn, sess models.CancellationSession) models.FlowResponse {
	logger := utils.GetLogger()

	if saysNo(t.text) {
		f.Stores.Cancellations.Clear(ctx, t.phone)
		return models.FlowResponse{Text: "Perfecto, tu reserva se mantiene. 👍"}
	}
	if !saysYes(t.text) {
		return models.FlowResponse{Text: "¿Anulo la reserva? Responde sí o no."}
	}

	booking := sess.Selected
	if booking == nil {
		f.Stores.Cancellations.Clear(ctx, t.phone)
		return models.FlowResponse{Text: msgGenericError}
	}

	cancelled, err := f.Bookings.Cancel(ctx, booking.ID)
	if err != nil || !cancelled {
		return failure(errRepository, err, zap.String("bookingID", booking.ID))
	}

	booking.Status = models.BookingStatusCancelled
	if _, err := f.Bookings.ArchiveCancelled(ctx, *booking, "customer"); err != nil {
		// The cancellation itself stood; archiving is bookkeeping.
		logger.Warn("archive of cancelled booking failed", zap.String("bookingID", booking.ID), zap.Error(err))
	}

	f.Stores.Cancellations.Clear(ctx, t.phone)
	return models.FlowResponse{Text: fmt.Sprintf(
		"Reserva del %s anulada. ¡Esperamos verte pronto! 👋", describeBooking(*booking))}
}
