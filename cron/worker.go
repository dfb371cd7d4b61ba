package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"villacarmen/config"
	bookingRepo "villacarmen/database/repository/booking"
	"villacarmen/models"
	"villacarmen/services/availability"
	"villacarmen/services/messaging"
	"villacarmen/services/session"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// reminderHour is the local hour of day reminders go out, the day before.
const reminderHour = 11

type reminderPayload struct {
	BookingID string `json:"bookingId"`
}

// ReminderQueue enqueues day-before reminders for confirmed bookings.
type ReminderQueue struct {
	client *asynq.Client
}

// NewReminderQueue returns a queue backed by the reminder Redis DB.
func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderDB,
		}),
	}
}

// Schedule enqueues the reminder for the morning before the reservation.
// Bookings too close to their date get no reminder.
func (q *ReminderQueue) Schedule(_ context.Context, booking models.Booking) error {
	date, err := time.ParseInLocation(availability.DateLayout, booking.Date, time.Local)
	if err != nil {
		return fmt.Errorf("reminder: parse booking date: %w", err)
	}

	sendAt := date.AddDate(0, 0, -1).Add(reminderHour * time.Hour)
	if !sendAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(reminderPayload{BookingID: booking.ID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	_, err = q.client.Enqueue(task, asynq.ProcessAt(sendAt), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("reminder: enqueue: %w", err)
	}
	return nil
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(repo bookingRepo.BookingRepository, gateway messaging.Gateway) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, gateway))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo bookingRepo.BookingRepository, gateway messaging.Gateway) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload reminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("reminder: decode payload: %w", err)
		}

		booking, err := repo.GetByID(ctx, payload.BookingID)
		if err != nil {
			return fmt.Errorf("reminder: load booking %s: %w", payload.BookingID, err)
		}
		if booking.Status != models.BookingStatusConfirmed {
			// Cancelled since it was scheduled; nothing to send.
			return nil
		}

		text := fmt.Sprintf(
			"¡Hola %s! Te recordamos tu reserva de mañana a las %s para %d personas en %s. Si no podéis venir, avísanos por aquí. 😊",
			booking.CustomerName, booking.Time, booking.PartySize, config.AppConfig.RestaurantName)

		phone := session.NormalizePhone(booking.ContactPhone)
		if !gateway.SendText(ctx, phone, text) {
			return fmt.Errorf("reminder: send failed for booking %s", payload.BookingID)
		}
		return nil
	}
}
