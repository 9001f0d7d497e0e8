package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"knipetak/config"
	bookingRepo "knipetak/database/repository/booking"
	"knipetak/models"
	"knipetak/services/tasks"
	"knipetak/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to the customer. The default implementation
// logs the delivery; a mail or push integration plugs in here.
type Notifier interface {
	SendReminder(ctx context.Context, payload models.ReminderPayload) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) SendReminder(ctx context.Context, payload models.ReminderPayload) error {
	utils.GetLogger().Info("appointment reminder",
		zap.String("bookingId", payload.BookingID),
		zap.String("customer", payload.CustomerName),
		zap.String("date", payload.Date),
		zap.String("time", payload.Time))
	return nil
}

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(bookings bookingRepo.BookingStore, notifier Notifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
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
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(bookings, notifier))

	go monitorRedisConnection()

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask delivers one reminder. Bookings cancelled after the
// reminder was queued are skipped silently.
func handleReminderTask(bookings bookingRepo.BookingStore, notifier Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		booking, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] booking %s not found, dropping reminder: %v", p.BookingID, err)
			return nil
		}
		if !booking.Active() {
			return nil
		}

		if err := notifier.SendReminder(ctx, p); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
