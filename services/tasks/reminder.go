package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"knipetak/config"
	"knipetak/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the queue task for one appointment reminder,
// scheduled to fire at the given instant.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderQueue enqueues appointment reminders ahead of each booking's
// start time.
type ReminderQueue struct {
	client   *asynq.Client
	leadTime time.Duration
	zone     *time.Location
}

func NewReminderQueue(leadTime time.Duration, zone *time.Location) *ReminderQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &ReminderQueue{client: client, leadTime: leadTime, zone: zone}
}

// ScheduleBookingReminder queues a reminder to fire leadTime before the
// booking starts. Bookings already inside the lead window get no reminder.
func (q *ReminderQueue) ScheduleBookingReminder(ctx context.Context, booking models.Booking) error {
	fireAt := booking.Timeslot.Start.Add(-q.leadTime)
	if !fireAt.After(time.Now()) {
		return nil
	}

	local := booking.Timeslot.Start.In(q.zone)
	payload := models.ReminderPayload{
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Date:          local.Format("2006-01-02"),
		Time:          local.Format("15:04"),
		Title:         "Upcoming massage appointment",
		Body:          fmt.Sprintf("Your appointment is on %s at %s.", local.Format("2006-01-02"), local.Format("15:04")),
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder for booking %s: %w", booking.ID, err)
	}
	return nil
}

// Close releases the queue's Redis connection.
func (q *ReminderQueue) Close() error {
	return q.client.Close()
}
