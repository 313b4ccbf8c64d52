package services

import (
	"context"
	"log"
	"time"

	"wa_gateway/internal/database"
	"wa_gateway/internal/models"

	"github.com/robfig/cron/v3"
	"go.mau.fi/whatsmeow/types"
	"gorm.io/gorm"
)

// MessageDispatcher is the outbound half of the client adapter.
type MessageDispatcher interface {
	SendText(ctx context.Context, to types.JID, text string) (*models.DeliveryReceipt, error)
	SendMedia(ctx context.Context, to types.JID, attachment *MediaAttachment, caption string) (*models.DeliveryReceipt, error)
}

// BroadcastScheduler delivers due schedule rows to every subscribed customer.
type BroadcastScheduler struct {
	db         *gorm.DB
	dispatcher MessageDispatcher
	customers  *CustomerService
	media      *MediaService
	sched      *cron.Cron
}

func NewBroadcastScheduler(db *gorm.DB, dispatcher MessageDispatcher, media *MediaService) *BroadcastScheduler {
	return &BroadcastScheduler{
		db:         db,
		dispatcher: dispatcher,
		customers:  NewCustomerService(db),
		media:      media,
	}
}

// Start polls for due schedules once a minute.
func (b *BroadcastScheduler) Start() {
	b.sched = cron.New()
	_, err := b.sched.AddFunc("@every 1m", func() {
		if err := database.CheckAndReconnect(); err != nil {
			log.Printf("WARNING: Failed to check database connection: %v", err)
		}
		if err := b.DispatchDue(context.Background()); err != nil {
			log.Printf("Schedule dispatch error: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to register schedule job: %v", err)
		return
	}
	b.sched.Start()
}

func (b *BroadcastScheduler) Stop() {
	if b.sched != nil {
		b.sched.Stop()
	}
}

// DispatchDue sends every unsent schedule whose sent_at has passed. A
// schedule is marked sent after its delivery pass, even when some sends
// failed; failures are logged, not retried.
func (b *BroadcastScheduler) DispatchDue(ctx context.Context) error {
	var due []models.Schedule
	err := b.db.Where("status = ? AND sent_at <= ?", false, time.Now()).Find(&due).Error
	if err != nil {
		return err
	}

	for _, schedule := range due {
		if err := b.dispatch(ctx, schedule); err != nil {
			log.Printf("Schedule %s: %v", schedule.ID, err)
			continue
		}
		if err := b.db.Model(&models.Schedule{}).
			Where("id = ?", schedule.ID).
			Update("status", true).Error; err != nil {
			log.Printf("Schedule %s: failed to mark sent: %v", schedule.ID, err)
		}
	}

	return nil
}

func (b *BroadcastScheduler) dispatch(ctx context.Context, schedule models.Schedule) error {
	subscribers, err := b.customers.Subscribed()
	if err != nil {
		return err
	}

	var attachment *MediaAttachment
	if schedule.Media != "" {
		attachment, err = b.media.Fetch(schedule.Media)
		if err != nil {
			return err
		}
	}

	sent := 0
	for _, customer := range subscribers {
		to := FormatPhoneNumber(customer.Number)

		if attachment != nil {
			_, err = b.dispatcher.SendMedia(ctx, to, attachment, schedule.Message)
		} else {
			_, err = b.dispatcher.SendText(ctx, to, schedule.Message)
		}
		if err != nil {
			log.Printf("Schedule %s: send to %s failed: %v", schedule.ID, customer.Number, err)
			continue
		}
		sent++
	}

	log.Printf("Schedule %s dispatched to %d/%d subscribers", schedule.ID, sent, len(subscribers))
	return nil
}
