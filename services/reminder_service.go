// services/reminder_service.go
package services

import (
	"log"
	"time"

	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService sends the one-time post-booking checkup reminder. The
// write-once reminder_sent_at mark is the only de-duplication: the fixed
// 12-hour cadence keeps overlapping runs out of each other's way in
// practice, there is no job-level lock.
type ReminderService struct {
	db       *gorm.DB
	gateway  NotificationGateway
	settings *SettingsService
	cron     *cron.Cron
}

func NewReminderService(db *gorm.DB, gateway NotificationGateway, settings *SettingsService) *ReminderService {
	return &ReminderService{
		db:       db,
		gateway:  gateway,
		settings: settings,
		cron:     cron.New(),
	}
}

func (s *ReminderService) StartScheduler() {
	// Every 12 hours: at 00:00 and 12:00
	s.cron.AddFunc("0 */12 * * *", s.RunReminderJob)
	s.cron.Start()
	log.Println("Reminder scheduler started (every 12 hours)")
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RunReminderJob finds bookings older than the configured cutoff with no
// reminder sent yet, sends one message per booking, and marks
// reminder_sent_at on reported success only.
func (s *ReminderService) RunReminderJob() {
	settings, err := s.settings.Get()
	if err != nil {
		log.Printf("Reminder job: settings unavailable: %v", err)
		return
	}
	if !settings.WhatsappEnabled || !settings.ReminderEnabled {
		return
	}

	days := settings.ReminderTimeDays
	if days < 1 {
		days = 60
	}
	cutoff := utils.BeginningOfDay(time.Now().AddDate(0, 0, -days))

	var bookings []models.Booking
	if err := s.db.Where("date <= ? AND reminder_sent_at IS NULL", cutoff).Find(&bookings).Error; err != nil {
		log.Printf("Reminder job: query failed: %v", err)
		return
	}

	processed := 0
	for _, booking := range bookings {
		phone := utils.NormalizeIndianPhone(booking.Phone)
		if phone == "" {
			continue
		}

		daysPassed := utils.DaysBetween(booking.Date, time.Now())
		result := s.gateway.SendTemplate(phone, TemplateCheckupReminder, DefaultLanguageCode, ReminderParameters(booking.FullName, daysPassed))
		if !result.Success {
			logSendFailure("reminder", booking.Phone, result.Detail)
			continue
		}

		// Guarded update keeps the mark write-once even if runs overlap.
		err := s.db.Model(&models.Booking{}).
			Where("id = ? AND reminder_sent_at IS NULL", booking.ID).
			Update("reminder_sent_at", time.Now()).Error
		if err != nil {
			log.Printf("Reminder job: failed to mark booking %s: %v", booking.ID, err)
			continue
		}
		processed++
	}

	if len(bookings) > 0 {
		log.Printf("Reminder job: processed %d of %d eligible booking(s)", processed, len(bookings))
	}
}
