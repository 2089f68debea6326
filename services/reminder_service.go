// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.RunDailyBillingJobs()
	})

	c.Start()
	config.GetLogger().Info("Billing scheduler started")
}

// RunDailyBillingJobs flips overdue statuses and sends due-payment
// reminders.
func (s *ReminderService) RunDailyBillingJobs() {
	logg := config.GetLogger()
	logg.Info("Starting daily billing housekeeping...")

	s.MarkOverdue()
	s.SendPaymentDueReminders()

	logg.Info("Daily billing housekeeping completed")
}

// MarkOverdue moves pending/partial payments and invoices whose due date
// has passed to overdue. A later transaction recomputes the status, so a
// settled row leaves the overdue state on its own.
func (s *ReminderService) MarkOverdue() {
	logg := config.GetLogger()
	today := utils.BeginningOfDay(time.Now())

	res := s.db.Model(&models.Payment{}).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{models.PaymentStatusPending, models.PaymentStatusPartial}, today).
		Update("status", models.PaymentStatusOverdue)
	if res.Error != nil {
		config.LogError(logg, "services", "MarkOverdue", "payments", nil, res.Error)
	} else if res.RowsAffected > 0 {
		logg.Infof("Marked %d payments overdue", res.RowsAffected)
	}

	res = s.db.Model(&models.CustomerInvoice{}).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{models.PaymentStatusPending, models.PaymentStatusPartial}, today).
		Update("status", models.PaymentStatusOverdue)
	if res.Error != nil {
		config.LogError(logg, "services", "MarkOverdue", "invoices", nil, res.Error)
	} else if res.RowsAffected > 0 {
		logg.Infof("Marked %d invoices overdue", res.RowsAffected)
	}
}

// SendPaymentDueReminders notifies owners about payments due within the
// next 3 days or already overdue.
func (s *ReminderService) SendPaymentDueReminders() {
	logg := config.GetLogger()
	today := utils.BeginningOfDay(time.Now())
	horizon := today.AddDate(0, 0, 3)

	var payments []models.Payment
	if err := s.db.Where("status IN ? AND due_date IS NOT NULL AND due_date <= ?",
		[]string{models.PaymentStatusPending, models.PaymentStatusPartial, models.PaymentStatusOverdue}, horizon).
		Find(&payments).Error; err != nil {
		config.LogError(logg, "services", "SendPaymentDueReminders", "fetch payments", nil, err)
		return
	}

	for _, payment := range payments {
		// One reminder per payment per day
		var alreadySent int64
		if err := s.db.Model(&models.ReminderLog{}).
			Where("payment_id = ? AND sent_at >= ? AND status = ?", payment.ID, today, "sent").
			Count(&alreadySent).Error; err != nil || alreadySent > 0 {
			continue
		}

		var owner models.Owner
		if err := s.db.First(&owner, "id = ?", payment.OwnerID).Error; err != nil {
			config.LogError(logg, "services", "SendPaymentDueReminders", "fetch owner", payment.OwnerID, err)
			continue
		}

		message := fmt.Sprintf("Dear %s, payment %s of %s for period %s to %s is due on %s.",
			owner.Name,
			payment.ID.String()[:8],
			payment.Amount.StringFixed(0),
			utils.DateKey(payment.PeriodStart),
			utils.DateKey(payment.PeriodEnd),
			utils.DateKey(*payment.DueDate))

		s.sendReminder(owner, payment, message)
	}
}

func (s *ReminderService) sendReminder(owner models.Owner, payment models.Payment, message string) {
	logg := config.GetLogger()

	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	var to string

	// Use WhatsApp if phone is in E.164 format and starts with '+'
	if strings.HasPrefix(owner.Phone, "+") {
		to = "whatsapp:" + owner.Phone
		channel = "whatsapp"
	} else {
		to = owner.Phone
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		config.LogError(logg, "services", "sendReminder", owner.Phone, nil, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		logg.Infof("Reminder sent to %s, SID: %s", owner.Phone, *resp.Sid)
	} else {
		logg.Infof("Reminder sent to %s, but no SID returned", owner.Phone)
	}

	reminderLog := models.ReminderLog{
		OwnerID:      owner.ID,
		PaymentID:    payment.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		config.LogError(logg, "services", "sendReminder", "log reminder", payment.ID, err)
	}
}
