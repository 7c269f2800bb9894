// Package notify runs the scheduled reminder pass over campaigns that
// asked to be notified.
package notify

import (
	"time"

	"github.com/robfig/cron/v3"

	appLog "omniplan/internal/log"
	"omniplan/internal/model"
	"omniplan/internal/query"
)

// CampaignSource yields the current campaign snapshot. Satisfied by
// *state.Manager.
type CampaignSource interface {
	Campaigns() []model.Campaign
}

// Reminder periodically surfaces campaigns that are due soon and still
// unsent. Delivery is a log line per urgent campaign; the notifyEmail
// field is carried through for an SMTP hook to consume.
type Reminder struct {
	source     CampaignSource
	windowDays int
	cron       *cron.Cron
}

func NewReminder(source CampaignSource, windowDays int) *Reminder {
	if windowDays <= 0 {
		windowDays = 2
	}
	return &Reminder{
		source:     source,
		windowDays: windowDays,
		cron:       cron.New(),
	}
}

// Start schedules the reminder pass on the given cron expression and
// runs one pass immediately.
func (r *Reminder) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return err
	}
	r.cron.Start()
	r.Run()
	return nil
}

// Stop halts the schedule; a running pass finishes first.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Run executes a single reminder pass.
func (r *Reminder) Run() {
	urgent := query.UpcomingWithin(r.source.Campaigns(), r.windowDays, time.Now())
	if len(urgent) == 0 {
		appLog.Debug("notify: nothing due", "window_days", r.windowDays)
		return
	}

	for _, c := range urgent {
		appLog.Info("notify: campaign due soon",
			"id", c.ID,
			"title", c.Title,
			"date", c.Date,
			"brand", c.BrandID,
			"email", c.NotifyEmail,
		)
	}
}
