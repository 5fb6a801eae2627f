package services

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/data"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/mail"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(data.ReminderTemplate))

// SweeperOptions tunes the reminder window and send pacing.
type SweeperOptions struct {
	// Lead is how long before a contest start the reminder goes out.
	Lead time.Duration
	// Tolerance widens the window on both sides so tick jitter cannot
	// drop a contest that starts at exactly now+Lead.
	Tolerance time.Duration
	// SendDelay is the fixed pause between consecutive sends, respecting
	// outbound rate limits. Zero disables the pause.
	SendDelay time.Duration
}

// Sweeper is the periodic reminder-matching job. Each Sweep finds contests
// entering the notification window and dispatches one message per
// subscribed user. A dispatched ledger keyed by contest id guarantees a
// contest is not announced twice even if the window and tick ever overlap.
type Sweeper struct {
	db      *gorm.DB
	sender  mail.Sender
	logger  *logrus.Logger
	options SweeperOptions
	now     func() time.Time

	// dispatched maps contest id to its start time, pruned once the
	// start has passed. Sweep runs are serialized by the scheduler, so
	// no lock is needed.
	dispatched map[uint]int64
}

// NewSweeper wires a reminder sweep job.
func NewSweeper(db *gorm.DB, sender mail.Sender, logger *logrus.Logger, options SweeperOptions) *Sweeper {
	return &Sweeper{
		db:         db,
		sender:     sender,
		logger:     logger,
		options:    options,
		now:        time.Now,
		dispatched: make(map[uint]int64),
	}
}

// Sweep runs one tick: compute the notification window, find matching
// contests, resolve subscribers per category and send. A failed send is
// logged per recipient and never aborts the rest of the sweep.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now().UTC()
	nowSec := now.Unix()
	target := nowSec + int64(s.options.Lead/time.Second)
	tol := int64(s.options.Tolerance / time.Second)

	s.prune(nowSec)

	contests, err := ContestsStartingBetween(s.db, target-tol, target+tol)
	if err != nil {
		return err
	}

	for _, contest := range contests {
		if _, done := s.dispatched[contest.ID]; done {
			continue
		}

		users, err := SubscribersForContestType(s.db, contest.ContestTypeID)
		if err != nil {
			return err
		}

		for _, user := range users {
			if err := s.sendReminder(ctx, contest, user); err != nil {
				sendErr := &types.SendError{Recipient: user.Email, Err: err}
				s.logger.WithError(sendErr).WithField("contest", contest.Name).Warn("reminder send failed")
			}
			if err := s.pause(ctx); err != nil {
				return err
			}
		}

		s.dispatched[contest.ID] = contest.StartTime
	}

	return nil
}

func (s *Sweeper) sendReminder(ctx context.Context, contest models.Contest, user models.User) error {
	var body strings.Builder
	err := reminderTemplate.Execute(&body, map[string]string{
		"UserName":    user.Name,
		"ContestName": contest.Name,
		"StartsAt":    time.Unix(contest.StartTime, 0).UTC().Format(time.RFC1123),
	})
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, mail.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Reminder: " + contest.Name + " starts soon!",
		Body:    body.String(),
	})
}

// pause waits the configured inter-send delay, bailing out early if the
// context is cancelled.
func (s *Sweeper) pause(ctx context.Context) error {
	if s.options.SendDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.options.SendDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// prune drops ledger entries for contests that have already started.
func (s *Sweeper) prune(nowSec int64) {
	for id, start := range s.dispatched {
		if start <= nowSec {
			delete(s.dispatched, id)
		}
	}
}
