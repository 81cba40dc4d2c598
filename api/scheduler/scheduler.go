package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/models"
	templates "github.com/founderhub/warroom-api/templates/html"
)

// Scheduler handles periodic background jobs for war rooms
type Scheduler struct {
	cron *cron.Cron
	RDB  databases.RoomDatabase
	UDB  databases.UserDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(rDB databases.RoomDatabase, uDB databases.UserDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		RDB:  rDB,
		UDB:  uDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Flip scheduled rooms live once their start time has passed. isLive is
	// the only write-gating signal clients trust, so the sweep keeps it in
	// step with scheduledTime.
	_, err := s.cron.AddFunc("@every 1m", s.goLiveSweep)
	if err != nil {
		zap.S().Errorw("failed to register go-live sweep job", "error", err)
	}

	// Remind hosts about rooms still live after a day, daily at 8 AM UTC
	_, err = s.cron.AddFunc("0 8 * * *", s.remindStaleLiveRooms)
	if err != nil {
		zap.S().Errorw("failed to register stale room reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("war room scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		zap.S().Warn("scheduler stop timed out waiting for running jobs")
	}
	zap.S().Info("war room scheduler stopped")
}

// goLiveSweep marks every scheduled room whose start time has passed as
// live and emails the hosts
func (s *Scheduler) goLiveSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{
		"room.status":        models.RoomStatusActive,
		"room.isLive":        false,
		"room.scheduledTime": bson.M{"$lte": now},
	}

	// fetch first so we know which hosts to notify after the flip
	due, err := s.RDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("go-live sweep failed to list due rooms", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	update := bson.M{"$set": bson.M{"room.isLive": true, "room.updatedAt": now}}
	res, err := s.RDB.UpdateMany(ctx, filter, update)
	if err != nil {
		zap.S().Errorw("go-live sweep failed to update rooms", "error", err)
		return
	}
	zap.S().Infow("go-live sweep flipped rooms", "count", res.ModifiedCount)

	for _, room := range due {
		s.notifyHost(ctx, room,
			"Your war room is live",
			fmt.Sprintf("Your war room %q for %s is now live. Your helpers can join and start contributing.",
				room.Details.Title, room.Details.StartupName))
	}
}

// remindStaleLiveRooms nudges hosts whose rooms have been live for over a
// day without being closed
func (s *Scheduler) remindStaleLiveRooms() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-24 * time.Hour))
	filter := bson.M{
		"room.status":        models.RoomStatusActive,
		"room.isLive":        true,
		"room.scheduledTime": bson.M{"$lte": cutoff},
	}

	stale, err := s.RDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("stale room reminder failed to list rooms", "error", err)
		return
	}

	for _, room := range stale {
		s.notifyHost(ctx, room,
			"Is your war room resolved?",
			fmt.Sprintf("Your war room %q has been live for over a day. If the crisis is handled, close it with a summary so your helpers see the outcome.",
				room.Details.Title))
	}
}

func (s *Scheduler) notifyHost(ctx context.Context, room models.Room, subject, body string) {
	hostID, err := primitive.ObjectIDFromHex(room.Details.HostID)
	if err != nil {
		zap.S().Errorw("invalid host id on room", "roomID", room.ID.Hex(), "error", err)
		return
	}

	host := models.User{}
	if err := s.UDB.FindOne(ctx, bson.M{"_id": hostID}).Decode(&host); err != nil {
		zap.S().Errorw("failed to load host for notification", "roomID", room.ID.Hex(), "error", err)
		return
	}
	if host.Details.Email == "" {
		return
	}

	if err := sendEmail(host.Details.Email, subject, body); err != nil {
		zap.S().Errorw("failed to send host notification", "roomID", room.ID.Hex(), "error", err)
	}
}

func sendEmail(toEmail, subject, body string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	from := mail.NewEmail("FounderHub War Rooms", "noreply@founderhub.io")
	to := mail.NewEmail("", toEmail)
	htmlContent := templates.RenderGenericEmail(subject, body)
	message := mail.NewSingleEmail(from, subject, to, body, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
