package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

// Notifier is the fire-and-forget trigger surface the lifecycle engine
// calls out on. Payloads are primitives only; the channel behind it
// (email today) stays fully decoupled from the domain.
type Notifier interface {
	SubscriptionFrozen(ctx context.Context, email, name, endDate string)
	SubscriptionUnfrozen(ctx context.Context, email, name, newEndDate string)
	PaymentConfirmed(ctx context.Context, email, name, amount string)
	CancellationRequested(ctx context.Context, email, name, effectiveDate, fee string)
	CancellationCompleted(ctx context.Context, email, name, effectiveDate string)
	CancellationWithdrawn(ctx context.Context, email, name string)
	OfferPresented(ctx context.Context, email, name, title, expiresAt string)
	OfferAccepted(ctx context.Context, email, name, title string)
	PlanChanged(ctx context.Context, email, name, changeType, netAmount string)
}

type Job struct {
	ID      string    `json:"id"`
	Event   string    `json:"event"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues notification jobs on redis and drains them through a
// background SMTP worker. Queueing failures are logged, never surfaced:
// the domain transition has already committed by the time we get here.
type Service struct {
	redis    *redis.Client
	log      logger.Component
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		log:      logger.With("notification"),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// NewWithClient is used by tests to inject a redismock client.
func NewWithClient(client *redis.Client, fromEmail, fromName string) *Service {
	return &Service{
		redis:    client,
		log:      logger.With("notification"),
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *Service) enqueue(ctx context.Context, event, to, name, subject, body string) {
	job := Job{
		ID:      uuid.NewString(),
		Event:   event,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		s.log.Errorf("marshal %s job: %v", event, err)
		return
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		s.log.Errorf("queue %s to %s: %v", event, to, err)
		return
	}

	metrics.RecordNotificationQueued(event)
	s.log.Infof("queued %s to %s", event, to)
}

func (s *Service) SubscriptionFrozen(ctx context.Context, email, name, endDate string) {
	body := fmt.Sprintf(`Hi %s,

Your membership is now frozen. Your remaining days are preserved and your
end date will be extended when you unfreeze.

Current end date: %s

- Liyaqa Team`, name, endDate)
	s.enqueue(ctx, "subscription_frozen", email, name, "Membership Frozen", body)
}

func (s *Service) SubscriptionUnfrozen(ctx context.Context, email, name, newEndDate string) {
	body := fmt.Sprintf(`Hi %s,

Welcome back! Your membership is active again.

New end date: %s

- Liyaqa Team`, name, newEndDate)
	s.enqueue(ctx, "subscription_unfrozen", email, name, "Membership Active Again", body)
}

func (s *Service) PaymentConfirmed(ctx context.Context, email, name, amount string) {
	body := fmt.Sprintf(`Hi %s,

We received your payment of %s. Your membership is now active.

- Liyaqa Team`, name, amount)
	s.enqueue(ctx, "payment_confirmed", email, name, "Payment Received", body)
}

func (s *Service) CancellationRequested(ctx context.Context, email, name, effectiveDate, fee string) {
	body := fmt.Sprintf(`Hi %s,

We received your cancellation request. Your membership stays active until
the end of your notice period.

Effective date: %s
Early termination fee: %s

If you change your mind you can withdraw the request any time before the
effective date.

- Liyaqa Team`, name, effectiveDate, fee)
	s.enqueue(ctx, "cancellation_requested", email, name, "Cancellation Request Received", body)
}

func (s *Service) CancellationCompleted(ctx context.Context, email, name, effectiveDate string) {
	body := fmt.Sprintf(`Hi %s,

Your membership has ended as of %s. You can reactivate within 90 days and
keep your member history.

We'd love to have you back.

- Liyaqa Team`, name, effectiveDate)
	s.enqueue(ctx, "cancellation_completed", email, name, "Membership Cancelled", body)
}

func (s *Service) CancellationWithdrawn(ctx context.Context, email, name string) {
	body := fmt.Sprintf(`Hi %s,

Your cancellation request has been withdrawn and your membership continues
as before. Great to keep you with us!

- Liyaqa Team`, name)
	s.enqueue(ctx, "cancellation_withdrawn", email, name, "Cancellation Withdrawn", body)
}

func (s *Service) OfferPresented(ctx context.Context, email, name, title, expiresAt string) {
	body := fmt.Sprintf(`Hi %s,

Before you go, we have an offer for you:

%s

This offer expires on %s.

- Liyaqa Team`, name, title, expiresAt)
	s.enqueue(ctx, "offer_presented", email, name, "An Offer For You", body)
}

func (s *Service) OfferAccepted(ctx context.Context, email, name, title string) {
	body := fmt.Sprintf(`Hi %s,

You accepted: %s

The benefit is already applied to your membership.

- Liyaqa Team`, name, title)
	s.enqueue(ctx, "offer_accepted", email, name, "Offer Applied", body)
}

func (s *Service) PlanChanged(ctx context.Context, email, name, changeType, netAmount string) {
	body := fmt.Sprintf(`Hi %s,

Your plan change (%s) is confirmed.

Net adjustment posted to your wallet: %s

- Liyaqa Team`, name, changeType, netAmount)
	s.enqueue(ctx, "plan_changed", email, name, "Plan Change Confirmed", body)
}

// Start drains the queue until ctx is cancelled. Run it in its own
// goroutine from main.
func (s *Service) Start(ctx context.Context) {
	s.log.Infof("worker started")

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		s.log.Errorf("bad job data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		s.log.Errorf("send %s to %s: %v", job.Event, job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			return
		}

		s.saveFailed(job, err)
		return
	}

	s.log.Infof("sent %s to %s", job.Event, job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, sendErr error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": sendErr.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	s.log.Errorf("%s to %s moved to failed queue after %d tries", job.Event, job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
