package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/intent"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
)

type InboundMessageInput struct {
	From string
	Text string
}

type InboundMessageResult struct {
	Intent        intent.Intent  `json:"intent"`
	AppointmentID *uint          `json:"appointment_id,omitempty"`
	Status        *domain.Status `json:"status,omitempty"`
	Changed       bool           `json:"changed"`
	Reply         string         `json:"reply"`
	ReplySent     bool           `json:"reply_sent"`
}

// HandleInboundMessage turns a customer's free-text reply into at most one transition
// on their next live appointment and answers with exactly one message.
type HandleInboundMessage struct {
	repo            domain.Repository
	audit           *audit.Dispatcher
	notifier        *notify.Dispatcher
	metrics         *metrics.Metrics
	log             zerolog.Logger
	defaultTimezone string
	t               *transitioner
}

func NewHandleInboundMessage(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
	defaultTimezone string,
) *HandleInboundMessage {
	return &HandleInboundMessage{
		repo:            repo,
		audit:           audit,
		notifier:        notifier,
		metrics:         m,
		log:             log,
		defaultTimezone: defaultTimezone,
		t:               &transitioner{repo: repo, metrics: m, now: time.Now},
	}
}

func (uc *HandleInboundMessage) Execute(
	ctx context.Context,
	in InboundMessageInput,
) (*InboundMessageResult, error) {

	phone := NormalizePhone(in.From)
	if phone == "" {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	kind := intent.Classify(in.Text)
	uc.metrics.ObserveIntent(string(kind))

	res := &InboundMessageResult{Intent: kind}

	ap, err := uc.repo.FindActiveByPhone(ctx, phone, uc.t.now())
	if err != nil {
		return nil, err
	}

	if ap == nil {
		res.Reply = notify.ReplyNoAppointment
		res.ReplySent = uc.send(ctx, phone, res.Reply)
		uc.record(0, nil, phone, res)
		return res, nil
	}

	res.AppointmentID = &ap.ID
	loc, err := providerLocation(&ap.Provider, uc.defaultTimezone)
	if err != nil {
		return nil, err
	}

	var ledgerType string

	switch kind {
	case intent.Confirm:
		res.Changed, err = uc.t.apply(ctx, ap, domain.TriggerConfirmIntent)
		switch {
		case err != nil:
			return nil, err
		case res.Changed:
			ledgerType = notify.TypeReplyConfirmed
			res.Reply = notify.ReplyConfirmed(ap.StartTime, loc)
		case ap.Status == domain.StatusConfirmed:
			res.Reply = notify.ReplyAlreadyConfirmed(ap.StartTime, loc)
		default:
			res.Reply = notify.ReplyNothingToDo
		}

	case intent.Cancel:
		res.Changed, err = uc.t.apply(ctx, ap, domain.TriggerCancelIntent)
		switch {
		case err != nil:
			return nil, err
		case res.Changed:
			ledgerType = notify.TypeReplyCancelled
			res.Reply = notify.ReplyCancelled(ap.StartTime, loc)
		default:
			res.Reply = notify.ReplyNothingToDo
		}

	default:
		res.Reply = notify.ReplyUnknown
	}

	status := ap.Status
	res.Status = &status

	if ledgerType != "" {
		res.ReplySent = uc.deliver(ctx, ap.ID, ledgerType, phone, res.Reply)
	} else {
		res.ReplySent = uc.send(ctx, phone, res.Reply)
	}

	if res.Changed {
		uc.audit.Dispatch(audit.Event{
			TenantID: ap.TenantID,
			Action:   auditAction(ap.Status),
			Entity:   "appointment",
			EntityID: &ap.ID,
			Metadata: map[string]any{"source": "inbound_message"},
		})
	}
	uc.record(ap.TenantID, ap, phone, res)

	return res, nil
}

func (uc *HandleInboundMessage) deliver(ctx context.Context, appointmentID uint, notificationType, to, body string) bool {
	if uc.notifier == nil {
		return false
	}
	sent, err := uc.notifier.Deliver(ctx, appointmentID, notificationType, notify.Message{To: to, Body: body})
	if err != nil {
		uc.log.Warn().Err(err).Uint("appointment_id", appointmentID).Str("type", notificationType).Msg("inbound reply not delivered")
	}
	return sent
}

func (uc *HandleInboundMessage) send(ctx context.Context, to, body string) bool {
	if uc.notifier == nil {
		return false
	}
	if err := uc.notifier.Send(ctx, notify.Message{To: to, Body: body}); err != nil {
		uc.log.Warn().Err(err).Msg("inbound reply not sent")
		return false
	}
	return true
}

// record writes the best-effort log entry for the inbound message.
func (uc *HandleInboundMessage) record(tenantID uint, ap *models.Appointment, phone string, res *InboundMessageResult) {
	var entityID *uint
	if ap != nil {
		entityID = &ap.ID
	}
	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Action:   "inbound_message",
		Entity:   "appointment",
		EntityID: entityID,
		Metadata: map[string]any{
			"from":    phone,
			"intent":  res.Intent,
			"changed": res.Changed,
		},
	})
}
