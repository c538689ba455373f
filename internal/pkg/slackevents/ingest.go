package slackevents

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// Repository is the persistence surface the ingestor needs. The gorm
// implementation lives in repository.go; tests supply an in-memory fake.
type Repository interface {
	// IsEventProcessed reports whether the event id was already handled.
	IsEventProcessed(eventID string) (bool, error)
	// MarkEventProcessed inserts the event id, ignoring duplicates.
	MarkEventProcessed(eventID string) error
	// RepBySlackUserID resolves the allow-list; nil when the sender is unknown.
	RepBySlackUserID(slackUserID string) (*models.Rep, error)
	// CreateEntryWithLink creates the entry and its message link in one
	// transaction. Returns false without error when the (channel, ts) link
	// already exists, which a racing duplicate delivery will hit.
	CreateEntryWithLink(entry *models.SalesEntry, link *models.SlackMessageLink) (bool, error)
	// LinkByMessage finds a link by (channel, ts); nil when absent.
	LinkByMessage(channel, messageTS string) (*models.SlackMessageLink, error)
	// DeleteEntryAndLink removes the linked entry and the link in one transaction.
	DeleteEntryAndLink(link *models.SlackMessageLink) error
	// CreateLink records a link for a confirmation message we posted
	// ourselves, ignoring duplicates.
	CreateLink(link *models.SlackMessageLink) error
}

// Outcome describes what an event dispatch did, mostly for logging and the
// admin dashboard. Every outcome other than an error is acknowledged with
// HTTP 200 so Slack does not redeliver.
type Outcome int

const (
	OutcomeDuplicate Outcome = iota
	OutcomeIgnored
	OutcomeFiltered
	OutcomeRecorded
	OutcomeUndone
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeFiltered:
		return "filtered"
	case OutcomeRecorded:
		return "recorded"
	case OutcomeUndone:
		return "undone"
	default:
		return "unknown"
	}
}

// Ingestor applies the idempotent event dispatch: short-circuit already
// seen event ids, act on the message kind, then record the event id even
// for filtered no-ops. Persistence failures leave the event unmarked so a
// Slack redelivery retries it.
type Ingestor struct {
	repo     Repository
	keyword  string
	notifier *Notifier
	now      func() time.Time
}

func NewIngestor(repo Repository, keyword string, notifier *Notifier) *Ingestor {
	return &Ingestor{
		repo:     repo,
		keyword:  strings.ToLower(strings.TrimSpace(keyword)),
		notifier: notifier,
		now:      time.Now,
	}
}

// Dispatch handles one event_callback envelope. The error return maps to a
// 5xx at the HTTP boundary; everything else is an acknowledged outcome.
func (in *Ingestor) Dispatch(env *Envelope) (Outcome, error) {
	if env.EventID != "" {
		seen, err := in.repo.IsEventProcessed(env.EventID)
		if err != nil {
			return OutcomeIgnored, fmt.Errorf("check processed event: %w", err)
		}
		if seen {
			return OutcomeDuplicate, nil
		}
	}

	outcome, err := in.dispatchEvent(env.Event)
	if err != nil {
		return outcome, err
	}

	if env.EventID != "" {
		if err := in.repo.MarkEventProcessed(env.EventID); err != nil {
			return outcome, fmt.Errorf("mark event processed: %w", err)
		}
	}

	return outcome, nil
}

func (in *Ingestor) dispatchEvent(ev MessageEvent) (Outcome, error) {
	switch ev.Kind() {
	case KindDeleted:
		return in.handleDeleted(ev)
	case KindPosted:
		return in.handlePosted(ev)
	default:
		// edits carry no business meaning, unknown subtypes even less
		return OutcomeIgnored, nil
	}
}

func (in *Ingestor) handleDeleted(ev MessageEvent) (Outcome, error) {
	link, err := in.repo.LinkByMessage(ev.Channel, ev.DeletedTS)
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("lookup message link: %w", err)
	}
	if link == nil {
		return OutcomeIgnored, nil
	}
	if err := in.repo.DeleteEntryAndLink(link); err != nil {
		return OutcomeIgnored, fmt.Errorf("delete linked entry: %w", err)
	}

	log.Infof("slack undo: removed entry %d (%s -%d) after message delete", link.EntryID, link.RepName, link.Qty)
	return OutcomeUndone, nil
}

func (in *Ingestor) handlePosted(ev MessageEvent) (Outcome, error) {
	if ev.IsThreadReply() {
		return OutcomeFiltered, nil
	}
	if in.keyword != "" && !strings.Contains(strings.ToLower(ev.Text), in.keyword) {
		return OutcomeFiltered, nil
	}

	rep, err := in.repo.RepBySlackUserID(ev.User)
	if err != nil {
		return OutcomeFiltered, fmt.Errorf("lookup rep: %w", err)
	}
	if rep == nil || !rep.IsActive() {
		return OutcomeFiltered, nil
	}

	entry := &models.SalesEntry{
		WeekStart: week.StartOf(in.now()),
		RepID:     rep.ID,
		Qty:       1,
		Source:    models.SOURCE_SLACK,
	}
	link := &models.SlackMessageLink{
		Channel:   ev.Channel,
		MessageTS: ev.TS,
		RepName:   rep.Name,
		Qty:       entry.Qty,
	}

	created, err := in.repo.CreateEntryWithLink(entry, link)
	if err != nil {
		return OutcomeFiltered, fmt.Errorf("create entry: %w", err)
	}
	if !created {
		// a racing delivery of the same message won the unique index
		return OutcomeDuplicate, nil
	}

	if in.notifier.Enabled() {
		go in.notifier.AnnounceCount(rep.Name, entry.Qty)
	}

	return OutcomeRecorded, nil
}

// AnnounceManualEntry posts a confirmation for an entry recorded through
// the dashboard and links the posted message to the entry, so retracting
// the confirmation in Slack undoes the entry. Best effort: any failure is
// logged and swallowed.
func (in *Ingestor) AnnounceManualEntry(entryID uint, repName string, qty int) {
	if !in.notifier.Enabled() {
		return
	}
	channel, ts, err := in.notifier.PostMessage(fmt.Sprintf("%s sold %d jug(s) :droplet:", repName, qty))
	if err != nil {
		log.Warnf("slack announce failed for entry %d: %v", entryID, err)
		return
	}
	link := &models.SlackMessageLink{
		Channel:   channel,
		MessageTS: ts,
		EntryID:   entryID,
		RepName:   repName,
		Qty:       qty,
	}
	if err := in.repo.CreateLink(link); err != nil {
		log.Warnf("slack link for entry %d not saved: %v", entryID, err)
	}
}
