package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/internal/pkg/slackevents"
)

// memorySlackRepo is an in-memory slackevents.Repository for handler tests.
type memorySlackRepo struct {
	processed map[string]bool
	reps      map[string]models.Rep
	links     map[string]models.SlackMessageLink
	entries   map[uint]models.SalesEntry
	nextID    uint
}

func newMemorySlackRepo() *memorySlackRepo {
	return &memorySlackRepo{
		processed: map[string]bool{},
		reps:      map[string]models.Rep{},
		links:     map[string]models.SlackMessageLink{},
		entries:   map[uint]models.SalesEntry{},
		nextID:    1,
	}
}

func (m *memorySlackRepo) IsEventProcessed(eventID string) (bool, error) {
	return m.processed[eventID], nil
}

func (m *memorySlackRepo) MarkEventProcessed(eventID string) error {
	m.processed[eventID] = true
	return nil
}

func (m *memorySlackRepo) RepBySlackUserID(slackUserID string) (*models.Rep, error) {
	if rep, ok := m.reps[slackUserID]; ok {
		return &rep, nil
	}
	return nil, nil
}

func (m *memorySlackRepo) CreateEntryWithLink(entry *models.SalesEntry, link *models.SlackMessageLink) (bool, error) {
	key := link.Channel + "|" + link.MessageTS
	if _, exists := m.links[key]; exists {
		return false, nil
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = *entry
	link.EntryID = entry.ID
	m.links[key] = *link
	return true, nil
}

func (m *memorySlackRepo) LinkByMessage(channel, messageTS string) (*models.SlackMessageLink, error) {
	if link, ok := m.links[channel+"|"+messageTS]; ok {
		return &link, nil
	}
	return nil, nil
}

func (m *memorySlackRepo) DeleteEntryAndLink(link *models.SlackMessageLink) error {
	delete(m.entries, link.EntryID)
	delete(m.links, link.Channel+"|"+link.MessageTS)
	return nil
}

func (m *memorySlackRepo) CreateLink(link *models.SlackMessageLink) error {
	m.links[link.Channel+"|"+link.MessageTS] = *link
	return nil
}

func newTestSlackApp(t *testing.T, repo *memorySlackRepo, secret string, now time.Time) *fiber.App {
	t.Helper()

	sc := NewSlackController(slackevents.NewIngestor(repo, "sold", nil), secret)
	sc.now = func() time.Time { return now }

	app := fiber.New()
	app.Post("/slack/events", sc.HandleEvents)
	return app
}

func signedEventRequest(secret, body string, now time.Time) *http.Request {
	ts := strconv.FormatInt(now.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", slackevents.ComputeSignature(secret, ts, []byte(body)))
	return req
}

func TestSlackEventsRecordsSaleEndToEnd(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	repo.reps["U1"] = models.Rep{ID: 7, Name: "Alice", Role: models.ROLE_REP, Status: models.STATUS_ACTIVE, SlackUserID: "U1"}
	app := newTestSlackApp(t, repo, "abc", now)

	body := `{"type":"event_callback","event_id":"Ev1","event":{"type":"message","user":"U1","channel":"C1","ts":"100.1","text":"sold a jug"}}`

	resp, err := app.Test(signedEventRequest("abc", body, now), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, repo.entries, 1)
	for _, entry := range repo.entries {
		assert.Equal(t, uint(7), entry.RepID)
		assert.Equal(t, 1, entry.Qty)
		assert.Equal(t, models.SOURCE_SLACK, entry.Source)
	}

	// redelivery of the same event id must not create a second entry
	resp, err = app.Test(signedEventRequest("abc", body, now), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, repo.entries, 1)
}

func TestSlackEventsRejectsBadSignature(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	app := newTestSlackApp(t, repo, "abc", now)

	body := `{"type":"event_callback","event_id":"Ev1","event":{"type":"message","user":"U1","channel":"C1","ts":"100.1","text":"sold a jug"}}`
	req := signedEventRequest("wrong-secret", body, now)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, repo.entries)
	assert.Empty(t, repo.processed)
}

func TestSlackEventsRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	app := newTestSlackApp(t, repo, "abc", now)

	body := `{"type":"event_callback","event_id":"Ev1","event":{"type":"message","user":"U1","channel":"C1","ts":"100.1","text":"sold a jug"}}`
	stale := now.Add(-6 * time.Minute)
	req := signedEventRequest("abc", body, stale)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSlackEventsAnswersURLVerification(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	app := newTestSlackApp(t, repo, "abc", now)

	body := `{"type":"url_verification","challenge":"ch4ll"}`

	resp, err := app.Test(signedEventRequest("abc", body, now), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Contains(t, string(buf[:n]), "ch4ll")
}

func TestSlackEventsAcksMalformedBody(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	app := newTestSlackApp(t, repo, "abc", now)

	body := `{"type": "event_callback", "event_id":`

	resp, err := app.Test(signedEventRequest("abc", body, now), -1)
	require.NoError(t, err)
	// acknowledged so Slack does not hammer us with redeliveries
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, repo.entries)
}

func TestSlackEventsDeleteUndoesEntry(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	repo := newMemorySlackRepo()
	repo.reps["U1"] = models.Rep{ID: 7, Name: "Alice", Role: models.ROLE_REP, Status: models.STATUS_ACTIVE, SlackUserID: "U1"}
	app := newTestSlackApp(t, repo, "abc", now)

	post := `{"type":"event_callback","event_id":"Ev1","event":{"type":"message","user":"U1","channel":"C1","ts":"100.1","text":"sold a jug"}}`
	resp, err := app.Test(signedEventRequest("abc", post, now), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, repo.entries, 1)

	del := fmt.Sprintf(`{"type":"event_callback","event_id":"Ev2","event":{"type":"message","subtype":"message_deleted","channel":"C1","ts":"101.5","deleted_ts":"%s"}}`, "100.1")
	resp, err = app.Test(signedEventRequest("abc", del, now), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, repo.entries)
}
