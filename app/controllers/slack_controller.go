package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/primoteam/primotracker/internal/pkg/database"
	"github.com/primoteam/primotracker/internal/pkg/env"
	"github.com/primoteam/primotracker/internal/pkg/slackevents"
)

// SlackController terminates the Slack Events API endpoint: signature
// verification, the url_verification handshake, then the idempotent dispatch.
type SlackController struct {
	ingestor      *slackevents.Ingestor
	signingSecret string
	now           func() time.Time
}

// NewSlackController wires a controller with explicit dependencies; tests
// use this to inject a fake clock and repository.
func NewSlackController(ingestor *slackevents.Ingestor, signingSecret string) *SlackController {
	return &SlackController{
		ingestor:      ingestor,
		signingSecret: signingSecret,
		now:           time.Now,
	}
}

var slackController *SlackController

// InitializeSlackController builds the production controller from the
// environment and the global database connection.
func InitializeSlackController() {
	repo := slackevents.NewRepository(database.GetDB())
	notifier := slackevents.NewNotifierFromEnv()
	keyword := env.GetEnv("SLACK_KEYWORD", "sold")

	slackController = NewSlackController(
		slackevents.NewIngestor(repo, keyword, notifier),
		env.GetEnv("SLACK_SIGNING_SECRET", ""),
	)
}

// getIngestor exposes the shared ingestor to the dashboard for manual-entry
// confirmations; nil before InitializeSlackController ran.
func getIngestor() *slackevents.Ingestor {
	if slackController == nil {
		return nil
	}
	return slackController.ingestor
}

// HandleSlackEvents is the package-level handler the router binds.
func HandleSlackEvents(c *fiber.Ctx) error {
	if slackController == nil {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}
	return slackController.HandleEvents(c)
}

// HandleEvents processes one Events API delivery.
//
// Status mapping: bad signature 401, malformed payload 200 (acknowledged,
// nothing to retry), persistence failure 502 so Slack redelivers.
func (sc *SlackController) HandleEvents(c *fiber.Ctx) error {
	body := make([]byte, len(c.BodyRaw()))
	copy(body, c.BodyRaw())

	if !slackevents.VerifySignature(
		sc.signingSecret,
		body,
		c.Get("X-Slack-Request-Timestamp"),
		c.Get("X-Slack-Signature"),
		sc.now(),
	) {
		log.Warn("slack event rejected: bad signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	envelope, err := slackevents.ParseEnvelope(body)
	if err != nil {
		// acknowledged: a malformed body will not get better on redelivery
		log.Warnf("slack event unparseable: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	if envelope.Type == slackevents.TypeURLVerification {
		return c.JSON(fiber.Map{"challenge": envelope.Challenge})
	}

	outcome, err := sc.ingestor.Dispatch(envelope)
	if err != nil {
		log.Errorf("slack event %s failed: %v", envelope.EventID, err)
		return c.SendStatus(fiber.StatusBadGateway)
	}

	log.Infof("slack event %s: %s", envelope.EventID, outcome)
	return c.SendStatus(fiber.StatusOK)
}
