package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primoteam/primotracker/app/models"
)

// fakeRepRepo is an in-memory repository.RepRepository keyed by Slack user id.
type fakeRepRepo struct {
	reps          map[string]*models.Rep
	lastLoginedID uint
}

func newFakeRepRepo() *fakeRepRepo {
	return &fakeRepRepo{reps: map[string]*models.Rep{}}
}

func (f *fakeRepRepo) Create(rep *models.Rep) error               { return nil }
func (f *fakeRepRepo) GetByID(id uint) (*models.Rep, error)       { return nil, nil }
func (f *fakeRepRepo) GetByName(name string) (*models.Rep, error) { return nil, nil }

func (f *fakeRepRepo) GetBySlackUserID(slackUserID string) (*models.Rep, error) {
	return f.reps[slackUserID], nil
}

func (f *fakeRepRepo) Update(rep *models.Rep) error                  { return nil }
func (f *fakeRepRepo) Delete(id uint) error                         { return nil }
func (f *fakeRepRepo) List(offset, limit int) ([]models.Rep, error) { return nil, nil }
func (f *fakeRepRepo) ListActive() ([]models.Rep, error)            { return nil, nil }
func (f *fakeRepRepo) Count() (int64, error)                        { return 0, nil }

func (f *fakeRepRepo) TouchLastLogin(id uint, at time.Time) error {
	f.lastLoginedID = id
	return nil
}

func newOAuthCallbackApp(repo *fakeRepRepo, u goth.User, authErr error) *fiber.App {
	oc := NewOAuthController(repo)
	oc.completeAuth = func(c *fiber.Ctx) (goth.User, error) { return u, authErr }

	app := fiber.New()
	app.Get("/auth/slack/callback", oc.HandleCallback)
	return app
}

func oauthCallbackRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/auth/slack/callback?code=x&state=y", nil)
}

func TestOAuthCallbackUnknownSlackAccount(t *testing.T) {
	repo := newFakeRepRepo()
	app := newOAuthCallbackApp(repo, goth.User{UserID: "U_UNKNOWN"}, nil)

	resp, err := app.Test(oauthCallbackRequest(), -1)
	require.NoError(t, err)

	// an unlinked Slack account is a flash redirect back to login, not a
	// server error
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Contains(t, flashMessage(t, resp), "not linked to a rep")
}

func TestOAuthCallbackDisabledRep(t *testing.T) {
	repo := newFakeRepRepo()
	repo.reps["U42"] = &models.Rep{
		ID:          7,
		Name:        "Ricky",
		Role:        models.ROLE_REP,
		Status:      models.STATUS_DISABLED,
		SlackUserID: "U42",
	}
	app := newOAuthCallbackApp(repo, goth.User{UserID: "U42"}, nil)

	resp, err := app.Test(oauthCallbackRequest(), -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Contains(t, flashMessage(t, resp), "This account is disabled.")
	assert.Zero(t, repo.lastLoginedID)
}

func TestOAuthCallbackProviderError(t *testing.T) {
	repo := newFakeRepRepo()
	app := newOAuthCallbackApp(repo, goth.User{}, errors.New("token exchange failed"))

	resp, err := app.Test(oauthCallbackRequest(), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
