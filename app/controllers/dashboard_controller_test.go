package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/usercontext"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// fakeEntryRepo is an in-memory repository.EntryRepository for handler tests.
type fakeEntryRepo struct {
	entries map[uint]*models.SalesEntry
	nextID  uint
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[uint]*models.SalesEntry{}, nextID: 1}
}

// seed inserts an entry directly, bypassing Create, so tests can control
// CreatedAt and the preloaded Rep.
func (f *fakeEntryRepo) seed(e models.SalesEntry) *models.SalesEntry {
	e.ID = f.nextID
	f.nextID++
	f.entries[e.ID] = &e
	return &e
}

func (f *fakeEntryRepo) Create(entry *models.SalesEntry) error {
	entry.ID = f.nextID
	f.nextID++
	cp := *entry
	f.entries[cp.ID] = &cp
	return nil
}

func (f *fakeEntryRepo) GetByID(id uint) (*models.SalesEntry, error) {
	if e, ok := f.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEntryRepo) Update(entry *models.SalesEntry) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeEntryRepo) Delete(id uint) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryRepo) ListByWeek(weekStart time.Time) ([]models.SalesEntry, error) {
	var out []models.SalesEntry
	for _, e := range f.entries {
		if e.WeekStart.Equal(weekStart) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) CountByWeek(weekStart time.Time) (int64, error) {
	list, _ := f.ListByWeek(weekStart)
	return int64(len(list)), nil
}

func (f *fakeEntryRepo) RecentByWeek(weekStart time.Time, limit int) ([]models.SalesEntry, error) {
	return f.ListByWeek(weekStart)
}

func (f *fakeEntryRepo) WeekTotal(weekStart time.Time) (int, error) {
	total := 0
	for _, e := range f.entries {
		if e.WeekStart.Equal(weekStart) {
			total += e.Qty
		}
	}
	return total, nil
}

func (f *fakeEntryRepo) RepTotals(weekStart time.Time) ([]repository.RepTotal, error) {
	return nil, nil
}

func (f *fakeEntryRepo) DistinctWeeks() ([]time.Time, error) {
	return nil, nil
}

func (f *fakeEntryRepo) NewestByWeek(weekStart time.Time) (*models.SalesEntry, error) {
	var newest *models.SalesEntry
	for _, e := range f.entries {
		if !e.WeekStart.Equal(weekStart) {
			continue
		}
		if newest == nil || e.CreatedAt.After(newest.CreatedAt) {
			newest = e
		}
	}
	if newest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return newest, nil
}

func (f *fakeEntryRepo) DeleteByWeek(weekStart time.Time) (int64, error) {
	var n int64
	for id, e := range f.entries {
		if e.WeekStart.Equal(weekStart) {
			delete(f.entries, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeEntryRepo) CountSince(since time.Time) (int64, error) {
	return 0, nil
}

// installFakeEntryRepo swaps the entry repository behind the global factory
// for this test. The other repositories stay untouched because the dashboard
// actions never reach them.
func installFakeEntryRepo(t *testing.T) *fakeEntryRepo {
	t.Helper()

	repository.InitializeFactory(nil)
	fake := newFakeEntryRepo()
	repos := repository.GetGlobalRepositories()
	previous := repos.Entry
	repos.Entry = fake
	t.Cleanup(func() { repos.Entry = previous })
	return fake
}

func newDashboardActionApp(userCtx usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", userCtx)
		return c.Next()
	})
	app.Post("/", HandleDashboardAction)
	return app
}

func dashboardActionRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// flashMessage collects the unescaped cookie values a redirect set, so tests
// can assert on the flash text without caring about cookie layout.
func flashMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var b strings.Builder
	for _, ck := range resp.Cookies() {
		v, err := url.QueryUnescape(ck.Value)
		if err != nil {
			v = ck.Value
		}
		b.WriteString(v)
	}
	return b.String()
}

func TestDashboardActionAddRecordsSale(t *testing.T) {
	fake := installFakeEntryRepo(t)
	app := newDashboardActionApp(usercontext.UserContext{RepID: 5, RepName: "Sohaib", IsLoggedIn: true})

	form := url.Values{
		"action":   {"add"},
		"week":     {"2025-06-02"},
		"sales":    {"4"},
		"store_id": {"2"},
	}
	resp, err := app.Test(dashboardActionRequest(form), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?week=2025-06-02", resp.Header.Get("Location"))

	require.Len(t, fake.entries, 1)
	for _, e := range fake.entries {
		assert.Equal(t, uint(5), e.RepID)
		assert.Equal(t, 4, e.Qty)
		assert.Equal(t, models.SOURCE_MANUAL, e.Source)
		require.NotNil(t, e.StoreID)
		assert.Equal(t, uint(2), *e.StoreID)
		assert.True(t, e.WeekStart.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	}
	assert.Contains(t, flashMessage(t, resp), "Added 4 sale(s) for Sohaib.")
}

func TestDashboardActionAddRejectsInvalidQty(t *testing.T) {
	fake := installFakeEntryRepo(t)
	app := newDashboardActionApp(usercontext.UserContext{RepID: 5, RepName: "Sohaib", IsLoggedIn: true})

	for _, sales := range []string{"", "0", "-2", "three"} {
		form := url.Values{"action": {"add"}, "week": {"2025-06-02"}, "sales": {sales}}
		resp, err := app.Test(dashboardActionRequest(form), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Contains(t, flashMessage(t, resp), "valid whole number")
	}
	assert.Empty(t, fake.entries)
}

func TestDashboardActionUndoRemovesNewestEntryOfWeek(t *testing.T) {
	fake := installFakeEntryRepo(t)
	ws := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	older := fake.seed(models.SalesEntry{
		WeekStart: ws,
		RepID:     1,
		Rep:       models.Rep{ID: 1, Name: "Tristan"},
		Qty:       2,
		CreatedAt: ws.Add(1 * time.Hour),
	})
	newest := fake.seed(models.SalesEntry{
		WeekStart: ws,
		RepID:     2,
		Rep:       models.Rep{ID: 2, Name: "Ricky"},
		Qty:       3,
		CreatedAt: ws.Add(2 * time.Hour),
	})

	// Tristan is the admin pressing undo; the entry removed is still
	// Ricky's, because undo targets the team's last recorded sale.
	app := newDashboardActionApp(usercontext.UserContext{RepID: 1, RepName: "Tristan", IsLoggedIn: true, IsAdmin: true})

	form := url.Values{"action": {"undo"}, "week": {week.Key(ws)}}
	resp, err := app.Test(dashboardActionRequest(form), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	_, olderKept := fake.entries[older.ID]
	assert.True(t, olderKept)
	_, newestKept := fake.entries[newest.ID]
	assert.False(t, newestKept)
	assert.Len(t, fake.entries, 1)

	assert.Contains(t, flashMessage(t, resp), "Undid last entry: Ricky -3.")
}

func TestDashboardActionUndoOnEmptyWeek(t *testing.T) {
	installFakeEntryRepo(t)
	app := newDashboardActionApp(usercontext.UserContext{RepID: 1, RepName: "Tristan", IsLoggedIn: true, IsAdmin: true})

	form := url.Values{"action": {"undo"}, "week": {"2025-06-02"}}
	resp, err := app.Test(dashboardActionRequest(form), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, flashMessage(t, resp), "Nothing to undo yet.")
}

func TestDashboardActionUndoAndResetRequireAdmin(t *testing.T) {
	fake := installFakeEntryRepo(t)
	ws := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	fake.seed(models.SalesEntry{WeekStart: ws, RepID: 2, Rep: models.Rep{ID: 2, Name: "Ricky"}, Qty: 1, CreatedAt: ws})

	app := newDashboardActionApp(usercontext.UserContext{RepID: 2, RepName: "Ricky", IsLoggedIn: true})

	for _, action := range []string{"undo", "reset"} {
		form := url.Values{"action": {action}, "week": {week.Key(ws)}}
		resp, err := app.Test(dashboardActionRequest(form), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Contains(t, flashMessage(t, resp), "Permission denied.")
	}
	assert.Len(t, fake.entries, 1)
}

func TestDashboardActionResetClearsOnlySelectedWeek(t *testing.T) {
	fake := installFakeEntryRepo(t)
	ws := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	other := ws.AddDate(0, 0, -7)

	fake.seed(models.SalesEntry{WeekStart: ws, RepID: 1, Rep: models.Rep{ID: 1, Name: "Tristan"}, Qty: 2, CreatedAt: ws})
	fake.seed(models.SalesEntry{WeekStart: ws, RepID: 2, Rep: models.Rep{ID: 2, Name: "Ricky"}, Qty: 3, CreatedAt: ws})
	kept := fake.seed(models.SalesEntry{WeekStart: other, RepID: 1, Rep: models.Rep{ID: 1, Name: "Tristan"}, Qty: 5, CreatedAt: other})

	app := newDashboardActionApp(usercontext.UserContext{RepID: 1, RepName: "Tristan", IsLoggedIn: true, IsAdmin: true})

	form := url.Values{"action": {"reset"}, "week": {week.Key(ws)}}
	resp, err := app.Test(dashboardActionRequest(form), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, flashMessage(t, resp), "Reset complete. Weekly entries cleared.")

	require.Len(t, fake.entries, 1)
	_, ok := fake.entries[kept.ID]
	assert.True(t, ok)
}
