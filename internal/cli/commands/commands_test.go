package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/kutbudev/todolists/api"
	"github.com/kutbudev/todolists/internal/config"
	"github.com/kutbudev/todolists/internal/store"
)

type cliHarness struct {
	t   *testing.T
	url string
	mem *store.Memory
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mem := store.NewMemory()
	api.Register(r, mem)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	t.Setenv("TODOLISTS_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("TODOLISTS_API_URL", "")
	keyring.MockInit()
	return &cliHarness{t: t, url: srv.URL + "/api", mem: mem}
}

func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	app := NewApp("test")
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"todolists", "--api-url", h.url}, args...))
	return out.String(), err
}

func (h *cliHarness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestListAndItemFlow(t *testing.T) {
	h := newCLIHarness(t)

	assert.Contains(t, h.mustRun("list", "create", "Home"), "(ID: 1)")
	h.mustRun("list", "create", "Work")

	out := h.mustRun("item", "add", "--priority", "high", "--tags", "Bills, urgent", "1", "Pay", "rent")
	assert.Contains(t, out, "'Pay rent' added (ID: 3)")
	h.mustRun("item", "add", "--tags", "family", "1", "Call", "mom")

	out = h.mustRun("list", "show", "1")
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Bills, urgent")

	h.mustRun("item", "done", "3")
	out = h.mustRun("list", "ls")
	assert.Regexp(t, `1\s+Home\s+2\s+1`, out)

	h.mustRun("item", "details", "--list", "2", "--note", "Sunday", "4")
	out = h.mustRun("item", "show", "4")
	assert.Contains(t, out, "Work (2)")
	assert.Contains(t, out, "Sunday")

	out = h.mustRun("tags", "--top")
	assert.Contains(t, out, "bills")
	assert.Contains(t, out, "family")

	out = h.mustRun("search", "--tag", "URGENT")
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Call mom")

	assert.Contains(t, h.mustRun("item", "title", "4", " "), "deleted")
	_, err := h.run("item", "show", "4")
	assert.Error(t, err)
}

func TestSoftDeleteHidesItem(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("list", "create", "Home")
	h.mustRun("item", "add", "--tags", "archive", "1", "Old", "thing")

	h.mustRun("item", "rm", "--soft", "2")
	assert.Contains(t, h.mustRun("list", "show", "1"), "No items found.")
	_, err := h.run("item", "show", "2")
	assert.Error(t, err)
	// a later session no longer counts the deleted item's tags
	assert.NotContains(t, h.mustRun("tags"), "archive")

	snap, err := h.mem.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Lists[0].Items, 1)
	assert.True(t, snap.Lists[0].Items[0].IsDeleted)
}

func TestValidationErrorsSurface(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("list", "create", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title is required.")

	_, err = h.run("item", "add", "9", "x")
	assert.EqualError(t, err, "list 9 not found")
}

func TestListDeleteConfirmation(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("list", "create", "Home")

	answer := false
	orig := confirmDelete
	confirmDelete = func(string, int) (bool, error) { return answer, nil }
	t.Cleanup(func() { confirmDelete = orig })

	assert.Contains(t, h.mustRun("list", "delete", "1"), "Cancelled.")
	assert.Contains(t, h.mustRun("list", "ls"), "Home")

	answer = true
	h.mustRun("list", "delete", "1")
	assert.Contains(t, h.mustRun("list", "ls"), "No lists found.")
}

func TestConfigSet(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("config", "set", "delete_mode", "soft")
	out := h.mustRun("config", "show")
	assert.Contains(t, out, "delete_mode:          soft")

	_, err := h.run("config", "set", "delete_mode", "later")
	assert.Error(t, err)
}

func TestConfigShowKeyringKey(t *testing.T) {
	h := newCLIHarness(t)
	require.NoError(t, config.StoreAPIKey("tl-abcdef"))
	t.Cleanup(func() { _ = config.DeleteAPIKey() })

	out := h.mustRun("config", "show")
	assert.Contains(t, out, "tl-a******** (system keyring)")

	h.mustRun("config", "api-key", "--clear")
	out = h.mustRun("config", "show")
	assert.Contains(t, out, "api_key:              (not set)")
}
