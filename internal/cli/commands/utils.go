package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/api"
	"github.com/kutbudev/todolists/internal/config"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/todo"
)

// Helper functions shared across commands

func truncateString(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// session is everything one command invocation works with.
type session struct {
	cfg    *config.Config
	client *api.Client
	state  *todo.State
	out    io.Writer
}

// newClient loads the config and builds the API client, honoring --api-url.
func newClient(c *cli.Context) (*config.Config, *api.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := api.NewClientFromConfig(cfg)
	if u := c.String("api-url"); u != "" {
		client.BaseURL = strings.TrimRight(u, "/")
	}
	return cfg, client, nil
}

// openSession connects and fetches every list.
func openSession(c *cli.Context) (*session, error) {
	cfg, client, err := newClient(c)
	if err != nil {
		return nil, err
	}

	opts := todo.DefaultOptions()
	opts.Tags = cfg.TagOptions()
	opts.DeleteMode = cfg.Deletion()
	if c.Bool("verbose") {
		opts.Logger = log.New(os.Stderr, "todolists: ", log.LstdFlags)
	}
	st := todo.NewSync(client, cfg.Timeout(), opts)

	ctx, cancel := context.WithTimeout(c.Context, cfg.Timeout())
	defer cancel()
	if err := todo.Reload(ctx, st, client); err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	return &session{cfg: cfg, client: client, state: st, out: c.App.Writer}, nil
}

// done returns the failure the last op reported, if any.
func (s *session) done() error {
	return s.state.Err()
}

func parseID(c *cli.Context, n int, what string) (int, error) {
	if c.NArg() <= n {
		return 0, fmt.Errorf("%s ID is required", what)
	}
	id, err := strconv.Atoi(c.Args().Get(n))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, c.Args().Get(n))
	}
	return id, nil
}

func (s *session) list(id int) (*models.TodoList, error) {
	l := s.state.FindList(id)
	if l == nil {
		return nil, fmt.Errorf("list %d not found", id)
	}
	return l, nil
}

func (s *session) item(id int) (*models.TodoItem, error) {
	it := s.state.FindItem(id)
	if it == nil {
		return nil, fmt.Errorf("item %d not found", id)
	}
	return it, nil
}
