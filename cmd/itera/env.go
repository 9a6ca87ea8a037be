package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/localstore"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/offline"
	"github.com/comitanigiacomo/itera-sync/internal/client"
	"github.com/comitanigiacomo/itera-sync/internal/config"
)

var errNotLoggedIn = errors.New("not logged in, run `itera login` first")

// session is what `itera login` leaves in the local store.
type session struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// env is the per-invocation wiring: config, local store, offline router and
// API client.
type env struct {
	cfg     *config.Client
	store   *localstore.Store
	router  *offline.Router
	client  *client.Client
	session session
}

func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, err
	}

	store, err := localstore.Open(ctx, filepath.Join(cfg.DataDir, "itera.db"))
	if err != nil {
		return nil, err
	}

	var sess session
	if _, err := store.GetSetting(ctx, localstore.KeySession, &sess); err != nil {
		store.Close()
		return nil, err
	}

	manifest := make([]string, 0, len(cfg.Cache.Manifest))
	for _, p := range cfg.Cache.Manifest {
		manifest = append(manifest, cfg.Server+p)
	}

	router := offline.NewRouter(http.DefaultTransport, store, offline.Config{
		Version:          cfg.Cache.Version,
		APIHost:          cfg.Host(),
		StaticPrefixes:   cfg.Cache.StaticPrefixes,
		StaticExtensions: cfg.Cache.StaticExtensions,
		Manifest:         manifest,
	})

	c := client.New(client.Options{
		BaseURL:    cfg.Server,
		Token:      sess.Token,
		HTTPClient: &http.Client{Transport: router, Timeout: cfg.Timeout},
		Outbox:     store,
	})

	return &env{cfg: cfg, store: store, router: router, client: c, session: sess}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) requireLogin() error {
	if e.session.Token == "" {
		return errNotLoggedIn
	}
	return nil
}

// run opens the environment, runs fn and records a failure in the local
// error log so `itera errors` can show it later.
func run(cmd *cobra.Command, configPath string, needLogin bool, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := openEnv(ctx, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if needLogin {
		if err := e.requireLogin(); err != nil {
			return err
		}
	}

	err = fn(ctx, e)
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	if rerr := e.store.ReportError(context.WithoutCancel(ctx), err.Error(), cmd.CommandPath()); rerr != nil {
		return fmt.Errorf("%w (error log unavailable: %v)", err, rerr)
	}
	return err
}
