package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhufucdev/control-sync/internal/api"
	"github.com/zhufucdev/control-sync/internal/config"
	"github.com/zhufucdev/control-sync/internal/credentials"
	"github.com/zhufucdev/control-sync/internal/errors"
	"github.com/zhufucdev/control-sync/internal/logging"
	"github.com/zhufucdev/control-sync/internal/model"
	"github.com/zhufucdev/control-sync/internal/store"
	"github.com/zhufucdev/control-sync/internal/sync"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

func main() {
	// Handle set-key subcommand before config loading.
	if len(os.Args) > 1 && os.Args[1] == "set-key" {
		setKey()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setKey() {
	fmt.Fprint(os.Stderr, "Enter post auth key: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "no input")
		os.Exit(1)
	}

	path, err := credentials.DefaultPath()
	if err == nil {
		err = credentials.NewStore(path).SetAuthKey(scanner.Text())
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "stored")
}

func run() error {
	configFile, err := config.DefaultFile()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment)
	logger.Info("control-sync starting",
		slog.String("version", Version),
		slog.String("endpoint", cfg.EndpointBaseURL),
		slog.String("image_upload", cfg.ImageUpload),
	)

	authKey, err := resolveAuthKey(cfg)
	if err != nil {
		return err
	}

	cachePath := cfg.CacheFile

	var st *store.Store
	if cachePath != "" {
		st, err = store.OpenAt(cachePath)
	} else {
		st, err = store.Open()
	}

	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer st.Close()

	client, err := api.NewClient(cfg.EndpointBaseURL, authKey, nil)
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	var uploader sync.Uploader
	if cfg.UseDirectUpload() {
		uploader = sync.NewDirectUploader(sync.DirectConfig{
			BaseURL:    cfg.CloudBaseURL,
			CloudName:  cfg.CloudName,
			PresetName: cfg.CloudPreset,
		}, client, nil)
	} else {
		uploader = sync.NewProxyUploader(client)
	}

	engine := sync.New(client, st, uploader, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// retrigger collects every source that should cause an early pull:
	// change-feed pings and settings edits.
	retrigger := make(chan struct{}, 1)

	if cfg.NotifyURL != "" {
		listener := sync.NewListener(cfg.NotifyURL, authKey, logger)

		g.Go(func() error {
			return listener.Listen(gctx)
		})

		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-listener.Changes():
					signalPull(retrigger)
				}
			}
		})
	}

	g.Go(func() error {
		err := config.Watch(gctx, configFile, logger, func() {
			signalPull(retrigger)
		})
		if stderrors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		return pullLoop(gctx, engine, cfg.PullInterval, retrigger, logger)
	})

	err = g.Wait()
	if err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("control-sync stopped")

	return nil
}

// resolveAuthKey prefers the environment, falling back to the credential
// store. The absent and denied outcomes get distinct messages: absent
// should prompt for set-key, denied should not.
func resolveAuthKey(cfg *config.Config) (string, error) {
	if cfg.AuthKey != "" {
		return cfg.AuthKey, nil
	}

	path := cfg.CredentialFile
	if path == "" {
		var err error

		path, err = credentials.DefaultPath()
		if err != nil {
			return "", err
		}
	}

	key, err := credentials.NewStore(path).AuthKey()
	if err != nil {
		if stderrors.Is(err, errors.ErrCredentialAbsent) {
			return "", fmt.Errorf("no auth key configured; run 'control-sync set-key' or set CONTROL_POST_AUTH_KEY")
		}

		return "", fmt.Errorf("resolving auth key: %w", err)
	}

	return key, nil
}

// signalPull requests an early pull without blocking; a pending request
// already covers the change.
func signalPull(retrigger chan<- struct{}) {
	select {
	case retrigger <- struct{}{}:
	default:
	}
}

// pullLoop refreshes the cache on an interval and on retriggers, then
// pushes any drafts accumulated offline. Pull failures are logged with
// the surfaced state and retried on the next trial.
func pullLoop(ctx context.Context, engine *sync.Synchronizer, interval time.Duration, retrigger <-chan struct{}, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	trial := 0

	for {
		trial++
		logger.Debug("pull starting", slog.Int("trial", trial))

		if err := engine.Pull(ctx); err != nil {
			logger.Warn("pull failed",
				slog.Int("trial", trial),
				slog.String("error", displayError(err)),
			)
		} else {
			pushPending(ctx, engine, logger)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-retrigger:
		}
	}
}

// displayError prefers the backend's own words when the failure body is
// readable plain text, mirroring what a UI would surface inline.
func displayError(err error) string {
	var httpErr *api.HTTPError
	if stderrors.As(err, &httpErr) {
		if text, ok := httpErr.PlainText(); ok {
			return text
		}
	}

	return err.Error()
}

// pushPending pushes every draft left in the cache, one at a time. A
// failed push leaves the draft in place for the next cycle.
func pushPending(ctx context.Context, engine *sync.Synchronizer, logger *slog.Logger) {
	posts, err := engine.PendingPosts()
	if err != nil {
		logger.Warn("listing pending posts", slog.String("error", err.Error()))
		return
	}

	for _, p := range posts {
		drain(engine.PushPost(ctx, p.ID), "post", p.ID, logger)
	}

	items, err := engine.PendingGalleryItems()
	if err != nil {
		logger.Warn("listing pending gallery items", slog.String("error", err.Error()))
		return
	}

	for _, g := range items {
		drain(engine.PushGalleryItem(ctx, g.ID), "gallery item", g.ID, logger)
	}
}

func drain(events <-chan sync.PushEvent, kind string, id model.Identity, logger *slog.Logger) {
	for ev := range events {
		if ev.Err != nil {
			logger.Warn("push failed",
				slog.String("kind", kind),
				slog.String("id", id.String()),
				slog.String("error", displayError(ev.Err)),
			)

			return
		}

		logger.Debug("push progress",
			slog.String("kind", kind),
			slog.String("id", id.String()),
			slog.String("state", ev.State.String()),
			slog.Float64("progress", ev.Progress),
		)
	}

	logger.Info("pushed", slog.String("kind", kind), slog.String("id", id.String()))
}
