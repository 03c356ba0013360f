package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strogmv/chatnotify/internal/adapter/events/nats"
	"github.com/strogmv/chatnotify/internal/app"
	"github.com/strogmv/chatnotify/internal/config"
	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/pkg/tracing"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "dispatch":
		err = runDispatch(os.Args[2:], os.Stdin, os.Stdout)
	case "publish":
		err = runPublish(os.Args[2:], os.Stdin)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatnotify %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: chatnotify <command> [flags]

Commands:
  serve      run the HTTP intake and the NATS subscriber
  dispatch   run the pipeline once for an event read from -event or stdin
  publish    publish an event read from -event or stdin to NATS

Configuration is read from the environment (see internal/config).`)
}

func loadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		return config.LoadFile(envFile)
	}
	return config.Load()
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	envFile := fs.String("config", "", "optional .env/.yaml config file")
	seed := fs.String("seed", "", "JSON fixtures for STORE=memory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	c, err := app.NewContainer(ctx, cfg, app.Overrides{})
	if err != nil {
		return err
	}
	defer c.Close()
	if *seed != "" {
		if err := c.SeedFile(ctx, *seed); err != nil {
			return err
		}
	}

	if cfg.NATSURL != "" {
		nc, err := nats.NewClient(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()
		if _, err := nc.SubscribeMessageCreated(ctx, cfg.NATSSubject, cfg.NATSQueue, c.SvcDispatcher); err != nil {
			return fmt.Errorf("subscribe %s: %w", cfg.NATSSubject, err)
		}
		log.Info("nats subscriber started", slog.String("subject", cfg.NATSSubject), slog.String("queue", cfg.NATSQueue))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.HTTPHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func readEvent(path string, stdin io.Reader) (domain.MessageCreated, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.MessageCreated{}, err
		}
		defer f.Close()
		r = f
	}
	var evt domain.MessageCreated
	if err := json.NewDecoder(r).Decode(&evt); err != nil {
		return domain.MessageCreated{}, fmt.Errorf("decode event: %w", err)
	}
	return evt, nil
}

func runDispatch(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("dispatch", flag.ContinueOnError)
	envFile := fs.String("config", "", "optional .env/.yaml config file")
	seed := fs.String("seed", "", "JSON fixtures for STORE=memory")
	eventPath := fs.String("event", "-", "event JSON file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)
	ctx := context.Background()

	evt, err := readEvent(*eventPath, stdin)
	if err != nil {
		return err
	}

	c, err := app.NewContainer(ctx, cfg, app.Overrides{})
	if err != nil {
		return err
	}
	defer c.Close()
	if *seed != "" {
		if err := c.SeedFile(ctx, *seed); err != nil {
			return err
		}
	}

	out := c.SvcDispatcher.Dispatch(ctx, evt)
	return json.NewEncoder(stdout).Encode(map[string]string{
		"conversationId": evt.ConversationID,
		"messageId":      evt.MessageID,
		"outcome":        string(out),
	})
}

func runPublish(args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	envFile := fs.String("config", "", "optional .env/.yaml config file")
	eventPath := fs.String("event", "-", "event JSON file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		return err
	}
	if cfg.NATSURL == "" {
		return errors.New("NATS_URL is not set")
	}
	evt, err := readEvent(*eventPath, stdin)
	if err != nil {
		return err
	}

	nc, err := nats.NewClient(cfg.NATSURL)
	if err != nil {
		return err
	}
	defer nc.Close()
	if err := nc.PublishMessageCreated(context.Background(), cfg.NATSSubject, evt); err != nil {
		return err
	}
	return nc.Drain()
}
