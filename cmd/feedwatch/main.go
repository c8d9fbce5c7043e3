package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-ServiceConnect/internal/client/projector"
	"github.com/m04kA/SMC-ServiceConnect/internal/client/pushclient"
	"github.com/m04kA/SMC-ServiceConnect/pkg/auth"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
)

func main() {
	var (
		apiURL     = pflag.String("api", "http://localhost:8080", "ServiceConnect API base URL")
		token      = pflag.StringP("token", "t", os.Getenv("SMC_TOKEN"), "access token (default $SMC_TOKEN)")
		statePath  = pflag.String("state", "", "read-state file (default ~/.smc/feed-<user>.json)")
		logLevel   = pflag.String("log-level", "warn", "log level: debug, info, warn, error")
		minBackoff = pflag.Duration("min-backoff", 500*time.Millisecond, "initial reconnect delay")
		maxBackoff = pflag.Duration("max-backoff", 30*time.Second, "maximum reconnect delay")
		limit      = pflag.IntP("limit", "n", 20, "notices to print")
	)
	pflag.Parse()

	if err := run(*apiURL, *token, *statePath, *logLevel, *minBackoff, *maxBackoff, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "feedwatch: %v\n", err)
		os.Exit(1)
	}
}

func run(apiURL, token, statePath, logLevel string, minBackoff, maxBackoff time.Duration, limit int) error {
	if token == "" {
		return errors.New("token is required (--token or SMC_TOKEN)")
	}

	identity, err := auth.IdentityFromToken(token)
	if err != nil {
		return err
	}

	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		statePath = fmt.Sprintf("%s/.smc/feed-%s.json", home, identity.UserID())
	}

	log := logger.NewWriter(os.Stderr, logLevel)
	changed := make(chan struct{}, 1)

	session, err := pushclient.NewSession(pushclient.Config{
		BaseURL:    apiURL,
		Token:      token,
		Identity:   identity,
		Store:      projector.NewFileStore(statePath),
		MinBackoff: minBackoff,
		MaxBackoff: maxBackoff,
		Logger:     log,
		OnChange: func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	fmt.Printf("watching feed as %s %s\n", identity.Role(), identity.UserID())

	// тосты истекают без событий, поэтому ленту перерисовываем и по таймеру
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case err := <-done:
			return err
		case <-changed:
		case <-ticker.C:
		}

		frame := render(session, limit)
		if frame != last {
			fmt.Print(frame)
			last = frame
		}
	}
}

func render(session *pushclient.Session, limit int) string {
	var out strings.Builder
	stale := ""
	if session.Stale() {
		stale = " (syncing)"
	}

	fmt.Fprintf(&out, "\n=== unread: %d%s ===\n", session.UnreadCount(), stale)

	badges := session.Badges()
	names := make([]string, 0, len(badges))
	for name := range badges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&out, "  [%s: %d]", name, badges[name])
	}
	if len(names) > 0 {
		fmt.Fprintln(&out)
	}

	feed := session.Feed()
	if len(feed) > limit {
		feed = feed[:limit]
	}
	for _, n := range feed {
		printNotice(&out, n)
	}
	return out.String()
}

func printNotice(w io.Writer, n projector.Notice) {
	mark := "*"
	if n.Read {
		mark = " "
	}
	fmt.Fprintf(w, "%s %s  %-24s %s", mark, n.Timestamp.Local().Format("01-02 15:04"), n.Title, n.Message)
	if n.TargetPath != "" {
		fmt.Fprintf(w, "  -> %s", n.TargetPath)
	}
	fmt.Fprintln(w)
}
