// Command giztriage-devserver serves an in-memory triage backend with
// sample mail, for running the dashboard without the real service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ajramos/giztriage/internal/devserver"
	"github.com/ajramos/giztriage/internal/version"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "Listen address")
	origins := flag.String("origins", "*", "Comma separated CORS origins")
	respondStatus := flag.String("respond-status", "sent", "Status reported by /respond")
	verbose := flag.Bool("verbose", false, "Log at debug level")
	versionFlag := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mailbox := devserver.NewMailbox(devserver.SampleEmails(time.Now()))
	mailbox.SetRespondStatus(*respondStatus)

	srv := devserver.New(mailbox, devserver.Options{
		Addr:           *addr,
		AllowedOrigins: splitList(*origins),
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Error("Server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
