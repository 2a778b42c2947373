package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/internal/config"
	"github.com/satriahrh/jurubahasa/internal/dispatch"
)

// errRunFailed is returned after a failure was already printed
var errRunFailed = errors.New("translation failed")

func newOnceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "once",
		Short:        "Translate a single utterance without the control panel",
		Example:      `  jurubahasa once --lang fr`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts)
		},
	}
}

func runOnce(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := dispatch.NewLoop(logger)
	a, err := newApp(ctx, cfg, loop, logger)
	if err != nil {
		return err
	}
	defer a.shutdown(cfg.Panel.QuitGrace)

	if _, err := a.service.Start(ctx, cfg.Panel.Language); err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return errors.New(derr.UserMessage())
		}
		return err
	}

	var run entities.Run
	out := cmd.OutOrStdout()
	err = loop.Run(ctx, func(update domain.DisplayUpdate) bool {
		if finished, ok := update.(domain.RunFinished); ok {
			run = finished.Run
			return false
		}
		printUpdate(out, update)
		return true
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if run.CleanupErr != nil {
		logger.Warn("Temporary audio not removed", zap.Error(run.CleanupErr))
	}
	if run.State != entities.RunStateDone {
		return errRunFailed
	}
	return nil
}

func printUpdate(w io.Writer, update domain.DisplayUpdate) {
	switch u := update.(type) {
	case domain.StatusChanged:
		fmt.Fprintln(w, u.Text)
	case domain.RecognizedTextReady:
		fmt.Fprintf(w, "Recognized Text: %s\n", u.Text)
	case domain.TranslatedTextReady:
		fmt.Fprintf(w, "Translated Text: %s\n", u.Text)
	case domain.ErrorRaised:
		fmt.Fprintf(w, "%s: %s\n", u.Title, u.Message)
	}
}
