package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/internal/config"
	"github.com/satriahrh/jurubahasa/internal/panel"
)

func runPanel(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notifier := panel.NewNotifier(logger)
	a, err := newApp(ctx, cfg, notifier, logger)
	if err != nil {
		logger.Error("Failed to start", zap.Error(err))
		return err
	}

	// reported once, the panel stays usable
	probeErr := a.service.ProbeDevice()
	if probeErr != nil {
		logger.Warn("Audio device unavailable", zap.Error(probeErr))
	}

	model := panel.NewModel(ctx, a.service, a.service.Languages(), panel.Options{
		FrameInterval:   cfg.Panel.FrameInterval,
		InitialLanguage: cfg.Panel.Language,
		StartupError:    probeErr,
	}, logger)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(program)

	logger.Info("Control panel started", zap.Bool("demo", cfg.Demo))
	_, runErr := program.Run()

	cancel()
	a.shutdown(cfg.Panel.QuitGrace)
	logger.Info("Control panel exited")

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("control panel failed: %w", runErr)
	}
	return nil
}
