package cli

import (
	"errors"
	"fmt"

	"willchat/config"
	"willchat/storage"
	"willchat/ui"
)

func runTUI(opts *rootOptions, version string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return startupError("Configuration Error", err)
	}
	log := config.Component("cli")

	// One instance per data directory.
	lock := storage.NewInstanceLock(cfg.DataDir())
	locked, pid, err := lock.Check()
	if err != nil {
		return fmt.Errorf("failed to check instance lock: %w", err)
	}
	if locked {
		force, err := ui.PromptInstanceLocked(pid)
		if err != nil {
			return err
		}
		if !force {
			return nil
		}
		log.Warn().Int("pid", pid).Msg("removing lock held by another instance")
	}
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to lock data directory: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release instance lock")
		}
	}()

	e, err := newEnv(cfg)
	if errors.Is(err, errCancelled) {
		return nil
	}
	if err != nil {
		return startupError("Unable to open conversations", err)
	}
	defer e.Close()

	kb, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		log.Warn().Err(err).Msg("using default keybindings")
		kb = config.DefaultKeybindings()
	}

	return ui.Run(e.store, e.pro, kb, version)
}

// startupError shows err in a modal, then returns it so the process still
// exits non-zero.
func startupError(title string, err error) error {
	if modalErr := ui.ShowError(title, err.Error()); modalErr != nil {
		config.Logger.Warn().Err(modalErr).Msg("failed to show error modal")
	}
	return err
}
