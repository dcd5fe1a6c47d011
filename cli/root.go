// Package cli wires configuration, storage, the completion client and the
// chat store together behind the willchat commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"willchat/chat"
	"willchat/config"
	"willchat/provider"
	"willchat/storage"
	"willchat/ui"
)

var errCancelled = errors.New("cancelled")

type rootOptions struct {
	dataDir   string
	backend   string
	debug     bool
	ephemeral bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "willchat",
		Short:         "Chat with an LLM from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, version)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides settings.toml and "+config.EnvDataDir+")")
	flags.StringVar(&opts.backend, "storage", "", "storage backend: file, bolt, sqlite or memory")
	flags.BoolVar(&opts.debug, "debug", false, "write a debug log to <data-dir>/debug.log")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep conversations in memory only")

	root.AddCommand(
		newServeCommand(opts),
		newAskCommand(opts),
		newListCommand(opts),
		newExportCommand(opts),
		newProCommand(opts),
		newDataDirCommand(),
	)
	return root
}

// env is everything a command needs once configuration has been loaded.
type env struct {
	cfg         *config.Config
	kv          storage.KeyValue
	persistence *storage.Persistence
	provider    provider.Provider
	store       *chat.Store
	pro         *chat.ProMode
}

func (e *env) Close() {
	e.store.Wait()
	if err := e.kv.Close(); err != nil {
		config.Logger.Warn().Err(err).Msg("failed to close storage")
	}
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	config.Debug = opts.debug || config.CheckDebug()

	cfg, err := config.LoadWithDataDir(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}

	if err := config.InitDebugLog(cfg.DataDir()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openKV opens the configured backend, wrapped in encryption when the
// config asks for it.
func openKV(cfg *config.Config) (storage.KeyValue, error) {
	kv, err := storage.Open(cfg.Storage.Backend, cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if config.EncryptionMethod(cfg.Storage.Encryption) != config.EncryptionSSHKey {
		return kv, nil
	}

	cipher, err := newCipher(cfg)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return storage.NewEncryptedKV(kv, cipher), nil
}

func newCipher(cfg *config.Config) (*config.EncryptionManager, error) {
	keyPath, err := config.ResolveSSHKeyPath(cfg.Storage.SSHKeyPath)
	if err != nil {
		return nil, err
	}

	mgr := config.NewEncryptionManager(config.EncryptionSSHKey, keyPath)

	encrypted, err := config.IsSSHKeyEncrypted(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check SSH key: %w", err)
	}
	if encrypted {
		passphrase, ok, err := ui.PromptPassphrase(keyPath)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errCancelled
		}
		mgr.SetPassphrase(passphrase)
	}

	if err := mgr.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	return mgr, nil
}

func setup(opts *rootOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return newEnv(cfg)
}

func newEnv(cfg *config.Config) (*env, error) {
	kv, err := openKV(cfg)
	if err != nil {
		return nil, err
	}

	p, err := provider.InitializeProvider(cfg)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	persistence := storage.NewPersistence(kv)
	storeOpts := []chat.Option{
		chat.WithSystemPrompt(cfg.Chat.SystemPrompt),
		chat.WithContextWindow(cfg.Chat.ContextWindow),
		chat.WithTitleTimeout(cfg.TitleTimeout()),
	}
	if cfg.Chat.StrictSelect {
		storeOpts = append(storeOpts, chat.WithStrictSelect())
	}
	store := chat.NewStore(p, persistence, storeOpts...)

	return &env{
		cfg:         cfg,
		kv:          kv,
		persistence: persistence,
		provider:    p,
		store:       store,
		pro:         chat.NewProMode(cfg.Pro, persistence, p),
	}, nil
}
