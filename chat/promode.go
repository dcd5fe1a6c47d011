package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"willchat/config"
	"willchat/model"
	"willchat/storage"
)

// ProMode is the persisted pro preference. While enabled, a completer that
// supports model switching is pointed at the configured pro model.
type ProMode struct {
	mu          sync.Mutex
	enabled     bool
	creds       config.ProConfig
	persistence *storage.Persistence
	switcher    model.ModelSwitcher
	baseModel   string
	log         zerolog.Logger
}

func NewProMode(creds config.ProConfig, persistence *storage.Persistence, completer model.Completer) *ProMode {
	if persistence == nil {
		persistence = storage.NewPersistence(storage.NewMemoryKV())
	}

	p := &ProMode{
		creds:       creds,
		persistence: persistence,
		log:         config.Component("pro"),
	}
	if sw, ok := completer.(model.ModelSwitcher); ok {
		p.switcher = sw
		p.baseModel = sw.GetModel()
	}

	enabled, err := persistence.LoadProMode()
	if err != nil {
		p.log.Error().Err(err).Msg("failed to load pro mode, assuming off")
	}
	p.enabled = enabled
	p.applyModel()
	return p
}

func (p *ProMode) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Activate turns pro mode on after checking the credentials. It returns
// config.ErrInvalidCredentials or config.ErrProNotConfigured on failure and
// leaves the mode unchanged.
func (p *ProMode) Activate(username, password string) error {
	if err := p.creds.Verify(username, password); err != nil {
		p.log.Warn().Str("username", username).Msg("pro mode activation rejected")
		return err
	}
	p.set(true)
	return nil
}

func (p *ProMode) Deactivate() {
	p.set(false)
}

// Model returns the model the completer is currently pointed at, or "" when
// it cannot switch models.
func (p *ProMode) Model() string {
	if p.switcher == nil {
		return ""
	}
	return p.switcher.GetModel()
}

func (p *ProMode) set(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	if err := p.persistence.SaveProMode(enabled); err != nil {
		p.log.Error().Err(err).Msg("failed to persist pro mode")
	}
	p.applyModel()
	p.mu.Unlock()

	p.log.Info().Bool("enabled", enabled).Msg("pro mode changed")
}

func (p *ProMode) applyModel() {
	if p.switcher == nil || p.creds.Model == "" {
		return
	}
	if p.enabled {
		p.switcher.SetModel(p.creds.Model)
		return
	}
	p.switcher.SetModel(p.baseModel)
}
