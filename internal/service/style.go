package service

import (
	"time"

	"creative-builder/internal/model"
	"creative-builder/internal/storage"
	"creative-builder/internal/ws"
)

// StyleEntry is the effective config of one template.
type StyleEntry struct {
	Label      string            `json:"label"`
	Slug       string            `json:"slug"`
	Config     model.StyleConfig `json:"config"`
	Overridden bool              `json:"overridden"`
}

type StyleService struct {
	store storage.StyleStore
	hub   *ws.Hub
}

func NewStyleService(store storage.StyleStore, hub *ws.Hub) *StyleService {
	return &StyleService{store: store, hub: hub}
}

// Get returns the stored override or the defaults. It never creates an entry.
// key is a template label or slug.
func (s *StyleService) Get(key string) model.StyleConfig {
	if cfg, ok := s.store.GetStyle(canonicalLabel(key)); ok {
		return cfg
	}
	return model.DefaultStyleConfig()
}

// Set replaces the whole config for the template named by key.
func (s *StyleService) Set(key string, cfg model.StyleConfig) error {
	t, ok := FindTemplate(key)
	if !ok {
		return &model.ValidationError{Field: "template", Value: key, Reason: "unknown template label"}
	}
	label := t.Label
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.store.SetStyle(label, cfg); err != nil {
		return err
	}
	s.broadcast(label, cfg)
	return nil
}

// List returns the effective config of every template in catalog order.
func (s *StyleService) List() []StyleEntry {
	snap := s.store.Snapshot()
	out := make([]StyleEntry, 0, len(catalog))
	for _, t := range ListTemplates() {
		cfg, ok := snap.StyleConfigs[t.Label]
		if !ok {
			cfg = model.DefaultStyleConfig()
		}
		out = append(out, StyleEntry{Label: t.Label, Slug: t.Slug, Config: cfg, Overridden: ok})
	}
	return out
}

// ResetDefaults returns the canonical defaults; callers persist them with Set.
func (s *StyleService) ResetDefaults() model.StyleConfig {
	return model.DefaultStyleConfig()
}

// Clear drops the override for label so Get falls back to the defaults.
func (s *StyleService) Clear(key string) error {
	label := canonicalLabel(key)
	if err := s.store.DeleteStyle(label); err != nil {
		return err
	}
	s.broadcast(label, model.DefaultStyleConfig())
	return nil
}

func (s *StyleService) broadcast(label string, cfg model.StyleConfig) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(model.Event{
		Type:      "style.updated",
		Payload:   map[string]interface{}{"label": label, "config": cfg},
		CreatedAt: time.Now().UnixMilli(),
	})
}

// canonicalLabel maps a slug to its label; styles are stored by label.
func canonicalLabel(key string) string {
	if t, ok := FindTemplate(key); ok {
		return t.Label
	}
	return key
}
