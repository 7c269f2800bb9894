// Package state keeps the current brand and campaign snapshots in sync
// with the document store. Each collection is replaced wholesale on
// every change notification; nothing here mutates a snapshot in place.
package state

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"omniplan/internal/backup"
	appLog "omniplan/internal/log"
	"omniplan/internal/model"
	"omniplan/internal/query"
	"omniplan/internal/store"
)

// Gateway is the document-store surface the manager needs. It is
// satisfied by *store.Store.
type Gateway interface {
	Put(ctx context.Context, collection, id string, value any) error
	Delete(ctx context.Context, collection, id string) error
	Load(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	Subscribe(ctx context.Context, collection string, onChange func()) (func(), error)
}

// Manager owns the in-memory snapshots and all validated writes.
type Manager struct {
	gw Gateway

	mu        sync.RWMutex
	brands    []model.Brand
	campaigns []model.Campaign

	unsubs []func()
}

func NewManager(gw Gateway) *Manager {
	return &Manager{gw: gw}
}

// Start performs the initial loads and subscribes to both collections.
// Subscriptions stay active until ctx is canceled or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.reloadBrands(ctx); err != nil {
		return err
	}
	if err := m.reloadCampaigns(ctx); err != nil {
		return err
	}

	unsubBrands, err := m.gw.Subscribe(ctx, store.CollectionBrands, func() {
		if err := m.reloadBrands(ctx); err != nil {
			appLog.Error("state: brand reload failed", err)
		}
	})
	if err != nil {
		return err
	}
	m.unsubs = append(m.unsubs, unsubBrands)

	unsubCampaigns, err := m.gw.Subscribe(ctx, store.CollectionCampaigns, func() {
		if err := m.reloadCampaigns(ctx); err != nil {
			appLog.Error("state: campaign reload failed", err)
		}
	})
	if err != nil {
		return err
	}
	m.unsubs = append(m.unsubs, unsubCampaigns)

	return nil
}

// Stop cancels the change subscriptions.
func (m *Manager) Stop() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

func (m *Manager) reloadBrands(ctx context.Context) error {
	raw, err := m.gw.Load(ctx, store.CollectionBrands)
	if err != nil {
		return err
	}

	brands := make([]model.Brand, 0, len(raw))
	for id, doc := range raw {
		var b model.Brand
		if err := json.Unmarshal(doc, &b); err != nil {
			appLog.Error("state: skipping undecodable brand document", err, "id", id)
			continue
		}
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })

	m.mu.Lock()
	m.brands = brands
	m.mu.Unlock()

	appLog.Debug("state: brands reloaded", "count", len(brands))
	return nil
}

func (m *Manager) reloadCampaigns(ctx context.Context) error {
	raw, err := m.gw.Load(ctx, store.CollectionCampaigns)
	if err != nil {
		return err
	}

	campaigns := make([]model.Campaign, 0, len(raw))
	for id, doc := range raw {
		var c model.Campaign
		if err := json.Unmarshal(doc, &c); err != nil {
			appLog.Error("state: skipping undecodable campaign document", err, "id", id)
			continue
		}
		campaigns = append(campaigns, c)
	}

	m.mu.Lock()
	m.campaigns = query.SortByDateTime(campaigns)
	m.mu.Unlock()

	appLog.Debug("state: campaigns reloaded", "count", len(campaigns))
	return nil
}

// Brands returns the current brand snapshot. An empty store presents
// the built-in default set without persisting it; defaults are only
// written once the user saves one.
func (m *Manager) Brands() []model.Brand {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.brands) == 0 {
		return append([]model.Brand(nil), model.DefaultBrands...)
	}
	return append([]model.Brand(nil), m.brands...)
}

// Campaigns returns the current campaign snapshot, ordered by date and
// time.
func (m *Manager) Campaigns() []model.Campaign {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Campaign(nil), m.campaigns...)
}

// SaveBrand validates and persists one brand.
func (m *Manager) SaveBrand(ctx context.Context, b model.Brand) error {
	if err := model.ValidateBrand(b); err != nil {
		return err
	}
	if err := m.gw.Put(ctx, store.CollectionBrands, b.ID, b); err != nil {
		return err
	}
	return m.reloadBrands(ctx)
}

// DeleteBrand removes one brand by id. Campaigns referencing it are
// kept; views degrade them to an unknown-brand placeholder.
func (m *Manager) DeleteBrand(ctx context.Context, id string) error {
	if err := m.gw.Delete(ctx, store.CollectionBrands, id); err != nil {
		return err
	}
	return m.reloadBrands(ctx)
}

// SaveCampaigns validates every campaign first, then persists them.
// A validation failure rejects the whole batch before any store call,
// so a bad recurrence expansion never half-applies.
func (m *Manager) SaveCampaigns(ctx context.Context, campaigns []model.Campaign) error {
	for _, c := range campaigns {
		if err := model.ValidateCampaign(c); err != nil {
			return err
		}
	}
	for _, c := range campaigns {
		if err := m.gw.Put(ctx, store.CollectionCampaigns, c.ID, c); err != nil {
			return err
		}
	}
	return m.reloadCampaigns(ctx)
}

// DeleteCampaign removes one campaign by id.
func (m *Manager) DeleteCampaign(ctx context.Context, id string) error {
	if err := m.gw.Delete(ctx, store.CollectionCampaigns, id); err != nil {
		return err
	}
	return m.reloadCampaigns(ctx)
}

// ImportBackup upserts every record of a backup document by id. The
// import is additive and overwriting; records absent from the document
// are never deleted. Validation covers the whole document before the
// first write so a corrupt payload changes nothing.
func (m *Manager) ImportBackup(ctx context.Context, doc backup.Document) error {
	for _, b := range doc.Brands {
		if err := model.ValidateBrand(b); err != nil {
			return err
		}
	}
	for _, c := range doc.Campaigns {
		if err := model.ValidateCampaign(c); err != nil {
			return err
		}
	}

	for _, b := range doc.Brands {
		if err := m.gw.Put(ctx, store.CollectionBrands, b.ID, b); err != nil {
			return err
		}
	}
	for _, c := range doc.Campaigns {
		if err := m.gw.Put(ctx, store.CollectionCampaigns, c.ID, c); err != nil {
			return err
		}
	}

	if err := m.reloadBrands(ctx); err != nil {
		return err
	}
	return m.reloadCampaigns(ctx)
}

// Snapshot packages both collections for backup export.
func (m *Manager) Snapshot() backup.Document {
	return backup.Document{
		Campaigns: m.Campaigns(),
		Brands:    m.Brands(),
	}
}
