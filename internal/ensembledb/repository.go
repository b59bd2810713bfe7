package ensembledb

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides upsert/query operations over the ensemble schema.
// Upserts follow the "later FIG wins" tie-break of spec.md §4.2: Save
// always overwrites the full row, so the most recently accepted FIG for
// a given entity always reflects in the next Snapshot.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps a DB's underlying GORM handle.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db.gdb}
}

// UpsertEnsemble creates or overwrites the ensemble row.
func (r *Repository) UpsertEnsemble(e *Ensemble) error {
	e.UpdatedAt = time.Now()
	return r.db.Save(e).Error
}

// GetEnsemble looks up an ensemble by identifier.
func (r *Repository) GetEnsemble(countryID uint8, ensembleRef uint16) (*Ensemble, error) {
	var e Ensemble
	err := r.db.Where("country_id = ? AND ensemble_reference = ?", countryID, ensembleRef).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertService creates or overwrites the service row.
func (r *Repository) UpsertService(s *Service) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

// GetService looks up a service by identifier.
func (r *Repository) GetService(countryID uint8, serviceRef uint32) (*Service, error) {
	var s Service
	err := r.db.Where("country_id = ? AND service_reference = ?", countryID, serviceRef).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertServiceComponent creates or overwrites a service component row.
func (r *Repository) UpsertServiceComponent(c *ServiceComponent) error {
	c.UpdatedAt = time.Now()
	return r.db.Save(c).Error
}

// ServiceComponentsFor returns all components belonging to a service.
func (r *Repository) ServiceComponentsFor(countryID uint8, serviceRef uint32) ([]ServiceComponent, error) {
	var comps []ServiceComponent
	err := r.db.Where("service_country_id = ? AND service_reference = ?", countryID, serviceRef).
		Order("sc_id_s ASC").Find(&comps).Error
	return comps, err
}

// ComponentBySubchannel finds the service component driving a given
// subchannel, used when the MSC pipeline needs to know which service a
// decoded subchannel belongs to.
func (r *Repository) ComponentBySubchannel(subchannelID uint8) (*ServiceComponent, error) {
	var c ServiceComponent
	err := r.db.Where("subchannel_id = ? AND transport_mode IN ?", subchannelID,
		[]TransportMode{TransportStreamAudio, TransportStreamData}).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ComponentBySCIdS finds a service's component by its per-service
// component id, used by FIG 0/13's user-application lookup (which
// carries SCIdS, not a subchannel id).
func (r *Repository) ComponentBySCIdS(countryID uint8, serviceRef uint32, scids uint8) (*ServiceComponent, error) {
	var c ServiceComponent
	err := r.db.Where("service_country_id = ? AND service_reference = ? AND sc_id_s = ?",
		countryID, serviceRef, scids).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertSubchannel creates or overwrites a subchannel descriptor. Per
// spec.md §3, the descriptor is immutable for the life of a reception;
// callers are responsible for tearing down and rebuilding any pipeline
// bound to a subchannel whose descriptor actually changed.
func (r *Repository) UpsertSubchannel(sd *SubchannelDescriptor) (changed bool, err error) {
	var existing SubchannelDescriptor
	found := r.db.Where("subchannel_id = ?", sd.SubchannelID).First(&existing).Error == nil
	changed = !found || existing != withoutTimestamp(*sd, existing.UpdatedAt)
	sd.UpdatedAt = time.Now()
	return changed, r.db.Save(sd).Error
}

func withoutTimestamp(sd SubchannelDescriptor, ts time.Time) SubchannelDescriptor {
	sd.UpdatedAt = ts
	return sd
}

// GetSubchannel looks up a subchannel descriptor.
func (r *Repository) GetSubchannel(subchannelID uint8) (*SubchannelDescriptor, error) {
	var sd SubchannelDescriptor
	err := r.db.Where("subchannel_id = ?", subchannelID).First(&sd).Error
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

// Snapshot is a point-in-time copy of the whole catalogue, for UI/CLI
// consumers that want to render the current ensemble without holding a
// database handle.
type Snapshot struct {
	Ensembles  []Ensemble
	Services   []Service
	Components []ServiceComponent
	Subchans   []SubchannelDescriptor
}

// TakeSnapshot reads every table into a Snapshot.
func (r *Repository) TakeSnapshot() (*Snapshot, error) {
	var snap Snapshot
	if err := r.db.Find(&snap.Ensembles).Error; err != nil {
		return nil, fmt.Errorf("ensembledb: snapshot ensembles: %w", err)
	}
	if err := r.db.Find(&snap.Services).Error; err != nil {
		return nil, fmt.Errorf("ensembledb: snapshot services: %w", err)
	}
	if err := r.db.Find(&snap.Components).Error; err != nil {
		return nil, fmt.Errorf("ensembledb: snapshot components: %w", err)
	}
	if err := r.db.Find(&snap.Subchans).Error; err != nil {
		return nil, fmt.Errorf("ensembledb: snapshot subchannels: %w", err)
	}
	return &snap, nil
}
