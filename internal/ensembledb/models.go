package ensembledb

import "time"

// TransportMode identifies how a service component's payload rides the
// MSC, per spec.md §3.
type TransportMode int

const (
	TransportStreamAudio TransportMode = iota
	TransportStreamData
	TransportPacketData
)

// Ensemble is the top-level FIG 0/0 entity: one ensemble per tuned
// frequency. Keyed by {CountryID, EnsembleReference}.
type Ensemble struct {
	CountryID         uint8  `gorm:"primaryKey"`
	EnsembleReference uint16 `gorm:"primaryKey"`
	ECC               uint8
	Label             string `gorm:"size:16"`
	ShortLabelMask    uint16
	Charset           uint8
	LocalTimeOffsetQH int8 // quarter-hours, signed, from FIG 0/9
	CIFUpper          uint8 // mod-20 counter
	CIFLower          uint8 // mod-250 counter
	UpdatedAt         time.Time
}

func (Ensemble) TableName() string { return "ensembles" }

// Service is keyed by {CountryID, ServiceReference}; ServiceReference
// holds either the 12-bit short form or 20-bit long form identifier,
// distinguished by IsLongForm.
type Service struct {
	CountryID        uint8  `gorm:"primaryKey"`
	ServiceReference uint32 `gorm:"primaryKey"`
	IsLongForm       bool
	ECC              uint8
	Label            string `gorm:"size:16"`
	ShortLabelMask   uint16
	Charset          uint8
	ProgrammeType    uint8
	Language         uint8
	CAFlag           bool
	UpdatedAt        time.Time
}

func (Service) TableName() string { return "services" }

// ServiceComponent belongs to a Service (by {ServiceCountryID,
// ServiceReference}) and either names a subchannel (stream mode) or an
// SCId (packet mode).
type ServiceComponent struct {
	ServiceCountryID uint8  `gorm:"primaryKey"`
	ServiceReference uint32 `gorm:"primaryKey"`
	SCIdS            uint8  `gorm:"primaryKey"` // service component id within the service
	TransportMode    TransportMode
	SubchannelID     uint8 // valid when TransportMode == TransportStreamAudio/Data
	SCId             uint16
	Primary          bool
	CAFlag           bool
	IsMOTSlideshow   bool
	Label            string `gorm:"size:16"`
	Charset          uint8
	UpdatedAt        time.Time
}

func (ServiceComponent) TableName() string { return "service_components" }

// ProtectionProfile captures either the short-form protection table
// index or the long-form {option, level, size} triple (spec.md §3).
type ProtectionProfile struct {
	ShortForm      bool
	TableIndex     uint8 // short form only
	Option         uint8 // long form only
	ProtectionLevel uint8
	Size            uint8
	EEP             bool
}

// SubchannelDescriptor is keyed by its 6-bit subchannel id.
type SubchannelDescriptor struct {
	SubchannelID  uint8 `gorm:"primaryKey"`
	StartAddress  uint16
	Length        uint16 // capacity units
	ProtShortForm bool
	ProtTableIdx  uint8
	ProtOption    uint8
	ProtLevel     uint8
	ProtSize      uint8
	EEP           bool
	UpdatedAt     time.Time
}

func (SubchannelDescriptor) TableName() string { return "subchannel_descriptors" }
