package ensembledb

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats summarizes the catalogue for a status line or log entry.
type Stats struct {
	Ensembles  int64
	Services   int64
	Components int64
	Subchans   int64
}

// Stats counts every table.
func (r *Repository) Stats() (Stats, error) {
	var s Stats
	if err := r.db.Model(&Ensemble{}).Count(&s.Ensembles).Error; err != nil {
		return s, err
	}
	if err := r.db.Model(&Service{}).Count(&s.Services).Error; err != nil {
		return s, err
	}
	if err := r.db.Model(&ServiceComponent{}).Count(&s.Components).Error; err != nil {
		return s, err
	}
	if err := r.db.Model(&SubchannelDescriptor{}).Count(&s.Subchans).Error; err != nil {
		return s, err
	}
	return s, nil
}

// String renders the stats the way a status line would, using
// humanize.Comma so large ensemble scans (announcements, many OE
// services) stay readable.
func (s Stats) String() string {
	return fmt.Sprintf("%s ensembles, %s services, %s components, %s subchannels",
		humanize.Comma(s.Ensembles), humanize.Comma(s.Services),
		humanize.Comma(s.Components), humanize.Comma(s.Subchans))
}
