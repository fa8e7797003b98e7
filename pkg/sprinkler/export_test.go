package sprinkler

import "github.com/sprinkler-ctl/sprinkler-go/pkg/zone"

// Table exposes the zone table so tests can inspect and corrupt it.
func (s *Scheduler) Table() *zone.Table {
	return s.zones
}
