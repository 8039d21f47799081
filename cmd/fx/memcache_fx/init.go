package memcache_fx

import (
	"go.uber.org/fx"

	"linkbio/pkg/clock"
	mem "linkbio/pkg/memcache"
)

var Module = fx.Provide(provideStateStore)

func provideStateStore(c clock.Clock) mem.StateStore {
	return mem.NewTTLStore(c)
}
