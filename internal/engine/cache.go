package engine

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
)

// snapshotTTL is how long a computed weekly snapshot stays fresh. Entries
// are idempotently recomputable, so slightly stale reads are acceptable for
// dashboard traffic.
const snapshotTTL = 5 * time.Minute

// snapshotCache is a bounded in-process cache for weekly volume and heatmap
// snapshots, keyed by user and time window. freecache evicts under memory
// pressure, so there is no unbounded per-key growth to sweep.
type snapshotCache struct {
	c *freecache.Cache
}

func newSnapshotCache() *snapshotCache {
	const fourMB = 4 * 1024 * 1024
	return &snapshotCache{c: freecache.NewCache(fourMB)}
}

// get unmarshals a cached entry into v, reporting whether the key was live.
func (sc *snapshotCache) get(key string, v any) bool {
	data, err := sc.c.Get([]byte(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// set stores v under key for the snapshot TTL. Serialization failures are
// swallowed; the entry is simply recomputed next time.
func (sc *snapshotCache) set(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = sc.c.Set([]byte(key), data, int(snapshotTTL.Seconds()))
}
