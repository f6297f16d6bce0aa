package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sirupsen/logrus"
)

// Registry tracks temporary audio files by name and deletes them from disk
// once their ttl runs out.
type Registry struct {
	cache *ttlcache.Cache[string, string]
}

func NewRegistry(ttl time.Duration) *Registry {
	cache := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	cache.OnEviction(func(ctx context.Context, er ttlcache.EvictionReason, i *ttlcache.Item[string, string]) {
		if er != ttlcache.EvictionReasonExpired {
			return
		}
		if err := os.Remove(i.Value()); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("file", i.Value()).Warnln("failed to remove expired audio")
			return
		}
		logrus.WithField("file", i.Value()).Debugln("removed expired audio")
	})

	return &Registry{cache: cache}
}

// Track registers a file under its base name.
func (r *Registry) Track(path string) {
	r.cache.Set(filepath.Base(path), path, ttlcache.DefaultTTL)
}

// Lookup returns the path of a tracked, unexpired file.
func (r *Registry) Lookup(name string) (string, bool) {
	item := r.cache.Get(name)
	if item == nil || item.IsExpired() {
		return "", false
	}
	return item.Value(), true
}

// Len is the number of tracked files.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Run evicts expired files until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		r.cache.Stop()
	}()
	r.cache.Start()
}

// Sweep evicts expired files now.
func (r *Registry) Sweep() {
	r.cache.DeleteExpired()
}
