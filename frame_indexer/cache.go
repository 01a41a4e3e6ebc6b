/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package frameindexer

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/hashicorp/golang-lru/simplelru"
)

// Cache memoizes Build for a fixed set of Options, keyed by a hash of the
// raw records.  It is safe for concurrent use.  Returned Series are shared
// between callers and must not be modified.
type Cache struct {
	opts Options
	mu   sync.Mutex
	lru  *simplelru.LRU
}

// NewCache returns a new Cache holding at most cap Series.
func NewCache(cap int, opts Options) (*Cache, error) {
	lru, err := simplelru.NewLRU(cap /*no onEvict policy*/, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame cache: %w", err)
	}
	return &Cache{
		opts: opts,
		lru:  lru,
	}, nil
}

func hashRecords(raw []record.Record) (uint64, error) {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	if err := enc.Encode(raw); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Build returns the Series built from raw, from the cache if possible.
func (c *Cache) Build(raw []record.Record) (*Series, error) {
	key, err := hashRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash records: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if sIf, ok := c.lru.Get(key); ok {
		s, ok := sIf.(*Series)
		if !ok {
			return nil, fmt.Errorf("frame cache entry didn't contain a Series")
		}
		return s, nil
	}
	s := Build(raw, c.opts)
	c.lru.Add(key, s)
	return s, nil
}

// Len returns the number of cached Series.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
