// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

type memoKey struct {
	scene int
	key   string
}

// A Memo caches values computed for scenes, keyed by scene ID and a
// cache key. The component that owns a Memo invalidates it whenever
// its inputs change.
type Memo[T any] struct {
	m map[memoKey]T
}

// Do returns the cached value for (sceneID, key), computing it with f
// on a miss.
func (m *Memo[T]) Do(sceneID int, key string, f func() T) T {
	k := memoKey{sceneID, key}
	if v, ok := m.m[k]; ok {
		return v
	}
	v := f()
	if m.m == nil {
		m.m = make(map[memoKey]T)
	}
	m.m[k] = v
	return v
}

// Len returns the number of cached values.
func (m *Memo[T]) Len() int { return len(m.m) }

// Invalidate drops all cached values.
func (m *Memo[T]) Invalidate() { m.m = nil }

// InvalidateScene drops the cached values of one scene.
func (m *Memo[T]) InvalidateScene(sceneID int) {
	for k := range m.m {
		if k.scene == sceneID {
			delete(m.m, k)
		}
	}
}
