/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package objpool routes construction of fixed-size objects through a buddy
// allocator. It is a client of package buddy: the allocator has no notion of
// object types, objpool only asks it for sizeof(T) bytes and hands the typed
// pointer back on Put.
//
// Objects live in arena memory the garbage collector does not scan, so T
// must not contain pointers (no maps, slices, strings, channels or pointer
// fields); values reachable only through such fields would be collected
// under the object.
package objpool

import (
	"sync"
	"unsafe"

	"github.com/cloudwego/buddyalloc/buddy"
)

const (
	sharedArenaSize = 1 << 20
	sharedMinBlock  = 32
)

var (
	sharedOnce sync.Once
	shared     *buddy.Allocator
)

// SharedAllocator returns the process-wide allocator. It is constructed here,
// exactly once, on first use; every SharedPool draws from this one arena.
func SharedAllocator() *buddy.Allocator {
	sharedOnce.Do(func() {
		a, err := buddy.New(sharedArenaSize, sharedMinBlock)
		if err != nil {
			panic(err)
		}
		shared = a
	})
	return shared
}

// Pool hands out values of T placed in arena memory.
type Pool[T any] struct {
	a *buddy.Allocator
}

// NewPool creates a pool drawing from the given allocator.
func NewPool[T any](a *buddy.Allocator) Pool[T] {
	return Pool[T]{a: a}
}

// SharedPool creates a pool drawing from the process-wide allocator.
func SharedPool[T any]() Pool[T] {
	return Pool[T]{a: SharedAllocator()}
}

// Get allocates a zeroed T in the arena, or returns nil on exhaustion.
func (p Pool[T]) Get() *T {
	var zero T
	b := p.a.Alloc(int(unsafe.Sizeof(zero)))
	if b == nil {
		return nil
	}
	// The block may hold stale bytes from a previous use.
	b = b[:cap(b)]
	for i := range b {
		b[i] = 0
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// Put returns an object obtained from Get to the allocator. nil is a no-op.
// Panics if obj did not come from this pool's allocator.
func (p Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	off, ok := p.a.PointerOffset(unsafe.Pointer(obj))
	if !ok {
		panic("objpool: object not from this pool")
	}
	p.a.FreeAt(off)
}
