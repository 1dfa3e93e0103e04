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

package buddy

import (
	"fmt"
	"math/bits"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// New creates an allocator backed by a heap arena of totalSize bytes.
// Both totalSize and minBlockSize must be powers of two, with
// headerSize <= minBlockSize <= totalSize.
func New(totalSize, minBlockSize int) (*Allocator, error) {
	if err := validateSizes(totalSize, minBlockSize); err != nil {
		return nil, err
	}
	// The arena is not zeroed; the allocator writes every header before it
	// reads one, and block payloads are caller bytes.
	return newAllocator(dirtmake.Bytes(totalSize, totalSize), minBlockSize, false)
}

// NewWithArena creates an allocator over a caller-supplied arena.
// len(arena) must be a power of two and at least minBlockSize. The caller
// must not touch the arena afterwards except through returned blocks.
func NewWithArena(arena []byte, minBlockSize int) (*Allocator, error) {
	if err := validateSizes(len(arena), minBlockSize); err != nil {
		return nil, err
	}
	return newAllocator(arena, minBlockSize, false)
}

func validateSizes(totalSize, minBlockSize int) error {
	if minBlockSize < headerSize {
		return fmt.Errorf("buddy: minBlockSize must be >= %d, got %d", headerSize, minBlockSize)
	}
	if minBlockSize&(minBlockSize-1) != 0 {
		return fmt.Errorf("buddy: minBlockSize must be a power of two, got %d", minBlockSize)
	}
	if totalSize <= 0 || totalSize&(totalSize-1) != 0 {
		return fmt.Errorf("buddy: totalSize must be a power of two, got %d", totalSize)
	}
	if totalSize < minBlockSize {
		return fmt.Errorf("buddy: totalSize (%d) must be >= minBlockSize (%d)", totalSize, minBlockSize)
	}
	return nil
}

func newAllocator(arena []byte, minBlockSize int, munmap bool) (*Allocator, error) {
	total := len(arena)
	minShift := bits.TrailingZeros(uint(minBlockSize))
	maxOrder := bits.TrailingZeros(uint(total)) - minShift

	a := &Allocator{
		arena:         arena,
		arenaStart:    arenaBase(arena),
		munmap:        munmap,
		heads:         make([]int64, maxOrder+1),
		orders:        make([]uint8, total>>minShift),
		freeBits:      newBitset(total >> minShift),
		freeBytes:     int64(total),
		totalSize:     int64(total),
		minBlockSize:  int64(minBlockSize),
		minBlockShift: minShift,
		maxOrder:      maxOrder,
	}
	for i := range a.heads {
		a.heads[i] = nullOffset
	}
	a.writeFreeHeader(0, a.totalSize)
	a.pushFree(maxOrder, 0)
	return a, nil
}

// Close releases an mmap-backed arena; for heap arenas it is a no-op.
// Close does not check for outstanding allocations; leaks are silently accepted.
// Close must not race with Alloc or Free.
func (a *Allocator) Close() error {
	if !a.munmap {
		return nil
	}
	a.munmap = false
	arena := a.arena
	a.arena = nil
	a.arenaStart = nil
	return munmapArena(arena)
}
