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
	"sync"
	"testing"

	"github.com/bytedance/gopkg/util/gopool"
)

// TestConcurrentAllocFree runs workers alternating allocate/free of 64-byte
// blocks. Each worker stamps its blocks with a distinct pattern; a stamp
// mismatch would mean two workers received overlapping addresses.
func TestConcurrentAllocFree(t *testing.T) {
	a := newTestAllocator(t, 1<<20, 32)

	const workers = 2
	const rounds = 100000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		pat := byte(w + 1)
		wg.Add(1)
		gopool.Go(func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				b := a.Alloc(64)
				if b == nil {
					continue
				}
				for j := range b {
					b[j] = pat
				}
				for j := range b {
					if b[j] != pat {
						t.Errorf("worker %d: byte %d clobbered", pat, j)
						break
					}
				}
				a.Free(b)
			}
		})
	}
	wg.Wait()

	requireInitialState(t, a)
}

// TestConcurrentMixedSizes keeps per-worker sets of outstanding blocks of
// mixed sizes, then drains everything and checks the initial state returns.
func TestConcurrentMixedSizes(t *testing.T) {
	a := newTestAllocator(t, 1<<20, 32)

	const workers = 4
	const rounds = 20000
	sizes := []int{1, 64, 100, 512, 1024}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		pat := byte(w + 1)
		wg.Add(1)
		gopool.Go(func() {
			defer wg.Done()
			var held [][]byte
			for i := 0; i < rounds; i++ {
				if len(held) < 16 {
					b := a.Alloc(sizes[i%len(sizes)])
					if b != nil {
						for j := range b {
							b[j] = pat
						}
						held = append(held, b)
					}
					continue
				}
				b := held[0]
				held = held[1:]
				for j := range b {
					if b[j] != pat {
						t.Errorf("worker %d: byte %d clobbered", pat, j)
						break
					}
				}
				a.Free(b)
			}
			for _, b := range held {
				a.Free(b)
			}
		})
	}
	wg.Wait()

	requireInitialState(t, a)
}
