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

//go:build unix

package buddy

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NewMmap creates an allocator backed by anonymous mmap'd memory, keeping the
// arena out of the Go heap entirely. Call Close to return it to the OS.
func NewMmap(totalSize, minBlockSize int) (*Allocator, error) {
	if err := validateSizes(totalSize, minBlockSize); err != nil {
		return nil, err
	}
	arena, err := unix.Mmap(-1, 0, totalSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("buddy: mmap arena: %w", err)
	}
	return newAllocator(arena, minBlockSize, true)
}

func munmapArena(arena []byte) error {
	return unix.Munmap(arena)
}
