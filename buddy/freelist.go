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

import "unsafe"

// Block header layout. A header is written at the start of every FREE block;
// the moment a block is handed out its header bytes belong to the caller, and
// the allocator never reads them again (the class of an outstanding block
// lives in the side table, see Allocator.orders).
//
//	[0:4]   magic
//	[4:8]   (pad)
//	[8:16]  size, bytes, power of two
//	[16:24] prev, arena offset of the previous free block in the same class
//	[24:32] next, arena offset of the next free block in the same class
const (
	headerSize = 32

	hdrSizeOff = 8
	hdrPrevOff = 16
	hdrNextOff = 24

	// freeMagic marks a header written by this allocator.
	freeMagic uint32 = 0xB0DDF5EE

	// nullOffset is the null link; it is also the empty free-list head.
	nullOffset = int64(-1)
)

func arenaBase(arena []byte) unsafe.Pointer {
	return unsafe.Pointer(&arena[0])
}

func (a *Allocator) headerPtr(off int64) unsafe.Pointer {
	return unsafe.Add(a.arenaStart, off)
}

// writeFreeHeader stamps a fresh free-block header with empty links.
func (a *Allocator) writeFreeHeader(off, size int64) {
	p := a.headerPtr(off)
	*(*uint32)(p) = freeMagic
	*(*int64)(unsafe.Add(p, hdrSizeOff)) = size
	*(*int64)(unsafe.Add(p, hdrPrevOff)) = nullOffset
	*(*int64)(unsafe.Add(p, hdrNextOff)) = nullOffset
}

func (a *Allocator) readMagic(off int64) uint32 {
	return *(*uint32)(a.headerPtr(off))
}

func (a *Allocator) clearMagic(off int64) {
	*(*uint32)(a.headerPtr(off)) = 0
}

func (a *Allocator) readSize(off int64) int64 {
	return *(*int64)(unsafe.Add(a.headerPtr(off), hdrSizeOff))
}

func (a *Allocator) linkPrev(off int64) int64 {
	return *(*int64)(unsafe.Add(a.headerPtr(off), hdrPrevOff))
}

func (a *Allocator) linkNext(off int64) int64 {
	return *(*int64)(unsafe.Add(a.headerPtr(off), hdrNextOff))
}

func (a *Allocator) setPrev(off, prev int64) {
	*(*int64)(unsafe.Add(a.headerPtr(off), hdrPrevOff)) = prev
}

func (a *Allocator) setNext(off, next int64) {
	*(*int64)(unsafe.Add(a.headerPtr(off), hdrNextOff)) = next
}

// pushFree inserts the block at off at the head of the class list and marks
// its start bit. The header at off must already be written.
func (a *Allocator) pushFree(order int, off int64) {
	head := a.heads[order]
	a.setPrev(off, nullOffset)
	a.setNext(off, head)
	if head != nullOffset {
		a.setPrev(head, off)
	}
	a.heads[order] = off
	a.freeBits.set(int(off >> a.minBlockShift))
}

// removeFree unlinks the block at off from the class list, clears its links
// and its start bit. The block must currently be on the list for order.
func (a *Allocator) removeFree(order int, off int64) {
	prev, next := a.linkPrev(off), a.linkNext(off)
	if prev != nullOffset {
		a.setNext(prev, next)
	} else {
		a.heads[order] = next
	}
	if next != nullOffset {
		a.setPrev(next, prev)
	}
	a.setPrev(off, nullOffset)
	a.setNext(off, nullOffset)
	a.freeBits.clear(int(off >> a.minBlockShift))
}
