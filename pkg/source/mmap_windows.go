// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build windows

package source

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func mmapFile(f *os.File, size int) ([]byte, error) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func munmap(data []byte) error {
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}

// WritableView is a writable mapping over a file, used by write-back to fill
// the temp file before renaming it over the target.
type WritableView struct {
	data []byte
}

func MapWritable(f *os.File, size int) (*WritableView, error) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READWRITE, 0, uint32(size), nil)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		return nil, err
	}
	return &WritableView{data: unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)}, nil
}

func (v *WritableView) Data() []byte {
	return v.data
}

// Flush forces dirty pages to disk before the rename.
func (v *WritableView) Flush() error {
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(&v.data[0])), uintptr(len(v.data)))
}

func (v *WritableView) Close() error {
	data := v.data
	v.data = nil
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}
