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

//go:build unix

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

func mmapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}

// WritableView is a writable mapping over a file, used by write-back to fill
// the temp file before renaming it over the target.
type WritableView struct {
	data []byte
}

func MapWritable(f *os.File, size int) (*WritableView, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &WritableView{data: data}, nil
}

func (v *WritableView) Data() []byte {
	return v.data
}

// Flush forces dirty pages to disk before the rename.
func (v *WritableView) Flush() error {
	return unix.Msync(v.data, unix.MS_SYNC)
}

func (v *WritableView) Close() error {
	data := v.data
	v.data = nil
	return unix.Munmap(data)
}
