// Copyright 2025 Poiesic Systems
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


package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/poiesic/answerit/core"
)

// Index entries use a fixed binary layout:
// uint32 id length, id bytes, uint32 vector length, float32s (LittleEndian),
// then the payload text to end of buffer.

// MarshalIndexEntry serializes an IndexEntry to bytes.
func MarshalIndexEntry(entry *core.IndexEntry) []byte {
	size := 4 + len(entry.ID) + 4 + 4*len(entry.Vector) + len(entry.Text)
	buf := make([]byte, size)

	offset := 0
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(entry.ID)))
	offset += 4
	offset += copy(buf[offset:], entry.ID)

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(entry.Vector)))
	offset += 4
	for _, v := range entry.Vector {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}

	copy(buf[offset:], entry.Text)
	return buf
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
func UnmarshalIndexEntry(data []byte) (*core.IndexEntry, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: index entry header", ErrTruncatedData)
	}

	offset := 0
	idLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if len(data) < offset+idLen+4 {
		return nil, fmt.Errorf("%w: index entry id", ErrTruncatedData)
	}
	id := string(data[offset : offset+idLen])
	offset += idLen

	vecLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if len(data) < offset+4*vecLen {
		return nil, fmt.Errorf("%w: index entry vector", ErrTruncatedData)
	}
	vector := make([]float32, vecLen)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
	}

	return &core.IndexEntry{
		ID:     id,
		Vector: vector,
		Text:   string(data[offset:]),
	}, nil
}

// Run logs are diagnostic documents; they are stored as JSON.

// MarshalRunLog serializes a RunLog to bytes.
func MarshalRunLog(log *core.RunLog) ([]byte, error) {
	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalRunLog deserializes a RunLog from bytes.
func UnmarshalRunLog(data []byte) (*core.RunLog, error) {
	var log core.RunLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &log, nil
}
