// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/itemsim/internal/recommend"
)

// FormatVersion identifies the envelope layout. Decode rejects other values.
const FormatVersion = 1

// ErrChecksumMismatch is returned when a decoded model fails verification.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// storedFile is the envelope written to a backend: metadata in the clear,
// followed by the gzip-compressed gob encoding of the model state.
type storedFile struct {
	Format         int
	Metadata       ModelMetadata
	CompressedData []byte
}

// Encode serializes state into a self-describing blob. Checksum, SizeBytes
// and SavedAt in meta are filled in; the completed metadata is returned.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func Encode(state *recommend.State, meta ModelMetadata) ([]byte, ModelMetadata, error) {
	if state == nil {
		return nil, meta, errors.New("state is nil")
	}

	// Serialize model data
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, meta, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, meta, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	var out bytes.Buffer
	sf := storedFile{
		Format:         FormatVersion,
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(&out).Encode(sf); err != nil {
		return nil, meta, fmt.Errorf("write envelope: %w", err)
	}

	return out.Bytes(), meta, nil
}

// Decode verifies and deserializes a blob produced by Encode.
func Decode(data []byte) (*recommend.State, *ModelMetadata, error) {
	var sf storedFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("read envelope: %w", err)
	}
	if sf.Format != FormatVersion {
		return nil, nil, fmt.Errorf("unsupported model format %d", sf.Format)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	var state recommend.State
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}

	return &state, &sf.Metadata, nil
}
