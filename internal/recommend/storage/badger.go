// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend stores models in an embedded BadgerDB.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend opens (or creates) a BadgerDB at path.
func NewBadgerBackend(path string, syncWrites bool) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = syncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

// Name implements Backend.
func (b *BadgerBackend) Name() string { return "badger" }

// Get implements Backend.
func (b *BadgerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements Backend.
func (b *BadgerBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value))
	})
}

// Close implements Backend.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
