// Package journal keeps a crash-safe record of the temporary world changes
// spells made, so that a server that stopped before their automatic reversal
// can still restore the world when it starts again.
package journal

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

var prefix = []byte("undo/")

// Block is the original state of a block changed by a spell.
type Block struct {
	Pos        cube.Pos
	Name       string
	Properties map[string]any
}

// Entry is the journal entry of a temporary undo list.
type Entry struct {
	ID      uuid.UUID
	Spell   string
	Owner   uuid.UUID
	Created time.Time
	Expires time.Time
	// Dimension is the world the blocks are in. Empty is the overworld.
	Dimension string
	Blocks    []Block
}

// Options configures a Journal.
type Options struct {
	// Path is the database directory. Empty keeps the journal in memory.
	Path string
	Log  logrus.FieldLogger
}

// Journal stores the entries of pending temporary undo lists.
type Journal struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	log logrus.FieldLogger
}

// Open opens the journal.
func Open(opts Options) (*Journal, error) {
	var bopts badger.Options
	if opts.Path == "" {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	db, err := badger.Open(bopts.WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Journal{db: db, enc: enc, dec: dec, log: log}, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	j.dec.Close()
	_ = j.enc.Close()
	return j.db.Close()
}

// EntryOf returns the journal entry of l. The bool is false if l changed no
// blocks.
func EntryOf(l *undo.List) (Entry, bool) {
	snapshots := l.Blocks()
	if len(snapshots) == 0 {
		return Entry{}, false
	}
	e := Entry{
		ID:      l.ID(),
		Spell:   l.Spell(),
		Owner:   l.Owner(),
		Created: l.Created(),
		Expires: l.Created().Add(l.Expiry()),

		Dimension: l.Dimension(),
		Blocks:    make([]Block, 0, len(snapshots)),
	}
	for _, s := range snapshots {
		name, props := s.Prior.EncodeBlock()
		e.Blocks = append(e.Blocks, Block{Pos: s.Pos, Name: name, Properties: props})
	}
	return e, true
}

// Record stores the entry of l if it changed any blocks.
func (j *Journal) Record(l *undo.List) error {
	e, ok := EntryOf(l)
	if !ok {
		return nil
	}
	return j.Put(e)
}

// Put stores e, replacing any entry with the same id.
func (j *Journal) Put(e Entry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("encode entry %v: %w", e.ID, err)
	}
	val := j.enc.EncodeAll(buf.Bytes(), nil)
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(e.ID), val)
	})
}

// Forget deletes the entry with the id passed. Forgetting a missing entry is
// not an error.
func (j *Journal) Forget(id uuid.UUID) error {
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
}

// Pending returns all stored entries, oldest first.
func (j *Journal) Pending() ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				e, err := j.decode(val)
				if err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return fmt.Errorf("read %s: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
	slices.SortFunc(entries, func(a, b Entry) int { return a.Created.Compare(b.Created) })
	return entries, err
}

func (j *Journal) decode(val []byte) (Entry, error) {
	var e Entry
	raw, err := j.dec.DecodeAll(val, nil)
	if err != nil {
		return e, err
	}
	err = gob.NewDecoder(bytes.NewReader(raw)).Decode(&e)
	return e, err
}

var (
	// ErrUnknownBlock is returned by Recover when a journaled block no longer
	// exists.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrUnknownWorld is returned by Recover when the world of an entry is
	// not loaded. Such entries are kept.
	ErrUnknownWorld = errors.New("unknown world")
)

// Recover restores the blocks of every pending entry in the world it was made
// in, newest entry first, and deletes the entries. It returns the number of
// entries restored.
func (j *Journal) Recover(ws undo.Worlds) (int, error) {
	entries, err := j.Pending()
	if err != nil {
		return 0, err
	}
	var errs []error
	n := 0
	for _, e := range slices.Backward(entries) {
		ok := ws.Exec(e.Dimension, func(tx undo.Tx) {
			for _, b := range slices.Backward(e.Blocks) {
				bl, ok := world.BlockByName(b.Name, b.Properties)
				if !ok {
					errs = append(errs, fmt.Errorf("entry %v: %w %v", e.ID, ErrUnknownBlock, b.Name))
					continue
				}
				tx.SetBlock(b.Pos, bl, nil)
			}
		})
		if !ok {
			errs = append(errs, fmt.Errorf("entry %v: %w %q", e.ID, ErrUnknownWorld, e.Dimension))
			continue
		}
		if err := j.Forget(e.ID); err != nil {
			errs = append(errs, err)
		}
		n++
		j.log.WithFields(logrus.Fields{
			"spell":     e.Spell,
			"dimension": e.Dimension,
			"blocks":    len(e.Blocks),
		}).Info("Recovered temporary spell changes.")
	}
	return n, errors.Join(errs...)
}

// Clear deletes every entry without restoring anything.
func (j *Journal) Clear() (int, error) {
	entries, err := j.Pending()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := j.Forget(e.ID); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func key(id uuid.UUID) []byte {
	return append(slices.Clone(prefix), id[:]...)
}
