// Package experience is the persisted write-only sink named in
// spec.md's Non-goals: self-learning from past games is out of scope,
// but recording what a completed search concluded is not, and the
// corpus already reaches for badger for exactly this kind of small
// embedded key-value persistence. Grounded on hailam-chessplay's
// internal/storage/storage.go (badger.Open/Update usage), repurposed
// from user preferences/stats to per-position search conclusions.
package experience

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

// Record is one completed root iteration's conclusion for a position:
// the depth it was searched to, the score reached, and the move
// chosen. Packed binary rather than JSON, matching the engine's own
// preference for dense fixed-width encodings (internal/search/tt.go)
// over the storage package's JSON blobs, since this sink is written
// far more often than it could ever be read.
type Record struct {
	Depth int
	Score int
	Move  chess.Move
}

func encodeRecord(r Record) []byte {
	var buf [10]byte
	binary.BigEndian.PutUint16(buf[0:2], uint16(int16(r.Depth)))
	binary.BigEndian.PutUint16(buf[2:4], uint16(int16(r.Score)))
	binary.BigEndian.PutUint32(buf[4:8], uint32(r.Move))
	return buf[:]
}

func decodeRecord(data []byte) Record {
	return Record{
		Depth: int(int16(binary.BigEndian.Uint16(data[0:2]))),
		Score: int(int16(binary.BigEndian.Uint16(data[2:4]))),
		Move:  chess.Move(int32(binary.BigEndian.Uint32(data[4:8]))),
	}
}

func encodeKey(key uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return buf[:]
}

// Store is the write-only experience sink; the search pool's
// onExperience callback (installed by Engine.SetExperienceStore)
// writes to it after every completed root iteration of the main
// thread, and nothing in the search hot path ever reads it back.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger store at dir.
func Open(dir string) (*Store, error) {
	var opts = badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists the conclusion reached for the position keyed by
// key, overwriting any prior record for that key.
func (s *Store) Record(key uint64, r Record) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(key), encodeRecord(r))
	})
}

// Lookup is exposed for tooling/debugging only (e.g. an "experience
// dump" admin command); the search core never calls it mid-search.
func (s *Store) Lookup(key uint64) (Record, bool, error) {
	var record Record
	var found bool
	var err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			record = decodeRecord(val)
			return nil
		})
	})
	return record, found, err
}
