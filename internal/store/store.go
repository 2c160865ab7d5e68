// Package store persists triples in a key-value backend under three
// covering indexes, with parsed terms dictionary-encoded through the
// encoding package.
package store

import (
	"fmt"
	"io"

	"github.com/aleksaelezovic/rdfio/internal/encoding"
	"github.com/aleksaelezovic/rdfio/internal/storage"
	"github.com/aleksaelezovic/rdfio/pkg/rdf"
)

// TripleStore is a persistent triple store. All reads and writes go
// through transactions on the underlying storage; the store itself holds
// no triple state in memory.
type TripleStore struct {
	storage storage.Storage
	encoder *encoding.TermEncoder
	decoder *encoding.TermDecoder
	factory *rdf.DataFactory
}

// NewTripleStore opens a triple store backed by BadgerDB at the given path
func NewTripleStore(path string) (*TripleStore, error) {
	s, err := storage.NewBadgerStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return NewTripleStoreWithStorage(s), nil
}

// NewTripleStoreWithStorage creates a triple store over existing storage
func NewTripleStoreWithStorage(s storage.Storage) *TripleStore {
	return &TripleStore{
		storage: s,
		encoder: encoding.NewTermEncoder(),
		decoder: encoding.NewTermDecoder(),
		factory: rdf.NewDataFactory(),
	}
}

// Close closes the underlying storage
func (s *TripleStore) Close() error {
	return s.storage.Close()
}

// InsertTriple stores a single triple
func (s *TripleStore) InsertTriple(triple *rdf.Triple) error {
	return s.InsertTriples([]*rdf.Triple{triple})
}

// InsertTriples stores a batch of triples in one transaction
func (s *TripleStore) InsertTriples(triples []*rdf.Triple) error {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, triple := range triples {
		if err := s.insertTriple(txn, triple); err != nil {
			return err
		}
	}

	return txn.Commit()
}

func (s *TripleStore) insertTriple(txn storage.Transaction, triple *rdf.Triple) error {
	sub, err := s.encodeTerm(txn, triple.Subject)
	if err != nil {
		return fmt.Errorf("failed to encode subject: %w", err)
	}
	pred, err := s.encodeTerm(txn, triple.Predicate)
	if err != nil {
		return fmt.Errorf("failed to encode predicate: %w", err)
	}
	obj, err := s.encodeTerm(txn, triple.Object)
	if err != nil {
		return fmt.Errorf("failed to encode object: %w", err)
	}

	if err := txn.Set(storage.TableSPO, s.encoder.EncodeTripleKey(sub, pred, obj), nil); err != nil {
		return err
	}
	if err := txn.Set(storage.TablePOS, s.encoder.EncodeTripleKey(pred, obj, sub), nil); err != nil {
		return err
	}
	return txn.Set(storage.TableOSP, s.encoder.EncodeTripleKey(obj, sub, pred), nil)
}

// encodeTerm encodes a term and stores its side-table string if needed
func (s *TripleStore) encodeTerm(txn storage.Transaction, term rdf.Term) (encoding.EncodedTerm, error) {
	encoded, str, err := s.encoder.EncodeTerm(term)
	if err != nil {
		return encoded, err
	}
	if str != nil {
		hash := encoding.Hash(encoded)
		if err := txn.Set(storage.TableID2Str, hash[:], []byte(*str)); err != nil {
			return encoded, err
		}
	}
	return encoded, nil
}

// ContainsTriple reports whether the triple is present
func (s *TripleStore) ContainsTriple(triple *rdf.Triple) (bool, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() //nolint:errcheck

	sub, _, err := s.encoder.EncodeTerm(triple.Subject)
	if err != nil {
		return false, err
	}
	pred, _, err := s.encoder.EncodeTerm(triple.Predicate)
	if err != nil {
		return false, err
	}
	obj, _, err := s.encoder.EncodeTerm(triple.Object)
	if err != nil {
		return false, err
	}

	_, err = txn.Get(storage.TableSPO, s.encoder.EncodeTripleKey(sub, pred, obj))
	if err == storage.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of stored triples
func (s *TripleStore) Count() (int, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() //nolint:errcheck

	it, err := txn.Scan(storage.TableSPO, nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close() //nolint:errcheck

	count := 0
	for it.Next() {
		count++
	}
	return count, nil
}

// Triples returns all stored triples in SPO key order
func (s *TripleStore) Triples() ([]*rdf.Triple, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() //nolint:errcheck

	it, err := txn.Scan(storage.TableSPO, nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close() //nolint:errcheck

	var triples []*rdf.Triple
	for it.Next() {
		key := it.Key()
		if len(key) != 3*encoding.EncodedTermSize {
			return nil, fmt.Errorf("malformed index key of length %d", len(key))
		}

		var sub, pred, obj encoding.EncodedTerm
		copy(sub[:], key[0:encoding.EncodedTermSize])
		copy(pred[:], key[encoding.EncodedTermSize:2*encoding.EncodedTermSize])
		copy(obj[:], key[2*encoding.EncodedTermSize:])

		subject, err := s.decodeTerm(txn, sub)
		if err != nil {
			return nil, fmt.Errorf("failed to decode subject: %w", err)
		}
		predicate, err := s.decodeTerm(txn, pred)
		if err != nil {
			return nil, fmt.Errorf("failed to decode predicate: %w", err)
		}
		object, err := s.decodeTerm(txn, obj)
		if err != nil {
			return nil, fmt.Errorf("failed to decode object: %w", err)
		}

		subjectNode, ok := subject.(rdf.NamedOrBlankNode)
		if !ok {
			return nil, fmt.Errorf("stored subject is not a named or blank node: %s", subject)
		}
		predicateNode, ok := predicate.(*rdf.NamedNode)
		if !ok {
			return nil, fmt.Errorf("stored predicate is not a named node: %s", predicate)
		}

		triples = append(triples, rdf.NewTriple(subjectNode, predicateNode, object))
	}

	return triples, nil
}

func (s *TripleStore) decodeTerm(txn storage.Transaction, encoded encoding.EncodedTerm) (rdf.Term, error) {
	var str *string
	if encoding.NeedsLookup(encoded) {
		hash := encoding.Hash(encoded)
		value, err := txn.Get(storage.TableID2Str, hash[:])
		if err != nil {
			return nil, fmt.Errorf("failed to look up term string: %w", err)
		}
		s := string(value)
		str = &s
	}
	return s.decoder.DecodeTerm(encoded, str)
}

// LoadTurtle parses a Turtle document and stores its triples
func (s *TripleStore) LoadTurtle(r io.Reader) (int, error) {
	triples, err := rdf.ReadTurtle(r, s.factory)
	if err != nil {
		return 0, fmt.Errorf("failed to parse turtle: %w", err)
	}
	if err := s.InsertTriples(triples); err != nil {
		return 0, err
	}
	return len(triples), nil
}

// LoadNTriples parses an N-Triples document and stores its triples
func (s *TripleStore) LoadNTriples(r io.Reader) (int, error) {
	triples, err := rdf.ReadNTriples(r, s.factory)
	if err != nil {
		return 0, fmt.Errorf("failed to parse n-triples: %w", err)
	}
	if err := s.InsertTriples(triples); err != nil {
		return 0, err
	}
	return len(triples), nil
}
