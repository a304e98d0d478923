// Package corpus provides read-only access to pre-authored question records.
package corpus

import (
	"sync/atomic"

	"github.com/abhisek/quizsupply/internal/question"
)

// Corpus answers exact-combination queries over pre-authored records.
type Corpus interface {
	// Query returns every record with the given grade, subject and
	// difficulty. The returned slice must not be modified.
	Query(grade question.Grade, subject question.Subject, difficulty question.Difficulty) []question.Record
}

type key struct {
	grade      question.Grade
	subject    question.Subject
	difficulty question.Difficulty
}

// Snapshot is an immutable, indexed set of records. It is safe to share
// between goroutines without locking.
type Snapshot struct {
	byKey map[key][]question.Record
	n     int
}

// NewSnapshot indexes a copy of records. Records without a provenance
// source are marked as corpus records.
func NewSnapshot(records []question.Record) *Snapshot {
	s := &Snapshot{byKey: make(map[key][]question.Record)}
	for _, r := range records {
		c := r.Clone()
		if c.Provenance.Source == "" {
			c.Provenance.Source = question.SourceCorpus
		}
		k := key{c.Grade, c.Subject, c.Difficulty}
		s.byKey[k] = append(s.byKey[k], c)
		s.n++
	}
	return s
}

// Query implements Corpus.
func (s *Snapshot) Query(grade question.Grade, subject question.Subject, difficulty question.Difficulty) []question.Record {
	if s == nil {
		return nil
	}
	return s.byKey[key{grade, subject, difficulty}]
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Count returns the number of records for one combination.
func (s *Snapshot) Count(grade question.Grade, subject question.Subject, difficulty question.Difficulty) int {
	return len(s.Query(grade, subject, difficulty))
}

// Live holds the current Snapshot and lets it be replaced atomically, for
// example after re-seeding. A supply call reads the snapshot once and uses
// it for its whole duration.
type Live struct {
	p atomic.Pointer[Snapshot]
}

// NewLive returns a Live serving s.
func NewLive(s *Snapshot) *Live {
	l := &Live{}
	if s == nil {
		s = NewSnapshot(nil)
	}
	l.p.Store(s)
	return l
}

// Snapshot returns the current snapshot.
func (l *Live) Snapshot() *Snapshot {
	return l.p.Load()
}

// Swap installs s and returns the previous snapshot.
func (l *Live) Swap(s *Snapshot) *Snapshot {
	return l.p.Swap(s)
}

// Query implements Corpus against the current snapshot.
func (l *Live) Query(grade question.Grade, subject question.Subject, difficulty question.Difficulty) []question.Record {
	return l.Snapshot().Query(grade, subject, difficulty)
}
