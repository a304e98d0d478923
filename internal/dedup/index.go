// Package dedup tracks which questions have already been surfaced, by
// prompt text and by answer set.
package dedup

import (
	"sync"

	"github.com/abhisek/quizsupply/internal/question"
)

// Signatures is the pair of fingerprints a record is deduplicated on.
type Signatures struct {
	Content   string `json:"content"`
	AnswerSet string `json:"answerSet"`
}

// Of returns the signatures of r.
func Of(r *question.Record) Signatures {
	return Signatures{
		Content:   r.ContentSignature(),
		AnswerSet: r.AnswerSetSignature(),
	}
}

// Index is the process-wide set of surfaced signatures. It is append-only
// apart from Release and Reset, and safe for concurrent use. Every read and write holds
// the same mutex, so a Claim can never interleave with another Claim.
type Index struct {
	mu        sync.Mutex
	content   map[string]struct{}
	answerSet map[string]struct{}
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		content:   make(map[string]struct{}),
		answerSet: make(map[string]struct{}),
	}
}

// Contains reports whether either signature has been seen.
func (x *Index) Contains(s Signatures) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.containsLocked(s)
}

// ContainsContent reports whether a content signature has been seen.
func (x *Index) ContainsContent(sig string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.content[sig]
	return ok
}

// ContainsAnswerSet reports whether an answer-set signature has been seen.
func (x *Index) ContainsAnswerSet(sig string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.answerSet[sig]
	return ok
}

// Insert adds both signatures unconditionally. Used when restoring from a
// journal; the supply path uses Claim.
func (x *Index) Insert(s Signatures) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.insertLocked(s)
}

// Claim inserts both signatures if neither is present and reports whether it
// did. A false return means another caller surfaced an equivalent record
// first.
func (x *Index) Claim(s Signatures) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.containsLocked(s) {
		return false
	}
	x.insertLocked(s)
	return true
}

// Release removes a pair this caller claimed but never emitted. The supply
// path calls it only to roll back claims of a call that failed as a whole.
func (x *Index) Release(s Signatures) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.content, s.Content)
	delete(x.answerSet, s.AnswerSet)
}

// Len returns the number of content and answer-set signatures held.
func (x *Index) Len() (content, answerSets int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.content), len(x.answerSet)
}

// Reset empties the index. This is an administrative operation.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.content = make(map[string]struct{})
	x.answerSet = make(map[string]struct{})
}

func (x *Index) containsLocked(s Signatures) bool {
	if _, ok := x.content[s.Content]; ok {
		return true
	}
	_, ok := x.answerSet[s.AnswerSet]
	return ok
}

func (x *Index) insertLocked(s Signatures) {
	x.content[s.Content] = struct{}{}
	x.answerSet[s.AnswerSet] = struct{}{}
}
