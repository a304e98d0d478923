package dedup

// Batch holds the signatures accepted so far within one supply call. It is
// not safe for concurrent use; each call owns its own Batch.
type Batch struct {
	content   map[string]struct{}
	answerSet map[string]struct{}
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{
		content:   make(map[string]struct{}),
		answerSet: make(map[string]struct{}),
	}
}

// Contains reports whether either signature is already in the batch.
func (b *Batch) Contains(s Signatures) bool {
	if _, ok := b.content[s.Content]; ok {
		return true
	}
	_, ok := b.answerSet[s.AnswerSet]
	return ok
}

// Add records both signatures.
func (b *Batch) Add(s Signatures) {
	b.content[s.Content] = struct{}{}
	b.answerSet[s.AnswerSet] = struct{}{}
}

// Remove forgets both signatures. The assembler uses it when a record loses
// its global claim and has to be replaced.
func (b *Batch) Remove(s Signatures) {
	delete(b.content, s.Content)
	delete(b.answerSet, s.AnswerSet)
}

// Len returns the number of records added.
func (b *Batch) Len() int {
	return len(b.content)
}
