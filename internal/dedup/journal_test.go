package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	sigs    []Signatures
	loadErr error
}

func (m *memJournal) AppendSignatures(_ context.Context, sigs []Signatures) error {
	m.sigs = append(m.sigs, sigs...)
	return nil
}

func (m *memJournal) LoadSignatures(context.Context) ([]Signatures, error) {
	return m.sigs, m.loadErr
}

func (m *memJournal) ResetSignatures(context.Context) error {
	m.sigs = nil
	return nil
}

func TestRestore(t *testing.T) {
	j := &memJournal{sigs: []Signatures{
		{Content: "a", AnswerSet: "1"},
		{Content: "b", AnswerSet: "2"},
	}}
	idx := NewIndex()
	n, err := Restore(context.Background(), j, idx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, idx.ContainsContent("a"))
	assert.True(t, idx.ContainsAnswerSet("2"))
}

func TestRestore_LoadError(t *testing.T) {
	j := &memJournal{loadErr: errors.New("disk gone")}
	_, err := Restore(context.Background(), j, NewIndex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestReset(t *testing.T) {
	j := &memJournal{sigs: []Signatures{{Content: "a", AnswerSet: "1"}}}
	idx := NewIndex()
	idx.Insert(Signatures{Content: "a", AnswerSet: "1"})

	require.NoError(t, Reset(context.Background(), j, idx))
	assert.Empty(t, j.sigs)
	c, _ := idx.Len()
	assert.Zero(t, c)
}
