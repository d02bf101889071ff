package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deeper-chain/deeper-archive/internal/schema"
)

func TestBatch_Lookup(t *testing.T) {
	require := require.New(t)

	s := &schema.Schema{SpecVersion: 1}
	batch := NewBatch(99, []*Block{
		{Number: 100, Schema: s},
		{Number: 101, Excluded: true},
		{Number: 102, Schema: s, Corrupted: true},
	})
	require.False(batch.Empty())
	require.Equal(uint64(100), batch.From())
	require.Equal(uint64(102), batch.To())
	require.True(batch.Blocks[0].Indexable())
	require.False(batch.Blocks[1].Indexable())
	require.False(batch.Blocks[2].Indexable())

	batch.JoinStorage([]*StorageEntry{
		{BlockNumber: 100, Key: []byte{0x01}, Data: []byte{0xaa}},
		{BlockNumber: 100, Key: []byte{0x02}},
		nil,
		{BlockNumber: 101, Key: []byte{0x01}, Data: []byte{0xbb}},
		{BlockNumber: 101, Key: []byte{0x01}, Data: []byte{0xcc}},
	})
	require.Equal(3, batch.StorageSize())

	entry, ok := batch.Lookup(100, []byte{0x01})
	require.True(ok)
	require.Equal([]byte{0xaa}, entry.Data)

	_, ok = batch.Lookup(100, []byte{0x02})
	require.False(ok)

	_, ok = batch.Lookup(102, []byte{0x01})
	require.False(ok)

	entry, ok = batch.Lookup(101, []byte{0x01})
	require.True(ok)
	require.Equal([]byte{0xcc}, entry.Data)
}

func TestBatch_Empty(t *testing.T) {
	require := require.New(t)

	batch := NewBatch(5, nil)
	require.True(batch.Empty())
	require.Equal(uint64(0), batch.From())
	require.Equal(uint64(0), batch.To())
	_, ok := batch.Lookup(1, nil)
	require.False(ok)
}

func TestDomain(t *testing.T) {
	require := require.New(t)

	for _, d := range FactDomains {
		require.True(d.IsFactDomain())
		parsed, ok := ParseDomain(d.String())
		require.True(ok)
		require.Equal(d, parsed)
	}
	require.False(DomainTimestamp.IsFactDomain())
	_, ok := ParseDomain("timestamp")
	require.True(ok)
	_, ok = ParseDomain("ethereum")
	require.False(ok)
}

func TestWatermark(t *testing.T) {
	require := require.New(t)

	var w *Watermark
	require.True(w.Empty())
	require.True(NewWatermark(InitialHeight).Empty())
	require.False(NewWatermark(10).Empty())
}
