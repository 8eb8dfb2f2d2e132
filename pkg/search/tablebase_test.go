package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopTablebase_AlwaysMisses(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	require.NoError(t, err)

	var tb search.Tablebase = search.NoopTablebase{}

	result, _, ok := tb.Probe(pos)
	assert.False(t, ok)
	assert.Equal(t, search.TablebaseMiss, result)

	_, result, ok = tb.ProbeRoot(pos)
	assert.False(t, ok)
	assert.Equal(t, search.TablebaseMiss, result)
}
