package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSkipsBlankAndComment(t *testing.T) {
	cmd, err := Parse("")
	require.NoError(t, err)
	require.Nil(t, cmd)

	cmd, err = Parse("-- a comment")
	require.NoError(t, err)
	require.Nil(t, cmd)
}

func TestParseCreateDB(t *testing.T) {
	cmd, err := Parse(`create(db,"db1")`)
	require.NoError(t, err)
	require.Equal(t, OpCreate, cmd.Op)
	require.Equal(t, []string{"db", "db1"}, cmd.Args)
	require.Empty(t, cmd.Handles)
}

func TestParseSelectWithHandle(t *testing.T) {
	cmd, err := Parse(`h1=select(db1.tbl1.col1,10,20)`)
	require.NoError(t, err)
	require.Equal(t, OpSelect, cmd.Op)
	require.Equal(t, []string{"h1"}, cmd.Handles)
	require.Equal(t, []string{"db1.tbl1.col1", "10", "20"}, cmd.Args)
}

func TestParseJoinTwoHandles(t *testing.T) {
	cmd, err := Parse(`r1,r2=join(v1,p1,v2,p2,hash)`)
	require.NoError(t, err)
	require.Equal(t, OpJoin, cmd.Op)
	require.Equal(t, []string{"r1", "r2"}, cmd.Handles)
	require.Equal(t, []string{"v1", "p1", "v2", "p2", "hash"}, cmd.Args)
}

func TestParseRejectsMissingParens(t *testing.T) {
	_, err := Parse(`select 10, 20`)
	require.Error(t, err)
}

func TestParseBoundNull(t *testing.T) {
	b, err := ParseBound("null")
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestParseBoundInt(t *testing.T) {
	b, err := ParseBound("42")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Equal(t, int32(42), *b)
}

func TestParseBoundRejectsGarbage(t *testing.T) {
	_, err := ParseBound("abc")
	require.Error(t, err)
}
