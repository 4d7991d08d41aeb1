package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable_Basic(t *testing.T) {
	t.Parallel()

	table, err := ReadTable("년도,월,값\n2020,1,10\n2020,2,\n", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"년도", "월", "값"}, table.Names())
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"2020", "2", ""}, table.Row(1))
}

func TestReadTable_PadsShortRows(t *testing.T) {
	t.Parallel()

	table, err := ReadTable("a,b,c\n1\n", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, table.Row(0))
}

func TestReadTable_LongRowIsReadError(t *testing.T) {
	t.Parallel()

	_, err := ReadTable("a,b\n1,2\n1,2,3\n", ',')
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, 3, readErr.Line)
}

func TestReadTable_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := ReadTable("", ',')
	var readErr *ReadError
	assert.True(t, errors.As(err, &readErr))
}

func TestReadTable_DedupesHeader(t *testing.T) {
	t.Parallel()

	table, err := ReadTable("\ufeffa,a,,a.1,a\n1,2,3,4,5\n", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.1.1", "a.2"}, table.Names())
}

func TestReadTable_Delimiter(t *testing.T) {
	t.Parallel()

	table, err := ReadTable("year;month\n2020;3\n", ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "month"}, table.Names())
	assert.Equal(t, []string{"2020", "3"}, table.Row(0))
}
