package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKind(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user-transactions.json", SourceKindFile},
		{"/data/postgres/dump.json", SourceKindFile},
		{"postgres://u:p@localhost:5432/lending", SourceKindPostgres},
		{"postgresql://localhost/lending", SourceKindPostgres},
		{"POSTGRES://localhost/lending", SourceKindPostgres},
		{"clickhouse://localhost:9000/lending", SourceKindClickhouse},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceKind(tt.input), tt.input)
	}
}

func TestOpenSource_File(t *testing.T) {
	src, closeFn, err := OpenSource(context.Background(), "transactions.json")
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	fileSrc, ok := src.(*JSONFileSource)
	require.True(t, ok)
	assert.Equal(t, "transactions.json", fileSrc.Path())
}

func TestOpenSource_BadPostgresDSN(t *testing.T) {
	_, closeFn, err := OpenSource(context.Background(), "postgres://%zz")
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestRedactInput(t *testing.T) {
	assert.Equal(t, "in.json", RedactInput("in.json"))
	assert.Equal(t, "postgres://reader:xxxxx@db:5432/lending", RedactInput("postgres://reader:secret@db:5432/lending"))
	assert.Equal(t, "clickhouse://db:9000/lending", RedactInput("clickhouse://db:9000/lending"))
}
