package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondBuilder_Empty(t *testing.T) {
	b := &condBuilder{}

	assert.True(t, b.empty())
	assert.Equal(t, "", b.where())
	assert.Equal(t, 1, b.next())
	assert.Len(t, b.args, 0)
}

func TestCondBuilder_PlaceholdersTrackArgs(t *testing.T) {
	// Every add consumes exactly one placeholder: $1, $2, $3...
	b := &condBuilder{}
	b.add("r.data_relatorio >= $%d", "2024-01-01")
	b.add("r.data_relatorio <= $%d", "2024-01-31")
	b.add("r.validado = $%d", true)

	require.Len(t, b.args, 3)
	assert.Equal(t,
		"WHERE r.data_relatorio >= $1 AND r.data_relatorio <= $2 AND r.validado = $3",
		b.where())
	assert.Equal(t, 4, b.next())
}

func TestCondBuilder_SetList(t *testing.T) {
	b := &condBuilder{}
	b.add("status_geral = $%d", "ALERTA")
	b.add("pendencias = $%d", "válvula travada")

	assert.Equal(t, "status_geral = $1, pendencias = $2", b.set())
	assert.Equal(t, []interface{}{"ALERTA", "válvula travada"}, b.args)
}

func TestCondBuilder_SingleFilter(t *testing.T) {
	b := &condBuilder{}
	b.add("r.operador ILIKE $%d", "%silva%")

	assert.Equal(t, "WHERE r.operador ILIKE $1", b.where())
	assert.False(t, b.empty())
}
