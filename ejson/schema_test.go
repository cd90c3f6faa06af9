package ejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HVML/PurC-sub012/variant"
)

const personSchema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "number"}
	}
}`

func TestValidateAgainstSchemaAccepts(t *testing.T) {
	t.Parallel()

	sch, err := CompileSchema("mem://person.json", personSchema)
	require.NoError(t, err)

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'name': 'n', 'age': 30}`)

	assert.NoError(t, ValidateAgainstSchema(sch, v))
}

func TestValidateAgainstSchemaRejectsMissingField(t *testing.T) {
	t.Parallel()

	sch, err := CompileSchema("mem://person2.json", personSchema)
	require.NoError(t, err)

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'name': 'n'}`)

	assert.Error(t, ValidateAgainstSchema(sch, v))
}
