package todoapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_DecodesNumbersAndStrings(t *testing.T) {
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(`[{"id":12},{"id":"ab-3"},{"id":1.5e3},{"id":null}]`), &items))

	assert.Equal(t, "12", items[0].ID.String())
	assert.Equal(t, "ab-3", items[1].ID.String())
	assert.Equal(t, "1.5e3", items[2].ID.String())
	assert.True(t, items[3].ID.IsZero())
}

func TestID_ReencodesInOriginalForm(t *testing.T) {
	in := `[{"id":12,"title":"a","completed":false},{"id":"12","title":"b","completed":true}]`
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(in), &items))

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestID_EqualIgnoresForm(t *testing.T) {
	assert.True(t, IntID(7).Equal(NewID("7")))
	assert.False(t, IntID(7).Equal(IntID(8)))
}

func TestID_RejectsNonScalar(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}
