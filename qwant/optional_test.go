package qwant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_ThreeStates(t *testing.T) {
	type doc struct {
		Note Optional[string] `json:"note,omitzero"`
	}

	cases := []struct {
		name    string
		in      string
		present bool
		null    bool
		value   string
		out     string
	}{
		{name: "absent", in: `{}`, out: `{}`},
		{name: "null", in: `{"note":null}`, present: true, null: true, out: `{"note":null}`},
		{name: "empty", in: `{"note":""}`, present: true, out: `{"note":""}`},
		{name: "value", in: `{"note":"hi"}`, present: true, value: "hi", out: `{"note":"hi"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d doc
			require.NoError(t, json.Unmarshal([]byte(tc.in), &d))
			assert.Equal(t, tc.present, d.Note.Present())
			assert.Equal(t, tc.null, d.Note.IsNull())
			assert.Equal(t, tc.value, d.Note.OrElse(""))

			b, err := json.Marshal(d)
			require.NoError(t, err)
			assert.JSONEq(t, tc.out, string(b))
		})
	}
}

func TestOptional_Constructors(t *testing.T) {
	v, ok := Some(7).Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	n := Null[int]()
	assert.True(t, n.IsNull())
	assert.Equal(t, 3, n.OrElse(3))

	var zero Optional[int]
	assert.True(t, zero.IsZero())
	assert.False(t, zero.Present())
}

func TestOptional_TypeMismatch(t *testing.T) {
	var o Optional[uint64]
	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &o))
	assert.False(t, o.Present())
}
