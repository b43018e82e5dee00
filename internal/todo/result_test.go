package todo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_MessagePerOperation(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		op   Op
		want string
	}{
		{OpFetchAll, "Failed to load to-dos"},
		{OpCreate, "Failed to add to-do"},
		{OpToggle, "Failed to update to-do"},
		{OpDelete, "Failed to delete to-do"},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, Result{Op: tc.op, Err: boom}.Message())
			assert.Empty(t, Result{Op: tc.op}.Message())
			assert.True(t, Result{Op: tc.op}.OK())
		})
	}
}

func TestResult_MessageHidesErrorDetail(t *testing.T) {
	res := Result{Op: OpDelete, Err: errors.New("dial tcp 127.0.0.1:5001: connection refused")}
	assert.NotContains(t, res.Message(), "connection refused")
}

func TestOp_UnknownValue(t *testing.T) {
	assert.Equal(t, "unknown", Op(42).String())
	assert.NotEmpty(t, Op(42).FailureMessage())
}
