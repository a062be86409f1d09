package sitegraph_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitegraph"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitegraph.Errorf(sitegraph.ENOTFOUND, "run %q not found", "test")

	assert.Equal(t, sitegraph.ENOTFOUND, sitegraph.ErrorCode(err))
	assert.Equal(t, "run \"test\" not found", sitegraph.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitegraph.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitegraph.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetching page: %w", sitegraph.Errorf(sitegraph.EFETCH, "HTTP 404"))

	assert.Equal(t, sitegraph.EFETCH, sitegraph.ErrorCode(err))
	assert.Equal(t, "HTTP 404", sitegraph.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, sitegraph.EINTERNAL, sitegraph.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitegraph.ErrorMessage(err))
}
