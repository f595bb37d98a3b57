package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWrapped(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("load course: %w", Unavailable("STORAGE_UNAVAILABLE", "Course storage is temporarily unavailable", cause))

	apiErr, ok := From(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "STORAGE_UNAVAILABLE", apiErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Course storage is temporarily unavailable", apiErr.Error())
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "boom", New(500, "", "", errors.New("boom")).Error())
	assert.Equal(t, "CODE", New(500, "CODE", "", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", "", nil).Error())

	_, ok := From(errors.New("plain"))
	assert.False(t, ok)
}
