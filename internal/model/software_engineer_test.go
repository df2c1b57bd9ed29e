package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftwareEngineer_JSON(t *testing.T) {
	data, err := json.Marshal(SoftwareEngineer{ID: 1, Name: "Lupo", TechStack: "js, node, react"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Lupo","techStack":"js, node, react"}`, string(data))

	var e SoftwareEngineer
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Ada","techStack":"go"}`), &e))
	assert.True(t, e.IsNew())
	assert.Equal(t, "Ada", e.Name)
	assert.Equal(t, "go", e.TechStack)
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &NotFoundError{ID: 999})
	assert.EqualError(t, err, "lookup: software engineer 999 not found")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(999), nf.ID)
}
