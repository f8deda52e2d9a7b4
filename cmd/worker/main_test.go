package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, isAlreadyExists(errors.New("schedule with this ID already exists")))
	assert.True(t, isAlreadyExists(errors.New("rpc error: code = AlreadyExists")))
	assert.True(t, isAlreadyExists(errors.New("workflow already registered")))
	assert.False(t, isAlreadyExists(errors.New("connection refused")))
}
