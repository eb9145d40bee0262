package server

import (
	"testing"

	"worklane/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestIsFreelancer(t *testing.T) {
	freelancer := types.AccountTypeFreelancer
	employer := types.AccountTypeEmployer

	assert.True(t, isFreelancer(&types.User{AccountType: &freelancer}))
	assert.False(t, isFreelancer(&types.User{AccountType: &employer}))
	assert.False(t, isFreelancer(&types.User{}))
}
