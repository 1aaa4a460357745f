package handler

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestRegistrationRole(t *testing.T) {
    assert.Equal(t, "PLAYER", registrationRole(""))
    assert.Equal(t, "PLAYER", registrationRole("player"))
    assert.Equal(t, "COACH", registrationRole(" coach "))
    // owner accounts are provisioned out of band, never self-assigned
    assert.Equal(t, "PLAYER", registrationRole("OWNER"))
    assert.Equal(t, "PLAYER", registrationRole("admin"))
}
