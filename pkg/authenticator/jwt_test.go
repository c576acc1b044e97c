package authenticator_test

import (
	"testing"
	"time"

	"github.com/canonlab/backend/config"
	"github.com/canonlab/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type tokenObj struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenObj](config.AuthConfigs{
		TokenSecret: "secret",
		AccessToken: config.TokenConfigs{Expiration: time.Minute},
	})

	token, err := engine.Generate("sub", tokenObj{ID: "user1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)

	_, err = engine.Verify(token + "x")
	require.Error(t, err)
}
