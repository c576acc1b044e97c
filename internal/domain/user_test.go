package domain

import (
	"testing"

	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_Register_and_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := NewUserDomain(repository.NewUserRepository())

	registered, err := userDomain.Register(ctx, &model.RegisterUserRequest{Name: "renna"})
	require.NoError(t, err)
	require.NotEmpty(t, registered.AccessToken)

	token, err := xcontext.TokenEngine(ctx).Verify(registered.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, token.ID)

	ctx = xcontext.WithRequestUserID(ctx, registered.User.ID)
	me, err := userDomain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "renna", me.User.Name)

	// Names are unique.
	_, err = userDomain.Register(ctx, &model.RegisterUserRequest{Name: "renna"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}
