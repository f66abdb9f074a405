package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

func TestUpdateProfileNameLengthCountsRunes(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := NewUserService(users, newFakeRoleRepo())

	user := &domain.User{Name: "alice", Email: "alice@example.com"}
	require.NoError(t, users.Create(ctx, user))

	// 10 runes but 20 bytes; must pass the 5-29 character window.
	name := strings.Repeat("é", 10)
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	var domainErr *apperrors.DomainError

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: "abcd"})
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: strings.Repeat("é", 30)})
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
}
