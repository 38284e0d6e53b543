package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
)

func TestRoleDefinitionIdUsesCache(t *testing.T) {
	scope := "/subscriptions/5711c1b4-4d29-4049-952e-25e86db42d30"
	id := scope + "/providers/Microsoft.Authorization/roleDefinitions/b24988ac-6180-42a0-ab88-20f7382dd24c"

	roleDefinitionIdCache.Set(cacheKey(scope, "Contributor"), id)
	t.Cleanup(func() {
		roleDefinitionIdCache.Delete(cacheKey(scope, "Contributor"))
	})

	// nil role definitions client proves the cached value short-circuits the lookup
	client := &Client{}

	actual, err := client.RoleDefinitionId(context.Background(), scope, "Contributor")

	assert.NoError(t, err)
	assert.Equal(t, id, actual)
}

func TestCacheKeyIncludesScopeAndRole(t *testing.T) {
	first := cacheKey("/subscriptions/a", "Contributor")
	second := cacheKey("/subscriptions/b", "Contributor")
	third := cacheKey("/subscriptions/a", "Reader")

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, first, third)
}

func TestIsPrincipalNotFound(t *testing.T) {
	assert.True(t, isPrincipalNotFound(&azcore.ResponseError{ErrorCode: "PrincipalNotFound"}))
	assert.False(t, isPrincipalNotFound(&azcore.ResponseError{ErrorCode: "RoleAssignmentExists"}))
	assert.False(t, isPrincipalNotFound(errors.New("connection reset by peer")))
}
