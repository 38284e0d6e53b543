// Package rbac grants roles to service principals at ARM scopes.
package rbac

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Role assignments for a freshly created service principal fail with
// PrincipalNotFound until the principal has replicated from Azure AD to ARM.
const errorCodePrincipalNotFound = "PrincipalNotFound"

var roleDefinitionIdCache = cache.New[string, string]()

type Client struct {
	roleDefinitions *armauthorization.RoleDefinitionsClient
	roleAssignments *armauthorization.RoleAssignmentsClient
}

func New(subscriptionId string, credential azcore.TokenCredential) (*Client, error) {
	roleDefinitions, err := armauthorization.NewRoleDefinitionsClient(credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating role definitions client: %w", err)
	}

	roleAssignments, err := armauthorization.NewRoleAssignmentsClient(subscriptionId, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating role assignments client: %w", err)
	}

	return &Client{
		roleDefinitions: roleDefinitions,
		roleAssignments: roleAssignments,
	}, nil
}

// RoleDefinitionId resolves a role name (e.g. 'Contributor') to its role
// definition resource ID at the given scope. Results are cached per scope
// and role.
func (c *Client) RoleDefinitionId(ctx context.Context, scope, roleName string) (string, error) {
	key := cacheKey(scope, roleName)
	if id, found := roleDefinitionIdCache.Get(key); found {
		return id, nil
	}

	options := &armauthorization.RoleDefinitionsClientListOptions{
		Filter: to.Ptr(fmt.Sprintf("roleName eq '%s'", roleName)),
	}

	pager := c.roleDefinitions.NewListPager(scope, options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("listing role definitions at scope '%s': %w", scope, err)
		}

		for _, definition := range page.Value {
			if definition.ID == nil {
				continue
			}
			roleDefinitionIdCache.Set(key, *definition.ID)
			return *definition.ID, nil
		}
	}

	return "", fmt.Errorf("no role definition found for role '%s' at scope '%s'", roleName, scope)
}

// Assign grants the role to the principal at the given scope. ARM requires
// the assignment name to be a GUID, so a fresh one is generated per
// attempt. Retries while the principal has not yet replicated to ARM.
func (c *Client) Assign(ctx context.Context, scope, roleDefinitionId, principalId string) error {
	parameters := armauthorization.RoleAssignmentCreateParameters{
		Properties: &armauthorization.RoleAssignmentProperties{
			PrincipalID:      to.Ptr(principalId),
			PrincipalType:    to.Ptr(armauthorization.PrincipalTypeServicePrincipal),
			RoleDefinitionID: to.Ptr(roleDefinitionId),
		},
	}

	backoff := retry.WithMaxDuration(2*time.Minute, retry.NewFibonacci(2*time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.roleAssignments.Create(ctx, scope, uuid.New().String(), parameters, nil)
		if err != nil {
			if isPrincipalNotFound(err) {
				return retry.RetryableError(err)
			}
			return fmt.Errorf("creating role assignment at scope '%s': %w", scope, err)
		}
		return nil
	})
}

func cacheKey(scope, roleName string) string {
	return scope + "|" + roleName
}

func isPrincipalNotFound(err error) bool {
	var responseError *azcore.ResponseError
	return errors.As(err, &responseError) && responseError.ErrorCode == errorCodePrincipalNotFound
}
