// Package graph provisions service principals natively through the
// Microsoft Graph and ARM APIs, performing the same steps as
// `az ad sp create-for-rbac`: register an application, register its
// service principal, add a password credential and grant the role.
package graph

import (
	"context"
	"fmt"
	"time"

	msgraph "github.com/nais/msgraph.go/v1.0"
	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"

	"github.com/benmlops/rbacerator/pkg/azure"
	"github.com/benmlops/rbacerator/pkg/azure/credentials"
	"github.com/benmlops/rbacerator/pkg/azure/rbac"
	"github.com/benmlops/rbacerator/pkg/config"
)

// directoryAPI is the Azure AD leg of the provisioning flow.
type directoryAPI interface {
	registerApplication(tx azure.Transaction) (*msgraph.Application, error)
	registerServicePrincipal(tx azure.Transaction) (msgraph.ServicePrincipal, error)
	addPasswordCredential(tx azure.Transaction) (msgraph.PasswordCredential, error)
}

// roleAssignmentAPI is the ARM leg of the provisioning flow.
type roleAssignmentAPI interface {
	RoleDefinitionId(ctx context.Context, scope, roleName string) (string, error)
	Assign(ctx context.Context, scope, roleDefinitionId, principalId string) error
}

// directory implements directoryAPI against Microsoft Graph.
type directory struct {
	graphClient        *msgraph.GraphServiceRequestBuilder
	credentialValidity time.Duration
}

type Client struct {
	config     config.AzureConfig
	directory  directoryAPI
	rbacClient roleAssignmentAPI
}

func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	ts, err := NewTokenSource(ctx, cfg.Azure)
	if err != nil {
		return nil, fmt.Errorf("instantiating graph token source: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, ts)

	armCredential, err := NewARMCredential(cfg.Azure)
	if err != nil {
		return nil, fmt.Errorf("instantiating arm credential: %w", err)
	}

	rbacClient, err := rbac.New(cfg.SubscriptionId, armCredential)
	if err != nil {
		return nil, err
	}

	return &Client{
		config: cfg.Azure,
		directory: &directory{
			graphClient:        msgraph.NewClient(httpClient),
			credentialValidity: cfg.CredentialValidity,
		},
		rbacClient: rbacClient,
	}, nil
}

// Create registers the application and its service principal, adds a
// password credential and grants the requested role over the scope.
func (c *Client) Create(tx azure.Transaction) (*credentials.Credentials, error) {
	app, err := c.directory.registerApplication(tx)
	if err != nil {
		return nil, fmt.Errorf("registering application: %w", err)
	}

	tx = tx.UpdateWithApplicationIDs(*app.AppID, *app.ID)
	tx.Log.Debugf("registered application (clientId: %s, objectId: %s)", tx.ClientId, tx.ObjectId)

	servicePrincipal, err := c.registerServicePrincipalWithRetry(tx)
	if err != nil {
		return nil, fmt.Errorf("registering service principal: %w", err)
	}

	tx = tx.UpdateWithServicePrincipalID(*servicePrincipal.ID)
	tx.Log.Debugf("registered service principal (id: %s)", tx.ServicePrincipalId)

	passwordCredential, err := c.directory.addPasswordCredential(tx)
	if err != nil {
		return nil, fmt.Errorf("adding password credential: %w", err)
	}

	roleDefinitionId, err := c.rbacClient.RoleDefinitionId(tx.Ctx, tx.Request.Scope, tx.Request.Role)
	if err != nil {
		return nil, err
	}

	if err := c.rbacClient.Assign(tx.Ctx, tx.Request.Scope, roleDefinitionId, tx.ServicePrincipalId); err != nil {
		return nil, err
	}

	return &credentials.Credentials{
		AppID:       tx.ClientId,
		DisplayName: tx.Request.Name,
		Password:    *passwordCredential.SecretText,
		Tenant:      c.config.TenantId,
	}, nil
}

// registerServicePrincipalWithRetry retries the registration while the
// freshly registered application has not yet propagated through Azure AD.
func (c *Client) registerServicePrincipalWithRetry(tx azure.Transaction) (msgraph.ServicePrincipal, error) {
	var result msgraph.ServicePrincipal

	backoff := retry.WithMaxDuration(1*time.Minute, retry.NewFibonacci(1*time.Second))
	err := retry.Do(tx.Ctx, backoff, func(_ context.Context) error {
		servicePrincipal, err := c.directory.registerServicePrincipal(tx)
		if err != nil {
			if isTransientGraphError(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		result = servicePrincipal
		return nil
	})

	return result, err
}
