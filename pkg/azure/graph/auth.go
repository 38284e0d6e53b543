package graph

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/nais/msgraph.go/msauth"
	"golang.org/x/oauth2"

	"github.com/benmlops/rbacerator/pkg/config"
)

var scopes = []string{msauth.DefaultMSGraphScope}

// NewTokenSource returns an oauth2 token source for the Graph API. Client
// credentials from the configuration take precedence; without them the
// token is obtained through the local Azure CLI login.
func NewTokenSource(ctx context.Context, cfg config.AzureConfig) (oauth2.TokenSource, error) {
	if hasClientCredentials(cfg) {
		m := msauth.NewManager()
		ts, err := m.ClientCredentialsGrant(ctx, cfg.TenantId, cfg.ClientId, cfg.ClientSecret, scopes)
		if err != nil {
			return nil, fmt.Errorf("performing client credentials grant: %w", err)
		}
		return ts, nil
	}

	cred, err := azidentity.NewAzureCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure cli credential: %w", err)
	}

	ts := &azureCredentialTokenSource{
		cred: cred,
		ctx:  ctx,
		opts: policy.TokenRequestOptions{
			Scopes: scopes,
		},
	}

	return oauth2.ReuseTokenSource(nil, ts), nil
}

// NewARMCredential returns the azcore credential for ARM calls (role
// assignments, subscription lookups), matching the Graph token selection.
func NewARMCredential(cfg config.AzureConfig) (azcore.TokenCredential, error) {
	if hasClientCredentials(cfg) {
		return azidentity.NewClientSecretCredential(cfg.TenantId, cfg.ClientId, cfg.ClientSecret, nil)
	}
	return azidentity.NewAzureCLICredential(nil)
}

func hasClientCredentials(cfg config.AzureConfig) bool {
	return len(cfg.TenantId) > 0 && len(cfg.ClientId) > 0 && len(cfg.ClientSecret) > 0
}

// azureCredentialTokenSource adapts an azcore credential to oauth2.
type azureCredentialTokenSource struct {
	cred azcore.TokenCredential
	ctx  context.Context
	opts policy.TokenRequestOptions
}

func (in *azureCredentialTokenSource) Token() (*oauth2.Token, error) {
	tok, err := in.cred.GetToken(in.ctx, in.opts)
	if err != nil {
		return nil, fmt.Errorf("fetching azure token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		Expiry:      tok.ExpiresOn,
	}, nil
}
