package azure

import (
	"github.com/benmlops/rbacerator/pkg/azure/credentials"
)

// DisplayName is the display name for the Graph API Application resource
type DisplayName = string

// ClientId is the Client ID / Application ID for the Graph API Application resource
type ClientId = string

// ObjectId is the Object ID for the Graph API Application resource
type ObjectId = string

// ServicePrincipalId is the Object ID for the Graph API Service Principal resource
type ServicePrincipalId = string

// Provisioner creates a credentialed service principal with a role granted
// over a single scope. Implementations are side-effecting and
// non-idempotent: every call is one independent creation attempt, with no
// deduplication across runs.
type Provisioner interface {
	Create(tx Transaction) (*credentials.Credentials, error)
}
