package graph

import (
	"strings"

	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/benmlops/rbacerator/pkg/azure"
)

const TagHideApp = "HideApp"

func (d *directory) registerServicePrincipal(tx azure.Transaction) (msgraph.ServicePrincipal, error) {
	clientId := tx.ClientId
	request := &msgraph.ServicePrincipal{
		AppID: &clientId,
		Tags:  []string{TagHideApp},
	}

	servicePrincipal, err := d.graphClient.ServicePrincipals().Request().Add(tx.Ctx, request)
	if err != nil {
		return msgraph.ServicePrincipal{}, err
	}

	return *servicePrincipal, nil
}

// isTransientGraphError matches responses seen while a new application has
// not yet replicated across the directory.
func isTransientGraphError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Request_ResourceNotFound") ||
		strings.Contains(msg, "does not reference a valid application object")
}
