package graph

import (
	"github.com/nais/msgraph.go/ptr"
	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/benmlops/rbacerator/pkg/azure"
)

// Application tag identifying registrations made by this tool.
const IaCAppTag = "rbacerator_appreg"

func (d *directory) registerApplication(tx azure.Transaction) (*msgraph.Application, error) {
	request := &msgraph.Application{
		DisplayName:    ptr.String(tx.Request.Name),
		SignInAudience: ptr.String("AzureADMyOrg"),
		Tags:           []string{IaCAppTag},
	}

	return d.graphClient.Applications().Request().Add(tx.Ctx, request)
}
