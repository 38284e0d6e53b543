package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nais/msgraph.go/ptr"
	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/benmlops/rbacerator/pkg/azure"
)

func (d *directory) addPasswordCredential(tx azure.Transaction) (msgraph.PasswordCredential, error) {
	request := d.toAddPasswordRequest()

	response, err := d.graphClient.Applications().ID(tx.ObjectId).AddPassword(request).Request().Post(tx.Ctx)
	if err != nil {
		return msgraph.PasswordCredential{}, err
	}

	return *response, nil
}

func (d *directory) toAddPasswordRequest() *msgraph.ApplicationAddPasswordRequestParameter {
	startDateTime := time.Now()
	endDateTime := startDateTime.Add(d.credentialValidity)
	keyId := msgraph.UUID(uuid.New().String())

	return &msgraph.ApplicationAddPasswordRequestParameter{
		PasswordCredential: &msgraph.PasswordCredential{
			StartDateTime: &startDateTime,
			EndDateTime:   &endDateTime,
			KeyID:         &keyId,
			DisplayName:   ptr.String(credentialDisplayName(startDateTime)),
		},
	}
}

func credentialDisplayName(t time.Time) string {
	return fmt.Sprintf("rbacerator-%s", t.UTC().Format(time.RFC3339))
}
