package azure

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Transaction carries the context, logger and request for a single
// provisioning flow, together with the resource IDs accumulated by the
// multi-step graph backend.
type Transaction struct {
	Ctx     context.Context
	Log     *log.Entry
	Request Request

	ClientId           ClientId
	ObjectId           ObjectId
	ServicePrincipalId ServicePrincipalId
}

func NewTransaction(ctx context.Context, logger *log.Entry, request Request) Transaction {
	return Transaction{
		Ctx:     ctx,
		Log:     logger,
		Request: request,
	}
}

func (t Transaction) UpdateWithApplicationIDs(clientId ClientId, objectId ObjectId) Transaction {
	t.ClientId = clientId
	t.ObjectId = objectId
	return t
}

func (t Transaction) UpdateWithServicePrincipalID(id ServicePrincipalId) Transaction {
	t.ServicePrincipalId = id
	return t
}
