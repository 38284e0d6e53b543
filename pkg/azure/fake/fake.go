// Package fake provides a side-effect free Provisioner for tests and dry
// runs.
package fake

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/benmlops/rbacerator/pkg/azure"
	"github.com/benmlops/rbacerator/pkg/azure/credentials"
)

const Tenant = "c41717ea-ca27-4f4c-b808-6ffc8b7b4d4d"

type Provisioner struct {
	// Requests records every request, in order of arrival.
	Requests []azure.Request
}

func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

func (p *Provisioner) Create(tx azure.Transaction) (*credentials.Credentials, error) {
	p.Requests = append(p.Requests, tx.Request)

	return &credentials.Credentials{
		AppID:       deterministicId(tx.Request.Name),
		DisplayName: tx.Request.Name,
		Password:    deterministicId(tx.Request.Name + tx.Request.Scope),
		Tenant:      Tenant,
	}, nil
}

// deterministicId derives a stable UUID-shaped value from the input.
func deterministicId(input string) string {
	sum := sha256.Sum256([]byte(input))

	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		return hex.EncodeToString(sum[:16])
	}
	return id.String()
}
