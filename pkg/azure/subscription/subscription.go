// Package subscription verifies that the target subscription exists before
// an identity is created in it.
package subscription

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
)

type Service struct {
	subscriptionId string
	client         *armsubscriptions.Client
}

func NewService(subscriptionId string, credential azcore.TokenCredential) (*Service, error) {
	client, err := armsubscriptions.NewClient(credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}

	return &Service{
		subscriptionId: subscriptionId,
		client:         client,
	}, nil
}

// Verify fetches the subscription and returns its display name.
func (s *Service) Verify(ctx context.Context) (string, error) {
	response, err := s.client.Get(ctx, s.subscriptionId, nil)
	if err != nil {
		return "", fmt.Errorf("fetching subscription '%s': %w", s.subscriptionId, err)
	}

	displayName := s.subscriptionId
	if response.DisplayName != nil {
		displayName = *response.DisplayName
	}

	return displayName, nil
}
