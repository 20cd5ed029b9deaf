package azure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/steve-rackham/azfleet/internal/model"
)

// GetSecurityGroup reads one network security group and returns its
// serialized definition. A missing group reports exists=false rather than
// an error, so the handler can reject instead of failing the probe.
func (c *Clients) GetSecurityGroup(ctx context.Context, target model.Target) (bool, []byte, error) {
	resp, err := c.nsgs.Get(ctx, target.ResourceGroup, target.Name, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return false, nil, nil
		}
		return false, nil, err
	}

	definition, err := json.MarshalIndent(resp.SecurityGroup, "", "  ")
	if err != nil {
		return true, nil, err
	}
	return true, definition, nil
}
