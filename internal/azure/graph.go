package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/steve-rackham/azfleet/internal/model"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"
	graphScope   = "https://graph.microsoft.com/.default"
)

// GraphClient calls the Microsoft Graph REST API with the shared
// credential. The surface is two GETs with paging, so it stays on net/http
// instead of pulling in the generated Graph SDK.
type GraphClient struct {
	cred    azcore.TokenCredential
	httpc   *http.Client
	baseURL string
}

// NewGraphClient creates a Graph client on the given credential.
func NewGraphClient(cred azcore.TokenCredential) *GraphClient {
	return &GraphClient{
		cred:    cred,
		httpc:   &http.Client{Timeout: 60 * time.Second},
		baseURL: graphBaseURL,
	}
}

// Application is one app registration with its credential expiry records.
type Application struct {
	ObjectID    string
	AppID       string
	DisplayName string
	Credentials []model.Credential
}

type graphApplication struct {
	ID                  string            `json:"id"`
	AppID               string            `json:"appId"`
	DisplayName         string            `json:"displayName"`
	PasswordCredentials []graphCredential `json:"passwordCredentials"`
	KeyCredentials      []graphCredential `json:"keyCredentials"`
}

type graphCredential struct {
	DisplayName string     `json:"displayName"`
	KeyID       string     `json:"keyId"`
	EndDateTime *time.Time `json:"endDateTime"`
}

type graphPage struct {
	Value    []graphApplication `json:"value"`
	NextLink string             `json:"@odata.nextLink"`
}

// ListApplications pages through every application registration in the
// tenant, following @odata.nextLink until exhausted.
func (g *GraphClient) ListApplications(ctx context.Context) ([]Application, error) {
	endpoint := g.baseURL + "/applications?$select=id,appId,displayName&$top=100"

	var apps []Application
	for endpoint != "" {
		var page graphPage
		if err := g.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		for _, app := range page.Value {
			apps = append(apps, toApplication(app))
		}
		endpoint = page.NextLink
	}
	return apps, nil
}

// GetApplication reads one application registration with its password and
// key credentials.
func (g *GraphClient) GetApplication(ctx context.Context, objectID string) (Application, error) {
	endpoint := fmt.Sprintf(
		"%s/applications/%s?$select=id,appId,displayName,passwordCredentials,keyCredentials",
		g.baseURL, url.PathEscape(objectID),
	)

	var app graphApplication
	if err := g.get(ctx, endpoint, &app); err != nil {
		return Application{}, err
	}
	return toApplication(app), nil
}

func (g *GraphClient) get(ctx context.Context, endpoint string, out any) error {
	token, err := g.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{graphScope}})
	if err != nil {
		return fmt.Errorf("acquire graph token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func toApplication(app graphApplication) Application {
	creds := make([]model.Credential, 0, len(app.PasswordCredentials)+len(app.KeyCredentials))
	for _, cred := range app.PasswordCredentials {
		creds = append(creds, toCredential(cred, model.CredentialPassword))
	}
	for _, cred := range app.KeyCredentials {
		creds = append(creds, toCredential(cred, model.CredentialCertificate))
	}

	return Application{
		ObjectID:    app.ID,
		AppID:       app.AppID,
		DisplayName: app.DisplayName,
		Credentials: creds,
	}
}

func toCredential(c graphCredential, kind model.CredentialKind) model.Credential {
	cred := model.Credential{
		DisplayName: c.DisplayName,
		KeyID:       c.KeyID,
		Kind:        kind,
	}
	if c.EndDateTime != nil {
		cred.ExpiresAt = *c.EndDateTime
	}
	return cred
}
