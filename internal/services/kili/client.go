package kili

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"kiliexport/internal/config"
	"kiliexport/internal/export"
)

const projectQuery = `
query ($projectID: ID!) {
    projects(where: {id: $projectID}, first: 1) {
        id
        title
        description
        jsonInterface
    }
}`

const assetsQuery = `
query ($projectID: ID!, $assetIDs: [ID!], $labelTypes: [LabelType!], $skip: Int!, $first: Int!) {
    assets(
        where: {project: {id: $projectID}, id_in: $assetIDs, label: {typeIn: $labelTypes}}
        skip: $skip
        first: $first
    ) {
        id
        externalId
        content
        jsonContent
        jsonMetadata
        latestLabel {
            author { id email firstname lastname }
            jsonResponse
            createdAt
            labelType
            modelName
        }
        labels {
            author { id email firstname lastname }
            jsonResponse
            createdAt
            labelType
            modelName
        }
    }
}`

const assetPageSize = 100

// Client talks to the platform's GraphQL API. It implements
// export.ProjectStore.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a GraphQL client from the API configuration.
func NewClient(cfg config.API) *Client {
	transport := http.DefaultTransport
	if !cfg.VerifySSL {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.Key,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   2 * time.Minute,
		},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, result any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "X-API-Key: "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query API: status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("query API: %s", envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Project implements export.ProjectStore.
func (c *Client) Project(ctx context.Context, projectID string) (*export.Project, error) {
	var data struct {
		Projects []struct {
			ID            string          `json:"id"`
			Title         string          `json:"title"`
			Description   string          `json:"description"`
			JSONInterface json.RawMessage `json:"jsonInterface"`
		} `json:"projects"`
	}
	if err := c.query(ctx, projectQuery, map[string]any{"projectID": projectID}, &data); err != nil {
		return nil, err
	}
	if len(data.Projects) == 0 {
		return nil, fmt.Errorf("project %s not found", projectID)
	}
	record := data.Projects[0]

	iface, err := export.ParseInterface(record.JSONInterface)
	if err != nil {
		return nil, err
	}
	return &export.Project{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Interface:   iface,
	}, nil
}

// Assets implements export.ProjectStore. Results are paginated; order is the
// API's stable pagination order.
func (c *Client) Assets(ctx context.Context, projectID string, assetIDs []string, exportType export.ExportType) ([]*export.Asset, error) {
	labelTypes := []string{"DEFAULT", "REVIEW"}

	var all []*export.Asset
	for skip := 0; ; skip += assetPageSize {
		variables := map[string]any{
			"projectID":  projectID,
			"labelTypes": labelTypes,
			"skip":       skip,
			"first":      assetPageSize,
		}
		if len(assetIDs) > 0 {
			variables["assetIDs"] = assetIDs
		}

		var data struct {
			Assets []*export.Asset `json:"assets"`
		}
		if err := c.query(ctx, assetsQuery, variables, &data); err != nil {
			return nil, err
		}
		if exportType == export.ExportTypeLatest {
			for _, asset := range data.Assets {
				asset.Labels = nil
			}
		}
		all = append(all, data.Assets...)
		if len(data.Assets) < assetPageSize {
			break
		}
	}
	return all, nil
}
