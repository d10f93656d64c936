package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wjlander/choo/internal/version"
)

// API response structures
type WorkflowResponse struct {
	ID                    string    `json:"id"`
	OrganizationID        string    `json:"organization_id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description,omitempty"`
	TriggerEvent          string    `json:"trigger_event"`
	RecipientType         string    `json:"recipient_type"`
	RecipientEmail        string    `json:"recipient_email,omitempty"`
	RecipientPositionID   string    `json:"recipient_position_id,omitempty"`
	RecipientPositionName string    `json:"recipient_position_name,omitempty"`
	EmailSubject          string    `json:"email_subject"`
	EmailTemplate         string    `json:"email_template"`
	IsActive              bool      `json:"is_active"`
	State                 string    `json:"state"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Warnings              []string  `json:"warnings,omitempty"`
}

// WorkflowRequest mirrors the create/update body of /api/v1/workflows.
type WorkflowRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	TriggerEvent        string `json:"trigger_event"`
	RecipientType       string `json:"recipient_type"`
	RecipientEmail      string `json:"recipient_email,omitempty"`
	RecipientPositionID string `json:"recipient_position_id,omitempty"`
	EmailSubject        string `json:"email_subject"`
	EmailTemplate       string `json:"email_template"`
	IsActive            *bool  `json:"is_active,omitempty"`
}

type TriggerResponse struct {
	Event     string `json:"event"`
	Matched   int    `json:"matched"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
	Outcomes  []struct {
		WorkflowID string   `json:"workflow_id"`
		Name       string   `json:"name"`
		Recipients int      `json:"recipients"`
		Delivered  int      `json:"delivered"`
		Errors     []string `json:"errors,omitempty"`
	} `json:"outcomes"`
	Error string `json:"error,omitempty"`
}

type OrganizationResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
	DB      string `json:"db"`
	Cache   string `json:"cache"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// APIError is returned for any response with status >= 400.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("API error (%d): %s %v", e.Status, e.Message, e.Fields)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// ChooClient talks to the choo HTTP API with an operator token.
type ChooClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *ChooClient {
	return &ChooClient{BaseURL: baseURL, Token: token, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// HTTP client methods
func (c *ChooClient) do(method, path string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.BaseURL + path
	logVerbose("Making %s request to %s", method, u)

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	logVerbose("Response status: %s", resp.Status)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		var body ErrorResponse
		if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
			body.Error = string(raw)
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error, Fields: body.Fields}
	}
	if target != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// Workflow methods
func (c *ChooClient) ListWorkflows() ([]WorkflowResponse, error) {
	var out struct {
		Items []WorkflowResponse `json:"items"`
	}
	if err := c.do(http.MethodGet, "/api/v1/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *ChooClient) GetWorkflow(id string) (WorkflowResponse, error) {
	var w WorkflowResponse
	err := c.do(http.MethodGet, "/api/v1/workflows/"+url.PathEscape(id), nil, &w)
	return w, err
}

func (c *ChooClient) CreateWorkflow(req WorkflowRequest) (WorkflowResponse, error) {
	var w WorkflowResponse
	err := c.do(http.MethodPost, "/api/v1/workflows", req, &w)
	return w, err
}

func (c *ChooClient) ToggleWorkflow(id string) (WorkflowResponse, error) {
	var w WorkflowResponse
	err := c.do(http.MethodPatch, "/api/v1/workflows/"+url.PathEscape(id)+"/toggle", nil, &w)
	return w, err
}

func (c *ChooClient) DeleteWorkflow(id string) error {
	return c.do(http.MethodDelete, "/api/v1/workflows/"+url.PathEscape(id), nil, nil)
}

func (c *ChooClient) SendTest(workflowID, testEmail string, data map[string]string) error {
	payload := map[string]any{"workflowId": workflowID, "testEmail": testEmail, "testData": data}
	return c.do(http.MethodPost, "/api/workflows/test", payload, nil)
}

func (c *ChooClient) Trigger(event, memberID string, vars map[string]string) (TriggerResponse, error) {
	payload := map[string]any{"event": event, "variables": vars}
	if memberID != "" {
		payload["member_id"] = memberID
	}
	var out TriggerResponse
	err := c.do(http.MethodPost, "/api/v1/workflows/trigger", payload, &out)
	return out, err
}

// Organization and settings methods
func (c *ChooClient) GetOrganization(id string) (OrganizationResponse, error) {
	var o OrganizationResponse
	err := c.do(http.MethodGet, "/api/v1/organizations/"+url.PathEscape(id), nil, &o)
	return o, err
}

func (c *ChooClient) GetSettings(orgID string) (map[string]any, error) {
	out := map[string]any{}
	err := c.do(http.MethodGet, "/api/v1/organizations/"+url.PathEscape(orgID)+"/settings", nil, &out)
	return out, err
}

func (c *ChooClient) SetSetting(orgID, key, value string) error {
	return c.do(http.MethodPut, "/api/v1/organizations/"+url.PathEscape(orgID)+"/settings", map[string]string{key: value}, nil)
}

func (c *ChooClient) CheckHealth() (HealthResponse, error) {
	var h HealthResponse
	err := c.do(http.MethodGet, "/healthz", nil, &h)
	return h, err
}
