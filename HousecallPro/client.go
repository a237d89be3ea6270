package HousecallPro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gorm.io/gorm"

	"InspectionPro/Models"
)

const apiBase = "https://api.housecallpro.com"

// Customer as returned by the Housecall Pro API. All name/address parts are
// optional on the wire.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
}

type Address struct {
	ID     string `json:"id"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type Schedule struct {
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`
}

// Job is the external job record consumed by the reconciler. Read-only input;
// we never write jobs back except for notes, status and attachments.
type Job struct {
	ID                string     `json:"id"`
	InvoiceNumber     string     `json:"invoice_number"`
	JobNumber         string     `json:"job_number"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	WorkStatus        string     `json:"work_status"`
	Customer          Customer   `json:"customer"`
	Address           Address    `json:"address"`
	Schedule          *Schedule  `json:"schedule"`
	AssignedEmployees []Employee `json:"assigned_employees"`
}

type JobsResponse struct {
	Jobs       []Job `json:"jobs"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int   `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Client talks to the Housecall Pro API with a company's key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiBase,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ClientForCompany builds a client from the company's stored integration.
func ClientForCompany(db *gorm.DB, companyID uint) (*Client, error) {
	var integration Models.CompanyIntegration
	err := db.Where("company_id = ? AND integration_type = ? AND is_active = ?",
		companyID, Models.IntegrationHousecallPro, true).First(&integration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("Housecall Pro API key not configured")
		}
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}
	if integration.APIKey == "" {
		return nil, fmt.Errorf("Housecall Pro API key not configured")
	}
	return NewClient(integration.APIKey), nil
}

func (c *Client) do(method, endpoint string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Continue processing
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed - check the Housecall Pro API key")
	case http.StatusForbidden:
		return fmt.Errorf("access forbidden - insufficient permissions")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded - try again later")
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("Housecall Pro returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetJobs fetches a page of jobs from the external feed.
func (c *Client) GetJobs(page, pageSize int) (*JobsResponse, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}

	endpoint := "/jobs"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var result JobsResponse
	if err := c.do(http.MethodGet, endpoint, nil, "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestConnection verifies the key by listing employees.
func (c *Client) TestConnection() error {
	var result struct {
		Employees []Employee `json:"employees"`
	}
	return c.do(http.MethodGet, "/employees", nil, "application/json", &result)
}

// UploadJobAttachment attaches a generated report file to a job.
func (c *Client) UploadJobAttachment(jobID, fileName string, content []byte, mimeType string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("failed to build attachment form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize attachment form: %w", err)
	}

	endpoint := fmt.Sprintf("/jobs/%s/attachments", jobID)
	return c.do(http.MethodPost, endpoint, &buf, writer.FormDataContentType(), nil)
}

// UpdateJobStatus patches the external job's work status.
func (c *Client) UpdateJobStatus(jobID, workStatus string) error {
	payload, _ := json.Marshal(map[string]string{"work_status": workStatus})
	endpoint := fmt.Sprintf("/jobs/%s", jobID)
	return c.do(http.MethodPatch, endpoint, bytes.NewReader(payload), "application/json", nil)
}

// AddJobNote posts a note onto the external job.
func (c *Client) AddJobNote(jobID, note string) error {
	payload, _ := json.Marshal(map[string]string{"note": note})
	endpoint := fmt.Sprintf("/jobs/%s/notes", jobID)
	return c.do(http.MethodPost, endpoint, bytes.NewReader(payload), "application/json", nil)
}
