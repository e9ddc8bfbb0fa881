package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/happyjobs/happyctl/internal/admin/models"
)

const (
	dashboardPath    = "/admin/dashboard/stats"
	jobseekersPath   = "/admin/jobseekers"
	companiesPath    = "/admin/companies"
	jobsPath         = "/admin/jobs"
	applicationsPath = "/admin/applications"
	usersPath        = "/admin/users"
)

// Pagination is the paging block the admin API returns with every list.
type Pagination struct {
	Pages int `json:"pages"`
	Total int `json:"total"`
	Page  int `json:"page"`
}

// Page is one decoded list response.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// List fetches one page of a collection. The rows are read from the
// collection key of the data payload, for example data.jobs.
func List[T any](ctx context.Context, c *Client, path, collection string, query url.Values) (*Page[T], error) {
	data, err := c.Request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := decode(data, &payload); err != nil {
		return nil, err
	}

	page := &Page[T]{Items: []T{}}
	if raw, ok := payload[collection]; ok {
		if err := decode(raw, &page.Items); err != nil {
			return nil, err
		}
		if page.Items == nil {
			page.Items = []T{}
		}
	}
	if raw, ok := payload["pagination"]; ok {
		if err := decode(raw, &page.Pagination); err != nil {
			return nil, err
		}
	}
	return page, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	data, err := c.Request(ctx, http.MethodGet, dashboardPath, nil, nil)
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{}
	if err := decode(data, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) ListJobseekers(ctx context.Context, query url.Values) (*Page[models.JobseekerRow], error) {
	return List[models.JobseekerRow](ctx, c, jobseekersPath, "jobseekers", query)
}

func (c *Client) ListCompanies(ctx context.Context, query url.Values) (*Page[models.CompanyRow], error) {
	return List[models.CompanyRow](ctx, c, companiesPath, "companies", query)
}

func (c *Client) ListJobs(ctx context.Context, query url.Values) (*Page[models.JobRow], error) {
	return List[models.JobRow](ctx, c, jobsPath, "jobs", query)
}

func (c *Client) ListApplications(ctx context.Context, query url.Values) (*Page[models.ApplicationRow], error) {
	return List[models.ApplicationRow](ctx, c, applicationsPath, "applications", query)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID, status string) error {
	_, err := c.Request(ctx, http.MethodPatch,
		applicationsPath+"/"+url.PathEscape(applicationID)+"/status", nil,
		map[string]string{"status": status})
	return err
}

// ToggleUserStatus flips the active flag of a user. Companies are users
// too and go through the same endpoint.
func (c *Client) ToggleUserStatus(ctx context.Context, userID string) error {
	_, err := c.Request(ctx, http.MethodPatch,
		usersPath+"/"+url.PathEscape(userID)+"/toggle-status", nil, nil)
	return err
}

func (c *Client) UserProfile(ctx context.Context, userID string) (*models.ProfileDetail, error) {
	data, err := c.Request(ctx, http.MethodGet, usersPath+"/"+url.PathEscape(userID)+"/profile", nil, nil)
	if err != nil {
		return nil, err
	}
	profile := &models.ProfileDetail{}
	if err := decode(data, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
