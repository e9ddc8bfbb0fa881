package resources

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/happyjobs/happyctl/internal/admin/apiclient"
	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/happyjobs/happyctl/internal/browser"
	"github.com/happyjobs/happyctl/internal/log"
	"github.com/happyjobs/happyctl/internal/util"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
)

var (
	toggleAction = Action{Key: "a", Name: OpToggleActive, Help: "toggle active"}
	statusAction = Action{Key: "s", Name: OpSetStatus, Help: "next status"}
)

// New builds the Table for kind backed by client.
func New(kind Kind, client *apiclient.Client, pageSize int, logger *slog.Logger, opts ...browser.Option) (Table, error) {
	switch kind {
	case Jobseekers:
		return Bind(JobseekerDescriptor(client), pageSize, logger, opts...), nil
	case Companies:
		return Bind(CompanyDescriptor(client), pageSize, logger, opts...), nil
	case Jobs:
		return Bind(JobDescriptor(client), pageSize, logger, opts...), nil
	case Applications:
		return Bind(ApplicationDescriptor(client), pageSize, logger, opts...), nil
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}

// pageLoader adapts a typed list call to a browser loader.
func pageLoader[T any](list func(context.Context, url.Values) (*apiclient.Page[T], error)) browser.Loader[T] {
	return func(ctx context.Context, q browser.QueryState) (browser.PagedResult[T], error) {
		page, err := list(ctx, q.Values())
		if err != nil {
			return browser.PagedResult[T]{}, err
		}
		current := page.Pagination.Page
		if current == 0 {
			current = q.Page
		}
		return browser.NewPagedResult(page.Items, current, page.Pagination.Pages, page.Pagination.Total), nil
	}
}

func toggleUser(client *apiclient.Client) browser.MutationFunc {
	return func(ctx context.Context, id string, _ string) error {
		return client.ToggleUserStatus(ctx, id)
	}
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func JobseekerDescriptor(client *apiclient.Client) Descriptor[models.JobseekerRow] {
	return Descriptor[models.JobseekerRow]{
		Kind: Jobseekers,
		Columns: []Column{
			{"ID", 8}, {"Name", 22}, {"Email", 28}, {"Phone", 14}, {"City", 14}, {"Joined", 10}, {"Status", 8},
		},
		Cells: func(r models.JobseekerRow) []string {
			return []string{
				util.ShortID(r.ID), orNA(r.FullName), orNA(r.Email), orNA(r.PhoneNumber),
				orNA(r.City), formatDate(r.CreatedAt), activeLabel(r.IsActive),
			}
		},
		RowID:     models.JobseekerRow.RowID,
		ProfileID: models.JobseekerRow.RowID,
		Actions:   []Action{toggleAction},
		Load:      pageLoader(client.ListJobseekers),
		Mutate:    map[string]browser.MutationFunc{OpToggleActive: toggleUser(client)},
	}
}

func CompanyDescriptor(client *apiclient.Client) Descriptor[models.CompanyRow] {
	return Descriptor[models.CompanyRow]{
		Kind: Companies,
		Columns: []Column{
			{"ID", 8}, {"Company", 22}, {"Industry", 14}, {"Contact", 18}, {"Email", 26}, {"Joined", 10}, {"Status", 8},
		},
		Cells: func(r models.CompanyRow) []string {
			return []string{
				util.ShortID(r.ID), orNA(r.CompanyName), orNA(r.Industry), orNA(r.FullName),
				orNA(r.Email), formatDate(r.CreatedAt), activeLabel(r.IsActive),
			}
		},
		RowID:   models.CompanyRow.RowID,
		Actions: []Action{toggleAction},
		Load:    pageLoader(client.ListCompanies),
		Mutate:  map[string]browser.MutationFunc{OpToggleActive: toggleUser(client)},
	}
}

func JobDescriptor(client *apiclient.Client) Descriptor[models.JobRow] {
	return Descriptor[models.JobRow]{
		Kind: Jobs,
		Columns: []Column{
			{"ID", 8}, {"Title", 24}, {"Company", 20}, {"Location", 14}, {"Posted", 10}, {"Applications", 12}, {"Status", 8},
		},
		Cells: func(r models.JobRow) []string {
			return []string{
				util.ShortID(r.ID), orNA(r.Title), orNA(r.Company), orNA(r.City()),
				formatDate(r.CreatedAt), strconv.Itoa(r.ApplicationsCount), orNA(r.StatusLabel()),
			}
		},
		RowID: models.JobRow.RowID,
		Load:  pageLoader(client.ListJobs),
	}
}

func ApplicationDescriptor(client *apiclient.Client) Descriptor[models.ApplicationRow] {
	return Descriptor[models.ApplicationRow]{
		Kind: Applications,
		Columns: []Column{
			{"ID", 8}, {"Job Title", 22}, {"Applicant", 20}, {"Company", 18}, {"Applied", 10}, {"Status", 19}, {"Resume", 6},
		},
		Cells: func(r models.ApplicationRow) []string {
			resume := "No"
			if r.ResumeURL() != "" {
				resume = "Yes"
			}
			return []string{
				util.ShortID(r.ID), orNA(r.JobTitle()), orNA(r.ApplicantName()), orNA(r.Company()),
				formatDate(r.AppliedAt), normalizers.Label(r.Status), resume,
			}
		},
		RowID:     models.ApplicationRow.RowID,
		ProfileID: models.ApplicationRow.ApplicantID,
		Filters:   models.ApplicationStatuses,
		Actions:   []Action{statusAction},
		Arg: func(action string, r models.ApplicationRow) string {
			if action == OpSetStatus {
				return models.NextApplicationStatus(r.Status)
			}
			return ""
		},
		Load: pageLoader(client.ListApplications),
		Mutate: map[string]browser.MutationFunc{
			OpSetStatus: func(ctx context.Context, id string, status string) error {
				return client.UpdateApplicationStatus(ctx, id, status)
			},
		},
	}
}

// NewProfileNavigator builds the drill-down into user profiles.
func NewProfileNavigator(client *apiclient.Client, opts ...browser.NavigatorOption) *browser.DrillDownNavigator[*models.ProfileDetail] {
	return browser.NewNavigator(func(ctx context.Context, id string) (*models.ProfileDetail, error) {
		ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{Resource: "profile"})
		return client.UserProfile(ctx, id)
	}, opts...)
}
