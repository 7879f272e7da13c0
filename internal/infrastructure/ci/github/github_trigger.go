package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.CITrigger = (*GitHubTrigger)(nil)

// GitHubTrigger starts a GitHub Actions workflow through workflow_dispatch.
// The workflow is a file name such as ci.yml or a numeric workflow id.
type GitHubTrigger struct {
	client   *github.Client
	owner    string
	repo     string
	workflow string
	ref      string
	inputs   map[string]string
}

func NewGitHubTrigger(cfg config.GitHubConfig, httpClient *http.Client) *GitHubTrigger {
	if cfg.Token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	return &GitHubTrigger{
		client:   github.NewClient(httpClient),
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		workflow: cfg.Workflow,
		ref:      cfg.Ref,
		inputs:   cfg.Inputs,
	}
}

// WithBaseURL points the client at another API root, such as GitHub
// Enterprise or a test server.
func (g *GitHubTrigger) WithBaseURL(raw string) (*GitHubTrigger, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	g.client.BaseURL = u
	return g, nil
}

func (g *GitHubTrigger) Name() string { return "github" }

func (g *GitHubTrigger) Trigger(ctx context.Context, event models.PipelineEvent) error {
	owner, repo := g.owner, g.repo
	if owner == "" {
		owner = event.Owner
	}
	if repo == "" {
		repo = event.Repo
	}
	if owner == "" || repo == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", g.Name()).
			WithSuggestion("Set ci.github.owner and ci.github.repo, or add a GitHub remote")
	}

	inputs := make(map[string]interface{}, len(g.inputs))
	for k, v := range g.inputs {
		inputs[k] = v
	}
	body := github.CreateWorkflowDispatchEventRequest{
		Ref:    refFor(g.ref, event.Branch),
		Inputs: inputs,
	}

	var (
		resp *github.Response
		err  error
	)
	if id, convErr := strconv.ParseInt(g.workflow, 10, 64); convErr == nil {
		resp, err = g.client.Actions.CreateWorkflowDispatchEventByID(ctx, owner, repo, id, body)
	} else {
		resp, err = g.client.Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, g.workflow, body)
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return domainErrors.ErrGitHubTokenInvalid.WithError(err)
		}
		return domainErrors.ErrCITrigger.WithError(err).
			WithContext("provider", g.Name()).
			WithContext("workflow", g.workflow)
	}
	return nil
}

func refFor(configured, branch string) string {
	if configured != "" {
		return configured
	}
	if branch != "" {
		return branch
	}
	return "main"
}
