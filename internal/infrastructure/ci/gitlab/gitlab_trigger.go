package gitlab

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.CITrigger = (*GitLabTrigger)(nil)

// GitLabTrigger creates a pipeline through the GitLab REST API.
type GitLabTrigger struct {
	baseURL   string
	projectID string
	token     string
	ref       string
	variables map[string]string
	client    httpclient.HTTPClient
}

type pipelineVariable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pipelineRequest struct {
	Ref       string             `json:"ref"`
	Variables []pipelineVariable `json:"variables,omitempty"`
}

func NewGitLabTrigger(cfg config.GitLabConfig, client httpclient.HTTPClient) *GitLabTrigger {
	return &GitLabTrigger{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		projectID: cfg.ProjectID,
		token:     cfg.Token,
		ref:       cfg.Ref,
		variables: cfg.Variables,
		client:    client,
	}
}

func (g *GitLabTrigger) Name() string { return "gitlab" }

func (g *GitLabTrigger) Trigger(ctx context.Context, event models.PipelineEvent) error {
	ref := g.ref
	if ref == "" {
		ref = event.Branch
	}
	if ref == "" {
		ref = "main"
	}

	vars := map[string]string{}
	for k, v := range g.variables {
		vars[k] = v
	}
	if event.RunID != "" {
		vars["GRAVITYCOMMIT_RUN_ID"] = event.RunID
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	body := pipelineRequest{Ref: ref}
	for _, k := range keys {
		body.Variables = append(body.Variables, pipelineVariable{Key: k, Value: vars[k]})
	}

	endpoint := g.baseURL + "/api/v4/projects/" + url.PathEscape(g.projectID) + "/pipeline"
	err := httpclient.PostJSON(ctx, g.client, endpoint, body, map[string]string{"PRIVATE-TOKEN": g.token})
	if err != nil {
		return domainErrors.ErrCITrigger.WithError(err).
			WithContext("provider", g.Name()).
			WithContext("project", g.projectID)
	}
	return nil
}
