package jenkins

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.CITrigger = (*JenkinsTrigger)(nil)

// JenkinsTrigger queues a build through the remote access API.
type JenkinsTrigger struct {
	baseURL    string
	job        string
	user       string
	token      string
	parameters map[string]string
	client     httpclient.HTTPClient
}

func NewJenkinsTrigger(cfg config.JenkinsConfig, client httpclient.HTTPClient) *JenkinsTrigger {
	return &JenkinsTrigger{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		job:        cfg.Job,
		user:       cfg.User,
		token:      cfg.Token,
		parameters: cfg.Parameters,
		client:     client,
	}
}

func (j *JenkinsTrigger) Name() string { return "jenkins" }

func (j *JenkinsTrigger) Trigger(ctx context.Context, _ models.PipelineEvent) error {
	endpoint := j.baseURL + jobPath(j.job) + "/build"
	form := url.Values{}
	if len(j.parameters) > 0 {
		endpoint = j.baseURL + jobPath(j.job) + "/buildWithParameters"
		for k, v := range j.parameters {
			form.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domainErrors.ErrCITrigger.WithError(err).WithContext("provider", j.Name())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if j.user != "" {
		req.SetBasicAuth(j.user, j.token)
	}

	if err := httpclient.Send(j.client, req); err != nil {
		return domainErrors.ErrCITrigger.WithError(err).
			WithContext("provider", j.Name()).
			WithContext("job", j.job)
	}
	return nil
}

// jobPath maps "folder/app" to "/job/folder/job/app".
func jobPath(job string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.Trim(job, "/"), "/") {
		b.WriteString("/job/")
		b.WriteString(url.PathEscape(part))
	}
	return b.String()
}
