// Package gitref checks that the remote refs a configuration points at exist.
// Syntax is already checked during validation; this package asks the GitHub
// API whether the branch, tag or commit is really there.
package gitref

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/v74/github"
	"github.com/vk/emucompose/internal/ctxlog"
	"github.com/vk/emucompose/internal/model"
	"github.com/vk/emucompose/internal/settings"
	"github.com/vk/emucompose/internal/source"
	"github.com/vk/emucompose/internal/validation"
)

// Prober reports whether ref exists in repo.
type Prober interface {
	RefExists(ctx context.Context, repo settings.Repo, ref string) (bool, error)
}

type cacheKey struct {
	repo string
	ref  string
}

// GitHubProber is a Prober backed by the GitHub REST API. Answers are cached
// per repository and ref for the lifetime of the prober.
type GitHubProber struct {
	client *github.Client

	mu    sync.Mutex
	cache map[cacheKey]bool
}

// NewGitHubProber creates a prober. A nil httpClient uses http.DefaultClient;
// an empty token makes unauthenticated requests.
func NewGitHubProber(httpClient *http.Client, token string) *GitHubProber {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubProber{client: client, cache: make(map[cacheKey]bool)}
}

// SetBaseURL points the prober at another API endpoint, such as a GitHub
// Enterprise server or a test server.
func (p *GitHubProber) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	p.client.BaseURL = u
	return nil
}

// RefExists implements Prober. Commit SHAs are looked up as commits; any
// other ref is tried as a branch, then as a tag.
func (p *GitHubProber) RefExists(ctx context.Context, repo settings.Repo, ref string) (bool, error) {
	key := cacheKey{repo: repo.Owner + "/" + repo.Name, ref: ref}
	p.mu.Lock()
	exists, ok := p.cache[key]
	p.mu.Unlock()
	if ok {
		return exists, nil
	}

	exists, err := p.lookup(ctx, repo, ref)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	p.cache[key] = exists
	p.mu.Unlock()
	return exists, nil
}

func (p *GitHubProber) lookup(ctx context.Context, repo settings.Repo, ref string) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	if source.IsCommitSHA(ref) {
		_, resp, err := p.client.Repositories.GetCommit(ctx, repo.Owner, repo.Name, ref, nil)
		logger.Debug("Probed commit.", "repo", repo.Name, "sha", ref, "status", status(resp))
		return found(resp, err)
	}

	for _, prefix := range []string{"heads/", "tags/"} {
		_, resp, err := p.client.Git.GetRef(ctx, repo.Owner, repo.Name, prefix+ref)
		logger.Debug("Probed ref.", "repo", repo.Name, "ref", prefix+ref, "status", status(resp))
		ok, err := found(resp, err)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// found maps a 404 to a missing ref and any other failure to an error.
func found(resp *github.Response, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity) {
		return false, nil
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false, fmt.Errorf("GitHub rate limit exceeded, set GITHUB_TOKEN: %w", err)
	}
	return false, fmt.Errorf("failed to query GitHub: %w", err)
}

func status(resp *github.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// Target is a remote source and the input field it was written in.
type Target struct {
	Field  string
	Source source.Source
}

// Targets lists every remote source of sys.
func Targets(sys *model.System) []Target {
	var targets []Target
	add := func(field string, src *source.Source) {
		if src != nil && src.IsRemote() {
			targets = append(targets, Target{Field: field, Source: *src})
		}
	}
	add("monorepo-source", &sys.Monorepo)
	add("ot3-firmware-source", sys.OT3Firmware)
	add("opentrons-modules-source", sys.ModulesSource)
	add("robot.source-location", &sys.Robot.Source)
	for i := range sys.Modules {
		add(fmt.Sprintf("modules[%d].source-location", i), &sys.Modules[i].Source)
	}
	return targets
}

// Check probes every target and reports each missing ref as a
// RemoteRefInvalid violation. Probe failures abort the check.
func Check(ctx context.Context, p Prober, targets []Target) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Checking remote refs.", "count", len(targets))

	var report validation.Report
	for _, t := range targets {
		ref := t.Source.Ref()
		ok, err := p.RefExists(ctx, t.Source.Repo, ref)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Field, err)
		}
		if !ok {
			report.Addf(validation.RemoteRefInvalid, t.Field,
				"%s has no branch, tag or commit named %q", t.Source.Repo.Name, ref)
		}
	}
	return report.Err()
}
