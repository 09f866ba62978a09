// Package publish commits painting-progress snapshots to a GitHub repo.
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/tbryce/muster/internal/config"
	"github.com/tbryce/muster/internal/herald"
	"github.com/tbryce/muster/internal/roster"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// contentsService abstracts the go-github repository-contents calls we
// use, enabling test mocks.
type contentsService interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

// Publisher writes the snapshot file to the configured repository.
type Publisher struct {
	contents contentsService
	cfg      config.PublishConfig
	now      func() time.Time
}

// New creates a Publisher from the publish config. The token authenticates
// against the GitHub API.
func New(cfg config.PublishConfig) (*Publisher, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("publish: owner and repo are required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("publish: token is required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	return &Publisher{contents: client.Repositories, cfg: cfg, now: time.Now}, nil
}

// Publish renders the current progress of all armies and commits it to the
// configured path, creating the file on first publish and updating it
// afterwards. Returns the rendered markdown.
func (p *Publisher) Publish(ctx context.Context, db *gorm.DB, stages roster.Stages) (string, error) {
	report, err := herald.BuildDigest(db, stages)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	if report == nil {
		return "", fmt.Errorf("publish: no armies to report on")
	}

	body := RenderSnapshot(report, p.now())
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr("Update painting progress snapshot"),
		Content: []byte(body),
		Branch:  github.Ptr(p.cfg.Branch),
	}

	file, _, _, err := p.contents.GetContents(ctx, p.cfg.Owner, p.cfg.Repo, p.cfg.Path,
		&github.RepositoryContentGetOptions{Ref: p.cfg.Branch})
	switch {
	case err == nil && file != nil:
		opts.SHA = github.Ptr(file.GetSHA())
		if _, _, err := p.contents.UpdateFile(ctx, p.cfg.Owner, p.cfg.Repo, p.cfg.Path, opts); err != nil {
			return "", fmt.Errorf("publish: update %s: %w", p.cfg.Path, err)
		}
	case isNotFound(err):
		if _, _, err := p.contents.CreateFile(ctx, p.cfg.Owner, p.cfg.Repo, p.cfg.Path, opts); err != nil {
			return "", fmt.Errorf("publish: create %s: %w", p.cfg.Path, err)
		}
	default:
		return "", fmt.Errorf("publish: get %s: %w", p.cfg.Path, err)
	}
	return body, nil
}

func isNotFound(err error) bool {
	var gherr *github.ErrorResponse
	return errors.As(err, &gherr) && gherr.Response != nil && gherr.Response.StatusCode == 404
}
