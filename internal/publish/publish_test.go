package publish

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/tbryce/muster/internal/army"
	"github.com/tbryce/muster/internal/config"
	"github.com/tbryce/muster/internal/herald"
	"github.com/tbryce/muster/internal/models"
	"github.com/tbryce/muster/internal/roster"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockContents simulates the repository-contents API.
type mockContents struct {
	existingSHA string // "" means the file does not exist yet
	getErr      error

	created *github.RepositoryContentFileOptions
	updated *github.RepositoryContentFileOptions
}

func (m *mockContents) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	if m.getErr != nil {
		return nil, nil, nil, m.getErr
	}
	if m.existingSHA == "" {
		return nil, nil, nil, &github.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusNotFound},
		}
	}
	return &github.RepositoryContent{SHA: github.Ptr(m.existingSHA)}, nil, nil, nil
}

func (m *mockContents) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	m.created = opts
	return nil, nil, nil
}

func (m *mockContents) UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	m.updated = opts
	return nil, nil, nil
}

func openPublishTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Army{}, &models.Unit{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	a, err := army.Create(db, army.CreateOpts{Name: "The Empire"})
	if err != nil {
		t.Fatalf("create army: %v", err)
	}
	u := models.Unit{ID: "unit-00000001", ArmyID: &a.ID, Name: "Spearmen", Category: models.CategoryUnit, ModelCount: 10, ProgressCount: 4, State: "Paint"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed unit: %v", err)
	}
	return db
}

func testPublisher(m *mockContents) *Publisher {
	return &Publisher{
		contents: m,
		cfg:      config.PublishConfig{Owner: "alice", Repo: "hobby-log", Branch: "main", Path: "PROGRESS.md"},
		now:      func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

func TestNew_Validates(t *testing.T) {
	if _, err := New(config.PublishConfig{Repo: "r", Token: "t"}); err == nil {
		t.Error("missing owner accepted")
	}
	if _, err := New(config.PublishConfig{Owner: "o", Repo: "r"}); err == nil {
		t.Error("missing token accepted")
	}
	if _, err := New(config.PublishConfig{Owner: "o", Repo: "r", Token: "t"}); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestPublish_CreatesOnFirstRun(t *testing.T) {
	db := openPublishTestDB(t)
	m := &mockContents{}
	p := testPublisher(m)

	body, err := p.Publish(context.Background(), db, roster.DefaultStages())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if m.created == nil {
		t.Fatal("CreateFile not called for a missing file")
	}
	if m.updated != nil {
		t.Fatal("UpdateFile called for a missing file")
	}
	if string(m.created.Content) != body {
		t.Error("committed content differs from returned body")
	}
	if !strings.Contains(body, "The Empire") || !strings.Contains(body, "4/10 models") {
		t.Errorf("body missing progress lines:\n%s", body)
	}
	if !strings.Contains(body, "2026-03-14") {
		t.Errorf("body missing the snapshot date:\n%s", body)
	}
}

func TestPublish_UpdatesExistingFile(t *testing.T) {
	db := openPublishTestDB(t)
	m := &mockContents{existingSHA: "abc123"}
	p := testPublisher(m)

	if _, err := p.Publish(context.Background(), db, roster.DefaultStages()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if m.updated == nil {
		t.Fatal("UpdateFile not called for an existing file")
	}
	if m.updated.SHA == nil || *m.updated.SHA != "abc123" {
		t.Errorf("update SHA = %v, want abc123", m.updated.SHA)
	}
}

func TestPublish_GetError(t *testing.T) {
	db := openPublishTestDB(t)
	m := &mockContents{getErr: errors.New("api down")}
	p := testPublisher(m)
	if _, err := p.Publish(context.Background(), db, roster.DefaultStages()); err == nil {
		t.Fatal("get error swallowed")
	}
}

func TestPublish_NoArmies(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Army{}, &models.Unit{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	p := testPublisher(&mockContents{})
	if _, err := p.Publish(context.Background(), db, roster.DefaultStages()); err == nil {
		t.Fatal("publish with no armies succeeded")
	}
}

func TestRenderSnapshot_StageTable(t *testing.T) {
	report := &herald.DigestReport{
		Armies: []army.Progress{
			{
				Name: "Bretonnia", UnitCount: 2, TotalModels: 18, PaintedModels: 8,
				ByState: []army.StateCount{{State: "Unstarted", Count: 1}, {State: "Done", Count: 1}},
			},
		},
		TotalModels:   18,
		PaintedModels: 8,
	}
	got := RenderSnapshot(report, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	for _, want := range []string{"## Bretonnia", "| Unstarted | 1 |", "| Done | 1 |", "**Overall: 8/18 models painted**"} {
		if !strings.Contains(got, want) {
			t.Errorf("snapshot missing %q:\n%s", want, got)
		}
	}
}
