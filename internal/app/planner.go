package app

import (
	"path/filepath"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// Planner resolves descriptors into jobs by looking at the local tree
type Planner struct {
	baseDir string
	exists  func(path string) bool
}

// NewPlanner creates a planner rooted at baseDir. An empty baseDir means
// the current working directory.
func NewPlanner(baseDir string) *Planner {
	if baseDir == "" {
		baseDir = "."
	}
	return &Planner{
		baseDir: baseDir,
		exists:  utils.DirExists,
	}
}

// Plan returns a fetch job when a directory named after the repository
// already exists under the base directory, and a clone job otherwise.
func (p *Planner) Plan(d domain.Descriptor) domain.Job {
	path := filepath.Join(p.baseDir, d.Name)

	action := domain.ActionClone
	if p.exists(path) {
		action = domain.ActionFetch
	}

	return domain.Job{
		Descriptor: d,
		Path:       path,
		Action:     action,
	}
}

// PlanAll plans every descriptor, keeping input order
func (p *Planner) PlanAll(descriptors []domain.Descriptor) []domain.Job {
	jobs := make([]domain.Job, 0, len(descriptors))
	for _, d := range descriptors {
		jobs = append(jobs, p.Plan(d))
	}
	return jobs
}
