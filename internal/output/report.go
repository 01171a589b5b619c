package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// ReportIndex is the JSON form of a batch report
type ReportIndex struct {
	GeneratedAt  time.Time   `json:"generated_at"`
	BatchID      string      `json:"batch_id"`
	DryRun       bool        `json:"dry_run"`
	Total        int         `json:"total"`
	Completed    int         `json:"completed"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
	DurationMS   int64       `json:"duration_ms"`
	Repositories []RepoEntry `json:"repositories"`
}

// RepoEntry describes one repository of the batch
type RepoEntry struct {
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Path       string        `json:"path,omitempty"`
	Action     domain.Action `json:"action,omitempty"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"duration_ms,omitempty"`
}

// BuildIndex converts a report into its JSON form. Repositories are
// sorted by name; a dry run lists the selected repositories instead of
// job results.
func BuildIndex(report *domain.Report, generatedAt time.Time) *ReportIndex {
	index := &ReportIndex{
		GeneratedAt: generatedAt,
		BatchID:     report.BatchID,
		DryRun:      report.DryRun,
		Total:       report.Total,
		Completed:   report.Completed,
		Succeeded:   report.Succeeded,
		Failed:      report.Failed,
		DurationMS:  report.Duration.Milliseconds(),
	}

	if report.DryRun {
		index.Repositories = make([]RepoEntry, 0, len(report.Selected))
		for _, d := range report.Selected {
			index.Repositories = append(index.Repositories, RepoEntry{
				Name: d.Name,
				URL:  d.URL(),
				OK:   true,
			})
		}
	} else {
		index.Repositories = make([]RepoEntry, 0, len(report.Results))
		for _, res := range report.Results {
			entry := RepoEntry{
				Name:       res.Job.Name(),
				URL:        res.Job.Descriptor.URL(),
				Path:       res.Job.Path,
				Action:     res.Job.Action,
				OK:         res.OK(),
				DurationMS: res.Duration.Milliseconds(),
			}
			if res.Err != nil {
				entry.Error = res.Err.Error()
			}
			index.Repositories = append(index.Repositories, entry)
		}
	}

	sort.Slice(index.Repositories, func(i, j int) bool {
		return index.Repositories[i].Name < index.Repositories[j].Name
	})
	return index
}

// WriteReportFile writes the report as indented JSON to path, creating
// parent directories as needed
func WriteReportFile(path string, report *domain.Report) error {
	data, err := json.MarshalIndent(BuildIndex(report, time.Now()), "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
