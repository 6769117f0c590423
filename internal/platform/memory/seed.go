package memory

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

const seedDescription = "This is a seed task."

// seedFile is the YAML layout of a seed fixture.
type seedFile struct {
	Tasks []seedTask `yaml:"tasks"`
}

type seedTask struct {
	ReferenceID   int64  `yaml:"reference_id"`
	ReferenceType string `yaml:"reference_type"`
	Task          string `yaml:"task"`
	AssigneeID    int64  `yaml:"assignee_id"`
	Status        string `yaml:"status"`
	Priority      string `yaml:"priority"`
	Description   string `yaml:"description"`
	DeadlineIn    string `yaml:"deadline_in"`
	CreatedAgo    string `yaml:"created_ago"`
}

// DefaultSeed returns the built-in fixture.
func DefaultSeed() []byte {
	out := make([]byte, len(defaultSeed))
	copy(out, defaultSeed)
	return out
}

// ReadSeedFile reads a fixture from disk, or returns the built-in fixture
// when path is empty.
func ReadSeedFile(path string) ([]byte, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return data, nil
}

// Seed parses a YAML fixture and creates its tasks in ts, in file order,
// inside a single transaction. Relative times in the fixture are resolved
// against now. Returns the number of tasks created.
func Seed(ctx context.Context, ts store.TaskStore, data []byte, now time.Time) (int, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse seed data: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(file.Tasks))
	for i, st := range file.Tasks {
		t, err := st.toTask(now)
		if err != nil {
			return 0, fmt.Errorf("seed task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}

	err := ts.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		for i, t := range tasks {
			if err := tx.Create(ctx, t); err != nil {
				return fmt.Errorf("seed task %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (st seedTask) toTask(now time.Time) (*domain.Task, error) {
	createdAt := now
	if st.CreatedAgo != "" {
		ago, err := time.ParseDuration(st.CreatedAgo)
		if err != nil {
			return nil, fmt.Errorf("invalid created_ago: %w", err)
		}
		createdAt = now.Add(-ago)
	}

	var deadline *time.Time
	if st.DeadlineIn != "" {
		in, err := time.ParseDuration(st.DeadlineIn)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline_in: %w", err)
		}
		d := now.Add(in)
		deadline = &d
	}

	description := st.Description
	if description == "" {
		description = seedDescription
	}

	t, err := domain.NewTask(domain.TaskParams{
		ReferenceID:   st.ReferenceID,
		ReferenceType: domain.ReferenceType(st.ReferenceType),
		Kind:          domain.TaskKind(st.Task),
		AssigneeID:    st.AssigneeID,
		Priority:      domain.Priority(st.Priority),
		Deadline:      deadline,
		Description:   description,
	}, createdAt)
	if err != nil {
		return nil, err
	}

	if st.Status != "" {
		status := domain.TaskStatus(st.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidTaskStatus
		}
		t.Status = status
	}
	return t, nil
}
