package domain

import (
	"fmt"
	"strings"
)

// Update mask field names accepted by UpdateTaskParams.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldChecklist   = "checklist"
	FieldEffort      = "effort"
	FieldComplexity  = "complexity"
	FieldGithubURL   = "github_url"
	FieldPipefyURL   = "pipefy_url"
	FieldNotionURL   = "notion_url"
)

// Valid fields for UpdateTaskParams.
var updateTaskValidFields = map[string]struct{}{
	FieldTitle:       {},
	FieldDescription: {},
	FieldChecklist:   {},
	FieldEffort:      {},
	FieldComplexity:  {},
	FieldGithubURL:   {},
	FieldPipefyURL:   {},
	FieldNotionURL:   {},
}

// UpdateTaskParams carries a partial update. Only fields named in UpdateMask are applied.
// Status and order are changed through dedicated operations, never through an update.
type UpdateTaskParams struct {
	ID          int
	UpdateMask  []string
	Title       *string
	Description *string
	Checklist   []ChecklistItem
	Effort      *Effort
	Complexity  *Complexity
	GithubURL   *string
	PipefyURL   *string
	NotionURL   *string
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTaskParams) Validate() error {
	if err := ValidateTaskID(p.ID); err != nil {
		return err
	}
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))

	for _, field := range p.UpdateMask {
		if _, ok := updateTaskValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet[FieldTitle] {
		if p.Title == nil {
			return ErrTitleRequired
		}
		if _, err := NewTitle(*p.Title); err != nil {
			return err
		}
	}
	if maskSet[FieldEffort] {
		if p.Effort == nil {
			return fmt.Errorf("%w: effort value missing", ErrInvalidEffort)
		}
		// Stored values must already be canonical; NewEffort maps "" to the default.
		if e, err := NewEffort(string(*p.Effort)); err != nil || e != *p.Effort {
			return fmt.Errorf("%w: %q", ErrInvalidEffort, *p.Effort)
		}
	}
	if maskSet[FieldComplexity] {
		if p.Complexity == nil {
			return fmt.Errorf("%w: complexity value missing", ErrInvalidComplexity)
		}
		if c, err := NewComplexity(string(*p.Complexity)); err != nil || c != *p.Complexity {
			return fmt.Errorf("%w: %q", ErrInvalidComplexity, *p.Complexity)
		}
	}

	return nil
}

// NewTaskParams describes a task to create.
// Empty Effort, Complexity or Status fall back to the package defaults.
type NewTaskParams struct {
	ID          int
	Title       string
	Description string
	Checklist   []string
	Effort      string
	Complexity  string
	Status      string
	GithubURL   string
	PipefyURL   string
	NotionURL   string
}

// NormalizedTask holds validated creation input.
type NormalizedTask struct {
	ID          int
	Title       Title
	Description string
	Checklist   []string
	Effort      Effort
	Complexity  Complexity
	Status      TaskStatus
	GithubURL   *string
	PipefyURL   *string
	NotionURL   *string
}

// Normalize validates the params and applies defaults.
func (p NewTaskParams) Normalize() (NormalizedTask, error) {
	if err := ValidateTaskID(p.ID); err != nil {
		return NormalizedTask{}, err
	}
	title, err := NewTitle(p.Title)
	if err != nil {
		return NormalizedTask{}, err
	}
	effort, err := NewEffort(p.Effort)
	if err != nil {
		return NormalizedTask{}, err
	}
	complexity, err := NewComplexity(p.Complexity)
	if err != nil {
		return NormalizedTask{}, err
	}
	status := DefaultStatus
	if strings.TrimSpace(p.Status) != "" {
		if status, err = NewTaskStatus(p.Status); err != nil {
			return NormalizedTask{}, err
		}
	}

	var checklist []string
	for _, text := range p.Checklist {
		if text = strings.TrimSpace(text); text != "" {
			checklist = append(checklist, text)
		}
	}

	return NormalizedTask{
		ID:          p.ID,
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Checklist:   checklist,
		Effort:      effort,
		Complexity:  complexity,
		Status:      status,
		GithubURL:   optionalURL(p.GithubURL),
		PipefyURL:   optionalURL(p.PipefyURL),
		NotionURL:   optionalURL(p.NotionURL),
	}, nil
}

func optionalURL(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
