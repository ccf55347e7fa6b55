package editor

import (
	"strings"
	"sync"

	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

type SkillField string

const (
	SkillFieldName     SkillField = "name"
	SkillFieldCategory SkillField = "category"
	SkillFieldIcon     SkillField = "icon"
)

// SkillCandidate is the skill being composed before it is added.
type SkillCandidate struct {
	Name     string                  `json:"name"`
	Category portfolio.SkillCategory `json:"category"`
	Icon     string                  `json:"icon,omitempty"`
}

func emptySkillCandidate() SkillCandidate {
	return SkillCandidate{Category: portfolio.CategoryFrontend}
}

type SkillsEditor struct {
	store *store.DocumentStore
	newID func() string

	mu        sync.Mutex
	candidate SkillCandidate
}

func NewSkillsEditor(d Deps) *SkillsEditor {
	d = d.withDefaults()
	return &SkillsEditor{store: d.Store, newID: d.NewID, candidate: emptySkillCandidate()}
}

func (e *SkillsEditor) Candidate() SkillCandidate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidate
}

func (e *SkillsEditor) SetCandidateName(name string) {
	e.mu.Lock()
	e.candidate.Name = name
	e.mu.Unlock()
}

func (e *SkillsEditor) SetCandidateCategory(c string) error {
	category, err := portfolio.ParseSkillCategory(c)
	if err != nil {
		return invalid("%v", err)
	}
	e.mu.Lock()
	e.candidate.Category = category
	e.mu.Unlock()
	return nil
}

func (e *SkillsEditor) SetCandidateIcon(icon string) {
	e.mu.Lock()
	e.candidate.Icon = icon
	e.mu.Unlock()
}

// Add appends the candidate and resets it. A blank name is rejected and
// leaves the candidate as it was.
func (e *SkillsEditor) Add() (portfolio.Skill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	skill, err := e.add(e.candidate)
	if err != nil {
		return portfolio.Skill{}, err
	}
	e.candidate = emptySkillCandidate()
	return skill, nil
}

// AddSkill appends c directly, bypassing the candidate.
func (e *SkillsEditor) AddSkill(c SkillCandidate) (portfolio.Skill, error) {
	if c.Category == "" {
		c.Category = portfolio.CategoryFrontend
	}
	return e.add(c)
}

func (e *SkillsEditor) add(c SkillCandidate) (portfolio.Skill, error) {
	if strings.TrimSpace(c.Name) == "" {
		return portfolio.Skill{}, invalid("skill name is required")
	}
	if !c.Category.Valid() {
		return portfolio.Skill{}, invalid("unknown skill category %q", c.Category)
	}
	skill := portfolio.Skill{ID: e.newID(), Name: c.Name, Category: c.Category, Icon: c.Icon}
	err := e.mutate(func(skills []portfolio.Skill) ([]portfolio.Skill, error) {
		return append(skills, skill), nil
	})
	if err != nil {
		return portfolio.Skill{}, err
	}
	return skill, nil
}

func (e *SkillsEditor) EditAt(index int, field SkillField, value string) error {
	return e.mutate(func(skills []portfolio.Skill) ([]portfolio.Skill, error) {
		if index < 0 || index >= len(skills) {
			return nil, invalid("skill index %d out of range", index)
		}
		if err := setSkillField(&skills[index], field, value); err != nil {
			return nil, err
		}
		return skills, nil
	})
}

func (e *SkillsEditor) Edit(id string, field SkillField, value string) error {
	return e.mutate(func(skills []portfolio.Skill) ([]portfolio.Skill, error) {
		i := indexOfSkill(skills, id)
		if i < 0 {
			return nil, errSkillNotFound(id)
		}
		if err := setSkillField(&skills[i], field, value); err != nil {
			return nil, err
		}
		return skills, nil
	})
}

func (e *SkillsEditor) RemoveAt(index int) error {
	return e.mutate(func(skills []portfolio.Skill) ([]portfolio.Skill, error) {
		if index < 0 || index >= len(skills) {
			return nil, invalid("skill index %d out of range", index)
		}
		return append(skills[:index:index], skills[index+1:]...), nil
	})
}

func (e *SkillsEditor) Remove(id string) error {
	return e.mutate(func(skills []portfolio.Skill) ([]portfolio.Skill, error) {
		i := indexOfSkill(skills, id)
		if i < 0 {
			return nil, errSkillNotFound(id)
		}
		return append(skills[:i:i], skills[i+1:]...), nil
	})
}

// mutate hands fn a private copy of the committed list and writes back
// whatever it returns as a whole-list replacement.
func (e *SkillsEditor) mutate(fn func([]portfolio.Skill) ([]portfolio.Skill, error)) error {
	return translate(e.store.Mutate(func(cur *portfolio.Portfolio) (portfolio.Patch, error) {
		next, err := fn(cur.Skills.Skills)
		if err != nil {
			return nil, err
		}
		return portfolio.SkillsPatch{Skills: &next}, nil
	}))
}

func setSkillField(s *portfolio.Skill, field SkillField, value string) error {
	switch field {
	case SkillFieldName:
		s.Name = value
	case SkillFieldCategory:
		c, err := portfolio.ParseSkillCategory(value)
		if err != nil {
			return invalid("%v", err)
		}
		s.Category = c
	case SkillFieldIcon:
		s.Icon = value
	default:
		return invalid("unknown skill field %q", field)
	}
	return nil
}

func indexOfSkill(skills []portfolio.Skill, id string) int {
	for i, s := range skills {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func errSkillNotFound(id string) error {
	return apperror.NewNotFound("skill", id)
}
