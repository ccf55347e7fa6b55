package editor

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

// Draft is the project currently being composed. It is one of NoDraft,
// DraftingNew or DraftingExisting.
type Draft interface {
	isDraft()
}

type NoDraft struct{}

// DraftingNew composes a project that is appended on save.
type DraftingNew struct {
	Project portfolio.Project
}

// DraftingExisting edits a committed project; save replaces it by ID.
type DraftingExisting struct {
	ID      string
	Project portfolio.Project
}

func (NoDraft) isDraft()          {}
func (DraftingNew) isDraft()      {}
func (DraftingExisting) isDraft() {}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case MediaKindImage, MediaKindVideo:
		return MediaKind(s), nil
	}
	return "", invalid("media kind must be image or video, got %q", s)
}

var errNoDraft = apperror.NewStateConflict("no project draft is open", nil)

type ProjectsEditor struct {
	store    *store.DocumentStore
	notifier service.Notifier
	uploader uploader
	newID    func() string

	mu    sync.Mutex
	draft Draft
}

func NewProjectsEditor(d Deps) *ProjectsEditor {
	d = d.withDefaults()
	return &ProjectsEditor{
		store:    d.Store,
		notifier: d.Notifier,
		uploader: newUploader(d),
		newID:    d.NewID,
		draft:    NoDraft{},
	}
}

// Draft returns a copy of the current draft state.
func (e *ProjectsEditor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneDraft(e.draft)
}

// DraftProject returns the project under composition, if any.
func (e *ProjectsEditor) DraftProject() (portfolio.Project, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := draftProject(e.draft)
	if p == nil {
		return portfolio.Project{}, false
	}
	return p.Clone(), true
}

// BeginNew opens a blank draft, discarding any draft in progress.
func (e *ProjectsEditor) BeginNew() portfolio.Project {
	p := portfolio.Project{ID: e.newID(), TechStack: []string{}}
	e.mu.Lock()
	e.draft = DraftingNew{Project: p}
	e.mu.Unlock()
	return p.Clone()
}

// BeginEdit opens a draft over a copy of the committed project id.
func (e *ProjectsEditor) BeginEdit(id string) (portfolio.Project, error) {
	doc, ok := e.store.Document()
	if !ok {
		return portfolio.Project{}, translate(store.ErrNoDocument)
	}
	i := doc.Projects.FindProject(id)
	if i < 0 {
		return portfolio.Project{}, apperror.NewNotFound("project", id)
	}
	p := doc.Projects.Projects[i].Clone()
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	e.mu.Lock()
	e.draft = DraftingExisting{ID: id, Project: p}
	e.mu.Unlock()
	return p.Clone(), nil
}

// UpdateDraft applies fn to the draft project and re-derives its media
// type.
func (e *ProjectsEditor) UpdateDraft(fn func(p *portfolio.Project)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := draftProject(e.draft)
	if p == nil {
		return errNoDraft
	}
	id := p.ID
	fn(p)
	p.ID = id
	p.SyncMediaType()
	e.draft = withProject(e.draft, *p)
	return nil
}

func (e *ProjectsEditor) SetTitle(v string) error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.Title = v })
}

func (e *ProjectsEditor) SetDescription(v string) error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.Description = v })
}

func (e *ProjectsEditor) SetLiveURL(v string) error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.LiveURL = v })
}

func (e *ProjectsEditor) SetGithubURL(v string) error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.GithubURL = v })
}

// AddTech appends a trimmed technology unless it is blank or present.
func (e *ProjectsEditor) AddTech(tech string) error {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return invalid("technology name is required")
	}
	return e.UpdateDraft(func(p *portfolio.Project) {
		for _, t := range p.TechStack {
			if t == tech {
				return
			}
		}
		p.TechStack = append(p.TechStack, tech)
	})
}

func (e *ProjectsEditor) RemoveTech(tech string) error {
	return e.UpdateDraft(func(p *portfolio.Project) {
		kept := make([]string, 0, len(p.TechStack))
		for _, t := range p.TechStack {
			if t != tech {
				kept = append(kept, t)
			}
		}
		p.TechStack = kept
	})
}

func (e *ProjectsEditor) AttachImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	return e.attach(ctx, MediaKindImage, file, filename)
}

func (e *ProjectsEditor) AttachVideo(ctx context.Context, file io.Reader, filename string) (string, error) {
	return e.attach(ctx, MediaKindVideo, file, filename)
}

// attach uploads first and mutates the draft only once the upload has
// resolved. A draft replaced or cancelled meanwhile is left alone.
func (e *ProjectsEditor) attach(ctx context.Context, kind MediaKind, file io.Reader, filename string) (string, error) {
	draftID, ok := e.draftID()
	if !ok {
		return "", errNoDraft
	}
	failed := "Failed to upload " + string(kind)
	e.notifier.Notify(service.NotifyInfo, "Uploading "+string(kind)+"...")

	url, err := e.uploader.upload(ctx, string(kind), "projects", file, fileExt(filename))
	if err != nil {
		e.notifier.Notify(service.NotifyError, failed)
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	p := draftProject(e.draft)
	if p == nil || p.ID != draftID {
		e.notifier.Notify(service.NotifyError, failed)
		return "", apperror.NewStateConflict("project draft changed during upload", nil)
	}
	switch kind {
	case MediaKindImage:
		p.ImageURL = url
	case MediaKindVideo:
		p.VideoURL = url
	}
	p.SyncMediaType()
	e.draft = withProject(e.draft, *p)

	if kind == MediaKindImage {
		e.notifier.Notify(service.NotifySuccess, "Image uploaded successfully!")
	} else {
		e.notifier.Notify(service.NotifySuccess, "Video uploaded successfully!")
	}
	return url, nil
}

func (e *ProjectsEditor) RemoveImage() error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.ImageURL = "" })
}

func (e *ProjectsEditor) RemoveVideo() error {
	return e.UpdateDraft(func(p *portfolio.Project) { p.VideoURL = "" })
}

func (e *ProjectsEditor) RemoveMedia(kind MediaKind) error {
	if kind == MediaKindVideo {
		return e.RemoveVideo()
	}
	return e.RemoveImage()
}

// Save commits the draft: an existing project is replaced in place, a new
// one is appended. The draft is cleared only when the write succeeds.
func (e *ProjectsEditor) Save() (portfolio.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := draftProject(e.draft)
	if p == nil {
		return portfolio.Project{}, errNoDraft
	}
	if strings.TrimSpace(p.Title) == "" {
		return portfolio.Project{}, invalid("project title is required")
	}
	saved := p.Clone()
	saved.SyncMediaType()

	err := e.store.Mutate(func(cur *portfolio.Portfolio) (portfolio.Patch, error) {
		projects := cur.Projects.Projects
		if i := cur.Projects.FindProject(saved.ID); i >= 0 {
			projects[i] = saved
		} else {
			projects = append(projects, saved)
		}
		return portfolio.ProjectsPatch{Projects: &projects}, nil
	})
	if err != nil {
		return portfolio.Project{}, translate(err)
	}
	e.draft = NoDraft{}
	return saved.Clone(), nil
}

// Cancel discards the draft without touching the document.
func (e *ProjectsEditor) Cancel() {
	e.mu.Lock()
	e.draft = NoDraft{}
	e.mu.Unlock()
}

func (e *ProjectsEditor) Delete(id string) error {
	return translate(e.store.Mutate(func(cur *portfolio.Portfolio) (portfolio.Patch, error) {
		i := cur.Projects.FindProject(id)
		if i < 0 {
			return nil, apperror.NewNotFound("project", id)
		}
		projects := append(cur.Projects.Projects[:i:i], cur.Projects.Projects[i+1:]...)
		return portfolio.ProjectsPatch{Projects: &projects}, nil
	}))
}

func (e *ProjectsEditor) draftID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := draftProject(e.draft)
	if p == nil {
		return "", false
	}
	return p.ID, true
}

// draftProject returns a copy of the draft's project, nil for NoDraft.
func draftProject(d Draft) *portfolio.Project {
	switch d := d.(type) {
	case DraftingNew:
		p := d.Project.Clone()
		return &p
	case DraftingExisting:
		p := d.Project.Clone()
		return &p
	}
	return nil
}

func withProject(d Draft, p portfolio.Project) Draft {
	switch d := d.(type) {
	case DraftingNew:
		return DraftingNew{Project: p}
	case DraftingExisting:
		return DraftingExisting{ID: d.ID, Project: p}
	}
	return d
}

func cloneDraft(d Draft) Draft {
	if p := draftProject(d); p != nil {
		return withProject(d, *p)
	}
	return NoDraft{}
}
