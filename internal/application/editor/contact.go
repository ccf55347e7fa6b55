package editor

import (
	"strings"
	"sync"

	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

type LinkField string

const (
	LinkFieldPlatform LinkField = "platform"
	LinkFieldURL      LinkField = "url"
	LinkFieldIcon     LinkField = "icon"
)

type LinkCandidate struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

func emptyLinkCandidate() LinkCandidate {
	first := portfolio.SocialPlatforms[0]
	return LinkCandidate{Platform: first.Name, Icon: first.Icon}
}

type ContactEditor struct {
	store *store.DocumentStore
	newID func() string

	mu        sync.Mutex
	candidate LinkCandidate
}

func NewContactEditor(d Deps) *ContactEditor {
	d = d.withDefaults()
	return &ContactEditor{store: d.Store, newID: d.NewID, candidate: emptyLinkCandidate()}
}

func (e *ContactEditor) update(p portfolio.ContactPatch) error {
	return translate(e.store.UpdateContact(p))
}

func (e *ContactEditor) SetEmail(v string) error { return e.update(portfolio.ContactPatch{Email: &v}) }
func (e *ContactEditor) SetPhone(v string) error { return e.update(portfolio.ContactPatch{Phone: &v}) }

func (e *ContactEditor) SetShowContactForm(v bool) error {
	return e.update(portfolio.ContactPatch{ShowContactForm: &v})
}

func (e *ContactEditor) Candidate() LinkCandidate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidate
}

// SetCandidatePlatform also resets the candidate's icon from the platform
// table.
func (e *ContactEditor) SetCandidatePlatform(platform string) {
	e.mu.Lock()
	e.candidate.Platform = platform
	e.candidate.Icon = portfolio.IconForPlatform(platform)
	e.mu.Unlock()
}

func (e *ContactEditor) SetCandidateURL(url string) {
	e.mu.Lock()
	e.candidate.URL = url
	e.mu.Unlock()
}

// AddSocialLink appends the candidate and resets it.
func (e *ContactEditor) AddSocialLink() (portfolio.SocialLink, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	link, err := e.add(e.candidate)
	if err != nil {
		return portfolio.SocialLink{}, err
	}
	e.candidate = emptyLinkCandidate()
	return link, nil
}

// AddLink appends c directly. The icon is derived from the platform when
// left empty.
func (e *ContactEditor) AddLink(c LinkCandidate) (portfolio.SocialLink, error) {
	if c.Icon == "" {
		c.Icon = portfolio.IconForPlatform(c.Platform)
	}
	return e.add(c)
}

func (e *ContactEditor) add(c LinkCandidate) (portfolio.SocialLink, error) {
	if strings.TrimSpace(c.URL) == "" {
		return portfolio.SocialLink{}, invalid("social link url is required")
	}
	link := portfolio.SocialLink{ID: e.newID(), Platform: c.Platform, URL: c.URL, Icon: c.Icon}
	err := e.mutate(func(links []portfolio.SocialLink) ([]portfolio.SocialLink, error) {
		return append(links, link), nil
	})
	if err != nil {
		return portfolio.SocialLink{}, err
	}
	return link, nil
}

// EditSocialLinkAt changes one field; a platform change also updates the
// icon.
func (e *ContactEditor) EditSocialLinkAt(index int, field LinkField, value string) error {
	return e.mutate(func(links []portfolio.SocialLink) ([]portfolio.SocialLink, error) {
		if index < 0 || index >= len(links) {
			return nil, invalid("social link index %d out of range", index)
		}
		if err := setLinkField(&links[index], field, value); err != nil {
			return nil, err
		}
		return links, nil
	})
}

// EditSocialLink is EditSocialLinkAt addressed by link id.
func (e *ContactEditor) EditSocialLink(id string, field LinkField, value string) error {
	return e.mutate(func(links []portfolio.SocialLink) ([]portfolio.SocialLink, error) {
		i := indexOfLink(links, id)
		if i < 0 {
			return nil, apperror.NewNotFound("social link", id)
		}
		if err := setLinkField(&links[i], field, value); err != nil {
			return nil, err
		}
		return links, nil
	})
}

func (e *ContactEditor) RemoveSocialLinkAt(index int) error {
	return e.mutate(func(links []portfolio.SocialLink) ([]portfolio.SocialLink, error) {
		if index < 0 || index >= len(links) {
			return nil, invalid("social link index %d out of range", index)
		}
		return append(links[:index:index], links[index+1:]...), nil
	})
}

func (e *ContactEditor) RemoveSocialLink(id string) error {
	return e.mutate(func(links []portfolio.SocialLink) ([]portfolio.SocialLink, error) {
		i := indexOfLink(links, id)
		if i < 0 {
			return nil, apperror.NewNotFound("social link", id)
		}
		return append(links[:i:i], links[i+1:]...), nil
	})
}

func (e *ContactEditor) mutate(fn func([]portfolio.SocialLink) ([]portfolio.SocialLink, error)) error {
	return translate(e.store.Mutate(func(cur *portfolio.Portfolio) (portfolio.Patch, error) {
		next, err := fn(cur.Contact.SocialLinks)
		if err != nil {
			return nil, err
		}
		return portfolio.ContactPatch{SocialLinks: &next}, nil
	}))
}

func setLinkField(l *portfolio.SocialLink, field LinkField, value string) error {
	switch field {
	case LinkFieldPlatform:
		l.Platform = value
		l.Icon = portfolio.IconForPlatform(value)
	case LinkFieldURL:
		l.URL = value
	case LinkFieldIcon:
		l.Icon = value
	default:
		return invalid("unknown social link field %q", field)
	}
	return nil
}

func indexOfLink(links []portfolio.SocialLink, id string) int {
	for i, l := range links {
		if l.ID == id {
			return i
		}
	}
	return -1
}
