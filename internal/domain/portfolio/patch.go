package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

// Patch is a sparse, section-scoped update. Nil fields are absent and left
// untouched by Apply; present fields overwrite. Collections are replaced
// wholesale, never merged element-wise.
type Patch interface {
	Section() Section
	Apply(p *Portfolio)
}

var ErrInvalidPatch = errors.New("invalid patch")

func Ptr[T any](v T) *T { return &v }

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// NewPatch returns an empty patch for section, ready to be decoded into.
func NewPatch(section Section) (Patch, error) {
	switch section {
	case SectionHero:
		return &HeroPatch{}, nil
	case SectionAbout:
		return &AboutPatch{}, nil
	case SectionSkills:
		return &SkillsPatch{}, nil
	case SectionProjects:
		return &ProjectsPatch{}, nil
	case SectionContact:
		return &ContactPatch{}, nil
	case SectionTheme:
		return &ThemePatch{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

// Validate runs the patch's own checks when it has any.
func Validate(p Patch) error {
	v, ok := p.(interface{ Validate() error })
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPatch, p.Section(), err)
	}
	return nil
}

type HeroPatch struct {
	Name       *string `json:"name,omitempty"`
	Title      *string `json:"title,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	CTAText    *string `json:"cta_text,omitempty"`
	CTAURL     *string `json:"cta_url,omitempty"`
	AboutTitle *string `json:"about_title,omitempty"`
}

func (HeroPatch) Section() Section { return SectionHero }

func (h HeroPatch) Apply(p *Portfolio) {
	setIfPresent(&p.Hero.Name, h.Name)
	setIfPresent(&p.Hero.Title, h.Title)
	setIfPresent(&p.Hero.AvatarURL, h.AvatarURL)
	setIfPresent(&p.Hero.CTAText, h.CTAText)
	setIfPresent(&p.Hero.CTAURL, h.CTAURL)
	setIfPresent(&p.Hero.AboutTitle, h.AboutTitle)
}

type AboutPatch struct {
	Bio     *string `json:"bio,omitempty"`
	Mission *string `json:"mission,omitempty"`
}

func (AboutPatch) Section() Section { return SectionAbout }

func (a AboutPatch) Apply(p *Portfolio) {
	setIfPresent(&p.About.Bio, a.Bio)
	setIfPresent(&p.About.Mission, a.Mission)
}

type SkillsPatch struct {
	Skills *[]Skill `json:"skills,omitempty"`
}

func (SkillsPatch) Section() Section { return SectionSkills }

func (s SkillsPatch) Apply(p *Portfolio) {
	if s.Skills != nil {
		p.Skills.Skills = append([]Skill{}, (*s.Skills)...)
	}
}

func (s SkillsPatch) Validate() error {
	if s.Skills == nil {
		return nil
	}
	// Names may be blank mid-edit; only categories are constrained.
	for i, sk := range *s.Skills {
		if !sk.Category.Valid() {
			return fmt.Errorf("skill %d: unknown category %q", i, sk.Category)
		}
	}
	return nil
}

type ProjectsPatch struct {
	Projects *[]Project `json:"projects,omitempty"`
}

func (ProjectsPatch) Section() Section { return SectionProjects }

func (pp ProjectsPatch) Apply(p *Portfolio) {
	if pp.Projects == nil {
		return
	}
	projects := make([]Project, len(*pp.Projects))
	for i, pr := range *pp.Projects {
		projects[i] = pr.Clone()
	}
	p.Projects.Projects = projects
}

func (pp ProjectsPatch) Validate() error {
	if pp.Projects == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(*pp.Projects))
	for i, pr := range *pp.Projects {
		if pr.ID == "" {
			return fmt.Errorf("project %d has no id", i)
		}
		if _, dup := seen[pr.ID]; dup {
			return fmt.Errorf("duplicate project id %q", pr.ID)
		}
		seen[pr.ID] = struct{}{}
		if !pr.MediaConsistent() {
			return fmt.Errorf("project %q: media_type %q does not match its media", pr.ID, pr.MediaType)
		}
	}
	return nil
}

type ContactPatch struct {
	Email           *string       `json:"email,omitempty"`
	Phone           *string       `json:"phone,omitempty"`
	SocialLinks     *[]SocialLink `json:"social_links,omitempty"`
	ShowContactForm *bool         `json:"show_contact_form,omitempty"`
}

func (ContactPatch) Section() Section { return SectionContact }

func (c ContactPatch) Apply(p *Portfolio) {
	setIfPresent(&p.Contact.Email, c.Email)
	setIfPresent(&p.Contact.Phone, c.Phone)
	setIfPresent(&p.Contact.ShowContactForm, c.ShowContactForm)
	if c.SocialLinks != nil {
		p.Contact.SocialLinks = append([]SocialLink{}, (*c.SocialLinks)...)
	}
}

type ThemePatch struct {
	Mode           *ThemeMode `json:"mode,omitempty"`
	DarkOpacity    *float64   `json:"dark_opacity,omitempty"`
	PrimaryColor   *string    `json:"primary_color,omitempty"`
	SecondaryColor *string    `json:"secondary_color,omitempty"`
	AccentColor    *string    `json:"accent_color,omitempty"`
	FontFamily     *string    `json:"font_family,omitempty"`
}

func (ThemePatch) Section() Section { return SectionTheme }

func (t ThemePatch) Apply(p *Portfolio) {
	setIfPresent(&p.Theme.Mode, t.Mode)
	setIfPresent(&p.Theme.DarkOpacity, t.DarkOpacity)
	setIfPresent(&p.Theme.PrimaryColor, t.PrimaryColor)
	setIfPresent(&p.Theme.SecondaryColor, t.SecondaryColor)
	setIfPresent(&p.Theme.AccentColor, t.AccentColor)
	setIfPresent(&p.Theme.FontFamily, t.FontFamily)
}

func (t ThemePatch) Validate() error {
	if t.Mode != nil {
		if _, err := ParseThemeMode(string(*t.Mode)); err != nil {
			return err
		}
	}
	if t.DarkOpacity != nil {
		if err := ValidateDarkOpacity(*t.DarkOpacity); err != nil {
			return err
		}
	}
	for _, c := range []*string{t.PrimaryColor, t.SecondaryColor, t.AccentColor} {
		if c != nil {
			if err := ValidateColor(*c); err != nil {
				return err
			}
		}
	}
	if t.FontFamily != nil && strings.TrimSpace(*t.FontFamily) == "" {
		return ErrInvalidFont
	}
	return nil
}
