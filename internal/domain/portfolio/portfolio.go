package portfolio

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Section string

const (
	SectionHero     Section = "hero"
	SectionAbout    Section = "about"
	SectionSkills   Section = "skills"
	SectionProjects Section = "projects"
	SectionContact  Section = "contact"
	SectionTheme    Section = "theme"
)

// Sections lists every section in document order.
var Sections = []Section{SectionHero, SectionAbout, SectionSkills, SectionProjects, SectionContact, SectionTheme}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == strings.ToLower(strings.TrimSpace(s)) {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

type Portfolio struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Username    string          `json:"username"`
	Hero        HeroSection     `json:"hero"`
	About       AboutSection    `json:"about"`
	Skills      SkillsSection   `json:"skills"`
	Projects    ProjectsSection `json:"projects"`
	Contact     ContactSection  `json:"contact"`
	Theme       ThemeSettings   `json:"theme"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type HeroSection struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	CTAText    string `json:"cta_text"`
	CTAURL     string `json:"cta_url,omitempty"`
	AboutTitle string `json:"about_title,omitempty"`
}

type AboutSection struct {
	Bio     string `json:"bio"`
	Mission string `json:"mission,omitempty"`
}

type SkillsSection struct {
	Skills []Skill `json:"skills"`
}

type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Icon     string        `json:"icon,omitempty"`
}

type ProjectsSection struct {
	Projects []Project `json:"projects"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	MediaType   MediaType `json:"media_type,omitempty"`
	LiveURL     string    `json:"live_url,omitempty"`
	GithubURL   string    `json:"github_url,omitempty"`
	TechStack   []string  `json:"tech_stack"`
}

type ContactSection struct {
	Email           string       `json:"email"`
	Phone           string       `json:"phone,omitempty"`
	SocialLinks     []SocialLink `json:"social_links"`
	ShowContactForm bool         `json:"show_contact_form"`
}

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

type ThemeSettings struct {
	Mode           ThemeMode `json:"mode"`
	DarkOpacity    float64   `json:"dark_opacity"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	AccentColor    string    `json:"accent_color"`
	FontFamily     string    `json:"font_family"`
}

var (
	ErrNotFound       = errors.New("portfolio not found")
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidSlug    = errors.New("username only allows lowercase letters, numbers, and hyphens")
	usernameRegex     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

const DefaultUsername = "user"

// NewDefault builds the document a user starts from on first entry to the
// editor.
func NewDefault(userID uuid.UUID, username, email string, now time.Time) *Portfolio {
	if username == "" {
		username = DefaultUsername
	}
	now = now.UTC()
	return &Portfolio{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		Hero: HeroSection{
			CTAText: "See my work",
		},
		Skills:   SkillsSection{Skills: []Skill{}},
		Projects: ProjectsSection{Projects: []Project{}},
		Contact: ContactSection{
			Email:           email,
			SocialLinks:     []SocialLink{},
			ShowContactForm: true,
		},
		Theme:       DefaultTheme(),
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Portfolio) Validate() error {
	if !usernameRegex.MatchString(p.Username) {
		return ErrInvalidSlug
	}
	return p.Theme.Validate()
}

// Clone returns a deep copy; no slice is shared with the receiver.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills.Skills = append([]Skill(nil), p.Skills.Skills...)
	c.Projects.Projects = make([]Project, len(p.Projects.Projects))
	for i, pr := range p.Projects.Projects {
		c.Projects.Projects[i] = pr.Clone()
	}
	c.Contact.SocialLinks = append([]SocialLink(nil), p.Contact.SocialLinks...)
	if c.Skills.Skills == nil {
		c.Skills.Skills = []Skill{}
	}
	if c.Contact.SocialLinks == nil {
		c.Contact.SocialLinks = []SocialLink{}
	}
	return &c
}

func (p Project) Clone() Project {
	p.TechStack = append([]string{}, p.TechStack...)
	return p
}

// FindProject returns the index of the project with id, or -1.
func (s ProjectsSection) FindProject(id string) int {
	for i, p := range s.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Portfolio, error)
	FindPublishedByUsername(ctx context.Context, username string) (*Portfolio, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*Portfolio, error)
	Save(ctx context.Context, p *Portfolio) error
	Publish(ctx context.Context, p *Portfolio) error
}
