package render

import "github.com/khoahotran/spotme/internal/domain/portfolio"

type Mode string

const (
	// ModePreview is the live-editing context: placeholders stand in for
	// missing fields.
	ModePreview Mode = "preview"
	// ModePublic is the published page: missing fields are omitted.
	ModePublic Mode = "public"
)

// Context selects the rendering policy. AllowDarkChrome lets the navigation
// chrome follow a dark theme; otherwise chrome stays light.
type Context struct {
	Mode            Mode `json:"mode"`
	AllowDarkChrome bool `json:"allow_dark_chrome"`
}

// View is a pure projection of a portfolio. It carries no markup; a
// presentation layer turns it into pages.
type View struct {
	Mode         Mode          `json:"mode"`
	Empty        bool          `json:"empty"`
	EmptyMessage string        `json:"empty_message,omitempty"`
	Username     string        `json:"username,omitempty"`
	Theme        ThemeView     `json:"theme"`
	Nav          *NavView      `json:"nav,omitempty"`
	Hero         HeroView      `json:"hero"`
	About        *AboutView    `json:"about,omitempty"`
	Skills       []SkillGroup  `json:"skills"`
	Projects     []ProjectCard `json:"projects"`
	Contact      ContactView   `json:"contact"`
	Footer       string        `json:"footer"`
}

type ThemeView struct {
	Mode             portfolio.ThemeMode `json:"mode"`
	Background       string              `json:"background"`
	Foreground       string              `json:"foreground"`
	CardBackground   string              `json:"card_background"`
	ChromeBackground string              `json:"chrome_background"`
	ChromeForeground string              `json:"chrome_foreground"`
	PrimaryColor     string              `json:"primary_color"`
	SecondaryColor   string              `json:"secondary_color"`
	AccentColor      string              `json:"accent_color"`
	FontFamily       string              `json:"font_family"`
}

type NavView struct {
	Brand string    `json:"brand,omitempty"`
	Links []NavLink `json:"links"`
}

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type HeroView struct {
	AvatarURL string   `json:"avatar_url,omitempty"`
	Greeting  string   `json:"greeting,omitempty"`
	Name      string   `json:"name,omitempty"`
	Title     string   `json:"title,omitempty"`
	CTA       *CTAView `json:"cta,omitempty"`
}

type CTATarget string

const (
	CTAAnchor   CTATarget = "anchor"
	CTAExternal CTATarget = "external"
	CTANone     CTATarget = "none"
)

type CTAView struct {
	Text   string    `json:"text"`
	Href   string    `json:"href,omitempty"`
	Target CTATarget `json:"target"`
}

type AboutView struct {
	Heading string `json:"heading"`
	Bio     string `json:"bio"`
	Mission string `json:"mission,omitempty"`
}

type SkillGroup struct {
	Category portfolio.SkillCategory `json:"category"`
	Skills   []string                `json:"skills"`
}

type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type MediaView struct {
	Kind   MediaKind `json:"kind"`
	Src    string    `json:"src,omitempty"`
	Poster string    `json:"poster,omitempty"`
}

type ProjectCard struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Media       MediaView `json:"media"`
	TechStack   []string  `json:"tech_stack"`
	LiveURL     string    `json:"live_url,omitempty"`
	GithubURL   string    `json:"github_url,omitempty"`
}

type ContactView struct {
	Heading         string        `json:"heading"`
	Blurb           string        `json:"blurb"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	SocialLinks     []SocialBadge `json:"social_links"`
	ShowContactForm bool          `json:"show_contact_form"`
}

type SocialBadge struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Initial  string `json:"initial"`
}
