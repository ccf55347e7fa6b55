// Package render derives presentation views from a portfolio document.
// Rendering is pure: the same document and context always give the same
// view.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

const (
	PlaceholderName  = "Your Name"
	PlaceholderTitle = "Your Professional Title"
	EmptyPreview     = "Start editing to see your portfolio preview"

	defaultAboutHeading = "About Me"
	contactHeading      = "Contact"
	contactBlurb        = "I'm currently available for freelance work. Get in touch with me via email or through social media."
	copyrightYear       = "2024"

	lightBackground = "#FFFFFF"
	lightForeground = "#111827"
	darkForeground  = "#FFFFFF"
	lightChrome     = "rgba(255,255,255,0.95)"
	darkChrome      = "rgba(17,24,39,0.95)"
)

var navLinks = []NavLink{
	{Label: "Home", Href: "#home"},
	{Label: "About", Href: "#about"},
	{Label: "Projects", Href: "#projects"},
	{Label: "Contact", Href: "#contact"},
}

// Render projects p under ctx. A nil portfolio yields the empty state.
func Render(p *portfolio.Portfolio, ctx Context) View {
	if ctx.Mode == "" {
		ctx.Mode = ModePreview
	}
	if p == nil {
		v := View{
			Mode:     ctx.Mode,
			Empty:    true,
			Theme:    Theme(portfolio.DefaultTheme(), ctx),
			Skills:   []SkillGroup{},
			Projects: []ProjectCard{},
			Contact:  ContactView{SocialLinks: []SocialBadge{}},
		}
		if ctx.Mode == ModePreview {
			v.EmptyMessage = EmptyPreview
		}
		return v
	}

	preview := ctx.Mode == ModePreview
	v := View{
		Mode:     ctx.Mode,
		Username: p.Username,
		Theme:    Theme(p.Theme, ctx),
		Hero:     renderHero(p.Hero, preview),
		Skills:   GroupSkills(p.Skills.Skills),
		Projects: renderProjects(p.Projects.Projects),
		Contact:  renderContact(p.Contact),
		Footer:   footer(p.Hero.Name, preview),
	}
	if !preview {
		v.Nav = &NavView{Brand: p.Hero.Name, Links: append([]NavLink(nil), navLinks...)}
	}
	if p.About.Bio != "" {
		heading := p.Hero.AboutTitle
		if heading == "" {
			heading = defaultAboutHeading
		}
		v.About = &AboutView{Heading: heading, Bio: p.About.Bio, Mission: p.About.Mission}
	}
	return v
}

// Theme resolves colours for t. Background and foreground depend only on
// the mode; dark opacity applies only in dark mode.
func Theme(t portfolio.ThemeSettings, ctx Context) ThemeView {
	v := ThemeView{
		Mode:             t.Mode,
		Background:       lightBackground,
		Foreground:       lightForeground,
		CardBackground:   lightBackground,
		ChromeBackground: lightChrome,
		ChromeForeground: lightForeground,
		PrimaryColor:     t.PrimaryColor,
		SecondaryColor:   t.SecondaryColor,
		AccentColor:      t.AccentColor,
		FontFamily:       t.FontFamily,
	}
	if t.Mode != portfolio.ThemeDark {
		v.Mode = portfolio.ThemeLight
		return v
	}
	opacity := t.EffectiveDarkOpacity()
	v.Background = DarkBackground(opacity)
	v.Foreground = darkForeground
	v.CardBackground = rgba(31, 41, 55, opacity*0.8)
	if ctx.AllowDarkChrome {
		v.ChromeBackground = darkChrome
		v.ChromeForeground = darkForeground
	}
	return v
}

// DarkBackground formats the dark page background, e.g. 0.5 gives
// rgba(17,24,39,0.5).
func DarkBackground(opacity float64) string {
	return rgba(17, 24, 39, opacity)
}

func rgba(r, g, b int, alpha float64) string {
	alpha = math.Round(alpha*1000) / 1000
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// GroupSkills buckets skill names by category. Groups appear in the order
// their category is first seen; names keep their relative order.
func GroupSkills(skills []portfolio.Skill) []SkillGroup {
	groups := []SkillGroup{}
	index := map[portfolio.SkillCategory]int{}
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category, Skills: []string{}})
		}
		groups[i].Skills = append(groups[i].Skills, s.Name)
	}
	return groups
}

// ProjectMedia picks what a project card shows: the video when one is
// present and the media type allows it, with the image as poster;
// otherwise the image; otherwise nothing.
func ProjectMedia(p portfolio.Project) MediaView {
	videoAllowed := p.MediaType == portfolio.MediaVideo || p.MediaType == portfolio.MediaBoth
	switch {
	case p.VideoURL != "" && videoAllowed:
		return MediaView{Kind: MediaVideo, Src: p.VideoURL, Poster: p.ImageURL}
	case p.ImageURL != "":
		return MediaView{Kind: MediaImage, Src: p.ImageURL}
	}
	return MediaView{Kind: MediaNone}
}

func renderHero(h portfolio.HeroSection, preview bool) HeroView {
	v := HeroView{AvatarURL: h.AvatarURL, Name: h.Name, Title: h.Title}
	if preview {
		v.Name = orDefault(h.Name, PlaceholderName)
		v.Title = orDefault(h.Title, PlaceholderTitle)
	}
	if v.Name != "" {
		v.Greeting = fmt.Sprintf("Hi, I'm %s.", v.Name)
	}
	if h.CTAText != "" {
		v.CTA = &CTAView{Text: h.CTAText, Href: h.CTAURL, Target: ctaTarget(h.CTAURL)}
	}
	return v
}

func ctaTarget(url string) CTATarget {
	switch {
	case strings.HasPrefix(url, "#"):
		return CTAAnchor
	case url != "":
		return CTAExternal
	}
	return CTANone
}

func renderProjects(projects []portfolio.Project) []ProjectCard {
	cards := make([]ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, ProjectCard{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Media:       ProjectMedia(p),
			TechStack:   append([]string{}, p.TechStack...),
			LiveURL:     p.LiveURL,
			GithubURL:   p.GithubURL,
		})
	}
	return cards
}

func renderContact(c portfolio.ContactSection) ContactView {
	v := ContactView{
		Heading:         contactHeading,
		Blurb:           contactBlurb,
		Email:           c.Email,
		Phone:           c.Phone,
		SocialLinks:     make([]SocialBadge, 0, len(c.SocialLinks)),
		ShowContactForm: c.ShowContactForm,
	}
	for _, l := range c.SocialLinks {
		v.SocialLinks = append(v.SocialLinks, SocialBadge{
			Platform: l.Platform,
			URL:      l.URL,
			Icon:     l.Icon,
			Initial:  initial(l.Platform),
		})
	}
	return v
}

func footer(name string, preview bool) string {
	if preview {
		name = orDefault(name, PlaceholderName)
	}
	if name == "" {
		return fmt.Sprintf("© %s. All rights reserved.", copyrightYear)
	}
	return fmt.Sprintf("© %s %s. All rights reserved.", copyrightYear, name)
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
