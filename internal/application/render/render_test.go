package render

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

var (
	preview = Context{Mode: ModePreview}
	public  = Context{Mode: ModePublic}
)

func newDoc() *portfolio.Portfolio {
	return portfolio.NewDefault(uuid.New(), "joshua", "joshua@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestRender_PlaceholdersOnlyInPreview(t *testing.T) {
	p := newDoc()

	pv := Render(p, preview)
	assert.Equal(t, PlaceholderName, pv.Hero.Name)
	assert.Equal(t, "Hi, I'm Your Name.", pv.Hero.Greeting)
	assert.Equal(t, PlaceholderTitle, pv.Hero.Title)
	assert.Equal(t, "© 2024 Your Name. All rights reserved.", pv.Footer)
	assert.Nil(t, pv.Nav)

	pub := Render(p, public)
	assert.Empty(t, pub.Hero.Name)
	assert.Empty(t, pub.Hero.Greeting)
	assert.Empty(t, pub.Hero.Title)
	assert.NotContains(t, pub.Footer, PlaceholderName)
	require.NotNil(t, pub.Nav)
	assert.Empty(t, pub.Nav.Brand)
}

func TestRender_NamedHero(t *testing.T) {
	p := newDoc()
	p.Hero.Name = "Joshua"
	p.Hero.Title = "Frontend Developer"

	for _, ctx := range []Context{preview, public} {
		v := Render(p, ctx)
		assert.Equal(t, "Hi, I'm Joshua.", v.Hero.Greeting)
		assert.Equal(t, "Frontend Developer", v.Hero.Title)
		assert.Equal(t, "© 2024 Joshua. All rights reserved.", v.Footer)
	}
	assert.Equal(t, "Joshua", Render(p, public).Nav.Brand)
}

func TestRender_NilPortfolio(t *testing.T) {
	v := Render(nil, preview)
	assert.True(t, v.Empty)
	assert.Equal(t, EmptyPreview, v.EmptyMessage)

	assert.Empty(t, Render(nil, public).EmptyMessage)
}

func TestTheme_Backgrounds(t *testing.T) {
	theme := portfolio.DefaultTheme()

	light := Theme(theme, preview)
	assert.Equal(t, "#FFFFFF", light.Background)
	assert.Equal(t, "#111827", light.Foreground)

	theme.Mode = portfolio.ThemeDark
	theme.DarkOpacity = 0.5
	dark := Theme(theme, preview)
	assert.Equal(t, "rgba(17,24,39,0.5)", dark.Background)
	assert.Equal(t, "#FFFFFF", dark.Foreground)
	assert.Equal(t, "rgba(31,41,55,0.4)", dark.CardBackground)

	theme.DarkOpacity = 0
	assert.Equal(t, "rgba(17,24,39,0.9)", Theme(theme, preview).Background)
	assert.Equal(t, "rgba(31,41,55,0.72)", Theme(theme, preview).CardBackground)

	theme.DarkOpacity = 1
	assert.Equal(t, "rgba(17,24,39,1)", Theme(theme, preview).Background)
}

func TestTheme_OpacityIgnoredInLightMode(t *testing.T) {
	a, b := portfolio.DefaultTheme(), portfolio.DefaultTheme()
	b.DarkOpacity = 0.3

	assert.Equal(t, Theme(a, public).Background, Theme(b, public).Background)
}

func TestTheme_DarkChrome(t *testing.T) {
	theme := portfolio.DefaultTheme()
	theme.Mode = portfolio.ThemeDark

	assert.Equal(t, lightChrome, Theme(theme, public).ChromeBackground)
	assert.Equal(t, darkChrome, Theme(theme, Context{Mode: ModePublic, AllowDarkChrome: true}).ChromeBackground)
}

func TestGroupSkills_FirstSeenOrder(t *testing.T) {
	skills := []portfolio.Skill{
		{Name: "React", Category: portfolio.CategoryFrontend},
		{Name: "Figma", Category: portfolio.CategoryDesign},
		{Name: "Node.js", Category: portfolio.CategoryBackend},
		{Name: "JavaScript", Category: portfolio.CategoryFrontend},
		{Name: "Firebase", Category: portfolio.CategoryBackend},
	}

	groups := GroupSkills(skills)

	assert.Equal(t, []SkillGroup{
		{Category: portfolio.CategoryFrontend, Skills: []string{"React", "JavaScript"}},
		{Category: portfolio.CategoryDesign, Skills: []string{"Figma"}},
		{Category: portfolio.CategoryBackend, Skills: []string{"Node.js", "Firebase"}},
	}, groups)
	assert.Empty(t, GroupSkills(nil))
}

func TestProjectMedia(t *testing.T) {
	tests := []struct {
		name    string
		project portfolio.Project
		want    MediaView
	}{
		{"none", portfolio.Project{}, MediaView{Kind: MediaNone}},
		{"image", portfolio.Project{ImageURL: "i", MediaType: portfolio.MediaImage}, MediaView{Kind: MediaImage, Src: "i"}},
		{"video", portfolio.Project{VideoURL: "v", MediaType: portfolio.MediaVideo}, MediaView{Kind: MediaVideo, Src: "v"}},
		{"both prefers video with poster", portfolio.Project{ImageURL: "i", VideoURL: "v", MediaType: portfolio.MediaBoth}, MediaView{Kind: MediaVideo, Src: "v", Poster: "i"}},
		{"stale type falls back to image", portfolio.Project{ImageURL: "i", VideoURL: "v", MediaType: portfolio.MediaImage}, MediaView{Kind: MediaImage, Src: "i"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectMedia(tt.project))
		})
	}
}

func TestRender_Sections(t *testing.T) {
	p := newDoc()
	assert.Nil(t, Render(p, public).About)
	assert.Empty(t, Render(p, public).Projects)

	p.About.Bio = "I build things."
	p.Hero.AboutTitle = "Who I am"
	p.Hero.CTAURL = "#projects"
	p.Projects.Projects = []portfolio.Project{{ID: "1", Title: "One", TechStack: []string{"Go"}}}
	p.Contact.SocialLinks = []portfolio.SocialLink{{ID: "s", Platform: "github", URL: "https://github.com/j", Icon: "github"}}

	v := Render(p, public)

	require.NotNil(t, v.About)
	assert.Equal(t, "Who I am", v.About.Heading)
	require.NotNil(t, v.Hero.CTA)
	assert.Equal(t, CTAView{Text: "See my work", Href: "#projects", Target: CTAAnchor}, *v.Hero.CTA)
	require.Len(t, v.Projects, 1)
	assert.Equal(t, "One", v.Projects[0].Title)
	assert.Equal(t, "G", v.Contact.SocialLinks[0].Initial)
	assert.True(t, v.Contact.ShowContactForm)
	assert.Equal(t, "joshua@example.com", v.Contact.Email)
}

func TestCTATarget(t *testing.T) {
	assert.Equal(t, CTAAnchor, ctaTarget("#contact"))
	assert.Equal(t, CTAExternal, ctaTarget("https://example.com"))
	assert.Equal(t, CTANone, ctaTarget(""))
}

func TestRender_IsDeterministic(t *testing.T) {
	p := newDoc()
	p.Skills.Skills = []portfolio.Skill{{Name: "Go", Category: portfolio.CategoryBackend}}
	assert.Equal(t, Render(p, public), Render(p, public))
}
