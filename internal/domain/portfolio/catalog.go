package portfolio

import "fmt"

type SkillCategory string

const (
	CategoryFrontend SkillCategory = "Frontend"
	CategoryBackend  SkillCategory = "Backend"
	CategoryDatabase SkillCategory = "Database"
	CategoryDevOps   SkillCategory = "DevOps"
	CategoryDesign   SkillCategory = "Design"
	CategoryMobile   SkillCategory = "Mobile"
	CategoryOther    SkillCategory = "Other"
)

var SkillCategories = []SkillCategory{
	CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryDevOps,
	CategoryDesign, CategoryMobile, CategoryOther,
}

func (c SkillCategory) Valid() bool {
	for _, known := range SkillCategories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseSkillCategory(s string) (SkillCategory, error) {
	c := SkillCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown skill category %q", s)
	}
	return c, nil
}

type SocialPlatform struct {
	Name string
	Icon string
}

var SocialPlatforms = []SocialPlatform{
	{Name: "LinkedIn", Icon: "linkedin"},
	{Name: "GitHub", Icon: "github"},
	{Name: "Twitter", Icon: "twitter"},
	{Name: "Instagram", Icon: "instagram"},
	{Name: "Dribbble", Icon: "dribbble"},
	{Name: "Behance", Icon: "behance"},
}

const fallbackSocialIcon = "link"

// IconForPlatform maps a platform name to its icon key, "link" if unknown.
func IconForPlatform(platform string) string {
	for _, p := range SocialPlatforms {
		if p.Name == platform {
			return p.Icon
		}
	}
	return fallbackSocialIcon
}

type NamedValue struct {
	Name  string
	Value string
}

var ColorPalette = []NamedValue{
	{Name: "Blue", Value: "#3B82F6"},
	{Name: "Emerald", Value: "#10B981"},
	{Name: "Purple", Value: "#8B5CF6"},
	{Name: "Orange", Value: "#F97316"},
	{Name: "Pink", Value: "#EC4899"},
	{Name: "Indigo", Value: "#6366F1"},
}

var FontOptions = []NamedValue{
	{Name: "Inter", Value: "Inter, sans-serif"},
	{Name: "Poppins", Value: "Poppins, sans-serif"},
	{Name: "Roboto", Value: "Roboto, sans-serif"},
	{Name: "Open Sans", Value: "Open Sans, sans-serif"},
	{Name: "Lato", Value: "Lato, sans-serif"},
}
