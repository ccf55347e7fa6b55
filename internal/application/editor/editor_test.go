package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/application/store"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
)

var fixedNow = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

type fakeStorage struct {
	mu      sync.Mutex
	err     error
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(_ context.Context, bucket, path string, file io.Reader) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucket+"/"+path] = b
	return nil
}

func (f *fakeStorage) PublicURL(bucket, path string) (string, error) {
	return "https://cdn.test/" + bucket + "/" + path, nil
}

type fakeImages struct{ err error }

func (f fakeImages) Normalize(r io.Reader) (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	b, _ := io.ReadAll(r)
	return bytes.NewReader(append([]byte("jpeg:"), b...)), "jpg", nil
}

type note struct {
	kind    service.NotificationKind
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(kind service.NotificationKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{kind, message})
}

func (r *recordingNotifier) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}

type EditorSuite struct {
	suite.Suite
	store    *store.DocumentStore
	storage  *fakeStorage
	notifier *recordingNotifier
	editors  *Set
	ids      int
}

func TestEditorSuite(t *testing.T) {
	suite.Run(t, new(EditorSuite))
}

func (s *EditorSuite) SetupTest() {
	s.store = store.New()
	s.store.SetDocument(portfolio.NewDefault(uuid.New(), "joshua", "joshua@example.com", fixedNow))
	s.storage = &fakeStorage{}
	s.notifier = &recordingNotifier{}
	s.ids = 0
	s.editors = NewSet(Deps{
		Store:    s.store,
		Storage:  s.storage,
		Images:   fakeImages{},
		Notifier: s.notifier,
		Now:      func() time.Time { return fixedNow },
		NewID: func() string {
			s.ids++
			return fmt.Sprintf("id-%d", s.ids)
		},
	})
}

func (s *EditorSuite) doc() *portfolio.Portfolio {
	d, ok := s.store.Document()
	s.Require().True(ok)
	return d
}

func (s *EditorSuite) TestEditsWithoutDocument() {
	s.store.SetDocument(nil)

	err := s.editors.Hero.SetName("Joshua")
	s.ErrorIs(err, store.ErrNoDocument)
	s.ErrorIs(err, apperror.ErrConflict)

	_, err = s.editors.Skills.AddSkill(SkillCandidate{Name: "Go"})
	s.ErrorIs(err, store.ErrNoDocument)

	_, err = s.editors.Hero.UploadAvatar(context.Background(), strings.NewReader("x"), "me.png")
	s.ErrorIs(err, store.ErrNoDocument)
	s.Empty(s.storage.uploads)
}

func (s *EditorSuite) TestHeroSetters() {
	s.Require().NoError(s.editors.Hero.SetName("Joshua"))
	s.Require().NoError(s.editors.Hero.SetTitle("Engineer"))
	s.Require().NoError(s.editors.Hero.SetCTAURL("#projects"))

	hero := s.doc().Hero
	s.Equal("Joshua", hero.Name)
	s.Equal("Engineer", hero.Title)
	s.Equal("#projects", hero.CTAURL)
	s.Equal("See my work", hero.CTAText)
}

func (s *EditorSuite) TestUploadAvatar() {
	url, err := s.editors.Hero.UploadAvatar(context.Background(), strings.NewReader("pixels"), "Me.PNG")
	s.Require().NoError(err)

	path := fmt.Sprintf("portfolios/avatars/%d.jpg", fixedNow.UnixNano())
	s.Equal("https://cdn.test/"+path, url)
	s.Equal([]byte("jpeg:pixels"), s.storage.uploads[path])
	s.Equal(url, s.doc().Hero.AvatarURL)
	s.Equal(note{service.NotifySuccess, "Image uploaded successfully!"}, s.notifier.last())

	s.Require().NoError(s.editors.Hero.RemoveAvatar())
	s.Empty(s.doc().Hero.AvatarURL)
}

func (s *EditorSuite) TestUploadAvatarFailureLeavesDocument() {
	s.storage.err = errors.New("bucket offline")
	before := s.doc()

	_, err := s.editors.Hero.UploadAvatar(context.Background(), strings.NewReader("pixels"), "me.png")

	s.ErrorIs(err, apperror.ErrUnavailable)
	s.Equal(before, s.doc())
	s.Equal(note{service.NotifyError, "Failed to upload image"}, s.notifier.last())
}

func (s *EditorSuite) TestUploadAvatarUnreadableImage() {
	editors := NewSet(Deps{Store: s.store, Storage: s.storage, Images: fakeImages{err: errors.New("bad gif")}, Notifier: s.notifier})

	_, err := editors.Hero.UploadAvatar(context.Background(), strings.NewReader("?"), "me.gif")

	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.Empty(s.storage.uploads)
}

func (s *EditorSuite) TestAboutSetters() {
	s.Require().NoError(s.editors.About.SetBio("I build things."))
	s.Require().NoError(s.editors.About.SetMission(""))
	s.Equal(portfolio.AboutSection{Bio: "I build things."}, s.doc().About)
}

func (s *EditorSuite) TestSkillAddThenRemoveRoundTrip() {
	_, err := s.editors.Skills.AddSkill(SkillCandidate{Name: "Go", Category: portfolio.CategoryBackend})
	s.Require().NoError(err)
	before := s.doc()

	_, err = s.editors.Skills.AddSkill(SkillCandidate{Name: "React", Category: portfolio.CategoryFrontend})
	s.Require().NoError(err)
	s.Require().NoError(s.editors.Skills.RemoveAt(1))

	s.Equal(before, s.doc())
}

func (s *EditorSuite) TestSkillCandidate() {
	s.editors.Skills.SetCandidateName("  ")
	_, err := s.editors.Skills.Add()
	s.ErrorIs(err, ErrInvalidInput)
	s.Equal("  ", s.editors.Skills.Candidate().Name)

	s.editors.Skills.SetCandidateName("Postgres")
	s.Require().NoError(s.editors.Skills.SetCandidateCategory("Database"))
	s.ErrorIs(s.editors.Skills.SetCandidateCategory("Cooking"), ErrInvalidInput)

	skill, err := s.editors.Skills.Add()
	s.Require().NoError(err)
	s.Equal(portfolio.Skill{ID: "id-1", Name: "Postgres", Category: portfolio.CategoryDatabase}, skill)
	s.Equal(SkillCandidate{Category: portfolio.CategoryFrontend}, s.editors.Skills.Candidate())
	s.Equal([]portfolio.Skill{skill}, s.doc().Skills.Skills)
}

func (s *EditorSuite) TestSkillEdits() {
	a, _ := s.editors.Skills.AddSkill(SkillCandidate{Name: "Go", Category: portfolio.CategoryBackend})
	b, _ := s.editors.Skills.AddSkill(SkillCandidate{Name: "Figma", Category: portfolio.CategoryDesign})

	s.Require().NoError(s.editors.Skills.EditAt(0, SkillFieldName, "Golang"))
	s.Require().NoError(s.editors.Skills.Edit(b.ID, SkillFieldCategory, "Other"))
	s.ErrorIs(s.editors.Skills.EditAt(0, SkillFieldCategory, "Cooking"), ErrInvalidInput)
	s.ErrorIs(s.editors.Skills.EditAt(5, SkillFieldName, "x"), ErrInvalidInput)
	s.ErrorIs(s.editors.Skills.Remove("missing"), apperror.ErrNotFound)

	skills := s.doc().Skills.Skills
	s.Equal("Golang", skills[0].Name)
	s.Equal(portfolio.CategoryOther, skills[1].Category)

	s.Require().NoError(s.editors.Skills.Remove(a.ID))
	s.Equal([]string{b.ID}, skillIDs(s.doc().Skills.Skills))
}

func (s *EditorSuite) TestProjectDraftLifecycle() {
	p := s.editors.Projects
	s.ErrorIs(p.SetTitle("x"), apperror.ErrConflict)

	draft := p.BeginNew()
	s.IsType(DraftingNew{}, p.Draft())
	s.Require().NoError(p.SetTitle("SpotMe"))
	s.Require().NoError(p.AddTech(" Go "))
	s.Require().NoError(p.AddTech("Go"))
	s.Require().NoError(p.AddTech("React"))
	s.ErrorIs(p.AddTech("   "), ErrInvalidInput)
	s.Require().NoError(p.RemoveTech("React"))

	saved, err := p.Save()
	s.Require().NoError(err)
	s.Equal(draft.ID, saved.ID)
	s.Equal([]string{"Go"}, saved.TechStack)
	s.IsType(NoDraft{}, p.Draft())
	s.Len(s.doc().Projects.Projects, 1)

	edited, err := p.BeginEdit(saved.ID)
	s.Require().NoError(err)
	s.Equal(saved, edited)
	s.Equal(DraftingExisting{ID: saved.ID, Project: saved}, p.Draft())
	s.Require().NoError(p.SetDescription("Portfolio builder"))
	_, err = p.Save()
	s.Require().NoError(err)

	projects := s.doc().Projects.Projects
	s.Require().Len(projects, 1)
	s.Equal("Portfolio builder", projects[0].Description)
}

func (s *EditorSuite) TestProjectSaveRequiresTitle() {
	s.editors.Projects.BeginNew()
	_, err := s.editors.Projects.Save()
	s.ErrorIs(err, ErrInvalidInput)
	s.IsType(DraftingNew{}, s.editors.Projects.Draft())
	s.Empty(s.doc().Projects.Projects)
}

func (s *EditorSuite) TestProjectCancelLeavesDocument() {
	s.editors.Projects.BeginNew()
	s.Require().NoError(s.editors.Projects.SetTitle("Throwaway"))
	before := s.doc()

	s.editors.Projects.Cancel()

	s.IsType(NoDraft{}, s.editors.Projects.Draft())
	s.Equal(before, s.doc())
}

func (s *EditorSuite) TestProjectMedia() {
	p := s.editors.Projects
	p.BeginNew()
	ctx := context.Background()

	img, err := p.AttachImage(ctx, strings.NewReader("png"), "shot.png")
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("https://cdn.test/portfolios/projects/%d.png", fixedNow.UnixNano()), img)
	d, _ := p.DraftProject()
	s.Equal(portfolio.MediaImage, d.MediaType)

	_, err = p.AttachVideo(ctx, strings.NewReader("mp4"), "demo.mp4")
	s.Require().NoError(err)
	d, _ = p.DraftProject()
	s.Equal(portfolio.MediaBoth, d.MediaType)
	s.Equal(note{service.NotifySuccess, "Video uploaded successfully!"}, s.notifier.last())

	s.Require().NoError(p.RemoveImage())
	d, _ = p.DraftProject()
	s.Equal(portfolio.MediaVideo, d.MediaType)
	s.Empty(d.ImageURL)
}

func (s *EditorSuite) TestProjectUploadFailureLeavesDraft() {
	p := s.editors.Projects
	p.BeginNew()
	s.Require().NoError(p.SetTitle("SpotMe"))
	before, _ := p.DraftProject()
	s.storage.err = errors.New("timeout")

	_, err := p.AttachImage(context.Background(), strings.NewReader("png"), "shot.png")

	s.Error(err)
	after, _ := p.DraftProject()
	s.Equal(before, after)
	s.Equal(note{service.NotifyError, "Failed to upload image"}, s.notifier.last())
}

func (s *EditorSuite) TestProjectMediaTypeTracksAttachments() {
	p := s.editors.Projects
	p.BeginNew()
	ctx := context.Background()
	ops := []func() error{
		func() error { _, err := p.AttachImage(ctx, strings.NewReader("a"), "a.png"); return err },
		func() error { _, err := p.AttachVideo(ctx, strings.NewReader("b"), "b.mp4"); return err },
		p.RemoveImage,
		p.RemoveVideo,
		p.RemoveVideo,
		func() error { _, err := p.AttachVideo(ctx, strings.NewReader("c"), "c.webm"); return err },
		func() error { _, err := p.AttachImage(ctx, strings.NewReader("d"), "d.jpg"); return err },
		p.RemoveVideo,
	}
	for i, op := range ops {
		s.Require().NoError(op(), "op %d", i)
		d, ok := p.DraftProject()
		s.Require().True(ok)
		s.True(d.MediaConsistent(), "op %d left media_type %q", i, d.MediaType)
	}

	s.Require().NoError(p.SetTitle("Media"))
	saved, err := p.Save()
	s.Require().NoError(err)
	s.Equal(portfolio.MediaImage, saved.MediaType)
}

func (s *EditorSuite) TestProjectDelete() {
	p := s.editors.Projects
	p.BeginNew()
	s.Require().NoError(p.SetTitle("One"))
	one, _ := p.Save()
	p.BeginNew()
	s.Require().NoError(p.SetTitle("Two"))
	two, _ := p.Save()

	s.Require().NoError(p.Delete(one.ID))
	s.ErrorIs(p.Delete(one.ID), apperror.ErrNotFound)

	projects := s.doc().Projects.Projects
	s.Require().Len(projects, 1)
	s.Equal(two.ID, projects[0].ID)

	_, err := p.BeginEdit(one.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *EditorSuite) TestContact() {
	c := s.editors.Contact
	s.Require().NoError(c.SetPhone("+1 555"))
	s.Require().NoError(c.SetShowContactForm(false))

	s.Equal(LinkCandidate{Platform: "LinkedIn", Icon: "linkedin"}, c.Candidate())
	c.SetCandidatePlatform("GitHub")
	_, err := c.AddSocialLink()
	s.ErrorIs(err, ErrInvalidInput)

	c.SetCandidateURL("https://github.com/joshua")
	gh, err := c.AddSocialLink()
	s.Require().NoError(err)
	s.Equal("github", gh.Icon)
	s.Equal(LinkCandidate{Platform: "LinkedIn", Icon: "linkedin"}, c.Candidate())

	_, err = c.AddLink(LinkCandidate{Platform: "Mastodon", URL: "https://social/@j"})
	s.Require().NoError(err)

	s.Require().NoError(c.EditSocialLinkAt(1, LinkFieldPlatform, "Dribbble"))
	contact := s.doc().Contact
	s.Equal("+1 555", contact.Phone)
	s.False(contact.ShowContactForm)
	s.Require().Len(contact.SocialLinks, 2)
	s.Equal("dribbble", contact.SocialLinks[1].Icon)

	s.Require().NoError(c.EditSocialLink(gh.ID, LinkFieldURL, "https://github.com/j"))
	s.Require().NoError(c.EditSocialLink(gh.ID, LinkFieldPlatform, "Twitter"))
	edited := s.doc().Contact.SocialLinks[0]
	s.Equal(gh.ID, edited.ID)
	s.Equal("https://github.com/j", edited.URL)
	s.Equal(portfolio.IconForPlatform("Twitter"), edited.Icon)
	s.ErrorIs(c.EditSocialLink("missing", LinkFieldURL, "x"), apperror.ErrNotFound)
	s.ErrorIs(c.EditSocialLink(gh.ID, LinkField("colour"), "x"), ErrInvalidInput)

	s.Require().NoError(c.RemoveSocialLink(gh.ID))
	s.Require().NoError(c.RemoveSocialLinkAt(0))
	s.Empty(s.doc().Contact.SocialLinks)
	s.ErrorIs(c.RemoveSocialLinkAt(0), ErrInvalidInput)
}

func (s *EditorSuite) TestTheme() {
	t := s.editors.Theme
	s.Require().NoError(t.SetMode("dark"))
	s.Require().NoError(t.SetDarkOpacity(0.5))
	s.Require().NoError(t.SetPrimaryColor("#8B5CF6"))
	s.Require().NoError(t.SetFontFamily("Poppins, sans-serif"))

	s.ErrorIs(t.SetMode("sepia"), ErrInvalidInput)
	s.ErrorIs(t.SetDarkOpacity(0.2), ErrInvalidInput)
	s.ErrorIs(t.SetAccentColor("orange"), ErrInvalidInput)
	s.ErrorIs(t.SetFontFamily(""), ErrInvalidInput)

	theme := s.doc().Theme
	s.Equal(portfolio.ThemeDark, theme.Mode)
	s.Equal(0.5, theme.DarkOpacity)
	s.Equal("#8B5CF6", theme.PrimaryColor)
	s.Equal("#F97316", theme.AccentColor)
	s.Equal("Poppins, sans-serif", theme.FontFamily)
}

func (s *EditorSuite) TestSetApplyGenericPatch() {
	patch, err := portfolio.NewPatch(portfolio.SectionAbout)
	s.Require().NoError(err)
	patch.(*portfolio.AboutPatch).Bio = portfolio.Ptr("hello")

	s.Require().NoError(s.editors.Apply(patch))
	s.Equal("hello", s.doc().About.Bio)
}

func skillIDs(skills []portfolio.Skill) []string {
	ids := make([]string, len(skills))
	for i, sk := range skills {
		ids[i] = sk.ID
	}
	return ids
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "png", fileExt("a/b/Shot.PNG"))
	assert.Equal(t, "", fileExt("README"))
}

func TestParseMediaKind(t *testing.T) {
	k, err := ParseMediaKind("video")
	require.NoError(t, err)
	assert.Equal(t, MediaKindVideo, k)

	_, err = ParseMediaKind("audio")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
