package service_test

import (
	"context"
	"strings"
	"testing"

	"lms/internal/model"
	"lms/internal/pubsub"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/session"
	"lms/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	publisher *testutil.RecordingPublisher
	store     *testutil.MemoryStore
	courses   service.CourseService
	chapters  service.ChapterService
	uploads   service.UploadService
	users     service.UserService
	auth      service.AuthService
}

func newFixture(t *testing.T, enforceOwnership bool) *fixture {
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	pub := &testutil.RecordingPublisher{}
	store := testutil.NewMemoryStore()
	courseRepo := repository.NewCourseRepo(db)
	userRepo := repository.NewUserRepo(db)
	access := service.NewCourseAccess(courseRepo, enforceOwnership)
	return &fixture{
		db:        db,
		publisher: pub,
		store:     store,
		courses:   service.NewCourseService(courseRepo, access, pub, "course-events", logger),
		chapters:  service.NewChapterService(repository.NewChapterRepo(db), courseRepo, access, pub, "chapter-events", logger),
		uploads:   service.NewUploadService(store, access, pub, "upload-events", logger),
		users:     service.NewUserService(userRepo, logger),
		auth:      service.NewAuthService(userRepo, logger),
	}
}

func sessionFor(u model.User) session.Session {
	return session.Session{UserID: u.ID, Role: u.Role, Email: u.Email}
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "teacher@example.com", "hunter22", model.RoleTeacher)

	t.Run("unknown email", func(t *testing.T) {
		id, err := f.auth.Authorize(ctx, "nobody@example.com", "hunter22")
		assert.Nil(t, id)
		require.Error(t, err)
		assert.True(t, service.IsAuthErrorKind(err, service.AuthErrorNoUser))
		assert.Equal(t, "No user found", err.Error())
	})

	t.Run("wrong password", func(t *testing.T) {
		id, err := f.auth.Authorize(ctx, "teacher@example.com", "wrong")
		assert.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("success normalizes email", func(t *testing.T) {
		id, err := f.auth.Authorize(ctx, "  Teacher@Example.com ", "hunter22")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, user.ID, id.ID)
		assert.Equal(t, model.RoleTeacher, id.Role)
	})
}

func TestAuthErrorJSON(t *testing.T) {
	err := &service.AuthError{Kind: service.AuthErrorNoUser, Message: "No user found"}
	data, mErr := err.MarshalJSON()
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"message":"No user found","ok":false}`, string(data))
}

func TestCourseOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	other := testutil.CreateUser(t, f.db, "other@example.com", "pw", model.RoleTeacher)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", "pw", model.RoleAdmin)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")

	title := "Renamed"
	_, err := f.courses.UpdateCourse(ctx, sessionFor(other), course.ID, service.CourseUpdate{Title: &title})
	assert.ErrorIs(t, err, service.ErrForbidden)

	updated, err := f.courses.UpdateCourse(ctx, sessionFor(admin), course.ID, service.CourseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = f.courses.UpdateCourse(ctx, sessionFor(owner), "missing", service.CourseUpdate{Title: &title})
	assert.ErrorIs(t, err, service.ErrCourseNotFound)

	relaxed := newFixture(t, false)
	o := testutil.CreateUser(t, relaxed.db, "o@example.com", "pw", model.RoleTeacher)
	x := testutil.CreateUser(t, relaxed.db, "x@example.com", "pw", model.RoleStudent)
	c := testutil.CreateCourse(t, relaxed.db, o.ID, "Go")
	_, err = relaxed.courses.UpdateCourse(ctx, sessionFor(x), c.ID, service.CourseUpdate{Title: &title})
	assert.NoError(t, err)
}

func TestCourseUpdatePrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")

	price := 19.99
	updated, err := f.courses.UpdateCourse(ctx, sessionFor(owner), course.ID, service.CourseUpdate{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, updated.Price)
	assert.InDelta(t, 19.99, *updated.Price, 0.001)
	assert.Equal(t, "Go", updated.Title)
}

func TestPublishCourseRequiresCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")
	s := sessionFor(owner)

	_, err := f.courses.PublishCourse(ctx, s, course.ID)
	assert.ErrorIs(t, err, service.ErrCourseIncomplete)

	cat := model.Category{Name: "Programming"}
	require.NoError(t, f.db.Create(&cat).Error)
	_, err = f.courses.UpdateCourse(ctx, s, course.ID, service.CourseUpdate{
		Description: testutil.StrPtr("Learn Go"),
		ImageURL:    testutil.StrPtr("https://files.example.com/go.png"),
		CategoryID:  &cat.ID,
	})
	require.NoError(t, err)
	testutil.CreateChapter(t, f.db, model.Chapter{CourseID: course.ID, Title: "Intro", Position: 1, IsPublished: true})

	published, err := f.courses.PublishCourse(ctx, s, course.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, []string{pubsub.EventCoursePublished}, f.publisher.Types())
}

func TestPublishChapter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	other := testutil.CreateUser(t, f.db, "other@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")
	incomplete := testutil.CreateChapter(t, f.db, model.Chapter{CourseID: course.ID, Title: "Intro", Position: 1})
	complete := testutil.CreateChapter(t, f.db, model.Chapter{
		CourseID:    course.ID,
		Title:       "Types",
		Description: testutil.StrPtr("All about types"),
		VideoURL:    testutil.StrPtr("https://files.example.com/types.mp4"),
		Position:    2,
	})

	tests := []struct {
		name      string
		sess      session.Session
		courseID  string
		chapterID string
		wantErr   error
	}{
		{"missing fields", sessionFor(owner), course.ID, incomplete.ID, service.ErrMissingRequiredFields},
		{"missing chapter", sessionFor(owner), course.ID, "nope", service.ErrMissingRequiredFields},
		{"missing course", sessionFor(owner), "nope", complete.ID, service.ErrMissingRequiredFields},
		{"not the owner", sessionFor(other), course.ID, complete.ID, service.ErrForbidden},
		{"ok", sessionFor(owner), course.ID, complete.ID, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := f.chapters.PublishChapter(ctx, tc.sess, tc.courseID, tc.chapterID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, ch)
				return
			}
			require.NoError(t, err)
			assert.True(t, ch.IsPublished)
		})
	}
	assert.Equal(t, []string{pubsub.EventChapterPublished}, f.publisher.Types())
	assert.Equal(t, "chapter-events", f.publisher.Topics[0])
}

func TestUnpublishLastChapterUnpublishesCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")
	require.NoError(t, f.db.Model(&model.Course{}).Where("id = ?", course.ID).Update("is_published", true).Error)
	ch := testutil.CreateChapter(t, f.db, model.Chapter{CourseID: course.ID, Title: "Intro", Position: 1, IsPublished: true})

	got, err := f.chapters.UnpublishChapter(ctx, sessionFor(owner), course.ID, ch.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)

	var reloaded model.Course
	require.NoError(t, f.db.First(&reloaded, "id = ?", course.ID).Error)
	assert.False(t, reloaded.IsPublished)
}

func TestCreateChapterAppends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")

	first, err := f.chapters.CreateChapter(ctx, sessionFor(owner), course.ID, "One")
	require.NoError(t, err)
	second, err := f.chapters.CreateChapter(ctx, sessionFor(owner), course.ID, "Two")
	require.NoError(t, err)
	assert.Equal(t, first.Position+1, second.Position)

	_, err = f.chapters.UpdateChapter(ctx, sessionFor(owner), course.ID, "nope", service.ChapterUpdate{Title: testutil.StrPtr("x")})
	assert.ErrorIs(t, err, service.ErrChapterNotFound)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", "pw", model.RoleTeacher)
	course := testutil.CreateCourse(t, f.db, owner.ID, "Go")
	s := sessionFor(owner)

	file := func(name, contentType string) service.UploadFile {
		body := "content of " + name
		return service.UploadFile{Name: name, ContentType: contentType, Size: int64(len(body)), Body: strings.NewReader(body)}
	}

	_, err := f.uploads.Upload(ctx, s, "avatar", course.ID, []service.UploadFile{file("a.png", "image/png")})
	assert.ErrorIs(t, err, service.ErrUnknownEndpoint)

	_, err = f.uploads.Upload(ctx, s, service.EndpointCourseImage, course.ID, nil)
	assert.ErrorIs(t, err, service.ErrNoFiles)

	_, err = f.uploads.Upload(ctx, s, service.EndpointCourseImage, course.ID, []service.UploadFile{file("a.pdf", "application/pdf")})
	assert.ErrorIs(t, err, service.ErrFileTypeNotAllowed)

	_, err = f.uploads.Upload(ctx, s, service.EndpointChapterVideo, course.ID, []service.UploadFile{
		file("a.mp4", "video/mp4"), file("b.mp4", "video/mp4"),
	})
	assert.ErrorIs(t, err, service.ErrTooManyFiles)

	out, err := f.uploads.Upload(ctx, s, service.EndpointCourseAttachment, course.ID, []service.UploadFile{
		file("notes.pdf", "application/pdf"), file("../../slides.key", ""),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "notes.pdf", out[0].Name)
	assert.Contains(t, out[0].URL, "courses/"+course.ID+"/courseAttachment/")
	assert.NotContains(t, out[1].URL, "..")
	assert.Len(t, f.store.Objects, 2)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, pubsub.EventFilesUploaded, f.publisher.Events[0].Type)
	assert.Len(t, f.publisher.Events[0].URLs, 2)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	admin := sessionFor(testutil.CreateUser(t, f.db, "admin@example.com", "pw", model.RoleAdmin))

	u, err := f.users.CreateUser(ctx, admin, service.NewUser{Email: "New@Example.com", Password: "pw123456", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, model.RoleStudent, u.Role)
	assert.NoError(t, u.CheckPassword("pw123456"))

	_, err = f.users.CreateUser(ctx, admin, service.NewUser{Email: "new@example.com", Password: "x", Name: "Dup"})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = f.users.CreateUser(ctx, admin, service.NewUser{Email: "blank@example.com", Name: "Blank"})
	assert.ErrorIs(t, err, service.ErrMissingRequiredFields)

	role := model.RoleTeacher
	updated, err := f.users.UpdateUser(ctx, admin, u.ID, service.UserUpdate{Role: &role, Password: testutil.StrPtr("changed")})
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, updated.Role)
	assert.NoError(t, updated.CheckPassword("changed"))

	_, err = f.users.UpdateUser(ctx, admin, u.ID, service.UserUpdate{Password: testutil.StrPtr("")})
	assert.ErrorIs(t, err, service.ErrMissingRequiredFields)

	_, err = f.users.UpdateUser(ctx, admin, "missing", service.UserUpdate{Name: testutil.StrPtr("x")})
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	err = f.users.DeleteUser(ctx, sessionFor(*updated), u.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, f.users.DeleteUser(ctx, admin, u.ID))
	assert.ErrorIs(t, f.users.DeleteUser(ctx, admin, u.ID), service.ErrUserNotFound)
}

func TestUserService_adminOnlyChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", "pw", model.RoleAdmin)
	teacher := testutil.CreateUser(t, f.db, "teacher@example.com", "pw", model.RoleTeacher)
	student := testutil.CreateUser(t, f.db, "student@example.com", "pw", model.RoleStudent)
	asTeacher, asAdmin := sessionFor(teacher), sessionFor(admin)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "teacher creates admin",
			run: func() error {
				_, err := f.users.CreateUser(ctx, asTeacher, service.NewUser{Email: "a2@example.com", Password: "pw123456", Name: "A2", Role: model.RoleAdmin})
				return err
			},
			wantErr: service.ErrForbidden,
		},
		{
			name: "teacher promotes self",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asTeacher, teacher.ID, service.UserUpdate{Role: testutil.StrPtr(model.RoleAdmin)})
				return err
			},
			wantErr: service.ErrForbidden,
		},
		{
			name: "teacher changes own role",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asTeacher, teacher.ID, service.UserUpdate{Role: testutil.StrPtr(model.RoleStudent)})
				return err
			},
			wantErr: service.ErrForbidden,
		},
		{
			name: "teacher promotes student",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asTeacher, student.ID, service.UserUpdate{Role: testutil.StrPtr(model.RoleAdmin)})
				return err
			},
			wantErr: service.ErrForbidden,
		},
		{
			name: "teacher resets admin password",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asTeacher, admin.ID, service.UserUpdate{Password: testutil.StrPtr("taken-over")})
				return err
			},
			wantErr: service.ErrForbidden,
		},
		{
			name:    "teacher deletes admin",
			run:     func() error { return f.users.DeleteUser(ctx, asTeacher, admin.ID) },
			wantErr: service.ErrForbidden,
		},
		{
			name: "teacher edits own name",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asTeacher, teacher.ID, service.UserUpdate{Name: testutil.StrPtr("T")})
				return err
			},
		},
		{
			name: "teacher creates teacher",
			run: func() error {
				_, err := f.users.CreateUser(ctx, asTeacher, service.NewUser{Email: "t2@example.com", Password: "pw123456", Name: "T2", Role: model.RoleTeacher})
				return err
			},
		},
		{
			name: "admin promotes teacher",
			run: func() error {
				_, err := f.users.UpdateUser(ctx, asAdmin, teacher.ID, service.UserUpdate{Role: testutil.StrPtr(model.RoleAdmin)})
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	stored, err := f.users.GetUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.NoError(t, stored.CheckPassword("pw"))
}
