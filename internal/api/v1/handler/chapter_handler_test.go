package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/internal/api/v1/handler"
	"lms/internal/logger"
	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/session"
	"lms/internal/testutil"
	"lms/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDBDown = errors.New("connection refused")

// failingChapterRepo wraps a real repository and fails selected calls.
type failingChapterRepo struct {
	repository.ChapterRepository
	getErr error
	setErr error
}

func (r *failingChapterRepo) GetChapter(ctx context.Context, courseID, chapterID string) (*model.Chapter, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.ChapterRepository.GetChapter(ctx, courseID, chapterID)
}

func (r *failingChapterRepo) SetChapterPublished(ctx context.Context, courseID, chapterID string, published bool) (*model.Chapter, error) {
	if r.setErr != nil {
		return nil, r.setErr
	}
	return r.ChapterRepository.SetChapterPublished(ctx, courseID, chapterID, published)
}

func TestPublishChapterUnexpectedFailure(t *testing.T) {
	tests := []struct {
		name string
		repo func(repository.ChapterRepository) *failingChapterRepo
	}{
		{
			name: "read fails",
			repo: func(base repository.ChapterRepository) *failingChapterRepo {
				return &failingChapterRepo{ChapterRepository: base, getErr: errDBDown}
			},
		},
		{
			name: "write fails",
			repo: func(base repository.ChapterRepository) *failingChapterRepo {
				return &failingChapterRepo{ChapterRepository: base, setErr: errDBDown}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			owner := testutil.CreateUser(t, db, "owner@example.com", "pw", model.RoleTeacher)
			course := testutil.CreateCourse(t, db, owner.ID, "Go")
			ch := testutil.CreateChapter(t, db, model.Chapter{
				CourseID:    course.ID,
				Title:       "Intro",
				Description: testutil.StrPtr("Welcome"),
				VideoURL:    testutil.StrPtr("http://x/v.mp4"),
				Position:    1,
			})

			var logs bytes.Buffer
			log := logger.NewWithWriter(&logs, false)
			courseRepo := repository.NewCourseRepo(db)
			svc := service.NewChapterService(
				tt.repo(repository.NewChapterRepo(db)),
				courseRepo,
				service.NewCourseAccess(courseRepo, true),
				&testutil.RecordingPublisher{},
				"chapter-events",
				log,
			)

			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					s := session.Session{UserID: owner.ID, Role: owner.Role}
					next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
				})
			})
			handler.NewChapterHandler(svc, util.NewValidator(), log).RegisterRoutes(r)

			req := httptest.NewRequest(http.MethodPatch, "/api/courses/"+course.ID+"/chapters/"+ch.ID+"/publish", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "Internal Error", strings.TrimSpace(rec.Body.String()))
			assert.NotContains(t, rec.Body.String(), errDBDown.Error())

			lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
			var tagged []string
			for _, l := range lines {
				if strings.Contains(l, `"tag":"CHAPTER_PUBLISH"`) {
					tagged = append(tagged, l)
				}
			}
			require.Len(t, tagged, 1)
			assert.Contains(t, tagged[0], errDBDown.Error())
			assert.Contains(t, tagged[0], `"severity":"error"`)

			stored, err := repository.NewChapterRepo(db).GetChapter(context.Background(), course.ID, ch.ID)
			require.NoError(t, err)
			assert.False(t, stored.IsPublished)
		})
	}
}
