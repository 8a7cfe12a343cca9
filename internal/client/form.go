package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	msgCourseUpdated  = "Course updated"
	msgChapterUpdated = "Chapter updated"
	msgGenericError   = "Something went wrong"
)

// Notifier shows the outcome of a submit to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Refresher reloads the data the form was rendered from.
type Refresher interface {
	Refresh(ctx context.Context)
}

// FieldForm edits one course or chapter column. It starts in view mode;
// Toggle switches to edit mode and back.
type FieldForm struct {
	client    *Client
	path      string
	field     string
	rule      string
	success   string
	notifier  Notifier
	refresher Refresher
	validate  *validator.Validate
	editing   bool
}

func newFieldForm(c *Client, path, field, rule, success string, n Notifier, r Refresher) *FieldForm {
	return &FieldForm{
		client:    c,
		path:      path,
		field:     field,
		rule:      rule,
		success:   success,
		notifier:  n,
		refresher: r,
		validate:  validator.New(),
	}
}

func (f *FieldForm) Field() string { return f.field }

func (f *FieldForm) IsEditing() bool { return f.editing }

func (f *FieldForm) Toggle() { f.editing = !f.editing }

// Submit validates value and PATCHes {field: value}. On success the form
// leaves edit mode and the refresher runs; on failure it stays in edit mode
// and the notifier receives the generic error. Invalid values are rejected
// without a request.
func (f *FieldForm) Submit(ctx context.Context, value any) error {
	if err := f.validate.Var(value, f.rule); err != nil {
		return fmt.Errorf("invalid %s: %w", f.field, err)
	}
	err := f.client.doJSON(ctx, http.MethodPatch, f.path, map[string]any{f.field: value}, nil)
	if err != nil {
		f.notifier.Error(msgGenericError)
		return err
	}
	f.notifier.Success(f.success)
	f.editing = false
	f.refresher.Refresh(ctx)
	return nil
}

func CourseTitleForm(c *Client, courseID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, coursePath(courseID), "title", "required", msgCourseUpdated, n, r)
}

func CourseDescriptionForm(c *Client, courseID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, coursePath(courseID), "description", "required", msgCourseUpdated, n, r)
}

func CourseImageForm(c *Client, courseID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, coursePath(courseID), "imageUrl", "required,url", msgCourseUpdated, n, r)
}

func CourseCategoryForm(c *Client, courseID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, coursePath(courseID), "categoryId", "required", msgCourseUpdated, n, r)
}

func CoursePriceForm(c *Client, courseID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, coursePath(courseID), "price", "gte=0", msgCourseUpdated, n, r)
}

func ChapterTitleForm(c *Client, courseID, chapterID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, chapterPath(courseID, chapterID), "title", "required", msgChapterUpdated, n, r)
}

func ChapterDescriptionForm(c *Client, courseID, chapterID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, chapterPath(courseID, chapterID), "description", "required", msgChapterUpdated, n, r)
}

func ChapterVideoForm(c *Client, courseID, chapterID string, n Notifier, r Refresher) *FieldForm {
	return newFieldForm(c, chapterPath(courseID, chapterID), "videoUrl", "required,url", msgChapterUpdated, n, r)
}
