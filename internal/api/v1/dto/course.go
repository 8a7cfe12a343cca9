package dto

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title string `json:"title" validate:"required"`
}

// CourseUpdateDTO carries a single-field course edit. Absent fields are left untouched.
type CourseUpdateDTO struct {
	Title       *string  `json:"title,omitempty" validate:"omitnil,min=1"`
	Description *string  `json:"description,omitempty" validate:"omitnil,min=1"`
	ImageURL    *string  `json:"imageUrl,omitempty" validate:"omitnil,url"`
	CategoryID  *string  `json:"categoryId,omitempty" validate:"omitnil,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitnil,gte=0"`
}

// AttachmentCreateDTO links an uploaded file to a course
type AttachmentCreateDTO struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name,omitempty"`
}
