package dto

type ChapterCreateDTO struct {
	Title string `json:"title" validate:"required"`
}

// ChapterUpdateDTO carries a single-field chapter edit.
type ChapterUpdateDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=1"`
	VideoURL    *string `json:"videoUrl,omitempty" validate:"omitnil,url"`
	IsFree      *bool   `json:"isFree,omitempty"`
}

type ChapterPositionDTO struct {
	ID       string `json:"id" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

// ChapterReorderDTO is the body of a drag-and-drop reorder.
type ChapterReorderDTO struct {
	List []ChapterPositionDTO `json:"list" validate:"required,min=1,dive"`
}
