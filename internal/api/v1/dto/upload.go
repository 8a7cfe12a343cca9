package dto

type UploadedFileDTO struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// UploadResponseDTO is the body returned by the multi-file upload route.
type UploadResponseDTO struct {
	Files []UploadedFileDTO `json:"files"`
}
