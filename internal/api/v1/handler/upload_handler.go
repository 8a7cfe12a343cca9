package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const multipartMemory = 32 << 20

type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
	logger        zerolog.Logger
}

func NewUploadHandler(uploadService service.UploadService, maxBytes int64, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger.With().Str("handler", "UploadHandler").Logger(),
	}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/fileUpload/multipleFile", h.uploadFiles)
}

// uploadFiles godoc
// @Summary Upload files
// @Description Stores multipart files for an upload endpoint and returns their public URLs.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Param endpoint formData string true "courseImage, courseAttachment or chapterVideo"
// @Param courseId formData string false "Course ID"
// @Success 200 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "Invalid upload"
// @Failure 401 {string} string "Unauthorized"
// @Failure 413 {string} string "Upload too large"
// @Router /api/fileUpload/multipleFile [post]
func (h *UploadHandler) uploadFiles(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeServiceError(w, h.logger, "UPLOAD", err)
			return
		}
		defer f.Close()
		files = append(files, uploadFile(fh, f))
	}

	uploaded, err := h.uploadService.Upload(r.Context(), s, r.FormValue("endpoint"), r.FormValue("courseId"), files)
	if err != nil {
		writeServiceError(w, h.logger, "UPLOAD", err)
		return
	}
	resp := dto.UploadResponseDTO{Files: make([]dto.UploadedFileDTO, len(uploaded))}
	for i, u := range uploaded {
		resp.Files[i] = dto.UploadedFileDTO{URL: u.URL, Name: u.Name}
	}
	writeJSON(w, http.StatusOK, resp)
}

func uploadFile(fh *multipart.FileHeader, f multipart.File) service.UploadFile {
	return service.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}
