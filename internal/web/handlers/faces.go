package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/constants"
	"github.com/kozaktomas/facegate/internal/envelope"
	"github.com/kozaktomas/facegate/internal/facematch"
)

// FacesHandler handles face comparison and attribute endpoints.
type FacesHandler struct {
	uploads  *config.UploadsConfig
	matcher  *facematch.Matcher
	envelope *envelope.Builder
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(cfg *config.Config, matcher *facematch.Matcher, b *envelope.Builder) *FacesHandler {
	return &FacesHandler{
		uploads:  &cfg.Uploads,
		matcher:  matcher,
		envelope: b,
	}
}

// readUpload returns the bytes of a required image field. label names the
// upload in error messages.
func (h *FacesHandler) readUpload(r *http.Request, field, label string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, envelope.NewInputError("field '%s' is required", field)
		}
		return nil, envelope.NewInputError("failed to read %s", label)
	}
	defer file.Close()

	if !h.uploads.IsAllowedUpload(header.Filename) {
		return nil, envelope.NewInputError("invalid file type for %s", label)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, envelope.NewInputError("failed to read %s", label)
	}
	if len(data) == 0 {
		return nil, envelope.NewInputError("%s is empty", label)
	}
	return data, nil
}

func parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return envelope.NewInputError("failed to parse multipart form")
	}
	return nil
}

// Compare handles POST /compare with uploads image1 and image2.
func (h *FacesHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	data1, err := h.readUpload(r, constants.FormFieldImage1, facematch.ImageA.String())
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	data2, err := h.readUpload(r, constants.FormFieldImage2, facematch.ImageB.String())
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	img1, img2 := facematch.NewImage(data1), facematch.NewImage(data2)
	result, err := h.matcher.Verify(r.Context(), img1, img2)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageCompareOK, map[string]any{
		"image1_digest": img1.Digest,
		"image2_digest": img2.Digest,
	}).With("result", result))
}

// Attributes handles POST /attributes with a single upload named image.
func (h *FacesHandler) Attributes(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	data, err := h.readUpload(r, constants.FormFieldImage, "image")
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	img := facematch.NewImage(data)
	result, err := h.matcher.AnalyzeAttributes(r.Context(), img)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageAttributesOK, map[string]any{
		"image_digest": img.Digest,
	}).With("result", result))
}
