package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/dmitrijs2005/carshowroom/internal/server/services"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// multipartMemory is how much of a form is kept in memory before parts
// spill to temporary files.
const multipartMemory = 8 << 20

type carForm struct {
	input    services.CarInput
	existing []string // nil when the field was not sent
	images   []models.Image
}

// readCarForm parses the multipart car form. On failure it writes the error
// response and returns false.
func (s *HTTPServer) readCarForm(w http.ResponseWriter, r *http.Request, update bool) (*carForm, bool) {
	if s.opts.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds %s", humanize.IBytes(uint64(tooLarge.Limit))))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := &carForm{
		input: services.CarInput{
			CarName:     r.FormValue("carName"),
			ModelName:   r.FormValue("modelName"),
			BuyDate:     r.FormValue("buyDate"),
			BuyPrice:    r.FormValue("buyPrice"),
			Description: r.FormValue("description"),
		},
	}

	tags, err := stringArray(r.MultipartForm, "tags")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Tags must be a JSON array of strings")
		return nil, false
	}
	form.input.Tags = tags

	if update {
		form.existing, err = stringArray(r.MultipartForm, "existingImages")
		if err != nil {
			writeError(w, http.StatusBadRequest, "existingImages must be a JSON array of strings")
			return nil, false
		}
	}

	for _, fh := range r.MultipartForm.File["images"] {
		img, err := readImage(fh)
		if err != nil {
			if errors.Is(err, errNotImage) {
				writeError(w, http.StatusBadRequest, "Only image files are allowed")
				return nil, false
			}
			s.logger.Error(r.Context(), "failed to read upload", "file", fh.Filename, "error", err)
			writeError(w, http.StatusBadRequest, "Invalid form data")
			return nil, false
		}
		form.images = append(form.images, img)
	}

	return form, true
}

// stringArray decodes a JSON array field. A missing field yields nil, an
// empty one an empty slice.
func stringArray(f *multipart.Form, name string) ([]string, error) {
	vals, ok := f.Value[name]
	if !ok || len(vals) == 0 {
		return nil, nil
	}
	raw := strings.TrimSpace(vals[0])
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

var errNotImage = errors.New("not an image")

// readImage loads an uploaded part. The content type is sniffed from the
// bytes; the declared one is not trusted.
func readImage(fh *multipart.FileHeader) (models.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Image{}, err
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return models.Image{}, fmt.Errorf("%s: %w", fh.Filename, errNotImage)
	}

	return models.Image{Name: fh.Filename, ContentType: mt.String(), Data: data}, nil
}
