package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultFailureMessage is reported when the server refuses a request
// without saying why.
const DefaultFailureMessage = "An error occurred"

const maxResponseSize = 8 << 20

// envelope is the union shape every endpoint answers with.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Car     *models.Car  `json:"car"`
	Cars    []models.Car `json:"cars"`

	status int
}

func (e *envelope) ok() bool {
	return e.Success && e.status < http.StatusBadRequest
}

func (e *envelope) failureMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	default:
		return DefaultFailureMessage
	}
}

// HTTPClient implements Client over the JSON/multipart HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API rooted at baseURL
// (for example http://localhost:5000/api). A zero timeout disables the
// per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) endpoint(elem ...string) (string, error) {
	for i, e := range elem {
		elem[i] = url.PathEscape(e)
	}
	return url.JoinPath(c.baseURL, elem...)
}

func (c *HTTPClient) Signup(ctx context.Context, username, email, password string) (Result[AuthPayload], error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, body, "auth", "register")
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (Result[AuthPayload], error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, body, "auth", "login")
}

func (c *HTTPClient) authenticate(ctx context.Context, body map[string]string, path ...string) (Result[AuthPayload], error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, body, path...)
	if err != nil {
		return Result[AuthPayload]{}, err
	}

	env, err := c.do(req, "")
	if err != nil {
		return Result[AuthPayload]{}, err
	}
	if !env.ok() {
		return Failure[AuthPayload](env.failureMessage()), nil
	}
	if env.Token == "" || env.User == nil || env.User.ID == "" {
		return Result[AuthPayload]{}, fmt.Errorf("%w: success without user id or token", ErrMalformedResponse)
	}

	return Success(AuthPayload{User: *env.User, Token: env.Token}), nil
}

func (c *HTTPClient) ListCars(ctx context.Context, ownerID, token string) (Result[[]models.Car], error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "car", "view", ownerID)
	if err != nil {
		return Result[[]models.Car]{}, err
	}

	env, err := c.do(req, token)
	if err != nil {
		return Result[[]models.Car]{}, err
	}
	if !env.ok() {
		return Failure[[]models.Car](env.failureMessage()), nil
	}

	cars := env.Cars
	if cars == nil {
		cars = []models.Car{}
	}
	return Success(cars), nil
}

func (c *HTTPClient) GetCar(ctx context.Context, id, token string) (Result[models.Car], error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "car", "getById", id)
	if err != nil {
		return Result[models.Car]{}, err
	}

	env, err := c.do(req, token)
	if err != nil {
		return Result[models.Car]{}, err
	}
	if !env.ok() {
		return Failure[models.Car](env.failureMessage()), nil
	}
	if env.Car == nil {
		return Result[models.Car]{}, fmt.Errorf("%w: success without car", ErrMalformedResponse)
	}

	return Success(*env.Car), nil
}

func (c *HTTPClient) CreateCar(ctx context.Context, form CarForm, token string) (Result[*models.Car], error) {
	return c.sendCar(ctx, http.MethodPost, form, false, token, "car", "create")
}

func (c *HTTPClient) UpdateCar(ctx context.Context, id string, form CarForm, token string) (Result[*models.Car], error) {
	return c.sendCar(ctx, http.MethodPut, form, true, token, "car", "update", id)
}

func (c *HTTPClient) sendCar(ctx context.Context, method string, form CarForm, update bool, token string, path ...string) (Result[*models.Car], error) {
	body, contentType, err := form.encode(update)
	if err != nil {
		return Result[*models.Car]{}, err
	}

	req, err := c.newRequest(ctx, method, body, path...)
	if err != nil {
		return Result[*models.Car]{}, err
	}
	req.Header.Set("Content-Type", contentType)

	env, err := c.do(req, token)
	if err != nil {
		return Result[*models.Car]{}, err
	}
	if !env.ok() {
		return Failure[*models.Car](env.failureMessage()), nil
	}

	return Success(env.Car), nil
}

// DeleteCar sends ownerID as a JSON string body for compatibility with
// servers that still read it. Ownership must be enforced from the token.
func (c *HTTPClient) DeleteCar(ctx context.Context, id, token, ownerID string) (Result[Empty], error) {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, ownerID, "car", "delete", id)
	if err != nil {
		return Result[Empty]{}, err
	}

	env, err := c.do(req, token)
	if err != nil {
		return Result[Empty]{}, err
	}
	if !env.ok() || env.Error != "" {
		return Failure[Empty](env.failureMessage()), nil
	}

	return Success(Empty{}), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method string, body io.Reader, path ...string) (*http.Request, error) {
	u, err := c.endpoint(path...)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) newJSONRequest(ctx context.Context, method string, v any, path ...string) (*http.Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req, err := c.newRequest(ctx, method, bytes.NewReader(b), path...)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and decodes the envelope. A non-empty token is attached as a
// bearer credential, and only then is a 401 reported as ErrUnauthorized.
func (c *HTTPClient) do(req *http.Request, token string) (*envelope, error) {
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	if token != "" && resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.mapError(err)
	}

	env := &envelope{status: resp.StatusCode}
	if err := json.Unmarshal(b, env); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, resp.StatusCode, err)
	}

	return env, nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode renders the form as multipart/form-data. Tags and existing images
// travel as JSON arrays; existingImages only when updating.
func (f CarForm) encode(update bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	tags, err := jsonArray(f.Tags)
	if err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"userId", f.UserID},
		{"carName", f.CarName},
		{"modelName", f.ModelName},
		{"buyDate", f.BuyDate},
		{"buyPrice", f.BuyPrice},
		{"description", f.Description},
		{"tags", tags},
	}
	if update {
		existing, err := jsonArray(f.ExistingImages)
		if err != nil {
			return nil, "", err
		}
		fields = append(fields, [2]string{"existingImages", existing})
	}

	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	for _, img := range f.Images {
		if err := writeImagePart(w, img); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func jsonArray(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode array: %w", err)
	}
	return string(b), nil
}

func writeImagePart(w *multipart.Writer, img models.ImageFile) error {
	mtype, err := mimetype.DetectFile(img.Path)
	if err != nil {
		return fmt.Errorf("detect %s: %w", img.Path, err)
	}

	f, err := os.Open(img.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", img.Path, err)
	}
	defer f.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`,
		quoteEscaper.Replace(filepath.Base(img.Path))))
	h.Set("Content-Type", mtype.String())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy %s: %w", img.Path, err)
	}
	return nil
}
