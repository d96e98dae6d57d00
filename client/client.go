// Package client is a typed Go client for the vacation booking API.
//
// Every method maps to one REST call. Non-2xx responses are returned as
// *APIError so callers can branch on the status code or the error code in
// the body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/vacation-booking/backend/internal/handler"
)

// Wire types shared with the server.
type (
	Vacation          = handler.Vacation
	VacationInput     = handler.VacationInput
	VacationListItem  = handler.VacationListItem
	VacationPage      = handler.VacationPage
	FollowerReportRow = handler.FollowerReportRow
	SignUpRequest     = handler.SignUpRequest
	CurrentUser       = handler.CurrentUser
	ImageCreated      = handler.ImageCreated
	Date              = handler.Date
)

// DefaultBaseURL is the API root of a locally running server.
const DefaultBaseURL = "http://localhost:8080/api"

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// ErrIllegalDates is returned by CheckLegalDates.
var ErrIllegalDates = errors.New("the start date must be before the end date")

// CheckLegalDates reports whether a vacation running from start to end would
// be accepted by the server. Callers use it to fail fast before a round trip.
func CheckLegalDates(start, end time.Time) error {
	if !end.After(start) {
		return ErrIllegalDates
	}
	return nil
}

// Client talks to one API server. It is safe for concurrent use once
// configured; SetToken must not race with requests.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default *http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a Client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string { return c.token }

// SetToken replaces the bearer token. SignUp and SignIn call it on success.
func (c *Client) SetToken(token string) { c.token = token }

// --- auth ---------------------------------------------------------------------

// SignUp registers a new account and keeps the returned token.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	var out handler.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// SignIn exchanges credentials for a token and keeps it.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var out handler.TokenResponse
	in := handler.SignInRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signin", in, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (CurrentUser, error) {
	var out CurrentUser
	err := c.doJSON(ctx, http.MethodGet, "/auth/", nil, &out)
	return out, err
}

// IsAdmin reports whether the token carries the admin role.
func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	var out handler.IsAdminResponse
	err := c.doJSON(ctx, http.MethodGet, "/auth/isadmin", nil, &out)
	return out.IsAdmin, err
}

// --- vacations ----------------------------------------------------------------

// ListVacations returns one page (1-indexed) of vacations.
func (c *Client) ListVacations(ctx context.Context, page int) (VacationPage, error) {
	var out VacationPage
	path := "/vacations?page=" + strconv.Itoa(page)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// ListFutureVacations returns vacations that have not started yet.
func (c *Client) ListFutureVacations(ctx context.Context) ([]Vacation, error) {
	var out []Vacation
	err := c.doJSON(ctx, http.MethodGet, "/vacations/future", nil, &out)
	return out, err
}

// ListImageNames returns the image name of every vacation.
func (c *Client) ListImageNames(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doJSON(ctx, http.MethodGet, "/vacations/images", nil, &out)
	return out, err
}

// GetVacation fetches one vacation.
func (c *Client) GetVacation(ctx context.Context, id int64) (Vacation, error) {
	var out Vacation
	err := c.doJSON(ctx, http.MethodGet, vacationPath(id), nil, &out)
	return out, err
}

// CreateVacation adds a vacation. Admin only.
func (c *Client) CreateVacation(ctx context.Context, in VacationInput) (Vacation, error) {
	var out Vacation
	err := c.doJSON(ctx, http.MethodPost, "/vacations", in, &out)
	return out, err
}

// UpdateVacation replaces vacation id with in. Admin only.
func (c *Client) UpdateVacation(ctx context.Context, id int64, in VacationInput) (Vacation, error) {
	var out Vacation
	err := c.doJSON(ctx, http.MethodPut, vacationPath(id), in, &out)
	return out, err
}

// DeleteVacation removes a vacation. Admin only.
func (c *Client) DeleteVacation(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, vacationPath(id), nil, nil)
}

func vacationPath(id int64) string {
	return "/vacations/" + strconv.FormatInt(id, 10)
}

// --- followings ---------------------------------------------------------------

// ListFollowed returns the vacations the caller follows.
func (c *Client) ListFollowed(ctx context.Context) ([]Vacation, error) {
	var out []Vacation
	err := c.doJSON(ctx, http.MethodGet, "/followings/", nil, &out)
	return out, err
}

// Follow marks vacationID as followed by the caller.
func (c *Client) Follow(ctx context.Context, vacationID int64) error {
	return c.doJSON(ctx, http.MethodPost, followingPath(vacationID), nil, nil)
}

// Unfollow removes the caller's follow of vacationID.
func (c *Client) Unfollow(ctx context.Context, vacationID int64) error {
	return c.doJSON(ctx, http.MethodDelete, followingPath(vacationID), nil, nil)
}

// FollowerReport returns the follower count of every vacation. Admin only.
func (c *Client) FollowerReport(ctx context.Context) ([]FollowerReportRow, error) {
	var out []FollowerReportRow
	err := c.doJSON(ctx, http.MethodGet, "/followings/report", nil, &out)
	return out, err
}

// FollowerReportCSV streams the follower report as CSV into w. Admin only.
func (c *Client) FollowerReportCSV(ctx context.Context, w io.Writer) error {
	return c.download(ctx, "/followings/report?format=csv", w)
}

func followingPath(vacationID int64) string {
	return "/followings/" + strconv.FormatInt(vacationID, 10)
}

// --- images -------------------------------------------------------------------

// UploadImage stores r as the image called name. Admin only.
func (c *Client) UploadImage(ctx context.Context, name string, r io.Reader) (ImageCreated, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("name", name); err != nil {
		return ImageCreated{}, err
	}
	part, err := mw.CreateFormFile("image", name+".jpg")
	if err != nil {
		return ImageCreated{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return ImageCreated{}, fmt.Errorf("client: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ImageCreated{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/images", &body)
	if err != nil {
		return ImageCreated{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out ImageCreated
	err = c.do(req, &out)
	return out, err
}

// DownloadImage copies the image called name into w.
func (c *Client) DownloadImage(ctx context.Context, name string, w io.Writer) error {
	return c.download(ctx, "/images/"+url.PathEscape(name), w)
}

// DeleteImage removes the image called name. Admin only.
func (c *Client) DeleteImage(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/images/"+url.PathEscape(name), nil, nil)
}

// --- plumbing -----------------------------------------------------------------

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = &buf
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Del("Accept")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: GET %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}
	return nil
}

// decodeAPIError builds an *APIError from a failed response. Bodies that are
// not the API's error envelope fall back to the status text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body handler.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Code != "" {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		return apiErr
	}
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
