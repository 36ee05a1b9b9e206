package gradebook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vvladislovv/GreMiuv/core"
	"github.com/vvladislovv/GreMiuv/core/identity"
	"github.com/vvladislovv/GreMiuv/core/ranking"
	"github.com/vvladislovv/GreMiuv/core/student"
)

// InitDataHeader carries the opaque host-session blob on identity lookups.
const InitDataHeader = "X-Telegram-Init-Data"

// Client talks to the remote grade-book service. All calls except the token
// fetch carry bearer authorization; a rejected credential is discarded and
// the request retried exactly once with a fresh one.
type Client struct {
	base   string
	client *http.Client
	logger core.Logger
	gate   *tokenGate
}

var (
	_ student.Client  = (*Client)(nil)
	_ identity.Lookup = (*Client)(nil)
	_ ranking.Fetcher = (*Client)(nil)
)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	base := strings.TrimRight(conf.Gradebook.BaseURL, "/")
	httpClient := &http.Client{Timeout: conf.Gradebook.Timeout}
	return &Client{
		base:   base,
		client: httpClient,
		logger: logger,
		gate:   newTokenGate(httpClient, base),
	}
}

type reqOption func(*http.Request)

func withInitData(blob string) reqOption {
	return func(req *http.Request) {
		req.Header.Set(InitDataHeader, blob)
	}
}

// get performs an authorized GET and decodes the JSON response into out.
// Two attempts: the second runs only after a 401 invalidated the credential.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}, opts ...reqOption) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.gate.Token(ctx)
		if err != nil {
			return err
		}

		u := c.base + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return errors.Wrapf(err, "building request %s", path)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		for _, opt := range opts {
			opt(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return core.NewTransportError(err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp.Body)
			c.gate.Invalidate(token)
			if attempt == 0 {
				continue
			}
			return core.NewAuthError("credential rejected twice")
		}
		if resp.StatusCode >= http.StatusBadRequest {
			detail := errorDetail(resp.Body)
			_ = resp.Body.Close()
			return core.NewServiceError(resp.StatusCode, detail)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		_ = resp.Body.Close()
		if err != nil {
			return errors.Wrapf(err, "decoding response of %s", path)
		}
		return nil
	}
	return core.NewAuthError("credential rejected twice")
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
	_ = body.Close()
}

// errorDetail extracts the structured server detail from a failure body.
func errorDetail(body io.Reader) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}

// ---- student data ----

func (c *Client) StudentByFIO(ctx context.Context, fio string) (student.Student, error) {
	var stu student.Student
	err := c.get(ctx, "/student/by-fio", url.Values{"fio": {fio}}, &stu)
	return stu, err
}

func (c *Client) Subjects(ctx context.Context, fio string) ([]student.Subject, error) {
	var subjects []student.Subject
	err := c.get(ctx, "/student/subjects", url.Values{"fio": {fio}}, &subjects)
	return subjects, err
}

func (c *Client) Stats(ctx context.Context, fio string) (student.Stats, error) {
	var body struct {
		Stats student.Stats `json:"stats"`
	}
	err := c.get(ctx, "/student/stats", url.Values{"fio": {fio}}, &body)
	return body.Stats, err
}

func (c *Client) Grades(ctx context.Context, fio string, subjectID int) (student.GradesData, error) {
	var data student.GradesData
	q := url.Values{"fio": {fio}, "subject_id": {strconv.Itoa(subjectID)}}
	err := c.get(ctx, "/student/grades", q, &data)
	return data, err
}

func (c *Client) SubjectsRatings(ctx context.Context, fio string) ([]student.SubjectRating, error) {
	var ratings []student.SubjectRating
	err := c.get(ctx, "/student/subjects-ratings", url.Values{"fio": {fio}}, &ratings)
	return ratings, err
}

// ---- host-session identity lookup ----

// FIOByHostSession resolves the host-session blob to an identity. An
// unregistered host user yields an empty FIO, not an error.
func (c *Client) FIOByHostSession(ctx context.Context, initData string) (identity.HostIdentity, error) {
	var body struct {
		FIO          *string `json:"fio"`
		IsRegistered bool    `json:"is_registered"`
	}
	err := c.get(ctx, "/student/by-telegram", nil, &body, withInitData(initData))
	if err != nil {
		return identity.HostIdentity{}, err
	}
	host := identity.HostIdentity{Registered: body.IsRegistered}
	if body.FIO != nil {
		host.FIO = *body.FIO
	}
	return host, nil
}

// FIOByTelegramID is the narrower variant of the same lookup.
func (c *Client) FIOByTelegramID(ctx context.Context, initData string) (identity.HostIdentity, error) {
	var body struct {
		FIO          *string `json:"fio"`
		IsRegistered bool    `json:"is_registered"`
	}
	err := c.get(ctx, "/student/fio-by-telegram-id", nil, &body, withInitData(initData))
	if err != nil {
		return identity.HostIdentity{}, err
	}
	host := identity.HostIdentity{Registered: body.IsRegistered}
	if body.FIO != nil {
		host.FIO = *body.FIO
	}
	return host, nil
}

// ---- group leaderboards ----

func (c *Client) GradesRating(ctx context.Context, groupID int) ([]ranking.GradeEntry, error) {
	var rating []ranking.GradeEntry
	q := url.Values{"group_id": {strconv.Itoa(groupID)}}
	err := c.get(ctx, "/stats/rating/grades", q, &rating)
	return rating, err
}

func (c *Client) AbsencesRating(ctx context.Context, groupID int) ([]ranking.AbsenceEntry, error) {
	var rating []ranking.AbsenceEntry
	q := url.Values{"group_id": {strconv.Itoa(groupID)}}
	err := c.get(ctx, "/stats/rating/absences", q, &rating)
	return rating, err
}
