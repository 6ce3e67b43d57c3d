package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/common"
)

// RestStore talks PostgREST-style HTTP to the hosted backend: one route
// per table under /rest/v1, filters as query params (`col=eq.v`,
// `col=gte.v`), representation returned on writes.
type RestStore struct {
	client *resty.Client
	logger *zap.Logger
}

func NewRestStore(baseURL, apiKey string) *RestStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey)

	return &RestStore{
		client: client,
		logger: common.GetLoggerWith(common.LoggerNameBackendRest),
	}
}

func encodeFilterValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func queryParams(q Query) url.Values {
	params := url.Values{}
	for _, f := range q.Filters {
		params.Add(f.Column, fmt.Sprintf("%s.%s", f.Op, encodeFilterValue(f.Value)))
	}
	if q.Order != nil {
		direction := "asc"
		if q.Order.Descending {
			direction = "desc"
		}
		params.Set("order", fmt.Sprintf("%s.%s", q.Order.Column, direction))
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}
	return params
}

type restErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *RestStore) apiError(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: resp.Status()}
	}

	var body restErrorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Message == "" {
		return &BackendError{Message: resp.Status()}
	}
	return &BackendError{Code: body.Code, Message: body.Message}
}

func (s *RestStore) tablePath(table string) string {
	return "/rest/v1/" + table
}

func (s *RestStore) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(queryParams(q)).
		Get(s.tablePath(table))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.IsError() {
		return nil, s.apiError(resp)
	}

	var rows []Row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("malformed response from %s: %v", table, err)}
	}

	s.logger.Debug("Selected rows",
		zap.String("table", table),
		zap.Int("count", len(rows)),
	)
	return rows, nil
}

func (s *RestStore) SelectSingle(ctx context.Context, table string, q Query) (Row, error) {
	rows, err := s.Select(ctx, table, q)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, &NotFoundError{Table: table}
	case 1:
		return rows[0], nil
	default:
		return nil, &AmbiguousError{Table: table, Count: len(rows)}
	}
}

func (s *RestStore) Insert(ctx context.Context, table string, row Row) (Row, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(row).
		Post(s.tablePath(table))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.IsError() {
		return nil, s.apiError(resp)
	}

	var rows []Row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil || len(rows) == 0 {
		return nil, &BackendError{Message: fmt.Sprintf("insert into %s returned no representation", table)}
	}

	s.logger.Info("Inserted row", zap.String("table", table))
	return rows[0], nil
}

func (s *RestStore) Update(ctx context.Context, table string, patch Row, where Filter) (Row, error) {
	params := queryParams(Query{Filters: []Filter{where}})

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParamsFromValues(params).
		SetBody(patch).
		Patch(s.tablePath(table))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.IsError() {
		return nil, s.apiError(resp)
	}

	var rows []Row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("malformed response from %s: %v", table, err)}
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Table: table}
	}

	s.logger.Info("Updated row", zap.String("table", table))
	return rows[0], nil
}

func (s *RestStore) Delete(ctx context.Context, table string, where Filter) error {
	params := queryParams(Query{Filters: []Filter{where}})

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Delete(s.tablePath(table))
	if err != nil {
		return &NetworkError{Err: err}
	}
	if resp.IsError() {
		return s.apiError(resp)
	}

	s.logger.Info("Deleted rows", zap.String("table", table))
	return nil
}
