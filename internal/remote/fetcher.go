// Package remote 远程仪表盘数据源（Apps Script Web App）拉取与同步
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

const (
	fetchAction     = "fetch_dashboard_data"
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 8 << 20
)

// Payload 远程数据，缺失字段为空集合
type Payload struct {
	KPI       []parser.RawRow `json:"kpi"`
	Revenue   []parser.RawRow `json:"revenue"`
	Budget    []parser.RawRow `json:"budget"`
	Pipeline  []parser.RawRow `json:"pipeline"`
	Stats     map[string]any  `json:"stats"`
	Inquiries []model.Inquiry `json:"inquiries"`
}

// Rows 返回某数据集的原始行
func (p *Payload) Rows(kind model.Kind) []parser.RawRow {
	switch kind {
	case model.KindKPI:
		return p.KPI
	case model.KindRevenue:
		return p.Revenue
	case model.KindBudget:
		return p.Budget
	case model.KindPipeline:
		return p.Pipeline
	}
	return nil
}

// Fetcher 远程数据源
type Fetcher interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// HTTPFetcher 通过 HTTP GET 拉取数据
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher 创建拉取器，请求自动附加 action=fetch_dashboard_data
func NewHTTPFetcher(endpoint string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q", endpoint)
	}
	q := u.Query()
	if q.Get("action") == "" {
		q.Set("action", fetchAction)
	}
	u.RawQuery = q.Encode()

	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		endpoint: u.String(),
		client:   &http.Client{Timeout: timeout},
		maxBytes: defaultMaxBytes,
	}, nil
}

// Fetch 拉取并解码远程数据
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dashboard data: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, errors.New("response exceeds size limit")
	}
	return DecodePayload(body)
}

// DecodePayload 解码远程响应；字段缺失或类型不符时取空值，非对象元素被忽略
func DecodePayload(body []byte) (*Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New("response is not a JSON object")
	}

	p := &Payload{
		KPI:       rowsAt(root, "kpi"),
		Revenue:   rowsAt(root, "revenue"),
		Budget:    rowsAt(root, "budget"),
		Pipeline:  rowsAt(root, "pipeline"),
		Stats:     map[string]any{},
		Inquiries: []model.Inquiry{},
	}
	if stats := root.Get("stats"); stats.IsObject() {
		if m, ok := stats.Value().(map[string]any); ok {
			p.Stats = m
		}
	}
	for _, row := range rowsAt(root, "inquiries") {
		p.Inquiries = append(p.Inquiries, model.Inquiry(row))
	}
	return p, nil
}

func rowsAt(root gjson.Result, path string) []parser.RawRow {
	rows := []parser.RawRow{}
	res := root.Get(path)
	if !res.IsArray() {
		return rows
	}
	for _, item := range res.Array() {
		if !item.IsObject() {
			continue
		}
		if m, ok := item.Value().(map[string]any); ok {
			rows = append(rows, parser.RawRow(m))
		}
	}
	return rows
}
