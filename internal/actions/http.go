package actions

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/render"
	"github.com/shaiso/Sequentia/internal/step"
)

const (
	// TypeHTTP — тип HTTP шага.
	TypeHTTP = "http"

	// Значения по умолчанию.
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBody    = 10 * 1024 * 1024 // 10 MB
)

// Ключи конфигурации HTTP шага.
const (
	configMethod          = "method"
	configURL             = "url"
	configHeaders         = "headers"
	configBody            = "body"
	configFollowRedirects = "follow_redirects"
	configValidateSSL     = "validate_ssl"
	configTimeoutSec      = "timeout_sec"
	configExpectStatus    = "expect_status"
	configAbortOnFailure  = "abort_on_failure"
)

// HTTPConfig — конфигурация HTTP шага.
//
// URL, заголовки и тело могут содержать шаблонные выражения,
// вычисляемые по текущему Bag в момент выполнения:
//
//	{
//	    "method": "POST",
//	    "url": "https://api.example.com/orders/{{ .Params.order_id }}",
//	    "headers": {"Authorization": "Bearer {{ .Params.token }}"},
//	    "body": "{\"qty\": 1}",
//	    "expect_status": 201,
//	    "timeout_sec": 30
//	}
type HTTPConfig struct {
	Method          string
	URL             string
	Headers         map[string]string
	Body            string
	FollowRedirects bool
	ValidateSSL     bool
	TimeoutSec      int

	// ExpectStatus — ожидаемый код ответа; 0 отключает проверку.
	// Несовпадение — "мягкая" неудача шага, а не ошибка.
	ExpectStatus int

	// AbortOnFailure — прерывать ли прогон при несовпадении статуса.
	AbortOnFailure bool
}

// HTTPRequest возвращает действие, выполняющее HTTP запрос.
//
// Выходные данные шага: status_code, body (распарсенный JSON или
// строка) и headers ответа.
func HTTPRequest(cfg HTTPConfig) step.Action {
	client := buildHTTPClient(cfg)

	return func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		req, err := buildHTTPRequest(ctx, cfg, bag)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
			}
			return nil, fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		output, err := parseHTTPResponse(resp)
		if err != nil {
			return nil, err
		}

		if cfg.ExpectStatus > 0 && resp.StatusCode != cfg.ExpectStatus {
			outcome := step.NewFailure(fmt.Sprintf("expected status %d, got %d",
				cfg.ExpectStatus, resp.StatusCode)).WithOutput(output)
			if !cfg.AbortOnFailure {
				outcome.ContinueOnFailure()
			}
			return outcome, nil
		}

		return step.NewSuccess(fmt.Sprintf("%s %s: %d", req.Method, req.URL, resp.StatusCode)).
			WithOutput(output), nil
	}
}

// buildHTTPClient создаёт HTTP клиент с нужными настройками.
func buildHTTPClient(cfg HTTPConfig) *http.Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}

	// Настройки TLS
	tlsConfig := &tls.Config{
		InsecureSkipVerify: !cfg.ValidateSSL,
	}

	// Настройка редиректов
	var checkRedirect func(*http.Request, []*http.Request) error
	if !cfg.FollowRedirects {
		checkRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}
}

// buildHTTPRequest создаёт запрос, рендеря шаблоны по текущему Bag.
func buildHTTPRequest(ctx context.Context, cfg HTTPConfig, bag *params.Bag) (*http.Request, error) {
	tmplCtx := render.NewContext(bag)

	url, err := render.Render(cfg.URL, tmplCtx)
	if err != nil {
		return nil, fmt.Errorf("render url: %w", err)
	}

	var bodyReader io.Reader
	if cfg.Body != "" {
		body, err := render.Render(cfg.Body, tmplCtx)
		if err != nil {
			return nil, fmt.Errorf("render body: %w", err)
		}
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range cfg.Headers {
		rendered, err := render.Render(value, tmplCtx)
		if err != nil {
			return nil, fmt.Errorf("render header %s: %w", key, err)
		}
		req.Header.Set(key, rendered)
	}
	if bodyReader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// parseHTTPResponse читает ответ и собирает выходные данные шага.
func parseHTTPResponse(resp *http.Response) (*params.Bag, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	output := params.NewBag()
	output.SetInt("status_code", int64(resp.StatusCode))

	// Пробуем распарсить JSON; иначе сохраняем строкой
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var decoded any
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err == nil {
			if v, err := params.FromAny(decoded); err == nil {
				output.Set("body", v)
			} else {
				output.SetString("body", string(body))
			}
		} else {
			output.SetString("body", string(body))
		}
	} else {
		output.SetString("body", string(body))
	}

	headers := params.NewBag()
	for key := range resp.Header {
		headers.SetString(key, resp.Header.Get(key))
	}
	output.Set("headers", params.Map(headers))

	return output, nil
}

// buildHTTP собирает действие http из конфигурации.
func buildHTTP(config map[string]any) (step.Action, error) {
	cfg := HTTPConfig{
		Method:          strings.ToUpper(GetConfigString(config, configMethod)),
		URL:             GetConfigString(config, configURL),
		Headers:         GetConfigMapString(config, configHeaders),
		Body:            GetConfigString(config, configBody),
		FollowRedirects: GetConfigBool(config, configFollowRedirects, true),
		ValidateSSL:     GetConfigBool(config, configValidateSSL, true),
		TimeoutSec:      GetConfigInt(config, configTimeoutSec),
		ExpectStatus:    GetConfigInt(config, configExpectStatus),
		AbortOnFailure:  GetConfigBool(config, configAbortOnFailure, true),
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: %s: url is required", ErrInvalidConfig, TypeHTTP)
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}

	return HTTPRequest(cfg), nil
}
