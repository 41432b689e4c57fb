/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package backend talks to the template service. The Client covers the
// read path the desktop app needs; the Server is the matching
// Postgres-backed service.
package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resumestudio/internal/domain"
)

// Client is a minimal HTTP client for the template API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// ClientOptions tunes transport behavior.
type ClientOptions struct {
	Timeout     time.Duration
	TLSInsecure bool
}

// NewClient creates a backend client. baseURL may include a trailing
// slash; it is normalized.
func NewClient(baseURL, token string, opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	if opts.TLSInsecure {
		hc.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  hc,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Template fetches one template document by id.
func (c *Client) Template(ctx context.Context, id string) (domain.TemplateDocument, error) {
	var doc domain.TemplateDocument
	if err := c.doJSON(ctx, http.MethodGet, "/templates/"+url.PathEscape(id), &doc); err != nil {
		return domain.TemplateDocument{}, err
	}
	return doc, nil
}

// templateList matches the server's list envelope.
type templateList struct {
	Templates []domain.TemplateDocument `json:"templates"`
}

// ListTemplates returns every available template document.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.TemplateDocument, error) {
	var env templateList
	if err := c.doJSON(ctx, http.MethodGet, "/templates", &env); err != nil {
		return nil, err
	}
	return env.Templates, nil
}
