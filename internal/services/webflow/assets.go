package webflow

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"
)

// Asset is the record Webflow returns when an asset upload is initialized.
type Asset struct {
	ID            string         `json:"id"`
	UploadURL     string         `json:"uploadUrl"`
	UploadDetails map[string]any `json:"uploadDetails"`
	ContentType   string         `json:"contentType"`
	HostedURL     string         `json:"hostedUrl"`
}

// UploadAsset uploads binary data to Webflow Assets. The upload is two-step:
// Webflow issues a pre-signed S3 form, then the file goes straight to S3.
// Returns the asset id and its hosted URL.
func (c *Client) UploadAsset(ctx context.Context, filename string, data []byte) (string, string, error) {
	if c.siteID == "" {
		return "", "", errors.New("webflow site id required for asset uploads")
	}
	if filename == "" || len(data) == 0 {
		return "", "", errors.New("filename and data required")
	}

	hash := md5.Sum(data)
	endpoint := fmt.Sprintf("%s/sites/%s/assets", c.baseURL, c.siteID)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, map[string]string{
		"fileName": filename,
		"fileHash": hex.EncodeToString(hash[:]),
	})
	if err != nil {
		return "", "", err
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", "", fmt.Errorf("webflow asset init returned %d: %s (latency=%v)", resp.StatusCode, strings.TrimSpace(string(body)), latency)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return "", "", fmt.Errorf("decode asset response: %w", err)
	}
	if asset.UploadURL == "" {
		return "", "", errors.New("webflow asset response missing upload url")
	}

	if err := c.uploadToS3(ctx, asset, filename, data); err != nil {
		return "", "", err
	}
	return asset.ID, asset.HostedURL, nil
}

// uploadToS3 posts the multipart form S3 expects: every pre-signed field
// first, then the file part last.
func (c *Client) uploadToS3(ctx context.Context, asset Asset, filename string, data []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range asset.UploadDetails {
		if err := writer.WriteField(key, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("write upload field %q: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, asset.UploadURL, &body)
	if err != nil {
		return fmt.Errorf("build s3 request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute s3 upload (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("s3 upload returned %d: %s (latency=%v)", resp.StatusCode, strings.TrimSpace(string(responseBody)), latency)
	}
	return nil
}

// UploadImageFromURL downloads an image and re-hosts it on Webflow Assets,
// returning the image reference to embed in item field data.
func (c *Client) UploadImageFromURL(ctx context.Context, imageURL, filename string) (*ImageRef, error) {
	if imageURL == "" {
		return nil, errors.New("image url required")
	}
	if filename == "" {
		filename = "featured.jpg"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	_, hostedURL, err := c.UploadAsset(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	alt := path.Base(filename)
	if alt == "" || alt == "." {
		alt = "Featured image"
	}
	return &ImageRef{URL: hostedURL, Alt: alt}, nil
}
