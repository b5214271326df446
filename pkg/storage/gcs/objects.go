package gcs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const storageHost = "https://storage.googleapis.com"

// UploadInput describes a single object write.
type UploadInput struct {
	Bucket      string
	Object      string
	ContentType string
	Body        io.Reader
	Metadata    map[string]string
}

// UploadOutput reports the persisted object as the JSON API returned it.
type UploadOutput struct {
	Bucket     string
	Object     string
	PublicURL  string
	Generation string
	SizeBytes  int64
}

// UploadObject writes an object via the JSON API multipart upload with a
// public-read ACL. The returned URL is the unauthenticated public URL.
func (c *Client) UploadObject(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	if in.Object == "" {
		return nil, errors.New("object name is required")
	}
	if in.Body == nil {
		return nil, errors.New("object body is required")
	}
	bucket := in.Bucket
	if bucket == "" {
		bucket = c.defaultBucket
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"name":        in.Object,
		"contentType": in.ContentType,
	}
	if len(in.Metadata) > 0 {
		meta["metadata"] = in.Metadata
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	if _, err := metaPart.Write(metaBytes); err != nil {
		return nil, err
	}

	dataHeader := textproto.MIMEHeader{}
	if in.ContentType != "" {
		dataHeader.Set("Content-Type", in.ContentType)
	}
	dataPart, err := writer.CreatePart(dataHeader)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dataPart, in.Body); err != nil {
		return nil, fmt.Errorf("buffering object body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf(
		"%s/upload/storage/v1/b/%s/o?uploadType=multipart&predefinedAcl=publicRead",
		storageHost, url.PathEscape(bucket),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError("upload", resp)
	}

	var uploaded struct {
		Bucket     string `json:"bucket"`
		Name       string `json:"name"`
		Generation string `json:"generation"`
		Size       string `json:"size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	size, _ := strconv.ParseInt(uploaded.Size, 10, 64)
	return &UploadOutput{
		Bucket:     uploaded.Bucket,
		Object:     uploaded.Name,
		PublicURL:  c.PublicURL(bucket, in.Object),
		Generation: uploaded.Generation,
		SizeBytes:  size,
	}, nil
}

// DeleteObject removes an object. A missing object is not an error so that
// compensation paths stay idempotent.
func (c *Client) DeleteObject(ctx context.Context, bucket, object string) error {
	if object == "" {
		return errors.New("object name is required")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s",
		storageHost, url.PathEscape(bucket), url.PathEscape(object),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return readAPIError("delete", resp)
	}
}

// ObjectExists checks object presence without downloading it.
func (c *Client) ObjectExists(ctx context.Context, bucket, object string) (bool, error) {
	if object == "" {
		return false, errors.New("object name is required")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return false, err
	}

	u := fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s?fields=name",
		storageHost, url.PathEscape(bucket), url.PathEscape(object),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, readAPIError("stat", resp)
	}
}

// PublicURL returns the unauthenticated URL for a public-read object.
func (c *Client) PublicURL(bucket, object string) string {
	if bucket == "" {
		bucket = c.defaultBucket
	}
	return storageHost + "/" + bucket + "/" + object
}

// SignedURL builds a V2 signed PUT URL for direct client uploads.
func (c *Client) SignedURL(bucket, object, contentType string, ttl time.Duration) (string, error) {
	if contentType == "" {
		return "", errors.New("content type is required for signed uploads")
	}
	return c.signURL(http.MethodPut, bucket, object, contentType, ttl)
}

// SignedReadURL builds a V2 signed GET URL for time-limited playback access.
func (c *Client) SignedReadURL(bucket, object string, ttl time.Duration) (string, error) {
	return c.signURL(http.MethodGet, bucket, object, "", ttl)
}

func (c *Client) signURL(method, bucket, object, contentType string, ttl time.Duration) (string, error) {
	if c.serviceAccount == nil {
		return "", errors.New("signed urls require service account credentials")
	}
	if object == "" {
		return "", errors.New("object name is required")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return "", errors.New("bucket is required")
	}
	if ttl <= 0 {
		return "", errors.New("expiry must be positive")
	}

	expires := strconv.FormatInt(time.Now().Add(ttl).Unix(), 10)
	stringToSign := strings.Join([]string{
		method,
		"", // Content-MD5 unused
		contentType,
		expires,
		"/" + bucket + "/" + object,
	}, "\n")

	signature, err := signSHA256(stringToSign, c.serviceAccount.privateKey)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("GoogleAccessId", c.serviceAccount.clientEmail)
	query.Set("Expires", expires)
	query.Set("Signature", base64.StdEncoding.EncodeToString(signature))

	return fmt.Sprintf("%s/%s/%s?%s", storageHost, bucket, object, query.Encode()), nil
}

func readAPIError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return fmt.Errorf("gcs %s failed: %s", op, resp.Status)
	}
	return fmt.Errorf("gcs %s failed: %s: %s", op, resp.Status, msg)
}
