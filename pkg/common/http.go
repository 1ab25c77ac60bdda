package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrResponseTooLarge = errors.New("response exceeds the size limit")

// ReadAllFromURL reads all content from the URL, refusing to buffer more than `maxBytes` (a dynamic page which
// streams infinitely would otherwise exhaust memory).
func ReadAllFromURL(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, res.Status)
	}
	content, err := io.ReadAll(io.LimitReader(res.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("GET %s: %w (%d bytes)", url, ErrResponseTooLarge, maxBytes)
	}
	return content, nil
}
