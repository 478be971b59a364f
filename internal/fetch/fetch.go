// Package fetch reads document text from files, URLs, and standard input.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Size limits; a document collection is expected to be a few pages of text at most.
const (
	MaxFileSizeBytes = 10 * 1024 * 1024 // 10MB limit for files and stdin
	MaxHTTPSizeBytes = 20 * 1024 * 1024 // 20MB limit for HTTP content (may not have Content-Length)
)

// HTTPRequestTimeout bounds a whole HTTP fetch.
const HTTPRequestTimeout = 20 * time.Second

const (
	HTTPDialTimeout           = HTTPRequestTimeout / 4 // max time to wait for network connection
	HTTPTLSTimeout            = HTTPRequestTimeout / 4 // max time to wait for TLS handshake
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2 // max time for response headers
)

// ErrInteractiveStdin is returned when "-" is requested but nothing is piped in.
var ErrInteractiveStdin = errors.New("standard input is a terminal; pipe documents in or pass a file")

// Stdin is the reader used for the "-" source. Tests may replace it.
var Stdin io.ReadCloser = os.Stdin

// limitedReadCloser wraps an io.ReadCloser and fails once more than N bytes are read
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// httpClient is shared by all fetches and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		DisableKeepAlives:     true,
	},
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// StdinIsTerminal reports whether standard input is attached to a terminal.
func StdinIsTerminal() bool {
	f, ok := Stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetContent opens a source for reading:
//   - "-" reads from standard input (refused when stdin is a terminal)
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		if StdinIsTerminal() {
			return nil, ErrInteractiveStdin
		}
		return &limitedReadCloser{
			ReadCloser: Stdin,
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case IsURL(source):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// ReadAll fetches source and reads it completely.
func ReadAll(ctx context.Context, source string) ([]byte, error) {
	reader, err := GetContent(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", source, err)
	}
	return data, nil
}

// fetchURL performs a GET with the shared client; ctx cancels the request.
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "nearest/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	// -1 when the server did not announce a length; the reader limit covers that case
	if resp.ContentLength > MaxHTTPSizeBytes {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", resp.ContentLength, MaxHTTPSizeBytes)
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file after checking its size.
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	return file, nil
}
