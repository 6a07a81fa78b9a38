package vault

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/normalize"
	"github.com/rfenwick/vaultclip/internal/resolver"
)

const fetchHTTPTimeout = 30 * time.Second

// maxFetchBytes bounds remote image downloads (32 MiB).
const maxFetchBytes = 32 << 20

// Fetcher turns an image reference into its raw bytes plus declared
// content type. Vault files are read directly; element URLs may be local
// (file://) or remote (http, https).
type Fetcher struct {
	vault      *Vault
	httpClient *http.Client
}

// NewFetcher creates a Fetcher over the given vault.
func NewFetcher(v *Vault) *Fetcher {
	return &Fetcher{
		vault: v,
		httpClient: &http.Client{
			Timeout: fetchHTTPTimeout,
		},
	}
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client (for testing).
func NewFetcherWithClient(v *Vault, client *http.Client) *Fetcher {
	return &Fetcher{vault: v, httpClient: client}
}

// Fetch reads the bytes behind ref. The declared media type comes from the
// reference, the file extension, or the HTTP Content-Type header; when all
// are absent it is left empty for the normalizer to sniff.
func (f *Fetcher) Fetch(ctx context.Context, ref *resolver.ImageRef) (normalize.ImageBytes, error) {
	switch ref.Kind {
	case resolver.SourceVaultFile:
		return f.fetchVaultFile(ref)
	case resolver.SourceElement:
		return f.fetchURL(ctx, ref)
	default:
		return normalize.ImageBytes{}, errors.E(errors.Op("vault.Fetch"), errors.KindInvalid,
			fmt.Sprintf("unknown source kind %d", ref.Kind))
	}
}

func (f *Fetcher) fetchVaultFile(ref *resolver.ImageRef) (normalize.ImageBytes, error) {
	abs := f.vault.AbsPath(ref.Path)
	data, err := os.ReadFile(abs)
	if err != nil {
		return normalize.ImageBytes{}, errors.FetchFailed(ref.Path, err)
	}

	mediaType := ref.MediaType
	if mediaType == "" {
		mediaType = typeByExtension(ref.Path)
	}

	logger.Log("Fetch: Read %d bytes from vault file %s", len(data), ref.Path)
	return normalize.ImageBytes{Data: data, MediaType: mediaType}, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, ref *resolver.ImageRef) (normalize.ImageBytes, error) {
	u, err := url.Parse(ref.URL)
	if err != nil {
		return normalize.ImageBytes{}, errors.FetchFailed(ref.URL, err)
	}

	switch u.Scheme {
	case "", "file":
		path := u.Path
		if path == "" {
			path = ref.URL
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return normalize.ImageBytes{}, errors.FetchFailed(ref.URL, err)
		}

		mediaType := ref.MediaType
		if mediaType == "" {
			mediaType = typeByExtension(path)
		}
		logger.Log("Fetch: Read %d bytes from %s", len(data), ref.URL)
		return normalize.ImageBytes{Data: data, MediaType: mediaType}, nil

	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
		if err != nil {
			return normalize.ImageBytes{}, errors.FetchFailed(ref.URL, err)
		}

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return normalize.ImageBytes{}, errors.FetchFailed(ref.URL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return normalize.ImageBytes{}, errors.FetchFailed(ref.URL,
				fmt.Errorf("unexpected status %s", resp.Status))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
		if err != nil {
			return normalize.ImageBytes{}, errors.FetchFailed(ref.URL, err)
		}

		mediaType := ref.MediaType
		if mediaType == "" {
			if ct := resp.Header.Get("Content-Type"); ct != "" {
				if parsed, _, err := mime.ParseMediaType(ct); err == nil {
					mediaType = parsed
				}
			}
		}
		logger.Log("Fetch: Downloaded %d bytes from %s", len(data), ref.URL)
		return normalize.ImageBytes{Data: data, MediaType: mediaType}, nil

	default:
		return normalize.ImageBytes{}, errors.FetchFailed(ref.URL,
			fmt.Errorf("unsupported URL scheme %q", u.Scheme))
	}
}

// typeByExtension maps a file path's extension to a media type, or empty
// when unknown so the normalizer falls back to content sniffing.
func typeByExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	default:
		return ""
	}
}
