package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	vcerrors "github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/resolver"
)

// setupVault creates a temp vault with a few files and returns it opened.
func setupVault(t *testing.T) (*Vault, string) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"note.md":                     "# Note\n![[diagram.png]]\nmore text\n",
		"attachments/diagram.png":     "png-bytes",
		"attachments/chart.svg":       "<svg/>",
		"attachments/photo.jpg":       "jpg-bytes",
		"deep/nested/dir/bitmap.bmp":  "bmp-bytes",
		".obsidian/workspace.json":    "{}",
		".obsidian/plugins/x/data.js": "...",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	v, err := Open(root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return v, root
}

func TestOpen_NotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(file); err == nil {
		t.Error("Open() should reject a non-directory root")
	}
	if _, err := Open(filepath.Join(root, "missing")); err == nil {
		t.Error("Open() should reject a missing root")
	}
}

func TestFindFileByName(t *testing.T) {
	v, _ := setupVault(t)

	tests := []struct {
		name     string
		query    string
		wantPath string
		wantOK   bool
	}{
		{"top-level file", "note.md", "note.md", true},
		{"nested attachment", "diagram.png", filepath.Join("attachments", "diagram.png"), true},
		{"deeply nested", "bitmap.bmp", filepath.Join("deep", "nested", "dir", "bitmap.bmp"), true},
		{"case-sensitive miss", "Diagram.png", "", false},
		{"hidden dir excluded", "workspace.json", "", false},
		{"unknown name", "nothere.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := v.FindFileByName(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("FindFileByName(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && path != tt.wantPath {
				t.Errorf("FindFileByName(%q) = %q, want %q", tt.query, path, tt.wantPath)
			}
		})
	}
}

func TestResolveFetchURL(t *testing.T) {
	v, root := setupVault(t)

	url := v.ResolveFetchURL(filepath.Join("attachments", "diagram.png"))
	want := "file://" + filepath.Join(root, "attachments", "diagram.png")
	if url != want {
		t.Errorf("ResolveFetchURL() = %q, want %q", url, want)
	}
}

func TestImageNames(t *testing.T) {
	v, _ := setupVault(t)

	names := v.ImageNames()
	want := []string{"bitmap.bmp", "chart.svg", "diagram.png", "photo.jpg"}
	if !slices.Equal(names, want) {
		t.Errorf("ImageNames() = %v, want %v", names, want)
	}
}

func TestCurrentLine(t *testing.T) {
	_, root := setupVault(t)
	note := filepath.Join(root, "note.md")

	tests := []struct {
		name    string
		line    int
		want    string
		wantErr bool
	}{
		{"first line", 1, "# Note", false},
		{"embed line", 2, "![[diagram.png]]", false},
		{"zero is out of range", 0, "", true},
		{"past the end", 100, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CurrentLine(note, tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CurrentLine(%d) should fail", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("CurrentLine(%d) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("CurrentLine(%d) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestCurrentLine_MissingNote(t *testing.T) {
	_, err := CurrentLine("/nonexistent/note.md", 1)
	if err == nil {
		t.Fatal("CurrentLine() should fail for a missing note")
	}
	if !vcerrors.Is(err, vcerrors.KindIO) {
		t.Errorf("error kind = %v, want KindIO", vcerrors.GetKind(err))
	}
}

func TestFetch_VaultFile(t *testing.T) {
	v, _ := setupVault(t)
	f := NewFetcher(v)

	ref := &resolver.ImageRef{
		Kind:      resolver.SourceVaultFile,
		Path:      filepath.Join("attachments", "diagram.png"),
		MediaType: "image/png",
	}

	img, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(img.Data) != "png-bytes" {
		t.Errorf("Data = %q, want %q", img.Data, "png-bytes")
	}
	if img.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", img.MediaType)
	}
}

func TestFetch_VaultFileTypeFromExtension(t *testing.T) {
	v, _ := setupVault(t)
	f := NewFetcher(v)

	ref := &resolver.ImageRef{
		Kind: resolver.SourceVaultFile,
		Path: filepath.Join("attachments", "chart.svg"),
	}

	img, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if img.MediaType != "image/svg+xml" {
		t.Errorf("MediaType = %q, want image/svg+xml", img.MediaType)
	}
}

func TestFetch_MissingVaultFile(t *testing.T) {
	v, _ := setupVault(t)
	f := NewFetcher(v)

	ref := &resolver.ImageRef{
		Kind: resolver.SourceVaultFile,
		Path: "attachments/gone.png",
	}

	_, err := f.Fetch(context.Background(), ref)
	if err == nil {
		t.Fatal("Fetch() should fail for a missing file")
	}
	if !vcerrors.Is(err, vcerrors.KindIO) {
		t.Errorf("error kind = %v, want KindIO", vcerrors.GetKind(err))
	}
}

func TestFetch_FileURL(t *testing.T) {
	v, root := setupVault(t)
	f := NewFetcher(v)

	ref := resolver.FromElement(resolver.Element{
		SourceURL: "file://" + filepath.Join(root, "attachments", "photo.jpg"),
	})

	img, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(img.Data) != "jpg-bytes" {
		t.Errorf("Data = %q, want jpg-bytes", img.Data)
	}
	if img.MediaType != "image/jpeg" {
		t.Errorf("MediaType = %q, want image/jpeg", img.MediaType)
	}
}

func TestFetch_HTTPURL(t *testing.T) {
	v, _ := setupVault(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		w.Write([]byte("<svg/>"))
	}))
	defer srv.Close()

	f := NewFetcherWithClient(v, srv.Client())
	ref := resolver.FromElement(resolver.Element{SourceURL: srv.URL + "/chart.svg"})
	// The declared type is empty, so Content-Type wins.
	ref.MediaType = ""

	img, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(img.Data) != "<svg/>" {
		t.Errorf("Data = %q", img.Data)
	}
	if img.MediaType != "image/svg+xml" {
		t.Errorf("MediaType = %q, want image/svg+xml", img.MediaType)
	}
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	v, _ := setupVault(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcherWithClient(v, srv.Client())
	ref := resolver.FromElement(resolver.Element{SourceURL: srv.URL + "/missing.png"})

	_, err := f.Fetch(context.Background(), ref)
	if err == nil {
		t.Fatal("Fetch() should fail on a 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should mention the status, got %v", err)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	v, _ := setupVault(t)
	f := NewFetcher(v)

	ref := resolver.FromElement(resolver.Element{SourceURL: "ftp://example.com/img.png"})

	if _, err := f.Fetch(context.Background(), ref); err == nil {
		t.Fatal("Fetch() should reject unsupported schemes")
	}
}
