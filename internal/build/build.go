// Package build inspects an exported web build before it is served.
package build

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// IndexFile is the entry page of an export.
const IndexFile = "index.html"

// Info describes what was found in a build directory.
type Info struct {
	// HasIndex reports whether the directory has an index.html.
	HasIndex bool
	// Title is the text of the entry page's <title> element, if any.
	Title string
	// Assets are the local files referenced by the entry page through
	// <script src> and <link href>, relative to the build root.
	Assets []string
	// Missing lists the entries of Assets that do not exist on disk.
	Missing []string
}

// Inspect reads root/index.html and reports its title and the local assets it
// references. A build without an index page is not an error.
func Inspect(root string) (*Info, error) {
	f, err := os.Open(filepath.Join(root, IndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Info{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r, err := charset.NewReader(f, "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset of %s: %w", IndexFile, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IndexFile, err)
	}

	info := &Info{
		HasIndex: true,
		Title:    strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
	}

	seen := make(map[string]bool)
	add := func(ref string) {
		p, ok := localAsset(ref)
		if !ok || seen[p] {
			return
		}
		seen[p] = true
		info.Assets = append(info.Assets, p)
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			info.Missing = append(info.Missing, p)
		}
	}
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""))
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("href", ""))
	})
	return info, nil
}

// localAsset returns the root-relative path of ref when it names a file
// inside the build, and false for absolute URLs, data URIs and fragments.
func localAsset(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "", false
	}
	return strings.TrimPrefix(p, "/"), true
}
