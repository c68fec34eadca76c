// Package route composes navigation targets for row click-through and keeps
// routing decisions out of the grid.
package route

import (
	"net/url"
	"strings"
	"sync"
)

// Join appends an escaped row identifier to the current route:
// Join("/admin/learn/modules", "abc123") == "/admin/learn/modules/abc123".
func Join(current, id string) string {
	base := "/" + strings.Trim(collapse(current), "/")
	if id == "" {
		return base
	}
	if base == "/" {
		return "/" + url.PathEscape(id)
	}
	return base + "/" + url.PathEscape(id)
}

func collapse(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// Navigator receives navigation requests.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Recorder is a Navigator that remembers where it was sent.
type Recorder struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRecorder(start string) *Recorder {
	return &Recorder{current: start}
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
	r.current = path
}

// Current returns the last path navigated to, or the starting path.
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// RowClick returns a click handler that navigates to base/<id>. Rows with
// an empty id are ignored.
func RowClick[R any](nav Navigator, base string, id func(R) string) func(R) {
	return func(row R) {
		rid := id(row)
		if rid == "" {
			return
		}
		nav.Navigate(Join(base, rid))
	}
}
