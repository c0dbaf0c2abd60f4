// Package browser builds Linear issue links and opens them.
package browser

import (
	"errors"
	"io"
	"net/url"

	ghbrowser "github.com/cli/go-gh/v2/pkg/browser"
)

// IssueBaseURL prefixes every issue link.
const IssueBaseURL = "https://linear.app/issue/"

// ErrEmptyURL is returned by Open when there is nothing to open.
var ErrEmptyURL = errors.New("no URL to open")

// Launcher opens a URL in the user's browser.
type Launcher interface {
	Browse(url string) error
}

// The launcher's output is discarded so it never draws over the TUI.
var launcher Launcher = ghbrowser.New("", io.Discard, io.Discard)

// IssueURL returns the web link for an issue identifier such as "ENG-12".
func IssueURL(identifier string) string {
	if identifier == "" {
		return ""
	}
	return IssueBaseURL + url.PathEscape(identifier)
}

// Open launches the browser on u, honouring $BROWSER.
func Open(u string) error {
	if u == "" {
		return ErrEmptyURL
	}
	return launcher.Browse(u)
}
