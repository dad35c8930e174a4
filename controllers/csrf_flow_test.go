package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
)

var csrfFieldRe = regexp.MustCompile(`name="csrf_token" value="([^"]*)"`)

// A visitor with no cookies at all must be able to submit the first form they
// see: the token minted while rendering the page has to match the one embedded
// in it.
func TestFirstVisitFormSubmissionSucceeds(t *testing.T) {
	r, repos := newTestServer(t)
	createUser(t, repos, "writer", "password")

	w := doGet(r, "/auth/login/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET login status = %d, want 200", w.Code)
	}

	var issued *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "csrf_token" {
			issued = c
		}
	}
	if issued == nil || issued.Value == "" {
		t.Fatal("no csrf cookie issued on first visit")
	}

	match := csrfFieldRe.FindStringSubmatch(w.Body.String())
	if match == nil {
		t.Fatal("rendered form has no csrf field")
	}
	if match[1] == "" {
		t.Fatal("rendered form embeds an empty csrf token")
	}
	if match[1] != issued.Value {
		t.Fatalf("form token %q does not match issued cookie %q", match[1], issued.Value)
	}

	// replay what the browser would send next
	form := url.Values{
		"csrf_token": {match[1]},
		"username":   {"writer"},
		"password":   {"password"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(issued)

	w = doRaw(r, req)
	wantRedirect(t, w, "/")
}
