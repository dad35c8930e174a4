package controllers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestProfileShowsAllPostsOfUser(t *testing.T) {
	r, repos := newTestServer(t)
	now := time.Now()

	author := createUser(t, repos, "writer", "password")
	createPost(t, repos, author.ID, "Public piece", now.Add(-time.Hour), true, nil)
	createPost(t, repos, author.ID, "Scheduled piece", now.Add(24*time.Hour), true, nil)
	createPost(t, repos, author.ID, "Withdrawn piece", now.Add(-time.Hour), false, nil)

	w := doGet(r, "/profile/writer/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, title := range []string{"Public piece", "Scheduled piece", "Withdrawn piece"} {
		if !strings.Contains(body, title) {
			t.Errorf("profile is missing %q", title)
		}
	}

	// the same hidden posts must not reach the index
	w = doGet(r, "/")
	body = w.Body.String()
	if strings.Contains(body, "Scheduled piece") || strings.Contains(body, "Withdrawn piece") {
		t.Errorf("index leaked a post that only the profile may show")
	}
}

func TestMissingProfileGets404(t *testing.T) {
	r, _ := newTestServer(t)

	w := doGet(r, "/profile/ghost/")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProfileEditRequiresLogin(t *testing.T) {
	r, repos := newTestServer(t)
	createUser(t, repos, "writer", "password")

	w := doGet(r, "/profile/writer/edit/")
	wantRedirect(t, w, "/auth/login/")
}

func TestProfileEditUpdatesOwnRecord(t *testing.T) {
	r, repos := newTestServer(t)
	user := createUser(t, repos, "writer", "password")

	form := url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
	}
	w := doPost(r, "/profile/writer/edit/", form, sessionCookie(t, user))
	wantRedirect(t, w, "/profile/writer/")

	reloaded, err := repos.Users.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if reloaded.FirstName != "Ada" || reloaded.LastName != "Lovelace" || reloaded.Email != "ada@example.com" {
		t.Errorf("stored profile = %q %q %q", reloaded.FirstName, reloaded.LastName, reloaded.Email)
	}
}
