package handler_test

import (
	"net/http"
	"testing"
	"time"
)

func TestFeedRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/feed", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous feed: status = %d, want 401", rec.Code)
	}
}

func TestFeedShowsFollowedAuthorsNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	tokenA, _ := ts.register(t, "alice")
	tokenB, bobID := ts.register(t, "bob")
	tokenC, _ := ts.register(t, "carol")

	older := ts.createPost(t, tokenB, "older")
	time.Sleep(5 * time.Millisecond)
	newer := ts.createPost(t, tokenB, "newer")
	ts.createPost(t, tokenC, "not followed")

	if rec := ts.do(t, http.MethodPost, "/followers", tokenA, map[string]string{"followed": bobID.String()}); rec.Code != http.StatusCreated {
		t.Fatalf("follow: status = %d", rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/feed", tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var feed []postResponse
	decodeBody(t, rec, &feed)
	if len(feed) != 2 {
		t.Fatalf("feed has %d posts, want 2: %+v", len(feed), feed)
	}
	if feed[0].ID != newer || feed[1].ID != older {
		t.Errorf("feed order = %s, %s; want newest first", feed[0].Title, feed[1].Title)
	}
	for _, post := range feed {
		if post.Owner != "bob" {
			t.Errorf("feed carries a post by %s, want only followed authors", post.Owner)
		}
	}
}

func TestFeedEmptyWithoutFollows(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "alice")
	ts.createPost(t, token, "own post")

	rec := ts.do(t, http.MethodGet, "/feed", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var feed []postResponse
	decodeBody(t, rec, &feed)
	if len(feed) != 0 {
		t.Errorf("feed = %+v, want empty; own posts are not part of the timeline", feed)
	}
}
