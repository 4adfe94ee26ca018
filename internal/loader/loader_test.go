package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"tags removed",
			"<html><body><h1>Title</h1><p>Hello <b>world</b></p></body></html>",
			"Title Hello world",
		},
		{
			"script dropped",
			"<p>keep</p><script>var x = 'drop me';</script><p>this</p>",
			"keep this",
		},
		{
			"style dropped",
			"<style>body { color: red }</style><div>visible</div>",
			"visible",
		},
		{
			"whitespace collapsed",
			"<p>a</p>\n\n\t<p>b   c</p>",
			"a b c",
		},
		{
			"plain text passes through",
			"no markup   here",
			"no markup here",
		},
		{
			"empty",
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadPassthroughOrder(t *testing.T) {
	l := New(nil, nil)
	docs, err := l.Load(context.Background(), Sources{
		Texts:    []string{"t1", "t2"},
		Markdown: []string{"# m1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"t1", "t2", "# m1"}
	if len(docs) != len(want) {
		t.Fatalf("docs = %v", docs)
	}
	for i := range want {
		if docs[i] != want[i] {
			t.Errorf("docs[%d] = %q, want %q", i, docs[i], want[i])
		}
	}
}

func TestLoadFetchesAndStripsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>fetched content</p><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	l := New(srv.Client(), nil)
	docs, err := l.Load(context.Background(), Sources{URLs: []string{srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0] != "fetched content" {
		t.Errorf("docs = %v", docs)
	}
}

func TestLoadFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := New(srv.Client(), nil)
	_, err := l.Load(context.Background(), Sources{Texts: []string{"fine"}, URLs: []string{srv.URL}})
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error %q does not name the status", err)
	}
}
