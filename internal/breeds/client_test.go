package breeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func catalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListMergesBothCatalogs(t *testing.T) {
	dogs := catalogServer(t, http.StatusOK, `[{"name":"Labrador"},{"name":"Beagle"}]`)
	cats := catalogServer(t, http.StatusOK, `[{"name":"Persian"}]`)

	client := NewClient(dogs.URL, cats.URL)
	list, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 breeds, got %+v", list)
	}
	if list[0].Type != "dog" || list[2].Type != "cat" {
		t.Fatalf("expected dogs first then cats, got %+v", list)
	}
	if list[2].Name != "Persian" {
		t.Fatalf("expected Persian, got %+v", list[2])
	}
}

func TestListDegradesWhenOneCatalogFails(t *testing.T) {
	dogs := catalogServer(t, http.StatusInternalServerError, `boom`)
	cats := catalogServer(t, http.StatusOK, `[{"name":"Persian"}]`)

	client := NewClient(dogs.URL, cats.URL)
	list, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("expected degraded list, got error %v", err)
	}
	if len(list) != 1 || list[0].Type != "cat" {
		t.Fatalf("expected cats only, got %+v", list)
	}
}

func TestListFailsWhenBothCatalogsFail(t *testing.T) {
	dogs := catalogServer(t, http.StatusBadGateway, ``)
	cats := catalogServer(t, http.StatusBadGateway, ``)

	client := NewClient(dogs.URL, cats.URL)
	if _, err := client.List(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestListSkipsUnnamedEntries(t *testing.T) {
	dogs := catalogServer(t, http.StatusOK, `[{"name":""},{"name":"Beagle"}]`)
	cats := catalogServer(t, http.StatusOK, `[]`)

	client := NewClient(dogs.URL, cats.URL)
	list, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Beagle" {
		t.Fatalf("expected only Beagle, got %+v", list)
	}
}
