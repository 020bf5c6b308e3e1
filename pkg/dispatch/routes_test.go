package dispatch

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sjc5/routekit/pkg/pathmatch"
)

var noop = write("")

func TestRoutesEmpty(t *testing.T) {
	d := newTestDispatcher(Options{})
	if got := d.Routes(); len(got) != 0 {
		t.Errorf("expected no routes, got %v", got)
	}
	if got := d.MapRoutes(); len(got) != 0 {
		t.Errorf("expected no routes, got %v", got)
	}
}

func TestRoutesPathKinds(t *testing.T) {
	d := newTestDispatcher(Options{})
	d.All("/", noop)
	d.Route("/test2/")
	d.Route("/test/").Get(noop)
	d.All(regexp.MustCompile(`^\/[a-z]oo$`), noop)
	d.Get([]string{"/foo", "/bar"}, noop)
	d.Post("/:id/setting/:thing", noop)

	want := []RouteInfo{
		{Path: "/", Methods: []string{"_ALL"}},
		{Path: "/test2/"},
		{Path: "/test/", Methods: []string{"GET"}},
		{Path: `/^\/[a-z]oo$/`, Methods: []string{"_ALL"}},
		{Path: "/foo", Methods: []string{"GET"}},
		{Path: "/bar", Methods: []string{"GET"}},
		{Path: "/:id/setting/:thing", Methods: []string{"POST"}, Keys: []pathmatch.Key{{Name: "id", Type: "param"}, {Name: "thing", Type: "param"}}},
	}
	if diff := cmp.Diff(want, d.Routes(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestRoutesRepeatedRegistrations(t *testing.T) {
	d := newTestDispatcher(Options{})
	d.Post([]string{"/test", "/test2"}, noop)
	for i := 0; i < 2; i++ {
		d.Get([]string{"/test", "/test3"}, noop)
	}
	d.Put("/test3", noop)

	wantRoutes := []string{"/test POST", "/test2 POST", "/test GET", "/test3 GET", "/test GET", "/test3 GET", "/test3 PUT"}
	var got []string
	for _, r := range d.Routes() {
		got = append(got, r.Path+" "+r.Methods[0])
	}
	if diff := cmp.Diff(wantRoutes, got); diff != "" {
		t.Errorf("unexpected routes (-want +got):\n%s", diff)
	}

	wantMap := []RouteMapEntry{
		{Path: "/test", Methods: []string{"POST", "GET"}},
		{Path: "/test2", Methods: []string{"POST"}},
		{Path: "/test3", Methods: []string{"GET", "PUT"}},
	}
	if diff := cmp.Diff(wantMap, d.MapRoutes()); diff != "" {
		t.Errorf("unexpected route map (-want +got):\n%s", diff)
	}
}

func TestRoutesNestedDispatchers(t *testing.T) {
	router := newTestDispatcher(Options{})
	inner := newTestDispatcher(Options{})
	subinner := newTestDispatcher(Options{})

	subinner.Put("/t5", noop)
	subinner.All(regexp.MustCompile(`^\/[a-z]oo$`), noop)
	subinner.UseHandler(noop)

	inner.Use("/t3", subinner)
	inner.All("/t4", noop)
	inner.Get("/", noop)
	inner.UseHandler(noop)

	router.Use("/t2", inner)
	router.Use([]string{"/t5", "/t7"}, inner)
	router.UseHandler(noop)
	router.Use("/test1", noop)

	want := []RouteMapEntry{
		{Path: "/t2/t3/t5", Methods: []string{"PUT"}},
		{Path: `/t2/t3/^\/[a-z]oo$/`, Methods: []string{"_ALL"}},
		{Path: "/t2/t4", Methods: []string{"_ALL"}},
		{Path: "/t2/", Methods: []string{"GET"}},
		{Path: "/t5/t3/t5", Methods: []string{"PUT"}},
		{Path: `/t5/t3/^\/[a-z]oo$/`, Methods: []string{"_ALL"}},
		{Path: "/t5/t4", Methods: []string{"_ALL"}},
		{Path: "/t5/", Methods: []string{"GET"}},
		{Path: "/t7/t3/t5", Methods: []string{"PUT"}},
		{Path: `/t7/t3/^\/[a-z]oo$/`, Methods: []string{"_ALL"}},
		{Path: "/t7/t4", Methods: []string{"_ALL"}},
		{Path: "/t7/", Methods: []string{"GET"}},
	}
	if diff := cmp.Diff(want, router.MapRoutes()); diff != "" {
		t.Errorf("unexpected route map (-want +got):\n%s", diff)
	}
}

func TestRoutesMountedAtRoot(t *testing.T) {
	router := newTestDispatcher(Options{})
	sub := newTestDispatcher(Options{})
	sub.Get("/api", noop)
	router.Use("/", sub)

	want := []RouteInfo{{Path: "/api", Methods: []string{"GET"}}}
	if diff := cmp.Diff(want, router.Routes(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestRoutesKeepOwnerOptions(t *testing.T) {
	router := newTestDispatcher(Options{Strict: true, CaseSensitive: true})
	inner := newTestDispatcher(Options{Strict: true})
	other := newTestDispatcher(Options{Strict: true, CaseSensitive: true})
	other2 := newTestDispatcher(Options{Strict: true})

	other2.Put("/:t5", noop)
	other2.Get("/:t6", noop)
	other.Put("/:t5", noop)
	other.Post("/:t6", noop)

	inner.Use("/t2", other)
	inner.Use("/t2", other2)
	router.UseHandler(inner)
	router.Get("/test", noop)

	strictSensitive := RouteOptions{Strict: true, CaseSensitive: true}
	strictOnly := RouteOptions{Strict: true}
	want := []RouteInfo{
		{Path: "/t2/:t5", Methods: []string{"PUT"}, Keys: []pathmatch.Key{{Name: "t5", Type: "param"}}, Options: strictSensitive},
		{Path: "/t2/:t6", Methods: []string{"POST"}, Keys: []pathmatch.Key{{Name: "t6", Type: "param"}}, Options: strictSensitive},
		{Path: "/t2/:t5", Methods: []string{"PUT"}, Keys: []pathmatch.Key{{Name: "t5", Type: "param"}}, Options: strictOnly},
		{Path: "/t2/:t6", Methods: []string{"GET"}, Keys: []pathmatch.Key{{Name: "t6", Type: "param"}}, Options: strictOnly},
		{Path: "/test", Methods: []string{"GET"}, Options: strictSensitive},
	}
	if diff := cmp.Diff(want, router.Routes(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestRoutesMultiMethodRoute(t *testing.T) {
	d := newTestDispatcher(Options{})
	d.Route("/test5").Get(noop).Post(noop).Get(noop)

	want := []RouteMapEntry{{Path: "/test5", Methods: []string{"GET", "POST"}}}
	if diff := cmp.Diff(want, d.MapRoutes()); diff != "" {
		t.Errorf("unexpected route map (-want +got):\n%s", diff)
	}
}
