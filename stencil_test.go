package stencil_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stencilset/stencil"
	"github.com/stencilset/stencil/pkg/example"
	"github.com/stencilset/stencil/pkg/gallery"
)

const shippedRoot = "examples"

// Every shipped example must follow the directory convention.
func TestShippedExamples_FollowConvention(t *testing.T) {
	findings, err := stencil.Check(shippedRoot)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, finding := range findings {
		t.Errorf("convention violation: %s", finding)
	}
}

// Every shipped example must render without error, and rendering the same
// template with the same data twice must yield identical text.
func TestShippedExamples_RenderDeterministically(t *testing.T) {
	runner, err := gallery.New(shippedRoot)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	examples, err := example.Discover(shippedRoot)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(examples) == 0 {
		t.Fatalf("no shipped examples discovered")
	}

	ctx := context.Background()
	for _, ex := range examples {
		first, err := runner.Render(ctx, gallery.Request{Example: ex.Name})
		if err != nil {
			t.Errorf("render %s: %v", ex.Name, err)
			continue
		}
		if first.Output == "" {
			t.Errorf("render %s: empty output", ex.Name)
		}

		second, err := runner.Render(ctx, gallery.Request{Example: ex.Name})
		if err != nil {
			t.Errorf("second render %s: %v", ex.Name, err)
			continue
		}
		if first.Output != second.Output {
			t.Errorf("render %s is not deterministic", ex.Name)
		}
	}
}

func TestRender_WelcomeEmail(t *testing.T) {
	out, err := stencil.Render(context.Background(), shippedRoot, "welcome-email")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `Hello Milo,

Welcome to the Little Lamps Program! Your onboarding session is scheduled for
26-08-2026 at 10:00 AM.

Pakhi from the Creative Division will walk you through the first steps
and answer any questions you have about the program.

See you there,
The Creative Division
`
	if out != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestRender_OrderConfirmationFilters(t *testing.T) {
	out, err := stencil.Render(context.Background(), shippedRoot, "order-confirmation")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, fragment := range []string{
		"Hello John Doe,",
		"10 books,",
		"2 Pencils",
		"5 Erasers",
		"OFFER: UNTIL END OF THIS MONTH",
		"Girija BookStore",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, out)
		}
	}
}

func TestRender_NewsletterSanitizesAndPersonalizes(t *testing.T) {
	runner, err := gallery.New(shippedRoot)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	res, err := runner.Render(context.Background(), gallery.Request{
		Example: "newsletter",
		Overlay: "users/avery.json",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(res.Output, "Hi Avery Quinn,") {
		t.Errorf("overlay personalization missing:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "Pro subscriber") {
		t.Errorf("plan conditional missing:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "<strong>three</strong>") {
		t.Errorf("sanitized body copy missing:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "<script") {
		t.Errorf("unexpected script markup:\n%s", res.Output)
	}
}

func TestRender_ReleaseNotesUsesGoTemplates(t *testing.T) {
	out, err := stencil.Render(context.Background(), shippedRoot, "release-notes")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "stencil 1.4.0 release notes") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "* Batch rendering writes outputs atomically") {
		t.Fatalf("change list missing:\n%s", out)
	}
}
