package images

import (
	"reflect"
	"testing"
)

func TestParseReference(t *testing.T) {
	if ref := ParseReference("   "); ref != nil {
		t.Fatalf("expected nil reference for blank input, got %#v", ref)
	}

	photo, ok := ParseReference("abc123").(ExternalPhoto)
	if !ok || photo.ID != "abc123" || photo.Raw() != "abc123" {
		t.Fatalf("expected external photo, got %#v", ParseReference("abc123"))
	}

	cdn, ok := ParseReference("imgix:photos/sunset?w=800&fit=max").(CDNTransform)
	if !ok {
		t.Fatalf("expected CDN transform")
	}
	if cdn.Path != "photos/sunset" {
		t.Fatalf("path mismatch, got %q", cdn.Path)
	}
	if !reflect.DeepEqual(cdn.Params, map[string]string{"w": "800", "fit": "max"}) {
		t.Fatalf("params mismatch: %#v", cdn.Params)
	}
	if cdn.Raw() != "imgix:photos/sunset?w=800&fit=max" {
		t.Fatalf("raw mismatch, got %q", cdn.Raw())
	}
}

func TestParseReferenceIsExhaustive(t *testing.T) {
	for _, raw := range []string{"x", "imgix:", "imgix:a.png", "https://example.com/a.png", "IMGIX:upper"} {
		switch ParseReference(raw).(type) {
		case ExternalPhoto, CDNTransform:
		default:
			t.Fatalf("reference %q classified as %T", raw, ParseReference(raw))
		}
	}
}

func TestMergeParamsOverridesDefaults(t *testing.T) {
	ref := ParseReference("imgix:photos/sunset?w=800").(CDNTransform)

	got := MergeParams(DefaultParams(), ref.Params)
	want := map[string]string{
		"w":    "800",
		"h":    "350",
		"fit":  "crop",
		"crop": "faces,focalpoint,entropy",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged params mismatch:\n got %#v\nwant %#v", got, want)
	}

	defaults := DefaultParams()
	if defaults["w"] != "500" {
		t.Fatalf("defaults must not be mutated, got %#v", defaults)
	}
}
