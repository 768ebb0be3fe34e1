package images

import "testing"

func TestImgixSignerBuildURL(t *testing.T) {
	signer := NewImgixSigner("example.imgix.net/", "secret", true)
	params := MergeParams(DefaultParams(), map[string]string{"w": "800"})

	got := signer.BuildURL("photos/sunset", params)
	want := "https://example.imgix.net/photos/sunset?crop=faces%2Cfocalpoint%2Centropy&fit=crop&h=350&w=800&s=57d2a045dc57a1711b6f82da4ac61ab5"
	if got != want {
		t.Fatalf("url mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestImgixSignerWithoutParams(t *testing.T) {
	signer := NewImgixSigner("example.imgix.net", "secret", true)

	got := signer.BuildURL("/a.png", nil)
	if want := "https://example.imgix.net/a.png?s=9467bf1d7dcf37992e69de7ec8f1324b"; got != want {
		t.Fatalf("url mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestImgixSignerUnsigned(t *testing.T) {
	signer := NewImgixSigner("example.imgix.net", "", false)

	got := signer.BuildURL("a.png", map[string]string{"w": "10"})
	if want := "http://example.imgix.net/a.png?w=10"; got != want {
		t.Fatalf("url mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestImgixSignerSortsParamsWithoutLibraryTag(t *testing.T) {
	signer := NewImgixSigner("example.imgix.net", "secret", true)

	got := signer.BuildURL("b.png", map[string]string{"w": "10", "fit": "max"})
	want := "https://example.imgix.net/b.png?fit=max&w=10&s=29ce72752318bb3bd61f4bc0b11f025e"
	if got != want {
		t.Fatalf("url mismatch:\n got %s\nwant %s", got, want)
	}
}
