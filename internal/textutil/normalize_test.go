package textutil

import (
	"reflect"
	"testing"
)

func TestNormalizeInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Call Sarah tomorrow", "call sarah tomorrow"},
		{"  Call   Sarah\ttomorrow  ", "call sarah tomorrow"},
		{"", ""},
		{"   \n\t ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeInput(tc.in); got != tc.want {
			t.Errorf("NormalizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePersonName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john doe", "John Doe"},
		{"  sarah   johnson ", "Sarah Johnson"},
		{"MIKE CHEN", "Mike Chen"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePersonName(tc.in); got != tc.want {
			t.Errorf("NormalizePersonName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractTags(t *testing.T) {
	got := ExtractTags("Fix the login #bug ASAP #Urgent #bug")
	want := []string{"bug", "urgent"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTags = %v, want %v", got, want)
	}
	if tags := ExtractTags("no tags here"); tags != nil {
		t.Fatalf("expected nil for tagless input, got %v", tags)
	}
}
