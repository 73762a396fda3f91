package feed

import (
	"errors"
	"testing"
)

func TestValidatePost(t *testing.T) {
	valid := PostInput{Title: "t", Description: "d", URL: "https://example.com/x.png"}

	tests := []struct {
		name       string
		mutate     func(*PostInput)
		wantFields []string
	}{
		{"valid", func(*PostInput) {}, nil},
		{"video type", func(in *PostInput) { in.Type = " Video " }, nil},
		{"blank title", func(in *PostInput) { in.Title = "   " }, []string{"title"}},
		{"blank description", func(in *PostInput) { in.Description = "" }, []string{"description"}},
		{"missing url", func(in *PostInput) { in.URL = "" }, []string{"url"}},
		{"ftp url", func(in *PostInput) { in.URL = "ftp://example.com/x.png" }, []string{"url"}},
		{"relative url", func(in *PostInput) { in.URL = "/x.png" }, []string{"url"}},
		{"javascript url", func(in *PostInput) { in.URL = "javascript:alert(1)" }, []string{"url"}},
		{"bad type", func(in *PostInput) { in.Type = "audio" }, []string{"type"}},
		{"everything missing", func(in *PostInput) { *in = PostInput{} }, []string{"title", "description", "url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := ValidatePost(in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidatePost() error = %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if len(verr) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", verr, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr[f]; !ok {
					t.Errorf("missing error for %s", f)
				}
			}
		})
	}
}

func TestValidateRegister(t *testing.T) {
	if err := ValidateRegister(RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "pw"}); err != nil {
		t.Errorf("valid registration error = %v", err)
	}

	err := ValidateRegister(RegisterInput{Name: " ", Email: "not-an-email"})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	for _, f := range []string{"name", "email", "password"} {
		if _, ok := verr[f]; !ok {
			t.Errorf("missing error for %s", f)
		}
	}
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name    string
		in      UserInput
		wantErr bool
	}{
		{"valid", UserInput{Name: "Ana", Email: "ana@example.com", Role: RoleAdmin}, false},
		{"valid avatar", UserInput{Name: "Ana", Email: "ana@example.com", Role: RoleUser, Avatar: "https://x.test/a.png"}, false},
		{"unknown role", UserInput{Name: "Ana", Email: "ana@example.com", Role: "root"}, true},
		{"bad avatar", UserInput{Name: "Ana", Email: "ana@example.com", Role: RoleUser, Avatar: "file:///etc/passwd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateUser(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("ValidateUser() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	v := ValidationError{"url": "bad url", "title": "title is required"}
	if got := v.Error(); got != "title is required; bad url" {
		t.Errorf("Error() = %q", got)
	}
	if (ValidationError{}).errOrNil() != nil {
		t.Error("empty ValidationError should be nil error")
	}
}

func TestPostUpdate_Apply(t *testing.T) {
	p := &Post{Title: "old", Description: "keep", URL: "https://a.test"}
	title := "new"
	(&PostUpdate{Title: &title}).Apply(p)

	if p.Title != "new" || p.Description != "keep" || p.URL != "https://a.test" {
		t.Errorf("Apply() = %+v", p)
	}
}
