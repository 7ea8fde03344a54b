package derivation

import "testing"

func TestParseTable(t *testing.T) {
	cases := []struct {
		name        string
		input       string
		wantErr     bool
		wantPath    string
		wantPwd     string
		wantHasPwd  bool
	}{
		{name: "empty", input: "", wantPath: "", wantHasPwd: false},
		{name: "double slash alone", input: "//", wantErr: true},
		{name: "triple slash alone", input: "///", wantErr: true},
		{name: "quadruple slash", input: "////", wantPath: "", wantPwd: "/", wantHasPwd: true},
		{name: "greedy password", input: "//a///b///c", wantPath: "//a", wantPwd: "b///c", wantHasPwd: true},
		{name: "hard then soft", input: "//Alice/1", wantPath: "//Alice/1"},
		{name: "non-ascii segment", input: "//Алиса", wantPath: "//Алиса"},
		{name: "hard then password", input: "//Alice///pw", wantPath: "//Alice", wantPwd: "pw", wantHasPwd: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
			}
			if got.Path != tc.wantPath {
				t.Errorf("Parse(%q).Path = %q, want %q", tc.input, got.Path, tc.wantPath)
			}
			if got.Password != tc.wantPwd {
				t.Errorf("Parse(%q).Password = %q, want %q", tc.input, got.Password, tc.wantPwd)
			}
			if got.HasPassword != tc.wantHasPwd {
				t.Errorf("Parse(%q).HasPassword = %v, want %v", tc.input, got.HasPassword, tc.wantHasPwd)
			}
		})
	}
}

func TestCheckHasPassword(t *testing.T) {
	cases := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "", want: false},
		{input: "//", wantErr: true},
		{input: "///", wantErr: true},
		{input: "////", want: true},
		{input: "//a///b///c", want: true},
	}
	for _, tc := range cases {
		got, err := CheckHasPassword(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("CheckHasPassword(%q) = %v, want error", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("CheckHasPassword(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CheckHasPassword(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCropPassword(t *testing.T) {
	got, err := CropPassword("//Alice///secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "//Alice" {
		t.Errorf("CropPassword = %q, want //Alice", got)
	}
}
