package ndn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		uri  string
		want Name
	}{
		{"/", nil},
		{"", nil},
		{"/isp/site/KEY/1", Name{Component("isp"), Component("site"), Component("KEY"), Component("1")}},
		{"//double//slash", Name{Component("double"), Component("slash")}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseName(tt.uri)); diff != "" {
				t.Errorf("ParseName(%q) mismatch (-want +got):\n%s", tt.uri, diff)
			}
		})
	}
}

func TestNameString(t *testing.T) {
	tests := []struct {
		name Name
		want string
	}{
		{nil, "/"},
		{ParseName("/a/b/c"), "/a/b/c"},
		{Name{Component{0x00, 0xff}}, "/%00%FF"},
		{Name{Component("a%b")}, "/a%25b"},
	}
	for _, tt := range tests {
		if got := tt.name.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNameEqual(t *testing.T) {
	a := ParseName("/a/b/c")
	if !a.Equal(ParseName("/a/b/c")) {
		t.Error("identical names should be equal")
	}
	if a.Equal(ParseName("/a/b")) {
		t.Error("names of different length should not be equal")
	}
	if a.Equal(ParseName("/a/b/d")) {
		t.Error("names with a differing component should not be equal")
	}
}

func TestNameIsPrefixOf(t *testing.T) {
	base := ParseName("/isp/site")
	if !base.IsPrefixOf(ParseName("/isp/site/KEY/1")) {
		t.Error("proper prefix not detected")
	}
	if !base.IsPrefixOf(base) {
		t.Error("a name is a prefix of itself")
	}
	if base.IsPrefixOf(ParseName("/isp")) {
		t.Error("longer name cannot be a prefix of a shorter one")
	}
	if base.IsPrefixOf(ParseName("/isp/other/KEY")) {
		t.Error("diverging name should not match")
	}
	if !Name(nil).IsPrefixOf(base) {
		t.Error("the empty name is a prefix of everything")
	}
}

func TestNameAppendDoesNotMutate(t *testing.T) {
	base := ParseName("/a/b")
	longer := base.Append(Component("c"), Component("d"))
	if diff := cmp.Diff(ParseName("/a/b"), base); diff != "" {
		t.Errorf("Append mutated the receiver (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ParseName("/a/b/c/d"), longer); diff != "" {
		t.Errorf("Append result mismatch (-want +got):\n%s", diff)
	}
}

func TestNameRoundTrip(t *testing.T) {
	orig := ParseName("/isp/site/KEY/1")
	got, err := DecodeName(orig.Encode())
	if err != nil {
		t.Fatalf("failed to decode name: %v", err)
	}
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
